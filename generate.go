package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openclaw/qrlogo/config"
	"github.com/openclaw/qrlogo/qr"
)

type generateOptions struct {
	configPath string
	output     string
	logo       string
	boxSize    int
	border     int
	level      string
	foreground string
	background string
	verify     bool
}

func newGenerateCmd() *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate [text]",
		Short: "Write a QR code PNG for text, optionally with a logo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "config.yaml", "Path to config file for default parameters")
	f.StringVarP(&opts.output, "output", "o", qr.Filename, "Output PNG file, - for stdout")
	f.StringVar(&opts.logo, "logo", "", "Logo image (PNG/JPEG) to place in the centre")
	f.IntVar(&opts.boxSize, "box-size", 0, fmt.Sprintf("Module size in pixels (%d-%d)", qr.MinBoxSize, qr.MaxBoxSize))
	f.IntVar(&opts.border, "border", 0, fmt.Sprintf("Quiet zone in modules (%d-%d)", qr.MinBorder, qr.MaxBorder))
	f.StringVar(&opts.level, "level", "", "Error correction level L, M, Q or H (default M, H with a logo)")
	f.StringVar(&opts.foreground, "fg", "", "Foreground color, e.g. #000000")
	f.StringVar(&opts.background, "bg", "", "Background color, e.g. #ffffff")
	f.BoolVar(&opts.verify, "verify", true, "Check that the output still scans when a logo is applied")
	return cmd
}

func (o generateOptions) request(cmd *cobra.Command, text string) (qr.Request, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return qr.Request{}, fmt.Errorf("load config: %w", err)
	}

	req := qr.Request{
		Payload: text,
		Params:  cfg.Defaults.Params(),
		Verify:  o.verify,
	}
	if o.logo != "" {
		req.Logo, err = os.ReadFile(o.logo)
		if err != nil {
			return req, fmt.Errorf("read logo: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("box-size") {
		req.Params.BoxSize = o.boxSize
	}
	if flags.Changed("border") {
		req.Params.Border = o.border
	}
	switch {
	case o.level != "":
		if req.Params.Level, err = qr.ParseLevel(o.level); err != nil {
			return req, err
		}
	case req.HasLogo():
		req.Params.Level = qr.LevelHigh
	}
	if o.foreground != "" {
		if req.Params.Foreground, err = qr.ParseColor(o.foreground); err != nil {
			return req, err
		}
	}
	if o.background != "" {
		if req.Params.Background, err = qr.ParseColor(o.background); err != nil {
			return req, err
		}
	}
	return req, nil
}

func runGenerate(cmd *cobra.Command, text string, o generateOptions) error {
	req, err := o.request(cmd, text)
	if err != nil {
		return err
	}

	res, err := qr.Generate(context.Background(), req)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
	}

	var out io.Writer = cmd.OutOrStdout()
	if o.output != "-" {
		if err := os.WriteFile(o.output, res.PNG, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(out, "wrote %s (%dx%d px, version %d)\n", o.output, res.Width, res.Height, res.Version)
		return nil
	}
	_, err = out.Write(res.PNG)
	return err
}
