package api

import (
	"encoding/base64"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/openclaw/qrlogo/qr"
)

// generate runs the pipeline for one HTTP request and logs the outcome.
func (s *Server) generate(r *http.Request, req qr.Request) (*qr.Result, error) {
	start := time.Now()
	log := s.Log.With("request_id", middleware.GetReqID(r.Context()))

	res, err := qr.Generate(r.Context(), req)
	if err != nil {
		if qr.IsValidation(err) {
			log.Debug("qr request rejected", "error", err)
		} else {
			log.Warn("qr generation failed", "error", err, "payload_len", len(req.Payload))
		}
		return nil, err
	}
	if res.LogoErr != nil {
		log.Warn("logo skipped", "error", res.LogoErr)
	}
	log.Info("qr generated",
		"version", res.Version,
		"modules", res.Modules,
		"width", res.Width,
		"level", req.Params.Level.String(),
		"logo", res.LogoApplied,
		"warnings", len(res.Warnings),
		"bytes", len(res.PNG),
		"elapsed", time.Since(start),
	)
	return res, nil
}

type levelOption struct {
	Value string
	Label string
}

type pageData struct {
	Form     formValues
	Levels   []levelOption
	Limits   map[string]int
	Error    string
	Warnings []string
	Image    template.URL
	Filename string
	Result   *qr.Result
	Version  string
}

func (s *Server) page(form formValues) pageData {
	levels := []levelOption{{Value: levelAuto, Label: "Auto (High with logo)"}}
	for _, l := range qr.Levels {
		levels = append(levels, levelOption{Value: l.String(), Label: l.Label()})
	}
	return pageData{
		Form:   form,
		Levels: levels,
		Limits: map[string]int{
			"MinBox":    qr.MinBoxSize,
			"MaxBox":    qr.MaxBoxSize,
			"MinBorder": qr.MinBorder,
			"MaxBorder": qr.MaxBorder,
		},
		Filename: qr.Filename,
		Version:  s.Version,
	}
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		s.Log.Error("render page", "error", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, s.page(s.defaultForm()))
}

func (s *Server) handleGenerateForm(w http.ResponseWriter, r *http.Request) {
	req, form, err := s.parseRequest(w, r)
	data := s.page(form)
	if err != nil {
		data.Error = userMessage(err)
		status := http.StatusOK
		if errors.Is(err, errUploadTooLarge) {
			status = http.StatusRequestEntityTooLarge
			// The body was not parsed; keep whatever text came in the URL.
			data.Form.Text = r.URL.Query().Get("text")
		}
		s.render(w, status, data)
		return
	}

	res, err := s.generate(r, req)
	if err != nil {
		data.Error = userMessage(err)
		s.render(w, http.StatusOK, data)
		return
	}

	data.Result = res
	data.Warnings = res.Warnings
	data.Image = template.URL("data:" + qr.ContentType + ";base64," + base64.StdEncoding.EncodeToString(res.PNG))
	s.render(w, http.StatusOK, data)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	req, _, err := s.parseRequest(w, r)
	if err == nil {
		var res *qr.Result
		if res, err = s.generate(r, req); err == nil {
			for _, warning := range res.Warnings {
				w.Header().Add("X-QR-Warning", warning)
			}
			w.Header().Set("Content-Type", qr.ContentType)
			w.Header().Set("Content-Disposition", `attachment; filename="`+qr.Filename+`"`)
			w.Header().Set("Content-Length", strconv.Itoa(len(res.PNG)))
			w.WriteHeader(http.StatusOK)
			w.Write(res.PNG)
			return
		}
	}
	writeError(w, errorStatus(err), userMessage(err))
}

type qrResponse struct {
	PNG         string   `json:"png"`
	Filename    string   `json:"filename"`
	Version     int      `json:"version"`
	Modules     int      `json:"modules"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	LogoApplied bool     `json:"logo_applied"`
	Warnings    []string `json:"warnings"`
}

func (s *Server) handleAPIGenerate(w http.ResponseWriter, r *http.Request) {
	req, _, err := s.parseRequest(w, r)
	if err != nil {
		writeError(w, errorStatus(err), userMessage(err))
		return
	}
	res, err := s.generate(r, req)
	if err != nil {
		writeError(w, errorStatus(err), userMessage(err))
		return
	}

	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	writeJSON(w, http.StatusOK, qrResponse{
		PNG:         base64.StdEncoding.EncodeToString(res.PNG),
		Filename:    qr.Filename,
		Version:     res.Version,
		Modules:     res.Modules,
		Width:       res.Width,
		Height:      res.Height,
		LogoApplied: res.LogoApplied,
		Warnings:    warnings,
	})
}
