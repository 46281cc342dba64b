package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/openclaw/qrlogo/qr"
)

// levelAuto picks High when a logo is uploaded and the configured default
// level otherwise.
const levelAuto = "auto"

// formValues are the raw form fields, echoed back into the page so the
// form keeps its state between submissions.
type formValues struct {
	Text       string
	BoxSize    int
	Border     int
	Level      string
	Foreground string
	Background string
}

var errUploadTooLarge = errors.New("upload too large")

func (s *Server) defaultForm() formValues {
	d := s.Config.Defaults
	return formValues{
		Text:       "https://",
		BoxSize:    d.BoxSize,
		Border:     d.Border,
		Level:      levelAuto,
		Foreground: d.Foreground.Hex(),
		Background: d.Background.Hex(),
	}
}

// parseRequest reads a generation request from the query string, a
// urlencoded body or a multipart body with an optional "logo" file.
func (s *Server) parseRequest(w http.ResponseWriter, r *http.Request) (qr.Request, formValues, error) {
	form := s.defaultForm()
	form.Text = ""

	if r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, s.Config.MaxUploadBytes)
	}
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(s.Config.MaxUploadBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return qr.Request{}, form, errUploadTooLarge
		}
		return qr.Request{}, form, &qr.ParamsError{Msg: "invalid form data: " + err.Error()}
	}

	form.Text = r.FormValue("text")

	var req qr.Request
	req.Payload = form.Text
	req.Verify = s.Config.VerifyOutput
	req.Params = s.Config.Defaults.Params()

	logo, err := readLogo(r)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return qr.Request{}, form, errUploadTooLarge
		}
		return qr.Request{}, form, &qr.ParamsError{Field: "logo", Msg: "failed to read logo upload: " + err.Error()}
	}
	req.Logo = logo

	if v := r.FormValue("box_size"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return req, form, &qr.ParamsError{Field: "module size", Msg: fmt.Sprintf("module size %q is not a number", v)}
		}
		form.BoxSize = n
		req.Params.BoxSize = n
	}
	if v := r.FormValue("border"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return req, form, &qr.ParamsError{Field: "border", Msg: fmt.Sprintf("border %q is not a number", v)}
		}
		form.Border = n
		req.Params.Border = n
	}

	form.Level = strings.TrimSpace(r.FormValue("level"))
	if form.Level == "" || strings.EqualFold(form.Level, levelAuto) {
		form.Level = levelAuto
		if req.HasLogo() {
			req.Params.Level = qr.LevelHigh
		}
	} else {
		l, err := qr.ParseLevel(form.Level)
		if err != nil {
			return req, form, err
		}
		form.Level = l.String()
		req.Params.Level = l
	}

	if v := r.FormValue("fg"); v != "" {
		c, err := qr.ParseColor(v)
		if err != nil {
			return req, form, err
		}
		form.Foreground = c.Hex()
		req.Params.Foreground = c
	}
	if v := r.FormValue("bg"); v != "" {
		c, err := qr.ParseColor(v)
		if err != nil {
			return req, form, err
		}
		form.Background = c.Hex()
		req.Params.Background = c
	}

	return req, form, nil
}

// readLogo returns the uploaded logo bytes, or nil when the form has no
// logo part or an empty one (browsers send an empty part when no file is
// chosen).
func readLogo(r *http.Request) ([]byte, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, _, err := r.FormFile("logo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

// userMessage renders err the way it is shown to the user.
func userMessage(err error) string {
	var (
		pe *qr.ParamsError
		ge *qr.GenerationError
	)
	switch {
	case errors.Is(err, qr.ErrEmptyPayload):
		return "Please enter text or a URL."
	case errors.Is(err, errUploadTooLarge):
		return "The upload is too large."
	case errors.As(err, &pe):
		return "Invalid input: " + pe.Msg
	case errors.As(err, &ge):
		return "Generation failed: " + ge.Err.Error()
	}
	return "Generation failed: " + err.Error()
}

// errorStatus maps err to the HTTP status used by the non-HTML endpoints.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, errUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case qr.IsValidation(err):
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}
