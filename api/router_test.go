package api_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/qrlogo/api"
	"github.com/openclaw/qrlogo/config"
	"github.com/openclaw/qrlogo/qr"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	return api.NewRouter(&api.Server{
		Config:    config.Default(),
		Log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Version:   "test",
		StartTime: time.Now(),
	})
}

func multipartBody(t *testing.T, fields map[string]string, logo []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if logo != nil {
		fw, err := mw.CreateFormFile("logo", "logo.png")
		require.NoError(t, err)
		_, err = fw.Write(logo)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func logoPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 200, 200))
	for y := 80; y < 120; y++ {
		for x := 80; x < 120; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 0x20, G: 0x60, B: 0xd0, A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestIndexPage(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newServer(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, `name="text"`)
	assert.Contains(t, body, `value="https://"`)
	assert.Contains(t, body, `name="logo"`)
	assert.Contains(t, body, `min="5" max="20" value="10"`)
	assert.Contains(t, body, `min="2" max="8" value="4"`)
	assert.Contains(t, body, "Quartile (25%)")
	assert.Contains(t, body, `value="#000000"`)
	assert.Contains(t, body, `value="#ffffff"`)
	assert.NotContains(t, body, `class="result"`)
}

func TestGenerateFormBlankPayload(t *testing.T) {
	t.Parallel()

	body, ct := multipartBody(t, map[string]string{"text": "   "}, nil)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	newServer(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter text or a URL.")
	assert.NotContains(t, rec.Body.String(), "data:image/png;base64,")
}

func TestGenerateFormSuccess(t *testing.T) {
	t.Parallel()

	body, ct := multipartBody(t, map[string]string{
		"text":     "https://example.com",
		"box_size": "8",
		"border":   "3",
		"level":    "Q",
		"fg":       "#102030",
		"bg":       "#fafafa",
	}, nil)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	newServer(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	page := rec.Body.String()
	assert.Contains(t, page, `src="data:image/png;base64,`)
	assert.Contains(t, page, `download="qrcode.png"`)
	assert.Contains(t, page, `value="https://example.com"`)
	assert.Contains(t, page, `<option value="Q" selected>`)
	assert.Contains(t, page, `value="#102030"`)
	assert.NotContains(t, page, `class="error"`)
}

func TestGenerateFormCorruptLogo(t *testing.T) {
	t.Parallel()

	body, ct := multipartBody(t, map[string]string{"text": "Hello"}, []byte("not an image"))
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	newServer(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	page := rec.Body.String()
	assert.Contains(t, page, "Logo processing failed")
	assert.Contains(t, page, `src="data:image/png;base64,`)
}

func TestDownload(t *testing.T) {
	t.Parallel()

	q := url.Values{"text": {"https://example.com"}, "level": {"M"}}
	rec := httptest.NewRecorder()
	newServer(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/qr.png?"+q.Encode(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="qrcode.png"`, rec.Header().Get("Content-Disposition"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	text, err := qr.Decode(img)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", text)
}

func TestDownloadWithLogo(t *testing.T) {
	t.Parallel()

	body, ct := multipartBody(t, map[string]string{"text": "Hello"}, logoPNG(t))
	req := httptest.NewRequest(http.MethodPost, "/qr.png", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	newServer(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Values("X-QR-Warning"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	text, err := qr.Decode(img)
	require.NoError(t, err)
	assert.Equal(t, "Hello", text)
}

func TestDownloadUnreadableLogoWarns(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 200, 200))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 0xff, 0xff
	}
	var logo bytes.Buffer
	require.NoError(t, png.Encode(&logo, img))

	body, ct := multipartBody(t, map[string]string{
		"text":  "https://example.com/docs/getting-started?x=1",
		"level": "L",
	}, logo.Bytes())
	req := httptest.NewRequest(http.MethodPost, "/qr.png", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	newServer(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	warnings := rec.Header().Values("X-QR-Warning")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "may not scan reliably")
}

func TestGenerateFormTooLargeKeepsText(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.MaxUploadBytes = 1024
	h := api.NewRouter(&api.Server{
		Config:    cfg,
		Log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		StartTime: time.Now(),
	})

	body, ct := multipartBody(t, map[string]string{"text": "keep me"}, bytes.Repeat([]byte{1}, 4096))
	req := httptest.NewRequest(http.MethodPost, "/?text=keep+me", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	page := rec.Body.String()
	assert.Contains(t, page, "The upload is too large.")
	assert.Contains(t, page, `value="keep me"`)
}

func TestDownloadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		query  url.Values
		status int
		msg    string
	}{
		{"blank", url.Values{"text": {" "}}, http.StatusBadRequest, "Please enter text or a URL."},
		{"box_size", url.Values{"text": {"x"}, "box_size": {"50"}}, http.StatusBadRequest, "module size"},
		{"not_a_number", url.Values{"text": {"x"}, "border": {"wide"}}, http.StatusBadRequest, "not a number"},
		{"bad_color", url.Values{"text": {"x"}, "fg": {"#zzzzzz"}}, http.StatusBadRequest, "invalid hex color"},
		{"bad_level", url.Values{"text": {"x"}, "level": {"ultra"}}, http.StatusBadRequest, "unknown error correction level"},
		{"too_long", url.Values{"text": {strings.Repeat("a", 3000)}, "level": {"H"}}, http.StatusUnprocessableEntity, "Generation failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newServer(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/qr.png?"+tt.query.Encode(), nil))

			require.Equal(t, tt.status, rec.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp["error"], tt.msg)
		})
	}
}

func TestUploadTooLarge(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.MaxUploadBytes = 1024
	h := api.NewRouter(&api.Server{
		Config:    cfg,
		Log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		StartTime: time.Now(),
	})

	body, ct := multipartBody(t, map[string]string{"text": "big"}, bytes.Repeat([]byte{1}, 4096))
	req := httptest.NewRequest(http.MethodPost, "/api/qr", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestAPIGenerate(t *testing.T) {
	t.Parallel()

	form := url.Values{"text": {"api payload"}, "box_size": {"5"}, "border": {"2"}}
	req := httptest.NewRequest(http.MethodPost, "/api/qr", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	newServer(t).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		PNG      string   `json:"png"`
		Filename string   `json:"filename"`
		Version  int      `json:"version"`
		Modules  int      `json:"modules"`
		Width    int      `json:"width"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "qrcode.png", resp.Filename)
	assert.Equal(t, 17+4*resp.Version, resp.Modules)
	assert.Equal(t, (resp.Modules+4)*5, resp.Width)
	assert.NotNil(t, resp.Warnings)

	data, err := base64.StdEncoding.DecodeString(resp.PNG)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, resp.Width, img.Bounds().Dx())
}

func TestAutoLevelWithLogo(t *testing.T) {
	t.Parallel()

	gen := func(logo []byte) int {
		body, ct := multipartBody(t, map[string]string{"text": "https://example.com/auto", "level": "auto"}, logo)
		req := httptest.NewRequest(http.MethodPost, "/api/qr", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		newServer(t).ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Version int `json:"version"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp.Version
	}

	// High redundancy needs a larger symbol for the same payload.
	assert.Greater(t, gen(logoPNG(t)), gen(nil))
}

func TestStatus(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	newServer(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "test", resp["version"])
}
