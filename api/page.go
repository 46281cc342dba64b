package api

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>QR-Code Generator</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #0a0a0a;
    color: #e0e0e0;
    display: flex;
    justify-content: center;
    padding: 48px 16px;
    min-height: 100vh;
  }
  .card {
    background: #1a1a1a;
    border: 1px solid #333;
    border-radius: 16px;
    padding: 40px;
    max-width: 720px;
    width: 100%;
  }
  h1 { font-size: 22px; font-weight: 600; margin-bottom: 8px; }
  .subtitle { color: #888; font-size: 14px; margin-bottom: 28px; }
  label { display: block; font-size: 13px; color: #aaa; margin: 16px 0 6px; }
  input[type=text], select {
    width: 100%; padding: 10px 12px; font-size: 15px;
    background: #111; color: #e0e0e0; border: 1px solid #333; border-radius: 8px;
  }
  input[type=range] { width: 100%; }
  input[type=color] { width: 64px; height: 36px; border: none; background: none; }
  .row { display: flex; gap: 24px; }
  .row > div { flex: 1; }
  details { margin-top: 20px; border-top: 1px solid #333; padding-top: 12px; }
  summary { cursor: pointer; color: #ccc; font-size: 14px; }
  button, .download {
    display: block; width: 100%; margin-top: 24px; padding: 12px;
    font-size: 15px; font-weight: 600; text-align: center; text-decoration: none;
    color: #0a0a0a; background: #4ade80; border: none; border-radius: 8px; cursor: pointer;
  }
  .error, .warning { margin-top: 24px; padding: 12px 14px; border-radius: 8px; font-size: 14px; }
  .error { background: #3b1111; border: 1px solid #7f1d1d; color: #fca5a5; }
  .warning { background: #3b2f11; border: 1px solid #7c5e10; color: #fcd34d; }
  .result { margin-top: 32px; text-align: center; }
  .result img { max-width: 100%; background: #fff; border-radius: 8px; }
  .caption { color: #888; font-size: 13px; margin-top: 8px; }
  footer { color: #555; font-size: 12px; margin-top: 32px; text-align: center; }
</style>
</head>
<body>
<div class="card">
  <h1>QR Code Generator with Optional Logo</h1>
  <p class="subtitle">Enter text or a URL and optionally upload a square logo (PNG with transparency works best).</p>

  <form method="post" action="/" enctype="multipart/form-data">
    <label for="text">Text or URL to encode</label>
    <input type="text" id="text" name="text" value="{{.Form.Text}}" placeholder="https://example.com"
      title="URLs, plain text, Wi-Fi strings, vCards, etc.">

    <label for="logo">Upload logo (PNG/JPG, square recommended, transparent PNG ideal)</label>
    <input type="file" id="logo" name="logo" accept=".png,.jpg,.jpeg,image/png,image/jpeg">

    <details>
      <summary>Customize (optional)</summary>
      <div class="row">
        <div>
          <label for="box_size">Module size (pixels): <output id="box_size_out">{{.Form.BoxSize}}</output></label>
          <input type="range" id="box_size" name="box_size" min="{{.Limits.MinBox}}" max="{{.Limits.MaxBox}}" value="{{.Form.BoxSize}}"
            oninput="document.getElementById('box_size_out').value = this.value">
        </div>
        <div>
          <label for="border">Quiet zone (border modules): <output id="border_out">{{.Form.Border}}</output></label>
          <input type="range" id="border" name="border" min="{{.Limits.MinBorder}}" max="{{.Limits.MaxBorder}}" value="{{.Form.Border}}"
            oninput="document.getElementById('border_out').value = this.value">
        </div>
      </div>

      <label for="level">Error correction</label>
      <select id="level" name="level">
        {{- range .Levels}}
        <option value="{{.Value}}"{{if eq .Value $.Form.Level}} selected{{end}}>{{.Label}}</option>
        {{- end}}
      </select>

      <div class="row">
        <div>
          <label for="fg">QR color</label>
          <input type="color" id="fg" name="fg" value="{{.Form.Foreground}}">
        </div>
        <div>
          <label for="bg">Background</label>
          <input type="color" id="bg" name="bg" value="{{.Form.Background}}">
        </div>
      </div>
    </details>

    <button type="submit">Generate QR Code</button>
  </form>

  {{- if .Error}}
  <div class="error">{{.Error}}</div>
  {{- end}}
  {{- range .Warnings}}
  <div class="warning">{{.}}</div>
  {{- end}}

  {{- if .Image}}
  <div class="result">
    <img src="{{.Image}}" alt="Your QR Code">
    <p class="caption">Your QR Code ({{.Result.Width}}&times;{{.Result.Height}} px, version {{.Result.Version}})</p>
    <a class="download" href="{{.Image}}" download="{{.Filename}}">Download PNG</a>
  </div>
  {{- end}}

  <footer>qrlogo {{.Version}} &middot; High error correction recommended with logo</footer>
</div>
</body>
</html>`
