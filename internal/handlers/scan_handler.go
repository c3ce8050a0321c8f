package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/davronov/qrdesk/internal/content"
	"github.com/davronov/qrdesk/internal/files"
	"github.com/davronov/qrdesk/internal/middleware"
	"github.com/davronov/qrdesk/internal/models"
	"github.com/davronov/qrdesk/internal/service"
)

// ScanHandler serves the public side of a QR code: what a phone sees
// after scanning. Link content redirects; everything else renders a
// small hosted page.
type ScanHandler struct {
	qrs   *service.QRService
	files *files.Store
	log   logrus.FieldLogger
}

func NewScanHandler(qrs *service.QRService, fileStore *files.Store, log logrus.FieldLogger) *ScanHandler {
	return &ScanHandler{qrs: qrs, files: fileStore, log: log}
}

func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	qr, err := h.qrs.ResolveScan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, err)
		return
	}

	middleware.CountScan()
	h.render(w, qr)
}

// ScanInfo is the JSON face of a scan: the record's public content
// without counting. Scan pages and external integrations fetch it.
func (h *ScanHandler) ScanInfo(w http.ResponseWriter, r *http.Request) {
	qr, err := h.qrs.Preview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.QRResponse{Success: true, QR: *qr})
}

// Preview shows what a scan would show without touching the counter.
func (h *ScanHandler) Preview(w http.ResponseWriter, r *http.Request) {
	qr, err := h.qrs.Preview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, err)
		return
	}

	h.render(w, qr)
}

func (h *ScanHandler) render(w http.ResponseWriter, qr *models.QRCode) {
	switch p := qr.CurrentContent.Payload().(type) {
	case content.LinkPayload:
		// The whole point of a link code: straight through.
		w.Header().Set("Location", p.URL)
		w.WriteHeader(http.StatusFound)
	case content.TextPayload:
		h.renderPage(w, http.StatusOK, textPage, p)
	case content.FilePayload:
		h.renderPage(w, http.StatusOK, filePage, struct {
			content.FilePayload
			DownloadURL string
		}{p, "/files/" + p.FilePath})
	case content.ContactPayload:
		h.renderPage(w, http.StatusOK, contactPage, p)
	default:
		h.renderPage(w, http.StatusOK, emptyPage, qr.Title)
	}
}

func (h *ScanHandler) renderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.renderPage(w, http.StatusNotFound, messagePage, "This QR code does not exist.")
	case errors.Is(err, service.ErrGone):
		h.renderPage(w, http.StatusGone, messagePage, "This QR code is no longer available.")
	case errors.Is(err, service.ErrInactive):
		h.renderPage(w, http.StatusForbidden, messagePage, "This QR code is paused.")
	default:
		h.log.WithError(err).Error("failed to resolve scan")
		h.renderPage(w, http.StatusInternalServerError, messagePage, "Something went wrong.")
	}
}

func (h *ScanHandler) renderPage(w http.ResponseWriter, status int, tmpl *template.Template, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		h.log.WithError(err).Error("failed to render page")
	}
}

// File serves stored uploads. The stored name is random, so the link
// only circulates through scan pages.
func (h *ScanHandler) File(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	f, err := h.files.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.NotFound(w, r)
		return
	}

	http.ServeContent(w, r, path.Base(name), info.ModTime(), f)
}

const (
	pageHead = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>qrdesk</title></head>
<body style="font-family: sans-serif; max-width: 40em; margin: 2em auto; padding: 0 1em;">
`
	pageFoot = `
</body>
</html>`
)

func page(name, body string) *template.Template {
	return template.Must(template.New(name).Parse(pageHead + body + pageFoot))
}

var (
	textPage = page("text", `<p style="white-space: pre-wrap;">{{.Text}}</p>
{{if .Description}}<p><small>{{.Description}}</small></p>{{end}}`)

	filePage = page("file", `<h2>{{.OriginalName}}</h2>
{{if .Description}}<p>{{.Description}}</p>{{end}}
<p><a href="{{.DownloadURL}}" download="{{.OriginalName}}">Download</a></p>`)

	contactPage = page("contact", `<h2>{{.ContactName}}</h2>
{{if .Company}}<p>{{.Company}}</p>{{end}}
{{if .Phone}}<p><a href="tel:{{.Phone}}">{{.Phone}}</a></p>{{end}}
{{if .Email}}<p><a href="mailto:{{.Email}}">{{.Email}}</a></p>{{end}}
{{if .Website}}<p><a href="{{.Website}}">{{.Website}}</a></p>{{end}}
{{if .Address}}<p>{{.Address}}</p>{{end}}
{{if .Note}}<p>{{.Note}}</p>{{end}}`)

	emptyPage = page("empty", `<h2>{{.}}</h2>
<p>Nothing here yet. Check back soon.</p>`)

	messagePage = page("message", `<p>{{.}}</p>`)
)
