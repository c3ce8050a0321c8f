package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/davronov/qrdesk/internal/content"
	"github.com/davronov/qrdesk/internal/files"
	"github.com/davronov/qrdesk/internal/models"
	"github.com/davronov/qrdesk/internal/qrcode"
	"github.com/davronov/qrdesk/internal/service"
)

type QRHandler struct {
	qrs   *service.QRService
	files *files.Store
	log   logrus.FieldLogger
}

func NewQRHandler(qrs *service.QRService, fileStore *files.Store, log logrus.FieldLogger) *QRHandler {
	return &QRHandler{qrs: qrs, files: fileStore, log: log}
}

func (h *QRHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateQRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	qr, err := h.qrs.Create(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, models.QRResponse{Success: true, QR: *qr})
}

func (h *QRHandler) Get(w http.ResponseWriter, r *http.Request) {
	qr, err := h.qrs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.QRResponse{Success: true, QR: *qr})
}

func (h *QRHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := models.ListParams{
		Search:      q.Get("search"),
		ContentType: content.Kind(q.Get("contentType")),
		Status:      q.Get("status"),
		SortBy:      q.Get("sortBy"),
		SortDesc:    q.Get("sortOrder") != "asc",
	}
	params.Page, _ = strconv.Atoi(q.Get("page"))
	params.PerPage, _ = strconv.Atoi(q.Get("limit"))

	if params.ContentType != "" && !content.ValidKind(params.ContentType) {
		respondError(w, http.StatusBadRequest, "unknown content type filter")
		return
	}
	switch params.Status {
	case "", models.StatusAll, models.StatusActive, models.StatusDeleted:
	default:
		respondError(w, http.StatusBadRequest, "unknown status filter")
		return
	}

	resp, err := h.qrs.List(r.Context(), params)
	if err != nil {
		h.log.WithError(err).Error("failed to list QR codes")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *QRHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateQRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	qr, err := h.qrs.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.QRResponse{Success: true, QR: *qr})
}

func (h *QRHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.qrs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *QRHandler) Restore(w http.ResponseWriter, r *http.Request) {
	qr, err := h.qrs.Restore(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.QRResponse{Success: true, QR: *qr})
}

// ReplaceContent swaps a code's payload. Text, link and contact arrive
// as JSON; the file variant arrives as multipart so the upload and its
// metadata travel together.
func (h *QRHandler) ReplaceContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var c content.Content
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		payload, err := h.filePayload(r)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		c, err = content.New(payload)
		if err != nil {
			respondServiceError(w, err)
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		c = c.Normalized()
	}

	qr, err := h.qrs.ReplaceContent(r.Context(), id, c)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.QRResponse{Success: true, QR: *qr})
}

const maxMultipartMemory = 32 << 20

func (h *QRHandler) filePayload(r *http.Request) (content.FilePayload, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return content.FilePayload{}, content.ErrFileRequired
	}

	payload := content.FilePayload{
		Description: strings.TrimSpace(r.FormValue("description")),
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		// Without a fresh upload the client may keep the stored file
		// and change only the description.
		payload.FilePath = r.FormValue("filePath")
		payload.OriginalName = r.FormValue("originalName")
		return payload, nil
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	stored, err := h.files.Save(file, header.Filename, mimeType, header.Size)
	if err != nil {
		return content.FilePayload{}, err
	}

	payload.OriginalName = header.Filename
	payload.FilePath = stored
	payload.FileSize = header.Size
	payload.MimeType = mimeType
	return payload, nil
}

func (h *QRHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.qrs.Stats(r.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to load stats")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, models.StatsResponse{Success: true, Stats: *stats})
}

// Image renders the printable PNG for a code's scan URL.
func (h *QRHandler) Image(w http.ResponseWriter, r *http.Request) {
	qr, err := h.qrs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	png, err := qrcode.EncodePNG(qr.ScanURL, size)
	if err != nil {
		h.log.WithError(err).Error("failed to encode QR image")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Write(png)
}
