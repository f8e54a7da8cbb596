package handler

import (
	"net/http"

	fileapp "github.com/propertyhub/api/internal/application/file"
	"github.com/propertyhub/api/internal/transport/http/middleware"
)

// UploadHandler handles listing-image uploads.
type UploadHandler struct {
	svc fileapp.Service
}

func NewUploadHandler(svc fileapp.Service) *UploadHandler {
	return &UploadHandler{svc: svc}
}

func (h *UploadHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	// Cap the parse buffer at one image over the per-file limit; larger
	// files spill to disk rather than failing the request outright.
	if err := r.ParseMultipartForm(fileapp.MaxImageBytes + 1<<20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	headers := r.MultipartForm.File["files"]

	var images []fileapp.ImageUpload
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable file in form")
			return
		}
		defer f.Close()
		images = append(images, fileapp.ImageUpload{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
		})
	}

	urls, err := h.svc.UploadImages(r.Context(), claims.UserID, images)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UploadEnvelope{URLs: urls, Count: len(urls)})
}
