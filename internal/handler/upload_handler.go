package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"ireporter/internal/models"
)

type UploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// Upload stores the multipart "file" field in the folder of the given kind.
func (h *Handlers) Upload(kind models.RecordKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)

		if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				WriteError(w, fmt.Sprintf("file exceeds the maximum upload size of %d bytes", h.Cfg.MaxUploadSize),
					http.StatusBadRequest)
				return
			}
			WriteError(w, "invalid multipart form", http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				WriteError(w, "no file part in the request", http.StatusBadRequest)
				return
			}
			WriteError(w, "invalid file upload", http.StatusBadRequest)
			return
		}
		defer file.Close()

		url, err := h.MediaService.Upload(r.Context(), kind, header.Filename, file, header.Size)
		if err != nil {
			h.writeAppError(w, r, err)
			return
		}

		writeSuccess(w, UploadResponse{SecureURL: url}, http.StatusCreated)
	}
}
