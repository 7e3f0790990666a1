package handlers

import (
	"fmt"
	"net/http"

	"ireporter/internal/middleware"
	"ireporter/internal/models"
	"ireporter/internal/service"
)

type CreateResolutionRequest struct {
	Status             string  `json:"status" validate:"required"`
	Justification      string  `json:"justification" validate:"required"`
	AdditionalComments *string `json:"additional_comments" validate:"omitempty,max=600"`
	RecordID           int64   `json:"record_id" validate:"required,gt=0"`
}

func resolutionLabel(svc service.ResolutionService) string {
	return svc.Kind().Name + " resolution"
}

func (h *Handlers) ListResolutions(svc service.ResolutionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recordID, err := queryID(r, "record_id")
		if err != nil {
			h.writeAppError(w, r, err)
			return
		}

		resolutions, err := svc.List(r.Context(), recordID)
		if err != nil {
			h.writeAppError(w, r, err)
			return
		}

		writeSuccess(w, resolutions, http.StatusOK)
	}
}

func (h *Handlers) GetResolution(svc service.ResolutionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.writeAppError(w, r, err)
			return
		}

		resolution, err := svc.Get(r.Context(), id)
		if err != nil {
			h.writeAppError(w, r, err)
			return
		}

		writeSuccess(w, resolution, http.StatusOK)
	}
}

func (h *Handlers) CreateResolution(svc service.ResolutionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateResolutionRequest
		if !h.decodeJSON(w, r, &req) {
			return
		}

		principal, _ := middleware.PrincipalFromContext(r.Context())
		resolution := &models.Resolution{
			Status:             req.Status,
			Justification:      req.Justification,
			AdditionalComments: req.AdditionalComments,
			RecordID:           req.RecordID,
		}

		if err := svc.Create(r.Context(), principal, resolution); err != nil {
			h.writeAppError(w, r, err)
			return
		}

		writeSuccess(w, map[string]interface{}{
			"message":       fmt.Sprintf("%s created successfully", resolutionLabel(svc)),
			"resolution_id": resolution.ID,
		}, http.StatusCreated)
	}
}

func (h *Handlers) UpdateResolution(svc service.ResolutionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.writeAppError(w, r, err)
			return
		}

		var patch models.ResolutionPatch
		if !h.decodeJSON(w, r, &patch) {
			return
		}

		principal, _ := middleware.PrincipalFromContext(r.Context())
		resolution, err := svc.Update(r.Context(), principal, id, patch)
		if err != nil {
			h.writeAppError(w, r, err)
			return
		}

		writeSuccess(w, map[string]interface{}{
			"message":       fmt.Sprintf("%s updated successfully", resolutionLabel(svc)),
			"resolution_id": resolution.ID,
		}, http.StatusOK)
	}
}

func (h *Handlers) DeleteResolution(svc service.ResolutionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.writeAppError(w, r, err)
			return
		}

		principal, _ := middleware.PrincipalFromContext(r.Context())
		if err := svc.Delete(r.Context(), principal, id); err != nil {
			h.writeAppError(w, r, err)
			return
		}

		writeSuccess(w, map[string]interface{}{
			"message":       fmt.Sprintf("%s deleted successfully", resolutionLabel(svc)),
			"resolution_id": id,
		}, http.StatusOK)
	}
}
