package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/lib/pq"

	"ireporter/internal/apperror"
	"ireporter/internal/middleware"
	"ireporter/internal/models"
	"ireporter/internal/service"
)

type CreateRecordRequest struct {
	GovtAgency  string   `json:"govt_agency" validate:"required,max=200"`
	County      string   `json:"county" validate:"required,max=200"`
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required,max=600"`
	UserID      int64    `json:"user_id" validate:"required,gt=0"`
	Media       []string `json:"media" validate:"omitempty,dive,url"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
	LocationURL *string  `json:"location_url" validate:"omitempty,url"`
}

// pathID reads the {id} route variable.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.New(apperror.Validation, "invalid id")
	}
	return id, nil
}

// queryID reads an optional positive integer query parameter.
func queryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, apperror.Newf(apperror.Validation, "invalid %s", name)
	}
	return &id, nil
}

func (h *Handlers) ListRecords(svc service.RecordService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := queryID(r, "user_id")
		if err != nil {
			h.writeAppError(w, r, err)
			return
		}

		records, err := svc.List(r.Context(), userID)
		if err != nil {
			h.writeAppError(w, r, err)
			return
		}

		writeSuccess(w, records, http.StatusOK)
	}
}

func (h *Handlers) GetRecord(svc service.RecordService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.writeAppError(w, r, err)
			return
		}

		record, err := svc.Get(r.Context(), id)
		if err != nil {
			h.writeAppError(w, r, err)
			return
		}

		writeSuccess(w, record, http.StatusOK)
	}
}

func (h *Handlers) CreateRecord(svc service.RecordService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateRecordRequest
		if !h.decodeJSON(w, r, &req) {
			return
		}

		principal, _ := middleware.PrincipalFromContext(r.Context())
		record := &models.Record{
			GovtAgency:  req.GovtAgency,
			County:      req.County,
			Title:       req.Title,
			Description: req.Description,
			Media:       pq.StringArray(req.Media),
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
			LocationURL: req.LocationURL,
			UserID:      req.UserID,
		}

		if err := svc.Create(r.Context(), principal, record); err != nil {
			h.writeAppError(w, r, err)
			return
		}

		kind := svc.Kind()
		writeSuccess(w, map[string]interface{}{
			"message":    fmt.Sprintf("%s created successfully", kind.Name),
			kind.IDField: record.ID,
		}, http.StatusCreated)
	}
}

// UpdateRecord applies a partial update: only keys present with non-null
// values change, unknown keys are ignored.
func (h *Handlers) UpdateRecord(svc service.RecordService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.writeAppError(w, r, err)
			return
		}

		var patch models.RecordPatch
		if !h.decodeJSON(w, r, &patch) {
			return
		}

		principal, _ := middleware.PrincipalFromContext(r.Context())
		record, err := svc.Update(r.Context(), principal, id, patch)
		if err != nil {
			h.writeAppError(w, r, err)
			return
		}

		kind := svc.Kind()
		writeSuccess(w, map[string]interface{}{
			"message":    fmt.Sprintf("%s updated successfully", kind.Name),
			kind.IDField: record.ID,
		}, http.StatusOK)
	}
}

func (h *Handlers) DeleteRecord(svc service.RecordService) http.HandlerFunc {
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

		kind := svc.Kind()
		writeSuccess(w, map[string]interface{}{
			"message":    fmt.Sprintf("%s deleted successfully", kind.Name),
			kind.IDField: id,
		}, http.StatusOK)
	}
}
