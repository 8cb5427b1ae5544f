package handler

import (
	"errors"
	"io"
	"net/http"

	"visit-tracker/internal/service"
	apperrors "visit-tracker/pkg/errors"
	"visit-tracker/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// maxDatasetBytes caps the accepted upload size
const maxDatasetBytes = 10 << 20

// DatasetHandler serves and replaces the editable CSV dataset
type DatasetHandler struct {
	datasetService service.DatasetService
	logger         *logger.Logger
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(datasetService service.DatasetService, logger *logger.Logger) *DatasetHandler {
	return &DatasetHandler{
		datasetService: datasetService,
		logger:         logger,
	}
}

// Get handles GET /1.csv and GET /data
func (h *DatasetHandler) Get(w http.ResponseWriter, r *http.Request) {
	data, err := h.datasetService.Read(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to read dataset")
		h.sendError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Save handles POST /save-csv. The body replaces the dataset as-is.
func (h *DatasetHandler) Save(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDatasetBytes))
	if err != nil {
		appErr := apperrors.NewValidationError("failed to read request body", map[string]interface{}{
			"cause": err.Error(),
		})
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			appErr.Message = "request body too large"
			appErr.StatusCode = http.StatusRequestEntityTooLarge
			appErr.Details = map[string]interface{}{"limit_bytes": tooLarge.Limit}
		}
		h.logger.WithError(err).Warn("Rejected dataset upload")
		h.sendError(w, appErr)
		return
	}

	if err := h.datasetService.Replace(r.Context(), body); err != nil {
		h.sendError(w, err)
		return
	}

	writeText(w, http.StatusOK, "OK")
}

// sendError returns the raw error message with the error's status code
func (h *DatasetHandler) sendError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		writeText(w, appErr.StatusCode, appErr.Message)
		return
	}
	writeText(w, http.StatusInternalServerError, err.Error())
}

// RegisterRoutes registers dataset routes with the router
func (h *DatasetHandler) RegisterRoutes(r chi.Router) {
	r.Get("/1.csv", h.Get)
	r.Get("/data", h.Get)
	r.Post("/save-csv", h.Save)
}
