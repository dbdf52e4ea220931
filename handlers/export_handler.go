package handlers

import (
	"net/http"

	"github.com/Dosada05/bracket-manager/services"
	"github.com/go-chi/chi/v5"
)

type ExportHandler struct {
	exportService *services.ExportService
}

func NewExportHandler(es *services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: es}
}

// ExportHandler обрабатывает POST /exports/{name}
// @Summary Export a table as CSV
// @Tags results
// @Description Renders a result table, or "standings", as CSV and uploads it.
// @Produce json
// @Param name path string true "result table name or standings"
// @Success 201 {object} storage.UploadResult
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /exports/{name} [post]
func (h *ExportHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	result, err := h.exportService.Export(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
