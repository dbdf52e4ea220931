package handlers

import (
	"io"
	"net/http"

	"github.com/Dosada05/bracket-manager/services"
)

type StateHandler struct {
	stateService *services.StateService
}

func NewStateHandler(ss *services.StateService) *StateHandler {
	return &StateHandler{stateService: ss}
}

// GetStateHandler обрабатывает GET /state
// @Summary Current state document
// @Tags state
// @Produce json
// @Success 200 {object} models.State
// @Router /state [get]
func (h *StateHandler) GetStateHandler(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, h.stateService.Export(), nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ImportStateHandler обрабатывает PUT /state
// @Summary Replace the state
// @Tags state
// @Description The document must carry players, brackets, winnersByCategory and resultTables.
// @Accept json
// @Param body body models.State true "State document"
// @Success 204
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /state [put]
func (h *StateHandler) ImportStateHandler(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.stateService.Import(raw); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SaveStateHandler обрабатывает POST /state/save
func (h *StateHandler) SaveStateHandler(w http.ResponseWriter, r *http.Request) {
	result, err := h.stateService.Save(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
