package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/bracket-manager/models"
	"github.com/Dosada05/bracket-manager/services"
	"github.com/go-chi/chi/v5"
)

type TournamentHandler struct {
	tournamentService *services.TournamentService
}

func NewTournamentHandler(ts *services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts}
}

// ListPlayersHandler обрабатывает GET /players
// @Summary List players
// @Tags players
// @Description Players with their effective category. Without gender both rosters are returned.
// @Produce json
// @Param gender query string false "male or female"
// @Success 200 {object} map[string]interface{}
// @Router /players [get]
func (h *TournamentHandler) ListPlayersHandler(w http.ResponseWriter, r *http.Request) {
	var players []models.Player
	if r.URL.Query().Get("gender") == "" {
		players = h.tournamentService.AllPlayers()
	} else {
		gender, err := genderParam(r)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		players = h.tournamentService.Players(gender)
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ReplacePlayersHandler обрабатывает PUT /players
// @Summary Replace the roster
// @Tags players
// @Accept json
// @Produce json
// @Param body body []models.Player true "Full roster"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "Duplicate contestant"
// @Security BearerAuth
// @Router /players [put]
func (h *TournamentHandler) ReplacePlayersHandler(w http.ResponseWriter, r *http.Request) {
	var players []models.Player
	if err := readJSON(w, r, &players); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.tournamentService.ReplacePlayers(players); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": h.tournamentService.AllPlayers()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ImportOrganizationsHandler обрабатывает POST /organizations
// @Summary Import organizations
// @Tags players
// @Description Replaces the roster with the players of every organization; contestant ids are minted.
// @Accept json
// @Produce json
// @Param body body []models.Organization true "Organizations"
// @Success 201 {object} map[string]interface{}
// @Security BearerAuth
// @Router /organizations [post]
func (h *TournamentHandler) ImportOrganizationsHandler(w http.ResponseWriter, r *http.Request) {
	var orgs []models.Organization
	if err := readJSON(w, r, &orgs); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	players, err := h.tournamentService.ImportOrganizations(orgs)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SampleOrganizationsHandler обрабатывает POST /organizations/sample
// Query: orgs (default 5), players per organization (default 10).
func (h *TournamentHandler) SampleOrganizationsHandler(w http.ResponseWriter, r *http.Request) {
	numOrgs, err := intParam(r, "orgs", 5)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	perOrg, err := intParam(r, "players", 10)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	players, err := h.tournamentService.ImportSampleOrganizations(numOrgs, perOrg)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// EditPlayerHandler обрабатывает PUT /players/{contestantID}
func (h *TournamentHandler) EditPlayerHandler(w http.ResponseWriter, r *http.Request) {
	var player models.Player
	if err := readJSON(w, r, &player); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	id := chi.URLParam(r, "contestantID")
	if player.ContestantID != "" && player.ContestantID != id {
		badRequestResponse(w, r, errors.New("contestantId in body does not match the URL"))
		return
	}
	player.ContestantID = id

	updated, err := h.tournamentService.EditPlayer(player)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": updated}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type attachTagsInput struct {
	ContestantIDs []string          `json:"contestantIds"`
	Tags          []models.Category `json:"tags"`
}

// AttachTagsHandler обрабатывает POST /players/tags
func (h *TournamentHandler) AttachTagsHandler(w http.ResponseWriter, r *http.Request) {
	var input attachTagsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	players, err := h.tournamentService.BulkAttachTags(input.ContestantIDs, input.Tags)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CategoriesHandler обрабатывает GET /categories
// @Summary Categories of a gender
// @Tags brackets
// @Produce json
// @Param gender query string true "male or female"
// @Success 200 {object} map[string]interface{} "players: categories of the roster, brackets: categories with a bracket"
// @Router /categories [get]
func (h *TournamentHandler) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	gender, err := genderParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	response := jsonResponse{
		"players":  h.tournamentService.PlayerCategories(gender),
		"brackets": h.tournamentService.BracketCategories(gender),
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SelectCategoryHandler обрабатывает GET /categories/selection
// @Summary Resolve a category selection
// @Tags brackets
// @Description Returns the requested category when it has a bracket, otherwise the closest one reachable following tagOrder.
// @Produce json
// @Param gender query string true "male or female"
// @Param tagOrder query string true "comma separated tag ids"
// @Param category query string false "category hash"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /categories/selection [get]
func (h *TournamentHandler) SelectCategoryHandler(w http.ResponseWriter, r *http.Request) {
	gender, err := genderParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	category, err := categoryParam(r, "category")
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	selection, err := h.tournamentService.SelectCategory(gender, listParam(r, "tagOrder"), category)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"category": selection}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// BracketsHandler обрабатывает GET /brackets
// @Summary Brackets
// @Tags brackets
// @Description One bracket when category (its hash) is given, all brackets of the gender otherwise.
// @Produce json
// @Param gender query string true "male or female"
// @Param category query string false "category hash"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /brackets [get]
func (h *TournamentHandler) BracketsHandler(w http.ResponseWriter, r *http.Request) {
	gender, err := genderParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if !r.URL.Query().Has("category") {
		if err := writeJSON(w, http.StatusOK, jsonResponse{"brackets": h.tournamentService.Brackets(gender)}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	category, err := categoryParam(r, "category")
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	bracket, err := h.tournamentService.Bracket(gender, category)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GenerateBracketsHandler обрабатывает POST /brackets/generate
// @Summary Generate every bracket
// @Tags brackets
// @Description Rebuilds all brackets from the present players and resets the winners.
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]string "Validation error with kind"
// @Security BearerAuth
// @Router /brackets/generate [post]
func (h *TournamentHandler) GenerateBracketsHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.tournamentService.GenerateAllBrackets(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	response := jsonResponse{
		"male":   h.tournamentService.BracketCategories(models.Male),
		"female": h.tournamentService.BracketCategories(models.Female),
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type bracketRef struct {
	Gender   models.Gender   `json:"gender"`
	Category models.Category `json:"category"`
}

type championInput struct {
	bracketRef
	ContestantID string `json:"contestantId"`
}

// SetChampionHandler обрабатывает POST /brackets/champion
func (h *TournamentHandler) SetChampionHandler(w http.ResponseWriter, r *http.Request) {
	var input championInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	winners, err := h.tournamentService.SetChampion(input.Gender, input.Category, input.ContestantID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"winners": winners}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type matchInput struct {
	bracketRef
	Match models.Match `json:"match"`
}

// RecordMatchHandler обрабатывает POST /brackets/matches
func (h *TournamentHandler) RecordMatchHandler(w http.ResponseWriter, r *http.Request) {
	var input matchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	bracket, err := h.tournamentService.RecordMatch(input.Gender, input.Category, input.Match)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type statusInput struct {
	bracketRef
	Status models.BracketStatus `json:"status"`
}

// MarkStatusHandler обрабатывает POST /brackets/status
func (h *TournamentHandler) MarkStatusHandler(w http.ResponseWriter, r *http.Request) {
	var input statusInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.tournamentService.MarkBracketStatus(input.Gender, input.Category, input.Status); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// WinnersHandler обрабатывает GET /winners
func (h *TournamentHandler) WinnersHandler(w http.ResponseWriter, r *http.Request) {
	gender, err := genderParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	category, err := categoryParam(r, "category")
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	winners, err := h.tournamentService.Winners(gender, category)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"winners": winners}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PointsHandler обрабатывает GET /points
// @Summary Points
// @Tags results
// @Description Points of one contestant, or the standings of every player when contestantId is omitted.
// @Produce json
// @Param contestantId query string false "contestant id"
// @Success 200 {object} map[string]interface{}
// @Router /points [get]
func (h *TournamentHandler) PointsHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("contestantId")
	if id == "" {
		if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": h.tournamentService.Standings()}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}
	points, err := h.tournamentService.Points(id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"contestantId": id, "points": points}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListResultTablesHandler обрабатывает GET /result-tables
func (h *TournamentHandler) ListResultTablesHandler(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"resultTables": h.tournamentService.ResultTables()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetResultTablesHandler обрабатывает PUT /result-tables
func (h *TournamentHandler) SetResultTablesHandler(w http.ResponseWriter, r *http.Request) {
	var tables []models.ResultTable
	if err := readJSON(w, r, &tables); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.tournamentService.SetResultTables(tables); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"resultTables": tables}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResultTableHandler обрабатывает GET /result-tables/{name}
// @Summary Render a result table
// @Tags results
// @Produce json
// @Param name path string true "table name"
// @Success 200 {object} models.TableData
// @Failure 404 {object} map[string]string
// @Router /result-tables/{name} [get]
func (h *TournamentHandler) ResultTableHandler(w http.ResponseWriter, r *http.Request) {
	data, err := h.tournamentService.ResultTable(chi.URLParam(r, "name"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, data, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
