package handlers

import (
	"net/http"
	"strconv"

	"github.com/Gintoki006/Sportify-sub001/middleware"
	"github.com/Gintoki006/Sportify-sub001/services"
)

type TournamentHandler struct {
	tournaments services.TournamentService
}

func NewTournamentHandler(tournaments services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournaments: tournaments}
}

// callerFrom resolves the authenticated caller from the request context.
func callerFrom(r *http.Request) (services.Caller, error) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		return services.Caller{}, err
	}
	role, err := middleware.GetClubRoleFromContext(r.Context())
	if err != nil {
		return services.Caller{}, err
	}
	return services.Caller{UserID: userID, Role: role}, nil
}

func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	t, err := h.tournaments.Create(r.Context(), caller, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"tournament": t}, nil)
}

func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	t, err := h.tournaments.Get(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournament": t}, nil)
}

func (h *TournamentHandler) ListByClub(w http.ResponseWriter, r *http.Request) {
	clubID, err := strconv.Atoi(r.URL.Query().Get("club_id"))
	if err != nil || clubID < 1 {
		errorResponse(w, r, http.StatusBadRequest, "valid club_id query parameter is required")
		return
	}

	list, err := h.tournaments.ListByClub(r.Context(), clubID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournaments": list}, nil)
}

func (h *TournamentHandler) Rename(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}
	id, err := idParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	t, err := h.tournaments.Rename(r.Context(), caller, id, input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournament": t}, nil)
}

func (h *TournamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}
	id, err := idParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournaments.Delete(r.Context(), caller, id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
