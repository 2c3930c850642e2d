package handlers

import (
	"net/http"

	"github.com/Gintoki006/Sportify-sub001/cricket"
	"github.com/Gintoki006/Sportify-sub001/football"
	"github.com/Gintoki006/Sportify-sub001/models"
	"github.com/Gintoki006/Sportify-sub001/services"
)

// ScoringHandler exposes the live-scoring surface: final score submission,
// ball-by-ball cricket scoring and the football period machine.
type ScoringHandler struct {
	scoring services.ScoringService
}

func NewScoringHandler(scoring services.ScoringService) *ScoringHandler {
	return &ScoringHandler{scoring: scoring}
}

func (h *ScoringHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SubmitScoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	res, err := h.scoring.SubmitScore(r.Context(), caller, matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"result": res}, nil)
}

func (h *ScoringHandler) ResetScore(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	res, err := h.scoring.ResetScore(r.Context(), caller, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"result": res}, nil)
}

func (h *ScoringHandler) StartInnings(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.StartInningsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	card, err := h.scoring.StartInnings(r.Context(), caller, matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"scorecard": card}, nil)
}

func (h *ScoringHandler) ApplyDelivery(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var delivery cricket.Delivery
	if err := readJSON(w, r, &delivery); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	card, err := h.scoring.ApplyDelivery(r.Context(), caller, matchID, delivery)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"scorecard": card}, nil)
}

func (h *ScoringHandler) UndoDelivery(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	card, err := h.scoring.UndoDelivery(r.Context(), caller, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"scorecard": card}, nil)
}

func (h *ScoringHandler) SetupFootball(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.FootballSetupInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	live, err := h.scoring.SetupFootball(r.Context(), caller, matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"football": live}, nil)
}

func (h *ScoringHandler) RecordFootballEvent(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input football.EventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	live, err := h.scoring.RecordFootballEvent(r.Context(), caller, matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"football": live}, nil)
}

func (h *ScoringHandler) UndoFootballEvent(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	live, err := h.scoring.UndoFootballEvent(r.Context(), caller, matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"football": live}, nil)
}

func (h *ScoringHandler) ChangeFootballStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		errorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}
	matchID, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Status models.FootballStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if !validFootballStatus(input.Status) {
		mapServiceErrorToHTTP(w, r, services.ErrInvalidStatus)
		return
	}

	res, err := h.scoring.ChangeFootballStatus(r.Context(), caller, matchID, input.Status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"result": res}, nil)
}

func validFootballStatus(s models.FootballStatus) bool {
	switch s {
	case models.FootballNotStarted, models.FootballFirstHalf, models.FootballHalfTime,
		models.FootballSecondHalf, models.FootballFullTime, models.FootballExtraTimeFirst,
		models.FootballExtraTimeSecond, models.FootballPenalties, models.FootballCompleted:
		return true
	}
	return false
}
