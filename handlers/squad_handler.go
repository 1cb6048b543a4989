package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Dosada05/club-admin/clock"
	"github.com/Dosada05/club-admin/models"
	"github.com/Dosada05/club-admin/services"
	"github.com/Dosada05/club-admin/squad"
)

// SquadHandler отдаёт справочники зависимой формы игрока.
type SquadHandler struct {
	clock clock.Clock
}

func NewSquadHandler(clk clock.Clock) *SquadHandler {
	return &SquadHandler{clock: clk}
}

func (h *SquadHandler) Disciplines(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"disciplines": models.Disciplines}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Positions: неизвестная дисциплина даёт пустой список, а не ошибку.
func (h *SquadHandler) Positions(w http.ResponseWriter, r *http.Request) {
	discipline := models.Discipline(r.URL.Query().Get("discipline"))
	positions := squad.DeriveOptions(discipline)
	if positions == nil {
		positions = []string{}
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"positions": positions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SquadHandler) Laterality(w http.ResponseWriter, r *http.Request) {
	options := squad.DeriveLaterality(r.URL.Query().Get("position"))
	if options == nil {
		options = []string{}
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"laterality": options}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SquadHandler) Age(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("birth_date")
	if raw == "" {
		badRequestResponse(w, r, errors.New("birth_date query parameter is required"))
		return
	}
	birth, err := time.Parse(services.DateLayout, raw)
	if err != nil {
		badRequestResponse(w, r, errors.New("birth_date must be a date in YYYY-MM-DD format"))
		return
	}

	age := squad.ComputeAge(birth, h.clock.Now())
	if err := writeJSON(w, http.StatusOK, jsonResponse{"age": age}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
