package handlers

import (
	"net/http"

	"github.com/Dosada05/club-admin/services"
)

type CountryHandler struct {
	countryService services.CountryService
}

func NewCountryHandler(countryService services.CountryService) *CountryHandler {
	return &CountryHandler{countryService: countryService}
}

func (h *CountryHandler) Search(w http.ResponseWriter, r *http.Request) {
	list, err := h.countryService.Search(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"countries": list}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
