package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/club-admin/countries"
	"github.com/Dosada05/club-admin/models"
)

type CountryFetcher interface {
	FetchAll(ctx context.Context) ([]models.Country, error)
}

type CountryService interface {
	Search(ctx context.Context, search string) ([]models.Country, error)
}

type countryService struct {
	fetcher CountryFetcher
	logger  *slog.Logger
}

func NewCountryService(fetcher CountryFetcher, logger *slog.Logger) CountryService {
	return &countryService{fetcher: fetcher, logger: logger}
}

// Search загружает полный список стран на каждый вызов, без кэша.
func (s *countryService) Search(ctx context.Context, search string) ([]models.Country, error) {
	list, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		s.logger.Error("country reference request failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", ErrCountriesUnavailable, err)
	}
	return countries.Filter(list, search), nil
}
