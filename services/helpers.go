package services

import (
	"time"

	"github.com/Dosada05/club-admin/models"
	"github.com/Dosada05/club-admin/squad"
	"github.com/Dosada05/club-admin/storage"
)

// LogoResolver заполняет LogoURL команд: ключ в R2 → публичный URL,
// без ключа используется логотип по умолчанию.
type LogoResolver struct {
	uploader   storage.FileUploader
	defaultURL string
}

func NewLogoResolver(uploader storage.FileUploader, defaultURL string) *LogoResolver {
	return &LogoResolver{uploader: uploader, defaultURL: defaultURL}
}

func (r *LogoResolver) populate(team *models.Team) {
	if team == nil {
		return
	}
	team.LogoURL = nil
	if team.LogoKey != nil && *team.LogoKey != "" && r.uploader != nil {
		if url := r.uploader.GetPublicURL(*team.LogoKey); url != "" {
			team.LogoURL = &url
			return
		}
	}
	if r.defaultURL != "" {
		url := r.defaultURL
		team.LogoURL = &url
	}
}

func (r *LogoResolver) populateAll(teams []models.Team) {
	for i := range teams {
		r.populate(&teams[i])
	}
}

func fillAge(p *models.Player, today time.Time) {
	p.Age = squad.ComputeAge(p.BirthDate, today)
}

func fillAges(players []models.Player, today time.Time) {
	for i := range players {
		fillAge(&players[i], today)
	}
}
