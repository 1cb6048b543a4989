package squad

import (
	"sort"
	"strings"
	"time"

	"github.com/Dosada05/club-admin/models"
)

const (
	MinNumber = 1
	MaxNumber = 99
)

// ValidationErrors maps a field name to what is wrong with it.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v[field])
	}
	return "invalid player: " + strings.Join(parts, "; ")
}

// ValidatePlayer checks a player against the rules of its team's discipline.
// Duplicate numbers inside a team are allowed.
func ValidatePlayer(p *models.Player, discipline models.Discipline, today time.Time) error {
	errs := ValidationErrors{}

	if strings.TrimSpace(p.Name) == "" {
		errs["name"] = "must be provided"
	}
	if strings.TrimSpace(p.Surname) == "" {
		errs["surname"] = "must be provided"
	}
	if strings.TrimSpace(p.Nationality) == "" {
		errs["nationality"] = "must be provided"
	}
	if p.BirthDate.IsZero() {
		errs["birth_date"] = "must be provided"
	} else if p.BirthDate.After(today) {
		errs["birth_date"] = "must not be in the future"
	}
	if p.Number < MinNumber || p.Number > MaxNumber {
		errs["number"] = "must be between 1 and 99"
	}

	positions := DeriveOptions(discipline)
	switch {
	case p.Position == "":
		errs["position"] = "must be provided"
	case !contains(positions, p.Position):
		errs["position"] = "is not valid for discipline " + string(discipline)
	}

	if p.Laterality != "" && !contains(DeriveLaterality(p.Position), p.Laterality) {
		errs["laterality"] = "is not valid for position " + p.Position
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
