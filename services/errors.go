package services

import (
	"errors"
	"sort"
	"strings"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed    = errors.New("validation failed")
	ErrUnsupportedLogoType = errors.New("unsupported logo content type")
	ErrLogoStorageDisabled = errors.New("logo storage is not configured")

	// Ошибки конфликтов
	ErrUserEmailConflict = errors.New("email address is already in use")

	// Ошибки аутентификации и авторизации
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	ErrUserNotFound   = errors.New("user not found")
	ErrTeamNotFound   = errors.New("team not found")
	ErrPlayerNotFound = errors.New("player not found")

	// Внешние зависимости
	ErrCountriesUnavailable = errors.New("country reference service is unavailable")
)

// ValidationError: ошибки по полям формы. errors.Is(err, ErrValidationFailed) == true.
type ValidationError map[string]string

func (v ValidationError) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

func requireNonEmpty(errs ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = "must be provided"
	}
}
