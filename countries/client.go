// Package countries fetches the country reference list used by the team and
// player forms.
package countries

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/Dosada05/club-admin/models"
)

const (
	DefaultBaseURL = "https://restcountries.com/v3.1"
	defaultTimeout = 15 * time.Second
	// Full list without these fields is rejected by the upstream API.
	allFields = "name,translations,flags,cca2"
)

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	baseURL    string
	httpClient httpDoer
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	var doer httpDoer = cfg.HTTPClient
	if cfg.HTTPClient == nil {
		doer = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: baseURL, httpClient: doer}
}

type countryPayload struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	Translations map[string]struct {
		Common string `json:"common"`
	} `json:"translations"`
	Flags struct {
		SVG string `json:"svg"`
		PNG string `json:"png"`
	} `json:"flags"`
	CCA2 string `json:"cca2"`
}

// FetchAll downloads every country with its Spanish name, flag and ISO code,
// sorted by name. There is no pagination and no caching.
func (c *Client) FetchAll(ctx context.Context) ([]models.Country, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/all", nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("fields", allFields)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("countries: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("countries: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload []countryPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("countries: failed to decode response: %w", err)
	}

	list := make([]models.Country, 0, len(payload))
	for _, p := range payload {
		list = append(list, mapCountry(p))
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func mapCountry(p countryPayload) models.Country {
	name := p.Translations["spa"].Common
	if name == "" {
		name = p.Name.Common
	}
	flag := p.Flags.SVG
	if flag == "" {
		flag = p.Flags.PNG
	}
	return models.Country{Name: name, FlagURL: flag, Code: p.CCA2}
}

// Filter keeps the countries whose name contains search, ignoring case.
func Filter(list []models.Country, search string) []models.Country {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return list
	}
	out := make([]models.Country, 0)
	for _, c := range list {
		if strings.Contains(strings.ToLower(c.Name), term) {
			out = append(out, c)
		}
	}
	return out
}
