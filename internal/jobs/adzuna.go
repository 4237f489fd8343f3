// Package jobs searches external job boards and ranks postings against a
// parsed resume.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/career-advisor/internal/types"
)

// DefaultCountry selects the Adzuna country endpoint.
const DefaultCountry = "us"

// SearchTimeout bounds a job search request. Searches are a single
// attempt with no retry.
const SearchTimeout = 10 * time.Second

// MaxResults caps results_per_page regardless of what the caller asks for.
const MaxResults = 20

// SearchParams are the criteria for a job board search.
type SearchParams struct {
	Keywords   string
	Location   string
	RemoteOnly bool
	Limit      int
}

// SearchError represents a failure talking to the job board API.
type SearchError struct {
	Message string
	Cause   error
}

func (e *SearchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("job search error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("job search error: %s", e.Message)
}

func (e *SearchError) Unwrap() error {
	return e.Cause
}

// AdzunaClient searches the Adzuna job board API.
type AdzunaClient struct {
	AppID   string
	AppKey  string
	BaseURL string
	Country string

	httpClient *http.Client
}

// NewAdzunaClient creates a client for the Adzuna search API.
func NewAdzunaClient(appID, appKey string) *AdzunaClient {
	return &AdzunaClient{
		AppID:      appID,
		AppKey:     appKey,
		BaseURL:    "https://api.adzuna.com/v1/api/jobs",
		Country:    DefaultCountry,
		httpClient: &http.Client{Timeout: SearchTimeout},
	}
}

// Configured reports whether API credentials are present.
func (c *AdzunaClient) Configured() bool {
	return c.AppID != "" && c.AppKey != ""
}

type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

type adzunaResult struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Company struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	Description string  `json:"description"`
	RedirectURL string  `json:"redirect_url"`
	SalaryMin   float64 `json:"salary_min"`
	SalaryMax   float64 `json:"salary_max"`
	Created     string  `json:"created"`
}

// Search queries Adzuna with the given criteria. A remote-only search
// appends "remote" to the keyword query since Adzuna has no dedicated
// remote filter.
func (c *AdzunaClient) Search(ctx context.Context, params SearchParams) ([]*types.JobPosting, error) {
	if !c.Configured() {
		return nil, &SearchError{Message: "Adzuna credentials not configured"}
	}

	limit := params.Limit
	if limit <= 0 || limit > MaxResults {
		limit = MaxResults
	}

	what := strings.TrimSpace(params.Keywords)
	if params.RemoteOnly && !strings.Contains(strings.ToLower(what), "remote") {
		what += " remote"
	}

	query := url.Values{}
	query.Set("app_id", c.AppID)
	query.Set("app_key", c.AppKey)
	query.Set("results_per_page", fmt.Sprintf("%d", limit))
	query.Set("what", what)
	if params.Location != "" {
		query.Set("where", params.Location)
	}
	query.Set("content-type", "application/json")

	endpoint := fmt.Sprintf("%s/%s/search/1?%s", c.BaseURL, c.Country, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &SearchError{Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SearchError{Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SearchError{Message: "failed to read response", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &SearchError{Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	var payload adzunaResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &SearchError{Message: "failed to decode response", Cause: err}
	}

	postings := make([]*types.JobPosting, 0, len(payload.Results))
	for _, r := range payload.Results {
		postings = append(postings, convertResult(r))
	}
	return postings, nil
}

func convertResult(r adzunaResult) *types.JobPosting {
	posting := &types.JobPosting{
		ID:          r.ID,
		Title:       r.Title,
		Company:     r.Company.DisplayName,
		Location:    r.Location.DisplayName,
		Description: r.Description,
		URL:         r.RedirectURL,
		SalaryRange: formatSalary(r.SalaryMin, r.SalaryMax),
		RemoteType:  detectRemoteType(r.Title, r.Description),
	}
	if r.Created != "" {
		if t, err := time.Parse(time.RFC3339, r.Created); err == nil {
			posting.PostedDate = &t
		}
	}
	return posting
}

func formatSalary(min, max float64) string {
	if min <= 0 && max <= 0 {
		return ""
	}
	if max <= 0 {
		max = min
	}
	if min <= 0 {
		min = max
	}
	return fmt.Sprintf("$%s - $%s", withCommas(int(min)), withCommas(int(max)))
}

func withCommas(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}

func detectRemoteType(title, description string) types.RemoteType {
	combined := strings.ToLower(title + " " + description)
	if strings.Contains(combined, "hybrid") {
		return types.RemoteTypeHybrid
	}
	if strings.Contains(combined, "remote") || strings.Contains(combined, "work from home") {
		return types.RemoteTypeRemote
	}
	return types.RemoteTypeOnsite
}
