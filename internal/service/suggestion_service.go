package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"regexp"
	"strings"
	"time"

	"alcyxob/fitcrm/internal/domain"
)

const (
	// DefaultSampleSize is how many suggestions a detail view shows.
	DefaultSampleSize = 5

	// descriptionDisplayLimit bounds a description for display; longer
	// text is cut and marked with an ellipsis.
	descriptionDisplayLimit = 140

	placeholderName = "Unnamed exercise"
)

// FallbackSuggestions is the fixed bodyweight list shown whenever the
// remote catalog is unavailable or returns nothing usable.
var FallbackSuggestions = []string{
	"Push-ups",
	"Bodyweight Squats",
	"Plank",
	"Glute Bridges",
	"Lunges",
}

// markupTags matches anything bracketed like an HTML tag; catalog
// descriptions arrive with embedded markup.
var markupTags = regexp.MustCompile(`<[^>]*>`)

// SuggestionService fetches a bounded random sample of exercise
// suggestions from the remote catalog. It never fails from the caller's
// point of view: every failure degrades to the fallback list, reported
// through SuggestionResult.UsedFallback.
type SuggestionService interface {
	FetchSuggestions(ctx context.Context, sampleSize int) domain.SuggestionResult
}

// suggestionService implements SuggestionService against the wger
// exercise catalog API.
type suggestionService struct {
	baseURL    string
	pageLimit  int
	httpClient *http.Client

	// shuffle permutes n elements via swap. Injected so tests can pin
	// the permutation; the default is an unbiased Fisher-Yates.
	shuffle func(n int, swap func(i, j int))
}

// NewSuggestionService creates a fetcher for the given catalog base URL,
// e.g. "https://wger.de/api/v2". pageLimit bounds the requested page.
func NewSuggestionService(baseURL string, pageLimit int) SuggestionService {
	if pageLimit <= 0 {
		pageLimit = 50
	}
	return &suggestionService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageLimit:  pageLimit,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		shuffle:    rand.Shuffle,
	}
}

// catalogExercise is one entry of the catalog response. Both fields are
// optional on the wire.
type catalogExercise struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type catalogPage struct {
	Results []catalogExercise `json:"results"`
}

// FetchSuggestions requests a page of catalog exercises, shuffles it and
// returns the first sampleSize entries, sanitized for display. Any
// failure along the way yields the fallback list instead.
func (s *suggestionService) FetchSuggestions(ctx context.Context, sampleSize int) domain.SuggestionResult {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}

	results, err := s.fetchCatalogPage(ctx)
	if err != nil {
		log.Printf("WARN: suggestion fetch failed, using fallback: %v", err)
		return fallbackResult()
	}
	if len(results) == 0 {
		log.Printf("WARN: suggestion catalog returned no exercises, using fallback")
		return fallbackResult()
	}

	s.shuffle(len(results), func(i, j int) {
		results[i], results[j] = results[j], results[i]
	})
	if sampleSize < len(results) {
		results = results[:sampleSize]
	}

	items := make([]domain.Suggestion, 0, len(results))
	for _, ex := range results {
		items = append(items, sanitizeSuggestion(ex))
	}
	if len(items) == 0 {
		return fallbackResult()
	}

	return domain.SuggestionResult{Items: items}
}

// fetchCatalogPage issues the single catalog request. No retries: a
// failed fetch goes straight to the fallback.
func (s *suggestionService) fetchCatalogPage(ctx context.Context) ([]catalogExercise, error) {
	reqURL := fmt.Sprintf("%s/exercise/?limit=%d", s.baseURL, s.pageLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("catalog: read body: %w", err)
	}

	var page catalogPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("catalog: decode json: %w", err)
	}
	return page.Results, nil
}

// sanitizeSuggestion strips markup from the description, trims it and
// bounds it for display. A missing name gets a placeholder label.
func sanitizeSuggestion(ex catalogExercise) domain.Suggestion {
	name := ex.Name
	if name == "" {
		name = placeholderName
	}

	desc := strings.TrimSpace(markupTags.ReplaceAllString(ex.Description, ""))
	if runes := []rune(desc); len(runes) > descriptionDisplayLimit {
		desc = string(runes[:descriptionDisplayLimit]) + "…"
	}

	return domain.Suggestion{Name: name, Description: desc}
}

func fallbackResult() domain.SuggestionResult {
	items := make([]domain.Suggestion, 0, len(FallbackSuggestions))
	for _, name := range FallbackSuggestions {
		items = append(items, domain.Suggestion{Name: name})
	}
	return domain.SuggestionResult{Items: items, UsedFallback: true}
}
