package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"movie-night/config"
	"movie-night/models"
	"movie-night/monitoring"
	"movie-night/utils"
)

const (
	posterBaseURL = "https://image.tmdb.org/t/p/w500"
	imdbBaseURL   = "https://www.imdb.com/title/"
	maxSearchHits = 5
)

// SearchResult is one catalog match offered to a guest or admin.
type SearchResult struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Poster string `json:"poster,omitempty"`
}

// MovieDetail is the enrichment record attached to a screening.
type MovieDetail struct {
	Poster   string `json:"poster,omitempty"`
	Synopsis string `json:"synopsis,omitempty"`
	Genre    string `json:"genre,omitempty"`
	Runtime  int    `json:"runtime,omitempty"`
	IMDB     string `json:"imdb,omitempty"`
}

// MetadataService talks to the TMDB catalog. It is a best-effort collaborator:
// callers treat every error as "proceed without enrichment".
type MetadataService struct {
	client  *http.Client
	breaker *utils.CircuitBreaker
	apiKey  string
	baseURL string
}

func NewMetadataService(cfg *config.Config) *MetadataService {
	return &MetadataService{
		client:  &http.Client{Timeout: cfg.ResolverTimeout},
		breaker: utils.NewCircuitBreaker("tmdb"),
		apiKey:  cfg.TMDBAPIKey,
		baseURL: strings.TrimRight(cfg.TMDBBaseURL, "/"),
	}
}

type tmdbSearchResponse struct {
	Results []struct {
		ID         int64  `json:"id"`
		Title      string `json:"title"`
		PosterPath string `json:"poster_path"`
	} `json:"results"`
}

type tmdbDetailResponse struct {
	PosterPath string `json:"poster_path"`
	Overview   string `json:"overview"`
	Genres     []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Runtime int    `json:"runtime"`
	IMDBID  string `json:"imdb_id"`
}

// Search returns the top catalog matches for a free-text query.
func (s *MetadataService) Search(ctx context.Context, query string) ([]SearchResult, error) {
	endpoint := fmt.Sprintf("%s/search/movie?query=%s&api_key=%s",
		s.baseURL, url.QueryEscape(query), url.QueryEscape(s.apiKey))

	var parsed tmdbSearchResponse
	if err := s.getJSON(ctx, endpoint, &parsed); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, maxSearchHits)
	for _, hit := range parsed.Results {
		if len(results) == maxSearchHits {
			break
		}
		result := SearchResult{ID: hit.ID, Title: hit.Title}
		if hit.PosterPath != "" {
			result.Poster = posterBaseURL + hit.PosterPath
		}
		results = append(results, result)
	}
	return results, nil
}

// Resolve looks up the detail record for the best search match of title.
func (s *MetadataService) Resolve(ctx context.Context, title string) (*MovieDetail, error) {
	matches, err := s.Search(ctx, title)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no catalog match for %q", models.ErrResolverUnavailable, title)
	}

	endpoint := fmt.Sprintf("%s/movie/%d?api_key=%s",
		s.baseURL, matches[0].ID, url.QueryEscape(s.apiKey))

	var parsed tmdbDetailResponse
	if err := s.getJSON(ctx, endpoint, &parsed); err != nil {
		return nil, err
	}

	detail := &MovieDetail{
		Synopsis: parsed.Overview,
		Runtime:  parsed.Runtime,
	}
	if parsed.PosterPath != "" {
		detail.Poster = posterBaseURL + parsed.PosterPath
	}
	if parsed.IMDBID != "" {
		detail.IMDB = imdbBaseURL + parsed.IMDBID
	}
	names := make([]string, 0, len(parsed.Genres))
	for _, g := range parsed.Genres {
		names = append(names, g.Name)
	}
	detail.Genre = strings.Join(names, ", ")

	return detail, nil
}

func (s *MetadataService) getJSON(ctx context.Context, endpoint string, out any) error {
	start := time.Now()
	defer func() { monitoring.ObserveResolverCall(time.Since(start)) }()

	_, err := s.breaker.Execute(ctx, func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrResolverUnavailable, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: catalog returned %d", models.ErrResolverUnavailable, resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrResolverUnavailable, err)
		}
		return nil, nil
	})
	return err
}
