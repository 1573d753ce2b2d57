package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"movie-night/models"
)

// SuggestionService tracks guest-recommended movies and their votes.
type SuggestionService struct {
	app core.App
}

func NewSuggestionService(app core.App) *SuggestionService {
	return &SuggestionService{app: app}
}

// Recommend records a new suggestion with a single starting vote. A movie
// already suggested (same TMDB id) is rejected; the unique index on tmdb_id
// backstops concurrent recommends.
func (s *SuggestionService) Recommend(ctx context.Context, tmdbID int64, title string) (*models.Suggestion, error) {
	if tmdbID <= 0 || strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: a movie id and title are required", models.ErrValidation)
	}

	_, err := s.app.FindFirstRecordByFilter(
		"suggestions",
		"tmdb_id = {:tmdbId}",
		dbx.Params{"tmdbId": tmdbID},
	)
	switch {
	case err == nil:
		return nil, models.ErrAlreadySuggested
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	collection, err := s.app.FindCollectionByNameOrId("suggestions")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	record := core.NewRecord(collection)
	record.Set("title", title)
	record.Set("tmdb_id", tmdbID)
	record.Set("votes", 1)

	if err := s.app.Save(record); err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrAlreadySuggested
		}
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	suggestion := suggestionFromRecord(record)
	return &suggestion, nil
}

// Vote applies a single up or down vote. There is no floor: vote counts may
// go negative. One-vote-per-guest is a client-side courtesy, not a server
// invariant.
func (s *SuggestionService) Vote(ctx context.Context, id string, delta int) (*models.Suggestion, error) {
	if delta != 1 && delta != -1 {
		return nil, fmt.Errorf("%w: vote must be +1 or -1", models.ErrValidation)
	}

	record, err := s.app.FindRecordById("suggestions", id)
	if err != nil {
		return nil, models.ErrSuggestionNotFound
	}

	record.Set("votes", record.GetInt("votes")+delta)
	if err := s.app.Save(record); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	suggestion := suggestionFromRecord(record)
	return &suggestion, nil
}

// List returns all suggestions ranked by votes.
func (s *SuggestionService) List(ctx context.Context) ([]models.Suggestion, error) {
	records, err := s.app.FindAllRecords("suggestions")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	suggestions := make([]models.Suggestion, 0, len(records))
	for _, record := range records {
		suggestions = append(suggestions, suggestionFromRecord(record))
	}
	return RankSuggestions(suggestions), nil
}

func (s *SuggestionService) Get(ctx context.Context, id string) (*models.Suggestion, error) {
	record, err := s.app.FindRecordById("suggestions", id)
	if err != nil {
		return nil, models.ErrSuggestionNotFound
	}
	suggestion := suggestionFromRecord(record)
	return &suggestion, nil
}

func (s *SuggestionService) Delete(ctx context.Context, id string) error {
	record, err := s.app.FindRecordById("suggestions", id)
	if err != nil {
		return models.ErrSuggestionNotFound
	}
	if err := s.app.Delete(record); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return nil
}

func suggestionFromRecord(record *core.Record) models.Suggestion {
	return models.Suggestion{
		ID:      record.Id,
		Title:   record.GetString("title"),
		TMDBID:  int64(record.GetInt("tmdb_id")),
		Votes:   record.GetInt("votes"),
		Created: record.GetDateTime("created").Time(),
	}
}

// RankSuggestions sorts descending by votes. The sort is stable so ties keep
// their store order.
func RankSuggestions(suggestions []models.Suggestion) []models.Suggestion {
	ranked := make([]models.Suggestion, len(suggestions))
	copy(ranked, suggestions)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Votes > ranked[j].Votes
	})
	return ranked
}
