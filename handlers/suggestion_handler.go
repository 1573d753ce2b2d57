package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"movie-night/models"
	"movie-night/monitoring"
	"movie-night/services"
)

type SuggestionHandler struct {
	suggestions *services.SuggestionService
	screenings  *services.ScreeningService
	metadata    *services.MetadataService
}

func NewSuggestionHandler(suggestions *services.SuggestionService, screenings *services.ScreeningService, metadata *services.MetadataService) *SuggestionHandler {
	return &SuggestionHandler{
		suggestions: suggestions,
		screenings:  screenings,
		metadata:    metadata,
	}
}

// Search - free-text movie catalog search
func (h *SuggestionHandler) Search(e *core.RequestEvent) error {
	query := strings.TrimSpace(e.Request.URL.Query().Get("query"))
	if len(query) < 2 {
		return apis.NewBadRequestError("Search query must be at least 2 characters", nil)
	}

	results, err := h.metadata.Search(e.Request.Context(), query)
	if err != nil {
		return apis.NewApiError(http.StatusBadGateway, "Movie search is unavailable right now.", err)
	}

	return e.JSON(http.StatusOK, map[string]any{"results": results})
}

// List - ranked suggestions, with movies the host already scheduled marked
func (h *SuggestionHandler) List(e *core.RequestEvent) error {
	ctx := e.Request.Context()

	suggestions, err := h.suggestions.List(ctx)
	if err != nil {
		return apis.NewBadRequestError("Failed to load suggestions", err)
	}

	scheduled := map[string]bool{}
	if screenings, err := h.screenings.List(ctx); err == nil {
		for _, s := range screenings {
			scheduled[strings.ToLower(s.Title)] = true
		}
	}

	data := make([]map[string]any, 0, len(suggestions))
	for _, suggestion := range suggestions {
		data = append(data, map[string]any{
			"id":        suggestion.ID,
			"title":     suggestion.Title,
			"tmdb_id":   suggestion.TMDBID,
			"votes":     suggestion.Votes,
			"scheduled": scheduled[strings.ToLower(suggestion.Title)],
		})
	}

	return e.JSON(http.StatusOK, map[string]any{"suggestions": data})
}

// Featured - the host's static curated picks shown next to the ballot
func (h *SuggestionHandler) Featured(e *core.RequestEvent) error {
	return e.JSON(http.StatusOK, map[string]any{
		"top_picks": []map[string]string{
			{"title": "Inception"},
			{"title": "The Dark Knight"},
			{"title": "Heat"},
		},
		"critic_favorites": []map[string]string{
			{"title": "The Godfather"},
			{"title": "No Country for Old Men"},
		},
	})
}

// Recommend - add a movie to the suggestion list
func (h *SuggestionHandler) Recommend(e *core.RequestEvent) error {
	var req struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	suggestion, err := h.suggestions.Recommend(e.Request.Context(), req.ID, req.Title)
	switch {
	case errors.Is(err, models.ErrAlreadySuggested):
		// Informational, not an error: the guest just learns the movie is
		// already on the list.
		return e.JSON(http.StatusOK, map[string]any{
			"already_suggested": true,
			"message":           req.Title + " has already been recommended!",
		})
	case errors.Is(err, models.ErrValidation):
		return apis.NewBadRequestError("Pick a movie from the search results first.", err)
	case err != nil:
		return apis.NewBadRequestError("Failed to save suggestion", err)
	}

	monitoring.TrackSuggestion()

	return e.JSON(http.StatusOK, map[string]any{
		"suggestion": suggestion,
		"message":    req.Title + " was recommended! ✅",
	})
}

// Vote - apply a single up or down vote to a suggestion
func (h *SuggestionHandler) Vote(e *core.RequestEvent) error {
	var req struct {
		Delta int `json:"delta"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	suggestion, err := h.suggestions.Vote(e.Request.Context(), e.Request.PathValue("id"), req.Delta)
	switch {
	case errors.Is(err, models.ErrSuggestionNotFound):
		return apis.NewNotFoundError("Suggestion not found", err)
	case errors.Is(err, models.ErrValidation):
		return apis.NewBadRequestError("Vote must be +1 or -1", err)
	case err != nil:
		return apis.NewBadRequestError("Failed to save vote", err)
	}

	if req.Delta > 0 {
		monitoring.TrackVote("up")
	} else {
		monitoring.TrackVote("down")
	}

	return e.JSON(http.StatusOK, map[string]any{"suggestion": suggestion})
}
