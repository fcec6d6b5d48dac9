package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/moviecrate/moviecrate/internal/genres"
	"github.com/moviecrate/moviecrate/internal/httputil"
	"github.com/moviecrate/moviecrate/internal/models"
	"github.com/moviecrate/moviecrate/internal/repository"
)

type MoviePayload struct {
	UUID        *uuid.UUID `json:"uuid"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Genres      string     `json:"genres"`
}

// CollectionPayload uses pointers so a partial update can tell an absent
// field from an empty one.
type CollectionPayload struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Movies      *[]MoviePayload `json:"movies"`
}

func validateCollectionPayload(req *CollectionPayload, requireAll bool) map[string]string {
	fields := make(map[string]string)

	if requireAll {
		if req.Title == nil || *req.Title == "" {
			fields["title"] = "this field is required"
		}
		if req.Description == nil || *req.Description == "" {
			fields["description"] = "this field is required"
		}
		if req.Movies == nil {
			fields["movies"] = "this field is required"
		}
	} else {
		if req.Title != nil && *req.Title == "" {
			fields["title"] = "must not be blank"
		}
		if req.Description != nil && *req.Description == "" {
			fields["description"] = "must not be blank"
		}
	}

	if req.Movies != nil {
		for i, m := range *req.Movies {
			if m.UUID == nil {
				fields[fmt.Sprintf("movies[%d].uuid", i)] = "this field is required"
			}
			if m.Title == "" {
				fields[fmt.Sprintf("movies[%d].title", i)] = "this field is required"
			}
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

func payloadMovies(payloads []MoviePayload) []models.Movie {
	movies := make([]models.Movie, 0, len(payloads))
	for _, p := range payloads {
		movies = append(movies, models.Movie{
			UUID:        *p.UUID,
			Title:       p.Title,
			Description: p.Description,
			Genres:      p.Genres,
		})
	}
	return movies
}

func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CollectionPayload
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fields := validateCollectionPayload(&req, true); fields != nil {
		httputil.WriteValidationError(w, fields)
		return
	}

	collection := &models.Collection{
		UUID:        uuid.New(),
		UserID:      user.ID,
		Title:       *req.Title,
		Description: *req.Description,
		Movies:      payloadMovies(*req.Movies),
	}

	if err := s.collections.Create(collection); err != nil {
		s.log.Error().Err(err).Msg("failed to create collection")
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create collection")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, collection)
}

func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	collections, err := s.collections.ListByUser(user.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list collections")
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list collections")
		return
	}
	if collections == nil {
		collections = []*models.Collection{}
	}

	favourites := genres.Favourites(collections, genres.TopN)
	if favourites == nil {
		favourites = []string{}
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"collections":      collections,
		"favourite_genres": favourites,
	})
}

func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := uuid.Parse(r.PathValue("uuid"))
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "collection not found")
		return
	}

	collection, err := s.collections.GetByUUID(id, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "collection not found")
			return
		}
		s.log.Error().Err(err).Msg("failed to load collection")
		httputil.WriteError(w, http.StatusInternalServerError, "failed to load collection")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, collection)
}

func (s *Server) handleUpdateCollection(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := uuid.Parse(r.PathValue("uuid"))
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "collection not found")
		return
	}

	var req CollectionPayload
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fields := validateCollectionPayload(&req, false); fields != nil {
		httputil.WriteValidationError(w, fields)
		return
	}

	collection, err := s.collections.GetByUUID(id, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "collection not found")
			return
		}
		s.log.Error().Err(err).Msg("failed to load collection")
		httputil.WriteError(w, http.StatusInternalServerError, "failed to update collection")
		return
	}

	if req.Title != nil {
		collection.Title = *req.Title
	}
	if req.Description != nil {
		collection.Description = *req.Description
	}
	replaceMovies := req.Movies != nil
	if replaceMovies {
		collection.Movies = payloadMovies(*req.Movies)
	}

	if err := s.collections.Update(collection, replaceMovies); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "collection not found")
			return
		}
		s.log.Error().Err(err).Msg("failed to update collection")
		httputil.WriteError(w, http.StatusInternalServerError, "failed to update collection")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, collection)
}

func (s *Server) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := uuid.Parse(r.PathValue("uuid"))
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "collection not found")
		return
	}

	if err := s.collections.Delete(id, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "collection not found")
			return
		}
		s.log.Error().Err(err).Msg("failed to delete collection")
		httputil.WriteError(w, http.StatusInternalServerError, "failed to delete collection")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
