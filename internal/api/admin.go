package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/spigell/askme/internal/learned"
	"github.com/spigell/askme/internal/logger"
)

type answerRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func newAdminHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(BearerAuth(deps.AdminToken))

	r.Get("/answers", handleListAnswers(deps))
	r.Post("/answers", handleCreateAnswer(deps))
	r.Get("/answers/{id}", handleGetAnswer(deps))
	r.Put("/answers/{id}", handleUpdateAnswer(deps))
	r.Delete("/answers/{id}", handleDeleteAnswer(deps))
	r.Get("/stats", handleStats(deps))
	r.Post("/reload", handleReload(deps))

	return r
}

// requireStore answers 503 when no durable store backs the cache.
func requireStore(cache *learned.Cache, w http.ResponseWriter) bool {
	if cache.Configured() {
		return true
	}
	learnedError(w, learned.ErrStoreNotConfigured)
	return false
}

func decodeAnswer(w http.ResponseWriter, r *http.Request) (answerRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return req, false
	}
	return req, true
}

func handleListAnswers(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cache := deps.Resolver.Cache()
		if !requireStore(cache, w) {
			return
		}
		writeJSON(w, http.StatusOK, cache.List())
	}
}

func handleCreateAnswer(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cache := deps.Resolver.Cache()
		if !requireStore(cache, w) {
			return
		}

		req, ok := decodeAnswer(w, r)
		if !ok {
			return
		}

		id, err := cache.Create(r.Context(), req.Question, req.Answer)
		if err != nil {
			learnedError(w, err)
			return
		}

		deps.Logger.Info("learned answer added", zap.String(logger.FieldQuestionID, id))
		a, _ := cache.Get(id)
		writeJSON(w, http.StatusCreated, a)
	}
}

func handleGetAnswer(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cache := deps.Resolver.Cache()
		if !requireStore(cache, w) {
			return
		}

		a, ok := cache.Get(chi.URLParam(r, "id"))
		if !ok {
			learnedError(w, learned.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func handleUpdateAnswer(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cache := deps.Resolver.Cache()
		if !requireStore(cache, w) {
			return
		}

		req, ok := decodeAnswer(w, r)
		if !ok {
			return
		}

		id := chi.URLParam(r, "id")
		a, err := cache.Update(r.Context(), id, req.Question, req.Answer)
		if err != nil {
			learnedError(w, err)
			return
		}

		deps.Logger.Info("learned answer reviewed", zap.String(logger.FieldQuestionID, id))
		writeJSON(w, http.StatusOK, a)
	}
}

func handleDeleteAnswer(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cache := deps.Resolver.Cache()
		if !requireStore(cache, w) {
			return
		}

		id := chi.URLParam(r, "id")
		if err := cache.Delete(r.Context(), id); err != nil {
			learnedError(w, err)
			return
		}

		deps.Logger.Info("learned answer deleted", zap.String(logger.FieldQuestionID, id))
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleStats(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cache := deps.Resolver.Cache()
		if !requireStore(cache, w) {
			return
		}
		writeJSON(w, http.StatusOK, cache.Stats())
	}
}

func handleReload(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cache := deps.Resolver.Cache()
		if !requireStore(cache, w) {
			return
		}

		if err := cache.Reload(r.Context()); err != nil {
			httpError(w, http.StatusBadGateway, "api_error", "reload failed: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"loaded": cache.Len()})
	}
}
