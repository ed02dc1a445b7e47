package api

import (
	"encoding/json"
	"net/http"

	"github.com/spigell/askme/internal/resolver"
)

type chatRequest struct {
	Question string `json:"question"`
}

type chatResponse struct {
	Response    string `json:"response"`
	Tier        string `json:"tier"`
	AIGenerated bool   `json:"ai_generated"`
	Notice      string `json:"notice,omitempty"`
}

func handleChat(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		resp := deps.Resolver.Respond(r.Context(), req.Question)
		writeJSON(w, http.StatusOK, chatResponse{
			Response:    resp.Message(),
			Tier:        resp.Tier,
			AIGenerated: resp.AIGenerated,
			Notice:      resp.Notice,
		})
	}
}

type healthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Learned int               `json:"learned_answers"`
	Store   bool              `json:"store_configured"`
	Tiers   []resolver.Status `json:"tiers"`
}

func handleHealth(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cache := deps.Resolver.Cache()
		writeJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Version: deps.Version,
			Learned: cache.Len(),
			Store:   cache.Configured(),
			Tiers:   deps.Resolver.Tiers(),
		})
	}
}
