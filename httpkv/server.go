package httpkv

import (
	"encoding/json"
	"net/http"

	"kvcache/cache"
)

// putRequest is the wire body of POST /put.
type putRequest struct {
	Key   *string `json:"key"`
	Value *string `json:"value"`
}

// NewHandler exposes a cache over HTTP:
//
//	POST /put        {"key": k, "value": v} → 201, or 400 on a missing field
//	GET  /get/{key}  → 200 with the raw value as body, or 404
//	GET  /health     → 200 "OK"
//
// The handler only translates between the wire and the store; all cache
// semantics (LRU promotion, eviction) live in the cache package.
func NewHandler(c *cache.Cache[string, string]) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /put", func(w http.ResponseWriter, r *http.Request) {
		var req putRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		// Pointers distinguish an absent field from an empty string;
		// only true absence is a client bug.
		if req.Key == nil || req.Value == nil || *req.Key == "" {
			http.Error(w, "key and value are required", http.StatusBadRequest)
			return
		}
		c.Put(*req.Key, *req.Value)
		w.WriteHeader(http.StatusCreated)
	})

	mux.HandleFunc("GET /get/{key}", func(w http.ResponseWriter, r *http.Request) {
		key := r.PathValue("key")
		v, ok := c.Get(key)
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(v))
	})

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	return mux
}
