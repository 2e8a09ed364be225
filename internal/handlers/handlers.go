package handlers

import (
	"encoding/json"
	"mime"
	"net/http"
	"sync"
	"time"

	"github.com/ndavydova/taskwise/internal/ai"
	"github.com/ndavydova/taskwise/internal/db"
)

type Handler struct {
	TaskRepo    db.TaskRepositoryInterface
	UserRepo    db.UserRepositoryInterface
	AI          *ai.Client
	JWTSecret   []byte
	RateLimiter *RateLimiter
}

type errorResponse struct {
	Error string `json:"error"`
}

func sendError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}

func sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func isJSONContentType(r *http.Request) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

// CORS allows the single-page frontend to call the API from another origin.
func CORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

type RateLimiter struct {
	attempts map[string]int
	limit    int
	mutex    sync.Mutex
	window   time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rateLimiter := &RateLimiter{
		attempts: make(map[string]int),
		limit:    limit,
		window:   window,
	}
	go rateLimiter.cleanup()
	return rateLimiter
}

func (rateLimiter *RateLimiter) Allow(ip string) bool {
	rateLimiter.mutex.Lock()
	defer rateLimiter.mutex.Unlock()

	count, exists := rateLimiter.attempts[ip]
	if !exists {
		rateLimiter.attempts[ip] = 1
		return true
	}
	if count >= rateLimiter.limit {
		return false
	}
	rateLimiter.attempts[ip]++
	return true
}

// reset the attempts map every window duration
func (rateLimiter *RateLimiter) cleanup() {
	for range time.Tick(rateLimiter.window) {
		rateLimiter.mutex.Lock()
		rateLimiter.attempts = make(map[string]int)
		rateLimiter.mutex.Unlock()
	}
}
