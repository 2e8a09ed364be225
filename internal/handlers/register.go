package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ndavydova/taskwise/internal/db"
	"github.com/ndavydova/taskwise/internal/models"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, "Use POST method", http.StatusMethodNotAllowed)
		return
	}

	clientIP := r.RemoteAddr
	if h.RateLimiter != nil && !h.RateLimiter.Allow(clientIP) {
		log.Printf("Rate limit exceeded for IP: %s", clientIP)
		sendError(w, "Too many register attempts. Please try again later.", http.StatusTooManyRequests)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, "Bad JSON", http.StatusBadRequest)
		return
	}

	if !isValidEmail(input.Email) {
		sendError(w, "Invalid email", http.StatusBadRequest)
		return
	}
	if len(input.Password) < 4 {
		sendError(w, "Password must be at least 4 characters long", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// no unique index on email, so check before inserting
	if _, err := h.UserRepo.GetByEmail(ctx, input.Email); err == nil {
		sendError(w, "Email already registered", http.StatusBadRequest)
		return
	} else if !errors.Is(err, db.ErrUserNotFound) {
		log.Printf("Error checking email %s: %v", input.Email, err)
		sendError(w, "Cannot save user", http.StatusInternalServerError)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		sendError(w, "Cannot hash password", http.StatusInternalServerError)
		return
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.UserRepo.Create(ctx, user); err != nil {
		log.Printf("Error saving user %s: %v", input.Email, err)
		sendError(w, "Cannot save user", http.StatusInternalServerError)
		return
	}

	log.Printf("User registered: %s", user.Email)
	sendJSON(w, http.StatusCreated, map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})
}

func isValidEmail(email string) bool {
	const emailRegex = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	re := regexp.MustCompile(emailRegex)
	return re.MatchString(email)
}
