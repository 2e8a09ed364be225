package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// tokens stay valid for a week; there is no refresh or revocation
const tokenLifetime = 7 * 24 * time.Hour

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, "Use POST method for login", http.StatusMethodNotAllowed)
		return
	}

	clientIP := r.RemoteAddr
	if h.RateLimiter != nil && !h.RateLimiter.Allow(clientIP) {
		log.Printf("Rate limit exceeded for IP: %s", clientIP)
		sendError(w, "Too many login attempts. Please try again later.", http.StatusTooManyRequests)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, "Bad JSON", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := h.UserRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		log.Printf("Login failed for email %s: %v", input.Email, err)
		sendError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		log.Printf("Invalid password for email: %s", input.Email)
		sendError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	tokenString, err := h.generateToken(user.ID)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		sendError(w, "Cannot create token", http.StatusInternalServerError)
		return
	}

	log.Printf("User logged in: %s", input.Email)
	sendJSON(w, http.StatusOK, map[string]any{
		"user_id": user.ID,
		"token":   tokenString,
	})
}

func (h *Handler) generateToken(sub string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(tokenLifetime).Unix(),
		"iat": time.Now().Unix(),
	})

	tokenString, err := token.SignedString(h.JWTSecret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return tokenString, nil
}
