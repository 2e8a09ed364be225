package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/ndavydova/taskwise/internal/ai"
)

/*
AI endpoints. Each builds a prompt, calls the completion API, sanitizes and
decodes the reply. A reply that is not the expected JSON shape is a server
error; there is no retry and no fallback default.
*/

func (h *Handler) HandleParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	var input struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	parsed, err := h.AI.ParseTask(r.Context(), input.Text, time.Now().UTC())
	if err != nil {
		h.sendAIError(w, "parse", err)
		return
	}
	sendJSON(w, http.StatusOK, parsed)
}

func (h *Handler) HandleImprove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	improved, err := h.AI.ImproveTask(r.Context(), input.Title, input.Description)
	if err != nil {
		h.sendAIError(w, "improve", err)
		return
	}
	sendJSON(w, http.StatusOK, improved)
}

func (h *Handler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	classified, err := h.AI.ClassifyTask(r.Context(), input.Title, input.Description)
	if err != nil {
		h.sendAIError(w, "classify", err)
		return
	}
	sendJSON(w, http.StatusOK, classified)
}

func (h *Handler) sendAIError(w http.ResponseWriter, op string, err error) {
	log.Printf("AI %s failed: %v", op, err)
	if errors.Is(err, ai.ErrMalformedCompletion) {
		sendError(w, "Bad AI response", http.StatusInternalServerError)
		return
	}
	sendError(w, "AI request failed", http.StatusInternalServerError)
}
