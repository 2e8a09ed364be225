package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ndavydova/taskwise/internal/db"
	"github.com/ndavydova/taskwise/internal/models"
)

/*
handles routes:
- GET /todos - list the caller's tasks
- POST /todos - create a new task
*/
func (h *Handler) HandleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listTasks(w, r)
	case http.MethodPost:
		h.createTask(w, r)
	default:
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	if userID == "" {
		sendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	tasks, err := h.TaskRepo.ListByOwner(ctx, userID)
	if err != nil {
		log.Printf("Failed to list tasks for user %s: %v", userID, err)
		sendError(w, "Failed to list tasks", http.StatusInternalServerError)
		return
	}
	sendJSON(w, http.StatusOK, tasks)
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	if userID == "" {
		sendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if !isJSONContentType(r) {
		sendError(w, "Content-Type must be application/json", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	var input struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		Category      string `json:"category"`
		Priority      string `json:"priority"`
		DueDate       string `json:"dueDate"`
		EstimatedTime string `json:"estimatedTime"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// owner comes from the session, never from the body
	task := &models.Task{
		Title:         input.Title,
		Description:   input.Description,
		Category:      input.Category,
		Priority:      input.Priority,
		DueDate:       input.DueDate,
		EstimatedTime: input.EstimatedTime,
		OwnerID:       userID,
	}
	if err := h.TaskRepo.Create(ctx, task); err != nil {
		log.Printf("Failed to create task for user %s: %v", userID, err)
		sendError(w, "Failed to create task", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Location", "/todos/"+task.ID.Hex())
	sendJSON(w, http.StatusCreated, task)
}

/*
routes:
- PUT/PATCH /todos/{id}
- DELETE /todos/{id}
*/
func (h *Handler) HandleTaskByID(w http.ResponseWriter, r *http.Request) {
	taskIDStr := r.URL.Path[len("/todos/"):]
	if taskIDStr == "" {
		sendError(w, "task id is required", http.StatusBadRequest)
		return
	}
	taskID, err := primitive.ObjectIDFromHex(taskIDStr)
	if err != nil {
		sendError(w, "task id must be a valid object id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPut, http.MethodPatch:
		h.updateTaskByID(w, r, taskID)
	case http.MethodDelete:
		h.deleteTaskByID(w, r, taskID)
	default:
		sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) updateTaskByID(w http.ResponseWriter, r *http.Request, taskID primitive.ObjectID) {
	userID := userIDFromContext(r.Context())
	if userID == "" {
		sendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if !isJSONContentType(r) {
		sendError(w, "Content-Type must be application/json", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	var input models.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	task, err := h.TaskRepo.Update(ctx, taskID, userID, &input)
	if errors.Is(err, db.ErrTaskNotFound) {
		sendError(w, "Task not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Failed to update task %s: %v", taskID.Hex(), err)
		sendError(w, "Failed to update task", http.StatusInternalServerError)
		return
	}
	sendJSON(w, http.StatusOK, task)
}

func (h *Handler) deleteTaskByID(w http.ResponseWriter, r *http.Request, taskID primitive.ObjectID) {
	userID := userIDFromContext(r.Context())
	if userID == "" {
		sendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.TaskRepo.Delete(ctx, taskID, userID); err != nil {
		log.Printf("Failed to delete task %s: %v", taskID.Hex(), err)
		sendError(w, "Failed to delete task", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
