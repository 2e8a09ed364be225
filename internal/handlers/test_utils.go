package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/ndavydova/taskwise/internal/db"
	"github.com/ndavydova/taskwise/internal/models"
)

type MockUserRepository struct {
	users     map[string]*models.User
	createErr error
	getErr    error
	mutex     sync.Mutex
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*models.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.createErr != nil {
		return m.createErr
	}
	m.users[user.Email] = user
	return nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.getErr != nil {
		return nil, m.getErr
	}
	user, exists := m.users[email]
	if !exists {
		return nil, db.ErrUserNotFound
	}
	return user, nil
}

func SetupMockUser(email, password string) *MockUserRepository {
	repo := NewMockUserRepository()
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	repo.users[email] = &models.User{
		ID:           uuid.NewString(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	return repo
}

// MockTaskRepository keeps tasks in insertion order, matching what the
// store returns for an unsorted find.
type MockTaskRepository struct {
	tasks     []*models.Task
	createErr error
	listErr   error
	mutex     sync.Mutex
}

func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{tasks: make([]*models.Task, 0)}
}

func (m *MockTaskRepository) Create(ctx context.Context, task *models.Task) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.createErr != nil {
		return m.createErr
	}
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	stored := *task
	m.tasks = append(m.tasks, &stored)
	return nil
}

func (m *MockTaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}
	tasks := make([]*models.Task, 0)
	for _, task := range m.tasks {
		if task.OwnerID == ownerID {
			copied := *task
			tasks = append(tasks, &copied)
		}
	}
	return tasks, nil
}

func (m *MockTaskRepository) Update(ctx context.Context, id primitive.ObjectID, ownerID string, update *models.TaskUpdate) (*models.Task, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, task := range m.tasks {
		if task.ID != id || task.OwnerID != ownerID {
			continue
		}
		if update.Title != nil {
			task.Title = *update.Title
		}
		if update.Description != nil {
			task.Description = *update.Description
		}
		if update.Category != nil {
			task.Category = *update.Category
		}
		if update.Priority != nil {
			task.Priority = *update.Priority
		}
		if update.DueDate != nil {
			task.DueDate = *update.DueDate
		}
		if update.EstimatedTime != nil {
			task.EstimatedTime = *update.EstimatedTime
		}
		copied := *task
		return &copied, nil
	}
	return nil, db.ErrTaskNotFound
}

func (m *MockTaskRepository) Delete(ctx context.Context, id primitive.ObjectID, ownerID string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for i, task := range m.tasks {
		if task.ID == id && task.OwnerID == ownerID {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	// missing or non-owned ids are a no-op
	return nil
}
