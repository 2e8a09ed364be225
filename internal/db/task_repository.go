package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ndavydova/taskwise/internal/models"
)

// ErrTaskNotFound is returned when no task matches the id and owner filter.
// A task that exists but belongs to another user is indistinguishable from
// one that does not exist.
var ErrTaskNotFound = errors.New("task not found")

// defines methods for task db operations
type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *models.Task) error
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error)
	Update(ctx context.Context, id primitive.ObjectID, ownerID string, update *models.TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, id primitive.ObjectID, ownerID string) error
}

type TaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(database *mongo.Database) *TaskRepository {
	return &TaskRepository{coll: database.Collection("tasks")}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	res, err := r.coll.InsertOne(ctx, task)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		task.ID = oid
	}
	return nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Task, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return nil, err
	}
	tasks := make([]*models.Task, 0)
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, id primitive.ObjectID, ownerID string, update *models.TaskUpdate) (*models.Task, error) {
	filter := bson.M{"_id": id, "ownerId": ownerID}

	set := bson.M{}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.Priority != nil {
		set["priority"] = *update.Priority
	}
	if update.DueDate != nil {
		set["dueDate"] = *update.DueDate
	}
	if update.EstimatedTime != nil {
		set["estimatedTime"] = *update.EstimatedTime
	}

	task := &models.Task{}
	var err error
	if len(set) == 0 {
		// nothing to write, just return the matching record
		err = r.coll.FindOne(ctx, filter).Decode(task)
	} else {
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		err = r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(task)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id primitive.ObjectID, ownerID string) error {
	// deleting a missing or non-owned id is a no-op
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "ownerId": ownerID})
	return err
}
