package repositories

import (
	"context"
	"hauswart/internal/database"
	. "hauswart/internal/models"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const (
	TASKS_CACHE_PREFIX = "cleaning_tasks"
	TASKS_CACHE_KEY    = "all"
	TASKS_CACHE_EXPIRY = 12 * time.Hour
)

// TaskRepository is the append-only store of cleaning tasks. There are no
// update or delete operations: a task, once created, is immutable.
type TaskRepository interface {
	Create(ctx context.Context, tx *gorm.DB, task *CleaningTask) error
	GetAll(ctx context.Context, tx *gorm.DB) ([]*CleaningTask, error)
	GetByDate(ctx context.Context, tx *gorm.DB, date string) ([]*CleaningTask, error)
}

type taskRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewTaskRepository(cache database.CacheClient) TaskRepository {
	return &taskRepository{
		cache: cache,
		log:   logger.New("taskRepository"),
	}
}

func (r *taskRepository) Create(ctx context.Context, tx *gorm.DB, task *CleaningTask) error {
	log := r.log.Function("Create")

	if err := gorm.G[CleaningTask](tx).Create(ctx, task); err != nil {
		return log.Err(
			"failed to create cleaning task",
			err,
			"roomNumber", task.RoomNumber,
			"date", task.Date,
		)
	}

	r.clearTasksCache(ctx)

	return nil
}

func (r *taskRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*CleaningTask, error) {
	log := r.log.Function("GetAll")

	var cached []*CleaningTask
	found, err := database.NewCacheBuilder(r.cache, TASKS_CACHE_KEY).
		WithContext(ctx).
		WithHash(TASKS_CACHE_PREFIX).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get tasks from cache", "error", err)
	}

	if found {
		return cached, nil
	}

	tasks, err := gorm.G[*CleaningTask](tx).
		Order("date DESC, created_at DESC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get cleaning tasks", err)
	}

	err = database.NewCacheBuilder(r.cache, TASKS_CACHE_KEY).
		WithContext(ctx).
		WithHash(TASKS_CACHE_PREFIX).
		WithStruct(tasks).
		WithTTL(TASKS_CACHE_EXPIRY).
		Set()
	if err != nil {
		log.Warn("failed to set tasks in cache", "error", err)
	}

	return tasks, nil
}

func (r *taskRepository) GetByDate(
	ctx context.Context,
	tx *gorm.DB,
	date string,
) ([]*CleaningTask, error) {
	log := r.log.Function("GetByDate")

	tasks, err := gorm.G[*CleaningTask](tx).
		Where(CleaningTask{Date: date}).
		Order("created_at DESC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get cleaning tasks by date", err, "date", date)
	}

	return tasks, nil
}

func (r *taskRepository) clearTasksCache(ctx context.Context) {
	log := r.log.Function("clearTasksCache")

	err := database.NewCacheBuilder(r.cache, TASKS_CACHE_KEY).
		WithContext(ctx).
		WithHash(TASKS_CACHE_PREFIX).
		Delete()
	if err != nil {
		log.Warn("failed to clear tasks cache", "error", err)
	}
}
