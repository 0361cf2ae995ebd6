package services

import (
	"context"
	"hauswart/internal/database"
	"hauswart/internal/events"
	. "hauswart/internal/models"
	"hauswart/internal/repositories"
	"sync"

	logger "github.com/Bparsons0904/goLogger"
)

// SnapshotListener receives the full current task sequence, ordered by date
// descending, every time the shared collection changes. Listeners may be
// invoked spuriously with an unchanged snapshot and must treat delivery as
// idempotent.
type SnapshotListener func(tasks []*CleaningTask)

// TaskFeed is the live client of the shared task store. It owns the one
// write path (Append) and fans full ordered snapshots out to subscribers
// whenever a change event arrives on the bus, including changes made by
// other instances. A just-appended record is not guaranteed to appear in
// the very next snapshot; callers treat their own Append success as the
// source of truth for "saved".
type TaskFeed struct {
	db       database.DB
	repo     repositories.TaskRepository
	eventBus *events.EventBus
	log      logger.Logger

	mu        sync.Mutex
	nextID    int
	listeners map[int]SnapshotListener
}

func NewTaskFeed(
	db database.DB,
	repo repositories.TaskRepository,
	eventBus *events.EventBus,
) (*TaskFeed, error) {
	feed := &TaskFeed{
		db:        db,
		repo:      repo,
		eventBus:  eventBus,
		log:       logger.New("taskFeed"),
		listeners: make(map[int]SnapshotListener),
	}

	if err := eventBus.Subscribe(events.TASKS_CHANNEL, feed.handleTaskEvent); err != nil {
		return nil, feed.log.Err("failed to subscribe to task events", err)
	}

	return feed, nil
}

// Subscribe registers a snapshot listener and returns its unsubscribe
// handle. The handle releases the registration exactly once; further calls
// are no-ops.
func (f *TaskFeed) Subscribe(listener SnapshotListener) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = listener
	f.mu.Unlock()

	f.log.Function("Subscribe").Info("Snapshot listener registered", "listenerID", id)

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.listeners, id)
			f.mu.Unlock()
			f.log.Function("Subscribe").Info("Snapshot listener released", "listenerID", id)
		})
	}
}

// Append adds a new record to the shared collection, assigning its id at
// write time, and publishes the change event. The caller must not assume
// the record was persisted when an error is returned.
func (f *TaskFeed) Append(ctx context.Context, task *CleaningTask) error {
	log := f.log.Function("Append")

	if err := f.repo.Create(ctx, f.db.SQL, task); err != nil {
		return log.Err("failed to append task", err, "roomNumber", task.RoomNumber)
	}

	err := f.eventBus.Publish(events.TASKS_CHANNEL, events.Event{
		Type: events.TASK_CREATED,
		Data: map[string]any{
			"taskId":     task.ID.String(),
			"roomNumber": task.RoomNumber,
			"date":       task.Date,
		},
	})
	if err != nil {
		// The record is saved; only cross-instance fan-out is degraded.
		log.Er("failed to publish task event", err, "taskId", task.ID)
		f.fanOut(ctx)
	}

	return nil
}

// Snapshot returns the full current task sequence ordered by date
// descending.
func (f *TaskFeed) Snapshot(ctx context.Context) ([]*CleaningTask, error) {
	return f.repo.GetAll(ctx, f.db.SQL)
}

func (f *TaskFeed) handleTaskEvent(event events.Event) error {
	f.fanOut(context.Background())
	return nil
}

func (f *TaskFeed) fanOut(ctx context.Context) {
	log := f.log.Function("fanOut")

	tasks, err := f.repo.GetAll(ctx, f.db.SQL)
	if err != nil {
		log.Er("failed to fetch snapshot for fan-out", err)
		return
	}

	f.mu.Lock()
	listeners := make([]SnapshotListener, 0, len(f.listeners))
	for _, listener := range f.listeners {
		listeners = append(listeners, listener)
	}
	f.mu.Unlock()

	for _, listener := range listeners {
		listener(tasks)
	}
}
