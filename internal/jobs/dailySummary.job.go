package jobs

import (
	"context"
	"hauswart/internal/database"
	"hauswart/internal/events"
	"hauswart/internal/models"
	"hauswart/internal/repositories"
	"hauswart/internal/services"
	"time"

	logger "github.com/Bparsons0904/goLogger"
)

// DailySummaryJob publishes a per-floor completion report at the end of the
// working day so supervisors can see which floors were fully serviced.
type DailySummaryJob struct {
	db       database.DB
	taskRepo repositories.TaskRepository
	eventBus *events.EventBus
	schedule services.Schedule
	log      logger.Logger
}

func NewDailySummaryJob(
	db database.DB,
	taskRepo repositories.TaskRepository,
	eventBus *events.EventBus,
	schedule services.Schedule,
) *DailySummaryJob {
	return &DailySummaryJob{
		db:       db,
		taskRepo: taskRepo,
		eventBus: eventBus,
		schedule: schedule,
		log:      logger.New("dailySummaryJob"),
	}
}

func (j *DailySummaryJob) Name() string {
	return "daily-completion-summary"
}

func (j *DailySummaryJob) Schedule() services.Schedule {
	return j.schedule
}

func (j *DailySummaryJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	today := time.Now().UTC().Format("2006-01-02")

	tasks, err := j.taskRepo.GetByDate(ctx, j.db.SQL, today)
	if err != nil {
		return log.Err("failed to load today's tasks", err, "date", today)
	}

	floorData := make([]map[string]any, 0, len(models.Floors()))
	for _, floor := range models.Floors() {
		view := services.DeriveCompletion(tasks, floor, today)
		floorData = append(floorData, map[string]any{
			"floorId":        view.FloorID,
			"floorName":      view.FloorName,
			"completedRooms": len(view.CompletedRooms),
			"totalRooms":     view.TotalRooms,
			"complete":       view.Complete,
		})

		log.Info(
			"Floor completion",
			"date", today,
			"floor", view.FloorID,
			"completedRooms", len(view.CompletedRooms),
			"totalRooms", view.TotalRooms,
			"complete", view.Complete,
		)
	}

	err = j.eventBus.Publish(events.SUMMARY_CHANNEL, events.Event{
		Type: events.SUMMARY_REPORT,
		Data: map[string]any{
			"date":   today,
			"floors": floorData,
		},
	})
	if err != nil {
		return log.Err("failed to publish completion summary", err, "date", today)
	}

	return nil
}
