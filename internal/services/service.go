package services

import (
	"hauswart/config"
	"hauswart/internal/database"
	"hauswart/internal/events"
	"hauswart/internal/repositories"
	"time"
)

type Service struct {
	Feed         *TaskFeed
	DispatchLock *DispatchLock
	Image        *ImageService
	Notification *NotificationService
	Export       *ExportService
	Scheduler    *SchedulerService
}

func New(
	db database.DB,
	config config.Config,
	eventBus *events.EventBus,
	repos repositories.Repository,
) (Service, error) {
	feed, err := NewTaskFeed(db, repos.Task, eventBus)
	if err != nil {
		return Service{}, err
	}

	return Service{
		Feed:         feed,
		DispatchLock: NewDispatchLock(NOTIFICATION_COOLDOWN, time.Now),
		Image:        NewImageService(),
		Notification: NewNotificationService(config),
		Export:       NewExportService(),
		Scheduler:    NewSchedulerService(),
	}, nil
}
