package taskController

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"hauswart/config"
	. "hauswart/internal/models"
	"hauswart/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	MaxNotesLength = 2000

	// SubmitCooldown blocks repeat submissions from the same form instance
	// after a successful save. Local to this controller, distinct from the
	// notification dispatch lock.
	SubmitCooldown = 10 * time.Second

	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrBusy             = errors.New("busy")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// TaskAppender is the slice of the task feed the pipeline writes through.
type TaskAppender interface {
	Append(ctx context.Context, task *CleaningTask) error
	Snapshot(ctx context.Context) ([]*CleaningTask, error)
}

// NotificationSender delivers the supervisor notification.
type NotificationSender interface {
	Enabled() bool
	Send(ctx context.Context, notification services.Notification) error
}

// PhotoNormalizer compresses a captured photo for email embedding.
type PhotoNormalizer interface {
	Normalize(raw []byte) (string, error)
}

type SubmitRequest struct {
	// ClientID identifies the submitting form instance for the re-entrancy
	// guard. Clients that don't send one are guarded per room instead.
	ClientID                string `json:"clientId,omitempty"`
	RoomNumber              string `json:"roomNumber"`
	Date                    string `json:"date"`
	VisualCleaning          bool   `json:"visualCleaning"`
	MaintenanceCleaning     bool   `json:"maintenanceCleaning"`
	BasicRoomCleaning       bool   `json:"basicRoomCleaning"`
	BedCleaning             bool   `json:"bedCleaning"`
	WindowsCurtainsCleaning bool   `json:"windowsCurtainsCleaning"`
	Notes                   string `json:"notes,omitempty"`
	Photo                   []byte `json:"photo,omitempty"`
}

type SubmitResponse struct {
	Task *CleaningTask `json:"task"`

	// NotificationSent reports whether a supervisor notification went out.
	// It is informational only; a false value never means the save failed.
	NotificationSent bool `json:"notificationSent"`

	// ResetFields tells the client to clear the transient form fields
	// (cleaning kinds, notes, photo) while keeping room number and staff
	// name for the next entry.
	ResetFields bool `json:"resetFields"`
}

type TodayStats struct {
	Date    string          `json:"date"`
	Total   int             `json:"total"`
	ByFloor map[string]int  `json:"byFloor"`
	Tasks   []*CleaningTask `json:"tasks"`
}

type TaskControllerInterface interface {
	Submit(ctx context.Context, staffName string, request *SubmitRequest) (*SubmitResponse, error)
	ListTasks(ctx context.Context) ([]*CleaningTask, error)
	TodayStats(ctx context.Context) (*TodayStats, error)
	FloorCompletion(ctx context.Context, floorID, date string) (*services.FloorCompletion, error)
	ExportCSV(ctx context.Context) ([]byte, string, error)
}

// TaskController orchestrates the submission pipeline: validate, guard
// against double-taps, best-effort notification behind the dispatch lock,
// then persist. Only validation and persistence failures reach the user;
// notification failures are logged and swallowed.
type TaskController struct {
	feed     TaskAppender
	lock     *services.DispatchLock
	images   PhotoNormalizer
	notifier NotificationSender
	export   *services.ExportService
	config   config.Config
	clock    func() time.Time
	log      logger.Logger

	mu        sync.Mutex
	inFlight  map[string]bool
	lastSaved map[string]time.Time
}

func New(
	feed TaskAppender,
	lock *services.DispatchLock,
	images PhotoNormalizer,
	notifier NotificationSender,
	export *services.ExportService,
	config config.Config,
	clock func() time.Time,
) TaskControllerInterface {
	if clock == nil {
		clock = time.Now
	}

	return &TaskController{
		feed:      feed,
		lock:      lock,
		images:    images,
		notifier:  notifier,
		export:    export,
		config:    config,
		clock:     clock,
		log:       logger.New("taskController"),
		inFlight:  make(map[string]bool),
		lastSaved: make(map[string]time.Time),
	}
}

func (c *TaskController) Submit(
	ctx context.Context,
	staffName string,
	request *SubmitRequest,
) (*SubmitResponse, error) {
	log := c.log.Function("Submit")

	task, err := c.buildTask(staffName, request)
	if err != nil {
		return nil, err
	}

	formID := request.ClientID
	if formID == "" {
		formID = request.RoomNumber
	}

	if err := c.beginSubmission(formID); err != nil {
		return nil, err
	}

	// Notification first, persistence second. The stages are independent:
	// the notification outcome never gates the save, and the save is the
	// only stage whose failure the user sees.
	notified := false
	if strings.TrimSpace(task.Notes) != "" || len(request.Photo) > 0 {
		notified = c.notify(ctx, task, request.Photo)
	}

	if err := c.feed.Append(ctx, task); err != nil {
		// Clear the guard completely so the user can retry right away.
		c.abortSubmission(formID)
		return nil, log.ErrorWithType(
			ErrStoreUnavailable,
			"Fehler beim Speichern. Bitte versuchen Sie es erneut.",
			"roomNumber", task.RoomNumber,
		)
	}

	c.finishSubmission(formID)

	log.Info(
		"Task submitted",
		"roomNumber", task.RoomNumber,
		"date", task.Date,
		"staffName", staffName,
		"notified", notified,
	)

	return &SubmitResponse{
		Task:             task,
		NotificationSent: notified,
		ResetFields:      true,
	}, nil
}

func (c *TaskController) buildTask(staffName string, request *SubmitRequest) (*CleaningTask, error) {
	log := c.log.Function("buildTask")

	if strings.TrimSpace(staffName) == "" {
		return nil, log.ErrorWithType(ErrValidation, "staff name is required")
	}

	if strings.TrimSpace(request.RoomNumber) == "" {
		return nil, log.ErrorWithType(ErrValidation, "room number is required")
	}

	if _, err := time.Parse(dateLayout, request.Date); err != nil {
		return nil, log.ErrorWithType(
			ErrValidation,
			"invalid date format, expected YYYY-MM-DD",
			"date", request.Date,
		)
	}

	if len(request.Notes) > MaxNotesLength {
		return nil, log.ErrorWithType(
			ErrValidation,
			"notes exceed maximum length",
			"length", len(request.Notes),
			"max", MaxNotesLength,
		)
	}

	task := &CleaningTask{
		Date:                    request.Date,
		Time:                    c.clock().Format(timeLayout),
		RoomNumber:              request.RoomNumber,
		VisualCleaning:          request.VisualCleaning,
		MaintenanceCleaning:     request.MaintenanceCleaning,
		BasicRoomCleaning:       request.BasicRoomCleaning,
		BedCleaning:             request.BedCleaning,
		WindowsCurtainsCleaning: request.WindowsCurtainsCleaning,
		Notes:                   request.Notes,
		StaffName:               staffName,
	}

	if !task.HasCleaningKind() && len(request.Photo) == 0 {
		return nil, log.ErrorWithType(
			ErrValidation,
			"Bitte wählen Sie mindestens eine Reinigungsart aus oder laden Sie ein Foto hoch",
			"roomNumber", request.RoomNumber,
		)
	}

	return task, nil
}

// notify attempts the best-effort supervisor notification. Every exit path
// that acquired the dispatch lock also releases it; a denied acquisition
// skips the notification silently.
func (c *TaskController) notify(ctx context.Context, task *CleaningTask, photo []byte) bool {
	log := c.log.Function("notify")

	if !c.notifier.Enabled() {
		return false
	}

	if !c.lock.TryAcquire() {
		log.Info("Notification suppressed by dispatch lock", "roomNumber", task.RoomNumber)
		return false
	}
	defer c.lock.Release()

	imageHTML := ""
	if len(photo) > 0 {
		dataURL, err := c.images.Normalize(photo)
		if err != nil {
			// Degrade gracefully: the notification goes out without the
			// photo and the save is unaffected.
			log.Er("failed to process photo, notifying without image", err, "roomNumber", task.RoomNumber)
		} else {
			imageHTML = services.ImageHTML(dataURL)
		}
	}

	notification := services.Notification{
		RoomNumber:    task.RoomNumber,
		CleaningKinds: task.CleaningKinds(),
		Notes:         task.Notes,
		ImageHTML:     imageHTML,
		StaffName:     task.StaffName,
		SentAt:        c.clock(),
	}

	if err := c.notifier.Send(ctx, notification); err != nil {
		log.Er("failed to send notification", err, "roomNumber", task.RoomNumber)
		return false
	}

	return true
}

func (c *TaskController) beginSubmission(formID string) error {
	log := c.log.Function("beginSubmission")

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight[formID] {
		return log.ErrorWithType(ErrBusy, "submission already in progress", "formID", formID)
	}

	if last, ok := c.lastSaved[formID]; ok && c.clock().Sub(last) < SubmitCooldown {
		return log.ErrorWithType(ErrBusy, "Bitte warten", "formID", formID)
	}

	c.inFlight[formID] = true
	return nil
}

func (c *TaskController) finishSubmission(formID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.inFlight, formID)
	c.lastSaved[formID] = c.clock()
}

func (c *TaskController) abortSubmission(formID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.inFlight, formID)
	delete(c.lastSaved, formID)
}

func (c *TaskController) ListTasks(ctx context.Context) ([]*CleaningTask, error) {
	return c.feed.Snapshot(ctx)
}

func (c *TaskController) TodayStats(ctx context.Context) (*TodayStats, error) {
	log := c.log.Function("TodayStats")

	tasks, err := c.feed.Snapshot(ctx)
	if err != nil {
		return nil, log.ErrorWithType(ErrStoreUnavailable, "failed to load tasks", "error", err)
	}

	today := c.clock().Format(dateLayout)

	stats := &TodayStats{
		Date:    today,
		ByFloor: make(map[string]int),
		Tasks:   make([]*CleaningTask, 0),
	}

	for _, floor := range Floors() {
		stats.ByFloor[floor.ID] = 0
	}

	for _, task := range tasks {
		if task.Date != today {
			continue
		}

		stats.Total++
		stats.Tasks = append(stats.Tasks, task)

		for _, floor := range Floors() {
			if strings.HasPrefix(task.RoomNumber, floor.Prefix) {
				stats.ByFloor[floor.ID]++
				break
			}
		}
	}

	return stats, nil
}

func (c *TaskController) FloorCompletion(
	ctx context.Context,
	floorID, date string,
) (*services.FloorCompletion, error) {
	log := c.log.Function("FloorCompletion")

	floor, ok := FloorByID(floorID)
	if !ok {
		return nil, log.ErrorWithType(ErrValidation, "unknown floor", "floorID", floorID)
	}

	if date == "" {
		date = c.clock().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, log.ErrorWithType(
			ErrValidation,
			"invalid date format, expected YYYY-MM-DD",
			"date", date,
		)
	}

	tasks, err := c.feed.Snapshot(ctx)
	if err != nil {
		return nil, log.ErrorWithType(ErrStoreUnavailable, "failed to load tasks", "error", err)
	}

	view := services.DeriveCompletion(tasks, floor, date)
	return &view, nil
}

func (c *TaskController) ExportCSV(ctx context.Context) ([]byte, string, error) {
	log := c.log.Function("ExportCSV")

	tasks, err := c.feed.Snapshot(ctx)
	if err != nil {
		return nil, "", log.ErrorWithType(ErrStoreUnavailable, "failed to load tasks", "error", err)
	}

	filename := "reinigungsverlauf-" + c.clock().Format(dateLayout) + ".csv"
	return c.export.TasksCSV(tasks), filename, nil
}
