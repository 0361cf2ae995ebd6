package taskController

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hauswart/config"
	. "hauswart/internal/models"
	"hauswart/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFeed struct {
	mu        sync.Mutex
	appended  []*CleaningTask
	appendErr error
	snapshot  []*CleaningTask
}

func (s *stubFeed) Append(ctx context.Context, task *CleaningTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended = append(s.appended, task)
	return nil
}

func (s *stubFeed) Snapshot(ctx context.Context) ([]*CleaningTask, error) {
	return s.snapshot, nil
}

func (s *stubFeed) appendCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.appended)
}

type stubNotifier struct {
	mu      sync.Mutex
	enabled bool
	sendErr error
	sent    []services.Notification
}

func (s *stubNotifier) Enabled() bool { return s.enabled }

func (s *stubNotifier) Send(ctx context.Context, notification services.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, notification)
	return nil
}

func (s *stubNotifier) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type stubNormalizer struct {
	result string
	err    error
	calls  int
}

func (s *stubNormalizer) Normalize(raw []byte) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.result, nil
}

type fixture struct {
	controller TaskControllerInterface
	feed       *stubFeed
	notifier   *stubNotifier
	images     *stubNormalizer
	now        *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	now := time.Date(2026, 8, 31, 9, 15, 0, 0, time.UTC)
	feed := &stubFeed{}
	notifier := &stubNotifier{enabled: true}
	images := &stubNormalizer{result: "data:image/jpeg;base64,abc"}

	f := &fixture{feed: feed, notifier: notifier, images: images, now: &now}
	f.controller = New(
		feed,
		services.NewDispatchLock(services.NOTIFICATION_COOLDOWN, func() time.Time { return *f.now }),
		images,
		notifier,
		services.NewExportService(),
		config.Config{},
		func() time.Time { return *f.now },
	)
	return f
}

func validRequest() *SubmitRequest {
	return &SubmitRequest{
		ClientID:       "form-1",
		RoomNumber:     "101",
		Date:           "2026-08-31",
		VisualCleaning: true,
	}
}

func TestSubmit_Success(t *testing.T) {
	f := newFixture(t)

	response, err := f.controller.Submit(context.Background(), "Maria", validRequest())
	require.NoError(t, err)

	require.Equal(t, 1, f.feed.appendCount())
	task := f.feed.appended[0]
	assert.Equal(t, "101", task.RoomNumber)
	assert.Equal(t, "2026-08-31", task.Date)
	assert.Equal(t, "09:15", task.Time)
	assert.Equal(t, "Maria", task.StaffName)
	assert.True(t, task.VisualCleaning)

	assert.True(t, response.ResetFields)
	assert.False(t, response.NotificationSent, "no notes and no photo means no notification")
	assert.Equal(t, 0, f.notifier.sentCount())
}

func TestSubmit_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		staff   string
		mutate  func(*SubmitRequest)
		wantErr error
	}{
		{
			name:    "missing staff name",
			staff:   "  ",
			mutate:  func(r *SubmitRequest) {},
			wantErr: ErrValidation,
		},
		{
			name:    "missing room number",
			staff:   "Maria",
			mutate:  func(r *SubmitRequest) { r.RoomNumber = "" },
			wantErr: ErrValidation,
		},
		{
			name:    "malformed date",
			staff:   "Maria",
			mutate:  func(r *SubmitRequest) { r.Date = "31.08.2026" },
			wantErr: ErrValidation,
		},
		{
			name:  "no cleaning kind and no photo",
			staff: "Maria",
			mutate: func(r *SubmitRequest) {
				r.VisualCleaning = false
			},
			wantErr: ErrValidation,
		},
		{
			name:  "notes too long",
			staff: "Maria",
			mutate: func(r *SubmitRequest) {
				r.Notes = string(make([]byte, MaxNotesLength+1))
			},
			wantErr: ErrValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			request := validRequest()
			tc.mutate(request)

			_, err := f.controller.Submit(context.Background(), tc.staff, request)
			assert.ErrorIs(t, err, tc.wantErr)

			// Validation failures never touch the store or the notifier.
			assert.Equal(t, 0, f.feed.appendCount())
			assert.Equal(t, 0, f.notifier.sentCount())
			assert.Equal(t, 0, f.images.calls)
		})
	}
}

func TestSubmit_PhotoWithoutCleaningKindIsValid(t *testing.T) {
	f := newFixture(t)

	request := validRequest()
	request.VisualCleaning = false
	request.Photo = []byte("fake photo bytes")

	response, err := f.controller.Submit(context.Background(), "Maria", request)
	require.NoError(t, err)

	assert.Equal(t, 1, f.feed.appendCount())
	assert.True(t, response.NotificationSent)
	require.Equal(t, 1, f.notifier.sentCount())
	assert.Contains(t, f.notifier.sent[0].ImageHTML, "data:image/jpeg;base64,abc")
}

func TestSubmit_NotesTriggerNotification(t *testing.T) {
	f := newFixture(t)

	request := validRequest()
	request.Notes = "Heizung funktioniert nicht"

	response, err := f.controller.Submit(context.Background(), "Maria", request)
	require.NoError(t, err)

	assert.True(t, response.NotificationSent)
	require.Equal(t, 1, f.notifier.sentCount())
	notification := f.notifier.sent[0]
	assert.Equal(t, "Heizung funktioniert nicht", notification.Notes)
	assert.Equal(t, []string{"Sichtreinigung"}, notification.CleaningKinds)
	assert.Empty(t, notification.ImageHTML)
}

func TestSubmit_NotificationFailureStillSaves(t *testing.T) {
	f := newFixture(t)
	f.notifier.sendErr = errors.New("smtp down")

	request := validRequest()
	request.Notes = "Wasserhahn tropft"

	response, err := f.controller.Submit(context.Background(), "Maria", request)
	require.NoError(t, err)

	assert.Equal(t, 1, f.feed.appendCount())
	assert.False(t, response.NotificationSent)
}

func TestSubmit_PhotoDecodeFailureDegrades(t *testing.T) {
	f := newFixture(t)
	f.images.err = services.ErrDecode

	request := validRequest()
	request.Notes = "Tür klemmt"
	request.Photo = []byte("broken")

	response, err := f.controller.Submit(context.Background(), "Maria", request)
	require.NoError(t, err)

	assert.Equal(t, 1, f.feed.appendCount())
	assert.True(t, response.NotificationSent, "notification still goes out, just without the photo")
	require.Equal(t, 1, f.notifier.sentCount())
	assert.Empty(t, f.notifier.sent[0].ImageHTML)
}

func TestSubmit_DispatchLockSuppressesSecondNotification(t *testing.T) {
	f := newFixture(t)

	first := validRequest()
	first.Notes = "Defekte Beleuchtung"
	_, err := f.controller.Submit(context.Background(), "Maria", first)
	require.NoError(t, err)

	// A different form submits within the cooldown window.
	second := validRequest()
	second.ClientID = "form-2"
	second.RoomNumber = "102"
	second.Notes = "Verstopfter Abfluss"

	*f.now = f.now.Add(3 * time.Second)
	response, err := f.controller.Submit(context.Background(), "Maria", second)
	require.NoError(t, err)

	// Both tasks saved, only the first produced a notification.
	assert.Equal(t, 2, f.feed.appendCount())
	assert.Equal(t, 1, f.notifier.sentCount())
	assert.False(t, response.NotificationSent)
}

func TestSubmit_CooldownBlocksSameForm(t *testing.T) {
	f := newFixture(t)

	_, err := f.controller.Submit(context.Background(), "Maria", validRequest())
	require.NoError(t, err)

	*f.now = f.now.Add(2 * time.Second)
	_, err = f.controller.Submit(context.Background(), "Maria", validRequest())
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, 1, f.feed.appendCount())

	// After the cooldown the same form may submit again.
	*f.now = f.now.Add(SubmitCooldown)
	_, err = f.controller.Submit(context.Background(), "Maria", validRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, f.feed.appendCount())
}

func TestSubmit_DifferentFormsNotBlocked(t *testing.T) {
	f := newFixture(t)

	_, err := f.controller.Submit(context.Background(), "Maria", validRequest())
	require.NoError(t, err)

	second := validRequest()
	second.ClientID = "form-2"
	second.RoomNumber = "102"

	_, err = f.controller.Submit(context.Background(), "Josef", second)
	require.NoError(t, err)
	assert.Equal(t, 2, f.feed.appendCount())
}

func TestSubmit_StoreFailureClearsGuard(t *testing.T) {
	f := newFixture(t)
	f.feed.appendErr = errors.New("connection refused")

	_, err := f.controller.Submit(context.Background(), "Maria", validRequest())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "Fehler beim Speichern")

	// An immediate retry is allowed: the failure cleared both the in-flight
	// flag and the cooldown.
	f.feed.appendErr = nil
	_, err = f.controller.Submit(context.Background(), "Maria", validRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, f.feed.appendCount())
}

func TestSubmit_GuardFallsBackToRoomNumber(t *testing.T) {
	f := newFixture(t)

	request := validRequest()
	request.ClientID = ""

	_, err := f.controller.Submit(context.Background(), "Maria", request)
	require.NoError(t, err)

	again := validRequest()
	again.ClientID = ""
	*f.now = f.now.Add(time.Second)

	_, err = f.controller.Submit(context.Background(), "Maria", again)
	assert.ErrorIs(t, err, ErrBusy)
}

func TestSubmit_NotifierDisabledSkipsDispatch(t *testing.T) {
	f := newFixture(t)
	f.notifier.enabled = false

	request := validRequest()
	request.Notes = "Rolladen defekt"

	response, err := f.controller.Submit(context.Background(), "Maria", request)
	require.NoError(t, err)

	assert.Equal(t, 1, f.feed.appendCount())
	assert.False(t, response.NotificationSent)
	assert.Equal(t, 0, f.images.calls)
}

func TestTodayStats(t *testing.T) {
	f := newFixture(t)
	f.feed.snapshot = []*CleaningTask{
		{RoomNumber: "101", Date: "2026-08-31"},
		{RoomNumber: "102", Date: "2026-08-31"},
		{RoomNumber: "201", Date: "2026-08-31"},
		{RoomNumber: "301", Date: "2026-08-30"},
		{RoomNumber: "999", Date: "2026-08-31"},
	}

	stats, err := f.controller.TodayStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2026-08-31", stats.Date)
	assert.Equal(t, 3, stats.ByFloor["eg"]+stats.ByFloor["1og"])
	assert.Equal(t, 0, stats.ByFloor["2og"])
	assert.Equal(t, 2, stats.ByFloor["eg"])
	assert.Equal(t, 4, stats.Total, "unmapped rooms still count toward the total")
}

func TestFloorCompletion(t *testing.T) {
	f := newFixture(t)
	f.feed.snapshot = []*CleaningTask{
		{RoomNumber: "101", Date: "2026-08-31"},
		{RoomNumber: "102", Date: "2026-08-31"},
	}

	view, err := f.controller.FloorCompletion(context.Background(), "eg", "2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, []string{"101", "102"}, view.CompletedRooms)
	assert.False(t, view.Complete)

	_, err = f.controller.FloorCompletion(context.Background(), "keller", "2026-08-31")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.controller.FloorCompletion(context.Background(), "eg", "31.08.2026")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFloorCompletion_DefaultsToToday(t *testing.T) {
	f := newFixture(t)
	f.feed.snapshot = []*CleaningTask{
		{RoomNumber: "101", Date: "2026-08-31"},
	}

	view, err := f.controller.FloorCompletion(context.Background(), "eg", "")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31", view.Date)
	assert.Equal(t, []string{"101"}, view.CompletedRooms)
}

func TestExportCSV_Filename(t *testing.T) {
	f := newFixture(t)

	csv, filename, err := f.controller.ExportCSV(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "reinigungsverlauf-2026-08-31.csv", filename)
	assert.NotEmpty(t, csv)
}
