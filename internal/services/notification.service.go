package services

import (
	"context"
	"hauswart/config"
	"strings"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/go-resty/resty/v2"
)

const (
	EMAILJS_ENDPOINT = "https://api.emailjs.com/api/v1.0/email/send"
	NOTIFY_TIMEOUT   = 15 * time.Second
)

// Notification is the payload handed to the supervisor notification
// service: which room, which cleaning kinds, the reported notes, an
// optional embedded image and who submitted it.
type Notification struct {
	RoomNumber    string
	CleaningKinds []string
	Notes         string
	ImageHTML     string
	StaffName     string
	SentAt        time.Time
}

type emailRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams map[string]any `json:"template_params"`
}

// NotificationService delivers notifications through the EmailJS REST API.
// Delivery is best-effort: callers log failures and move on, the task save
// never depends on it. No automatic retries are performed.
type NotificationService struct {
	client   *resty.Client
	config   config.Config
	endpoint string
	log      logger.Logger
}

func NewNotificationService(config config.Config) *NotificationService {
	client := resty.New().
		SetTimeout(NOTIFY_TIMEOUT).
		SetHeader("Content-Type", "application/json")

	return &NotificationService{
		client:   client,
		config:   config,
		endpoint: EMAILJS_ENDPOINT,
		log:      logger.New("notificationService"),
	}
}

// Enabled reports whether a notification service is configured. When it is
// not, the submission pipeline skips the dispatch stage entirely.
func (s *NotificationService) Enabled() bool {
	return s.config.NotifyServiceID != ""
}

func (s *NotificationService) Send(ctx context.Context, notification Notification) error {
	log := s.log.Function("Send")

	notes := notification.Notes
	if strings.TrimSpace(notes) == "" {
		notes = "Keine Notizen"
	}

	request := emailRequest{
		ServiceID:  s.config.NotifyServiceID,
		TemplateID: s.config.NotifyTemplateID,
		UserID:     s.config.NotifyPublicKey,
		TemplateParams: map[string]any{
			"to_name":        s.config.NotifyRecipientName,
			"to_email":       s.config.NotifyRecipientEmail,
			"from_name":      notification.StaffName,
			"room_number":    notification.RoomNumber,
			"cleaning_types": strings.Join(notification.CleaningKinds, ", "),
			"notes":          notes,
			"image_html":     notification.ImageHTML,
			"date_time":      notification.SentAt.Format("02.01.2006, 15:04:05"),
		},
	}

	response, err := s.client.R().
		SetContext(ctx).
		SetBody(request).
		Post(s.endpoint)
	if err != nil {
		return log.Err("failed to send notification", err, "roomNumber", notification.RoomNumber)
	}

	if response.IsError() {
		return log.Error(
			"notification service rejected the request",
			"status", response.StatusCode(),
			"body", response.String(),
			"roomNumber", notification.RoomNumber,
		)
	}

	log.Info(
		"Notification sent",
		"roomNumber", notification.RoomNumber,
		"hasImage", notification.ImageHTML != "",
	)

	return nil
}
