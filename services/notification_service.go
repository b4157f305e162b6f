package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trungminh/metrics"
	"trungminh/models"
	"trungminh/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultAdminListLimit = 100
	DefaultUserListLimit  = 50
	MaxListLimit          = 500
)

type DeleteOutcome string

const (
	DeleteOutcomeFullyDeleted     DeleteOutcome = "fully_deleted"
	DeleteOutcomeRecipientRemoved DeleteOutcome = "recipient_removed"
)

// Realtime event types pushed to recipients.
const (
	EventNotificationCreated = "notification.created"
	EventNotificationRead    = "notification.read"
	EventNotificationReadAll = "notification.read_all"
	EventNotificationDeleted = "notification.deleted"
)

type CreateNotificationInput struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Message      string   `json:"message" validate:"required,max=5000"`
	Type         string   `json:"type" validate:"omitempty,oneof=event system chat family media other"`
	Link         string   `json:"link" validate:"omitempty,max=2048"`
	ThumbnailURL string   `json:"thumbnailUrl" validate:"omitempty,max=2048"`
	TargetGroups []string `json:"targetGroups" validate:"required,min=1,dive,required"`
}

func (in *CreateNotificationInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Message = strings.TrimSpace(in.Message)
	in.Type = strings.TrimSpace(in.Type)
	in.Link = strings.TrimSpace(in.Link)
	in.ThumbnailURL = strings.TrimSpace(in.ThumbnailURL)
	for i := range in.TargetGroups {
		in.TargetGroups[i] = strings.TrimSpace(in.TargetGroups[i])
	}
}

// NotificationSummary is a notification without its recipient list.
type NotificationSummary struct {
	ID           primitive.ObjectID      `json:"id"`
	Title        string                  `json:"title"`
	Message      string                  `json:"message"`
	Type         models.NotificationType `json:"type"`
	Link         string                  `json:"link,omitempty"`
	ThumbnailURL string                  `json:"thumbnailUrl,omitempty"`
	TargetGroups []string                `json:"targetGroups"`
	CreatedBy    primitive.ObjectID      `json:"createdBy"`
	CreatedAt    time.Time               `json:"createdAt"`
}

type AdminNotificationView struct {
	NotificationSummary
	RecipientCount int `json:"recipientCount"`
	ReadCount      int `json:"readCount"`
}

type UserNotificationView struct {
	NotificationSummary
	IsRead bool       `json:"isRead"`
	ReadAt *time.Time `json:"readAt,omitempty"`
}

type UserNotificationList struct {
	Notifications []UserNotificationView `json:"notifications"`
	UnreadCount   int64                  `json:"unreadCount"`
}

func summarize(n *models.Notification) NotificationSummary {
	return NotificationSummary{
		ID:           n.ID,
		Title:        n.Title,
		Message:      n.Message,
		Type:         n.Type,
		Link:         n.Link,
		ThumbnailURL: n.ThumbnailURL,
		TargetGroups: n.TargetGroups,
		CreatedBy:    n.CreatedBy,
		CreatedAt:    n.CreatedAt,
	}
}

// ToUserView projects n onto what userID may see: the shared fields plus
// their own read state.
func ToUserView(n *models.Notification, userID primitive.ObjectID) UserNotificationView {
	view := UserNotificationView{NotificationSummary: summarize(n)}
	if state, ok := n.Recipient(userID); ok {
		view.IsRead = state.IsRead
		view.ReadAt = state.ReadAt
	}
	return view
}

func ToAdminView(n *models.Notification) AdminNotificationView {
	return AdminNotificationView{
		NotificationSummary: summarize(n),
		RecipientCount:      len(n.Recipients),
		ReadCount:           n.ReadCount(),
	}
}

// NotificationService owns notification creation, per-recipient read state and deletion.
type NotificationService struct {
	repo      NotificationRepository
	resolver  *RecipientResolver
	publisher EventPublisher
	activity  ActivityLogger
	now       func() time.Time
}

// NewNotificationService wires the service. publisher and activity may be nil.
func NewNotificationService(repo NotificationRepository, resolver *RecipientResolver, publisher EventPublisher, activity ActivityLogger) *NotificationService {
	return &NotificationService{
		repo:      repo,
		resolver:  resolver,
		publisher: publisher,
		activity:  activity,
		now:       time.Now,
	}
}

// timestamp matches the millisecond precision the store keeps.
func (s *NotificationService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// Create validates input, fans the target groups out to recipients and stores
// the notification in one write. Nothing is stored when no recipient resolves.
func (s *NotificationService) Create(ctx context.Context, input CreateNotificationInput, createdBy primitive.ObjectID) (*models.Notification, error) {
	input.normalize()
	if err := utils.ValidateStruct(&input); err != nil {
		metrics.CreateRejected.WithLabelValues("validation").Inc()
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	notificationType, ok := models.ParseNotificationType(input.Type)
	if !ok {
		metrics.CreateRejected.WithLabelValues("validation").Inc()
		return nil, fmt.Errorf("%w: unknown type %q", ErrValidation, input.Type)
	}

	userIDs, err := s.resolver.Resolve(ctx, input.TargetGroups)
	if err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		metrics.CreateRejected.WithLabelValues("no_recipients").Inc()
		return nil, ErrNoRecipients
	}

	recipients := make([]models.RecipientState, 0, len(userIDs))
	for _, id := range userIDs {
		recipients = append(recipients, models.RecipientState{UserID: id})
	}

	notification := &models.Notification{
		Title:        input.Title,
		Message:      input.Message,
		Type:         notificationType,
		Link:         input.Link,
		ThumbnailURL: input.ThumbnailURL,
		TargetGroups: input.TargetGroups,
		Recipients:   recipients,
		CreatedBy:    createdBy,
		CreatedAt:    s.timestamp(),
	}

	if err := s.repo.Insert(ctx, notification); err != nil {
		return nil, fmt.Errorf("%w: insert notification: %w", ErrDependency, err)
	}

	metrics.NotificationsCreated.WithLabelValues(string(notificationType)).Inc()
	metrics.RecipientsFannedOut.Add(float64(len(recipients)))
	utils.Ctx(ctx).Info().
		Str("notification_id", notification.ID.Hex()).
		Str("created_by", createdBy.Hex()).
		Strs("target_groups", input.TargetGroups).
		Int("recipients", len(recipients)).
		Msg("Notification created")

	summary := summarize(notification)
	for _, r := range recipients {
		s.notify(r.UserID, EventNotificationCreated, summary)
	}
	s.logActivity(ctx, createdBy, "notification.create", notification.ID, map[string]interface{}{
		"title":          notification.Title,
		"targetGroups":   notification.TargetGroups,
		"recipientCount": len(recipients),
	})

	return notification, nil
}

// ListForAdmin returns the newest notifications with recipient counts only.
func (s *NotificationService) ListForAdmin(ctx context.Context, limit int) ([]AdminNotificationView, error) {
	notifications, err := s.repo.ListRecent(ctx, clampLimit(limit, DefaultAdminListLimit))
	if err != nil {
		return nil, fmt.Errorf("%w: list notifications: %w", ErrDependency, err)
	}

	views := make([]AdminNotificationView, 0, len(notifications))
	for i := range notifications {
		views = append(views, ToAdminView(&notifications[i]))
	}
	return views, nil
}

// ListForUser returns the newest notifications addressed to userID together
// with how many of all their notifications are still unread.
func (s *NotificationService) ListForUser(ctx context.Context, userID primitive.ObjectID, limit int) (*UserNotificationList, error) {
	notifications, err := s.repo.ListByRecipient(ctx, userID, clampLimit(limit, DefaultUserListLimit))
	if err != nil {
		return nil, fmt.Errorf("%w: list notifications for user: %w", ErrDependency, err)
	}

	unread, err := s.repo.CountUnreadByRecipient(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: count unread notifications: %w", ErrDependency, err)
	}

	views := make([]UserNotificationView, 0, len(notifications))
	for i := range notifications {
		views = append(views, ToUserView(&notifications[i], userID))
	}
	return &UserNotificationList{Notifications: views, UnreadCount: unread}, nil
}

// MarkRead marks userID's entry on the notification as read. Marking an
// already read entry returns the current state and keeps the first readAt.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID primitive.ObjectID) (*models.Notification, error) {
	notification, err := s.findForRecipient(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if state, _ := notification.Recipient(userID); state.IsRead {
		return notification, nil
	}

	changed, err := s.repo.MarkRecipientRead(ctx, id, userID, s.timestamp())
	if err != nil {
		return nil, fmt.Errorf("%w: mark notification read: %w", ErrDependency, err)
	}
	if changed {
		metrics.ReadTransitions.WithLabelValues("single").Inc()
		s.notifyUnread(ctx, userID, EventNotificationRead, map[string]interface{}{"notificationId": id})
	}

	return s.findForRecipient(ctx, id, userID)
}

// MarkAllRead marks every unread entry of userID as read, one document at a
// time. A failing document is logged and skipped. It returns how many entries
// changed state.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int, error) {
	ids, err := s.repo.ListUnreadIDsByRecipient(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: list unread notifications: %w", ErrDependency, err)
	}

	readAt := s.timestamp()
	updated := 0
	for _, id := range ids {
		changed, err := s.repo.MarkRecipientRead(ctx, id, userID, readAt)
		if err != nil {
			metrics.MarkAllReadFailures.Inc()
			utils.Ctx(ctx).Warn().Err(err).
				Str("notification_id", id.Hex()).
				Str("user_id", userID.Hex()).
				Msg("Failed to mark notification read, continuing")
			continue
		}
		if changed {
			updated++
		}
	}

	if updated > 0 {
		metrics.ReadTransitions.WithLabelValues("all").Add(float64(updated))
		s.notifyUnread(ctx, userID, EventNotificationReadAll, map[string]interface{}{"updated": updated})
	}
	return updated, nil
}

// Delete removes the notification for the acting user. Admins and the creator
// delete the whole document; other recipients only remove themselves, and the
// last recipient leaving deletes the document. The acting user must be a
// recipient either way.
func (s *NotificationService) Delete(ctx context.Context, id, actingUserID primitive.ObjectID, actingUserIsAdmin bool) (DeleteOutcome, error) {
	notification, err := s.findForRecipient(ctx, id, actingUserID)
	if err != nil {
		return "", err
	}

	outcome := DeleteOutcomeFullyDeleted
	if actingUserIsAdmin || notification.CreatedBy == actingUserID {
		deleted, err := s.repo.Delete(ctx, id)
		if err != nil {
			return "", fmt.Errorf("%w: delete notification: %w", ErrDependency, err)
		}
		if !deleted {
			return "", ErrNotFound
		}
	} else {
		pulled, err := s.repo.PullRecipient(ctx, id, actingUserID)
		if err != nil {
			return "", fmt.Errorf("%w: remove recipient: %w", ErrDependency, err)
		}
		if pulled {
			outcome = DeleteOutcomeRecipientRemoved
		} else {
			// Last recipient: remove the document rather than leave it empty.
			deleted, err := s.repo.DeleteByRecipient(ctx, id, actingUserID)
			if err != nil {
				return "", fmt.Errorf("%w: delete notification: %w", ErrDependency, err)
			}
			if !deleted {
				return "", ErrNotFound
			}
		}
	}

	metrics.Deletions.WithLabelValues(string(outcome)).Inc()
	utils.Ctx(ctx).Info().
		Str("notification_id", id.Hex()).
		Str("user_id", actingUserID.Hex()).
		Bool("admin", actingUserIsAdmin).
		Str("outcome", string(outcome)).
		Msg("Notification deleted")

	payload := map[string]interface{}{"notificationId": id, "outcome": outcome}
	if outcome == DeleteOutcomeFullyDeleted {
		for _, r := range notification.Recipients {
			s.notify(r.UserID, EventNotificationDeleted, payload)
		}
	} else {
		s.notify(actingUserID, EventNotificationDeleted, payload)
	}
	s.logActivity(ctx, actingUserID, "notification.delete", id, map[string]interface{}{
		"outcome": outcome,
		"admin":   actingUserIsAdmin,
	})

	return outcome, nil
}

func (s *NotificationService) findForRecipient(ctx context.Context, id, userID primitive.ObjectID) (*models.Notification, error) {
	notification, err := s.repo.FindByRecipient(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: find notification: %w", ErrDependency, err)
	}
	if notification == nil {
		return nil, ErrNotFound
	}
	return notification, nil
}

func (s *NotificationService) notify(userID primitive.ObjectID, eventType string, data interface{}) {
	if s.publisher == nil {
		return
	}
	s.publisher.Notify(userID.Hex(), eventType, data)
}

// notifyUnread publishes eventType with the user's fresh unread count.
func (s *NotificationService) notifyUnread(ctx context.Context, userID primitive.ObjectID, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	unread, err := s.repo.CountUnreadByRecipient(ctx, userID)
	if err != nil {
		utils.Ctx(ctx).Warn().Err(err).Str("user_id", userID.Hex()).Msg("Failed to count unread notifications for realtime event")
		return
	}
	data["unreadCount"] = unread
	s.notify(userID, eventType, data)
}

func (s *NotificationService) logActivity(ctx context.Context, userID primitive.ObjectID, action string, id primitive.ObjectID, details map[string]interface{}) {
	if s.activity == nil {
		return
	}
	s.activity.Log(ctx, models.ActivityLog{
		UserID:       userID,
		Action:       action,
		ResourceType: "notification",
		ResourceID:   id.Hex(),
		Details:      details,
		CreatedAt:    s.timestamp(),
	})
}

func clampLimit(limit, defaultLimit int) int64 {
	if limit <= 0 {
		return int64(defaultLimit)
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return int64(limit)
}
