package services

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/meinhoongagan/bizmatch/broker"
	"github.com/meinhoongagan/bizmatch/logger"
	"github.com/meinhoongagan/bizmatch/models"
	"github.com/meinhoongagan/bizmatch/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const deliveryTimeout = 15 * time.Second

// NotificationInput is one message for one recipient.
type NotificationInput struct {
	UserID    uint
	Type      models.NotificationType
	Title     string
	Message   string
	RelatedID *uint
	Data      map[string]any
}

// NotificationService stores in-app notifications and fans them out to
// e-mail and the broker. Delivery failures are logged and dropped.
type NotificationService struct {
	db        *gorm.DB
	mailer    utils.Mailer
	publisher broker.Publisher
	log       *logger.Logger
	wg        sync.WaitGroup
}

func NewNotificationService(db *gorm.DB, mailer utils.Mailer, publisher broker.Publisher, log *logger.Logger) *NotificationService {
	if mailer == nil {
		mailer = utils.NopMailer{}
	}
	if publisher == nil {
		publisher = broker.NopPublisher{}
	}
	return &NotificationService{db: db, mailer: mailer, publisher: publisher, log: log}
}

// Notify persists the notification, then delivers copies in the background.
func (s *NotificationService) Notify(ctx context.Context, in NotificationInput) (*models.Notification, error) {
	n := &models.Notification{
		UserID:    in.UserID,
		Type:      in.Type,
		Title:     in.Title,
		Message:   in.Message,
		RelatedID: in.RelatedID,
	}
	if in.Data != nil {
		raw, err := json.Marshal(in.Data)
		if err != nil {
			return nil, utils.Internal("Failed to encode notification", err)
		}
		n.Data = datatypes.JSON(raw)
	}

	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, utils.FromDB(err, "Notification")
	}

	var recipient models.User
	if err := s.db.WithContext(ctx).Select("id", "name", "email").First(&recipient, in.UserID).Error; err != nil {
		s.log.Warn("Notification recipient lookup failed", "user_id", in.UserID, "error", err)
		return n, nil
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliveryTimeout)
		defer cancel()
		s.deliver(dctx, n, &recipient)
	}()
	return n, nil
}

// NotifyQuietly logs instead of returning errors; used after a transaction has
// already committed.
func (s *NotificationService) NotifyQuietly(ctx context.Context, in NotificationInput) {
	if _, err := s.Notify(ctx, in); err != nil {
		s.log.Error("Failed to create notification", "user_id", in.UserID, "type", in.Type, "error", err)
	}
}

func (s *NotificationService) deliver(ctx context.Context, n *models.Notification, to *models.User) {
	body := "<p>Dear " + to.Name + ",</p><p>" + n.Message + "</p><p>Best regards,</p><p>The Matchmaking Team</p>"
	if err := s.mailer.Send(ctx, to.Email, n.Title, body); err != nil {
		s.log.Warn("Failed to send notification email", "notification_id", n.ID, "to", to.Email, "error", err)
	}

	key := strconv.FormatUint(uint64(n.UserID), 10)
	if n.RelatedID != nil {
		key = strconv.FormatUint(uint64(*n.RelatedID), 10)
	}
	msg := broker.Message{
		Type:       string(n.Type),
		UserID:     n.UserID,
		RelatedID:  n.RelatedID,
		Title:      n.Title,
		Payload:    json.RawMessage(n.Data),
		OccurredAt: n.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, key, msg); err != nil {
		s.log.Warn("Failed to publish notification", "notification_id", n.ID, "error", err)
	}
}

// Wait blocks until background deliveries have finished.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

func (s *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool) ([]models.Notification, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	notifications := []models.Notification{}
	if err := q.Order("created_at DESC").Order("id DESC").Find(&notifications).Error; err != nil {
		return nil, utils.FromDB(err, "Notification")
	}
	return notifications, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, utils.FromDB(err, "Notification")
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
		return nil, utils.FromDB(err, "Notification")
	}
	if err := s.db.WithContext(ctx).Model(&n).Update("is_read", true).Error; err != nil {
		return nil, utils.FromDB(err, "Notification")
	}
	n.IsRead = true
	return &n, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, utils.FromDB(res.Error, "Notification")
}

func (s *NotificationService) Delete(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Notification{})
	if res.Error != nil {
		return utils.FromDB(res.Error, "Notification")
	}
	if res.RowsAffected == 0 {
		return utils.NotFound("Notification")
	}
	return nil
}
