package service

import (
	"context"
	"fmt"
	"time"

	"medifinder/internal/entity"
	"medifinder/internal/repository"
)

// NotificationService stores and serves the dashboard notification feed.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new instance of NotificationService.
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// List returns a pharmacy's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, pharmacyID string) ([]entity.Notification, error) {
	notifications, err := s.notificationRepo.GetByPharmacy(ctx, pharmacyID)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting notifications")
		return nil, err
	}
	return notifications, nil
}

// MarkRead flags one notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, pharmacyID string, id int) error {
	updated, err := s.notificationRepo.MarkRead(ctx, pharmacyID, id)
	if err != nil {
		logger.Error().Err(err).Msg("Error marking notification as read")
		return err
	}
	if !updated {
		return fmt.Errorf("%w: Notification not found", ErrNotFound)
	}
	return nil
}

// Record persists a notification produced from an order event.
func (s *NotificationService) Record(ctx context.Context, pharmacyID, orderID, message string) error {
	n := &entity.Notification{
		PharmacyID: pharmacyID,
		OrderID:    orderID,
		Message:    message,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		logger.Error().Err(err).Msg("Error recording notification")
		return err
	}
	return nil
}
