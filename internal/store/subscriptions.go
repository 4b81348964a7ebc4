package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"qc-tracking-backend/internal/model"
)

// SubscriptionStore persists web push subscriptions and the lines each one follows.
type SubscriptionStore interface {
	SaveSubscription(ctx context.Context, sub model.PushSubscription, lines []string) error
	DeleteSubscription(ctx context.Context, endpoint string) error
	GetSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error)
	SubscriptionsForLine(ctx context.Context, line string) ([]model.PushSubscription, error)
}

type gormSubscriptionStore struct {
	db *gorm.DB
}

// NewGormSubscriptionStore creates a GORM-backed SubscriptionStore.
func NewGormSubscriptionStore(db *gorm.DB) SubscriptionStore {
	return &gormSubscriptionStore{db: db}
}

// SaveSubscription creates or replaces a subscription together with its line list.
func (s *gormSubscriptionStore) SaveSubscription(ctx context.Context, sub model.PushSubscription, lines []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub.Lines = nil
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(&sub).Error; err != nil {
			return fmt.Errorf("failed to upsert subscription: %w", err)
		}

		if err := tx.Where("endpoint = ?", sub.Endpoint).Delete(&model.SubscriptionLine{}).Error; err != nil {
			return fmt.Errorf("failed to clear subscription lines: %w", err)
		}
		if len(lines) == 0 {
			return nil
		}

		rows := make([]model.SubscriptionLine, 0, len(lines))
		seen := make(map[string]bool, len(lines))
		for _, l := range lines {
			if seen[l] {
				continue
			}
			seen[l] = true
			rows = append(rows, model.SubscriptionLine{Endpoint: sub.Endpoint, Line: l})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to save subscription lines: %w", err)
		}
		return nil
	})
}

func (s *gormSubscriptionStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("endpoint = ?", endpoint).Delete(&model.SubscriptionLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.PushSubscription{Endpoint: endpoint}).Error
	})
}

func (s *gormSubscriptionStore) GetSubscription(ctx context.Context, endpoint string) (model.PushSubscription, error) {
	var sub model.PushSubscription
	err := s.db.WithContext(ctx).Preload("Lines").First(&sub, "endpoint = ?", endpoint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PushSubscription{}, ErrNotFound
	}
	if err != nil {
		return model.PushSubscription{}, err
	}
	return sub, nil
}

// SubscriptionsForLine returns every subscription following line.
func (s *gormSubscriptionStore) SubscriptionsForLine(ctx context.Context, line string) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Joins("JOIN subscription_lines sl ON sl.endpoint = push_subscriptions.endpoint").
		Where("sl.line = ?", line).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}
