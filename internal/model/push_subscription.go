package model

import "time"

// PushSubscription holds the information for a browser push subscription.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Lines []SubscriptionLine `gorm:"foreignKey:Endpoint;references:Endpoint;constraint:OnDelete:CASCADE"`
}

// SubscriptionLine maps a subscription to a production line whose rejects it wants to hear about.
type SubscriptionLine struct {
	Endpoint string `gorm:"primaryKey"`
	Line     string `gorm:"primaryKey;size:32;index"`
}
