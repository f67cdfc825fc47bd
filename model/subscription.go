// Package model contains the persisted types of the application
package model

import "time"

// Subscription is a directed edge meaning "subscriber follows channel".
// The composite unique index keeps a pair from being recorded twice.
type Subscription struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	SubscriberID string `gorm:"index:idx_subscriber_channel,unique;not null" json:"subscriber"`
	ChannelID    string `gorm:"index:idx_subscriber_channel,unique;not null" json:"channel"`

	CreatedAt time.Time `json:"createdAt"`
}
