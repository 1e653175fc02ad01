package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InstanceStatus is the locally recorded connection state of a WhatsApp session.
type InstanceStatus string

const (
	InstanceStatusDisconnected InstanceStatus = "disconnected"
	InstanceStatusConnecting   InstanceStatus = "connecting"
	InstanceStatusConnected    InstanceStatus = "connected"
	InstanceStatusError        InstanceStatus = "error"
)

// StatusFromRemote maps a gateway connection state onto the local vocabulary.
func StatusFromRemote(remote string) InstanceStatus {
	switch remote {
	case "open":
		return InstanceStatusConnected
	case "connecting":
		return InstanceStatusConnecting
	default:
		return InstanceStatusDisconnected
	}
}

// Instance is a managed WhatsApp pairing session mirrored to the gateway by Name.
// Status and Phone are owned by the gateway; every other field is local.
type Instance struct {
	ID           string         `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name         string         `json:"name" gorm:"uniqueIndex;size:255;not null"`
	Status       InstanceStatus `json:"status" gorm:"size:32;not null;default:'disconnected';index"`
	Phone        *string        `json:"phone" gorm:"size:64"`
	WebhookURL   *string        `json:"webhook_url" gorm:"size:2048"`
	AlertEnabled bool           `json:"alert_enabled" gorm:"not null;default:false"`
	AlertEmail   *string        `json:"alert_email" gorm:"size:255"`
	CreatedAt    time.Time      `json:"created_at" gorm:"index"`
}

// BeforeCreate sets UUID and default status before creating the record.
func (i *Instance) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Status == "" {
		i.Status = InstanceStatusDisconnected
	}
	return nil
}
