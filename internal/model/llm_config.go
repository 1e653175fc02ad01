package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LLMConfig holds credentials for a pluggable AI-model provider.
// APIKey is write-only and never serialized.
type LLMConfig struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Provider  string    `json:"provider" gorm:"size:64;not null"`
	APIKey    string    `json:"-" gorm:"type:text;not null"`
	Model     string    `json:"model" gorm:"size:255;not null"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName returns the table name for LLMConfig.
func (LLMConfig) TableName() string {
	return "llm_configs"
}

// BeforeCreate sets UUID before creating the record.
func (l *LLMConfig) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
