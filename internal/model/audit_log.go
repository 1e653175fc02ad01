package model

import "time"

// Audit actions recorded by the console.
const (
	ActionLoginSuccess           = "LOGIN_SUCCESS"
	ActionLoginFailed            = "LOGIN_FAILED"
	ActionLogout                 = "LOGOUT"
	ActionUserRegistered         = "USER_REGISTERED"
	ActionInstanceCreated        = "INSTANCE_CREATED"
	ActionInstanceDeleted        = "INSTANCE_DELETED"
	ActionInstanceRestart        = "INSTANCE_RESTART"
	ActionInstanceAlertsUpdate   = "INSTANCE_ALERTS_UPDATE"
	ActionInstanceSettingsUpdate = "INSTANCE_SETTINGS_UPDATE"
	ActionLLMConfigCreated       = "LLM_CONFIG_CREATED"
	ActionLLMConfigDeleted       = "LLM_CONFIG_DELETED"
	ActionLLMConfigToggled       = "LLM_CONFIG_TOGGLED"
)

// AuditLog is an append-only record of an administrative action.
// UserID is nil for actions without an authenticated actor, such as a failed login.
type AuditLog struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    *string   `json:"user_id" gorm:"size:36;index"`
	Username  *string   `json:"username" gorm:"size:255"`
	Action    string    `json:"action" gorm:"size:64;not null;index"`
	Details   *string   `json:"details" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}
