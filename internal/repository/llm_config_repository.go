package repository

import (
	"context"

	"gorm.io/gorm"

	"zapmanager/internal/model"
)

// LLMConfigRepository defines AI-model config persistence operations.
type LLMConfigRepository interface {
	Create(ctx context.Context, cfg *model.LLMConfig) error
	FindByID(ctx context.Context, id string) (*model.LLMConfig, error)
	List(ctx context.Context) ([]model.LLMConfig, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) (bool, error)
}

type llmConfigRepository struct {
	db *gorm.DB
}

// NewLLMConfigRepository creates a new AI-model config repository.
func NewLLMConfigRepository(db *gorm.DB) LLMConfigRepository {
	return &llmConfigRepository{db: db}
}

func (r *llmConfigRepository) Create(ctx context.Context, cfg *model.LLMConfig) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *llmConfigRepository) FindByID(ctx context.Context, id string) (*model.LLMConfig, error) {
	var cfg model.LLMConfig
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// List returns every config, newest first.
func (r *llmConfigRepository) List(ctx context.Context) ([]model.LLMConfig, error) {
	var cfgs []model.LLMConfig
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&cfgs).Error; err != nil {
		return nil, err
	}
	return cfgs, nil
}

func (r *llmConfigRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.db.WithContext(ctx).Model(&model.LLMConfig{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

func (r *llmConfigRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.LLMConfig{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
