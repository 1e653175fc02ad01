package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "zapmanager/internal/errors"
	"zapmanager/internal/model"
	"zapmanager/internal/repository"
)

// CreateLLMConfigInput carries the fields of a new AI-model config. All are required.
type CreateLLMConfigInput struct {
	Name     string
	Provider string
	APIKey   string
	Model    string
}

// LLMService manages AI-model provider credentials.
// Several configs may be active at once; toggling one never touches the others.
type LLMService interface {
	List(ctx context.Context) ([]model.LLMConfig, error)
	Create(ctx context.Context, actor Actor, in CreateLLMConfigInput) (*model.LLMConfig, error)
	Delete(ctx context.Context, actor Actor, id string) error
	Toggle(ctx context.Context, actor Actor, id string) (bool, error)
}

type llmService struct {
	repo  repository.LLMConfigRepository
	audit AuditService
}

// NewLLMService creates a new AI-model config service.
func NewLLMService(repo repository.LLMConfigRepository, audit AuditService) LLMService {
	return &llmService{repo: repo, audit: audit}
}

func (s *llmService) List(ctx context.Context) ([]model.LLMConfig, error) {
	return s.repo.List(ctx)
}

func (s *llmService) Create(ctx context.Context, actor Actor, in CreateLLMConfigInput) (*model.LLMConfig, error) {
	cfg := &model.LLMConfig{
		Name:     strings.TrimSpace(in.Name),
		Provider: strings.TrimSpace(in.Provider),
		APIKey:   strings.TrimSpace(in.APIKey),
		Model:    strings.TrimSpace(in.Model),
	}
	if cfg.Name == "" || cfg.Provider == "" || cfg.APIKey == "" || cfg.Model == "" {
		return nil, apperrors.ErrValidation
	}
	if err := s.repo.Create(ctx, cfg); err != nil {
		return nil, fmt.Errorf("create llm config: %w", err)
	}
	s.audit.Record(ctx, actor, model.ActionLLMConfigCreated, fmt.Sprintf("created LLM config: %s (%s)", cfg.Name, cfg.Provider))
	return cfg, nil
}

func (s *llmService) Delete(ctx context.Context, actor Actor, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete llm config: %w", err)
	}
	if !deleted {
		return apperrors.ErrLLMConfigNotFound
	}
	s.audit.Record(ctx, actor, model.ActionLLMConfigDeleted, "deleted LLM config ID: "+id)
	return nil
}

// Toggle flips the active flag and returns the new value.
func (s *llmService) Toggle(ctx context.Context, actor Actor, id string) (bool, error) {
	cfg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.ErrLLMConfigNotFound
		}
		return false, fmt.Errorf("find llm config: %w", err)
	}

	active := !cfg.IsActive
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return false, fmt.Errorf("toggle llm config: %w", err)
	}
	s.audit.Record(ctx, actor, model.ActionLLMConfigToggled, fmt.Sprintf("toggled LLM config %s to %s", id, activeLabel(active)))
	return active, nil
}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}
