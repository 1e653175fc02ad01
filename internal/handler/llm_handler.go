package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"zapmanager/internal/model"
	"zapmanager/internal/service"
)

// LLMHandler handles AI-model config endpoints.
type LLMHandler struct {
	llmService service.LLMService
}

// NewLLMHandler creates a new AI-model config handler.
func NewLLMHandler(llmService service.LLMService) *LLMHandler {
	return &LLMHandler{llmService: llmService}
}

// CreateLLMRequest represents a new AI-model config.
type CreateLLMRequest struct {
	Name     string `json:"name" validate:"required"`
	Provider string `json:"provider" validate:"required"`
	APIKey   string `json:"api_key" validate:"required"`
	Model    string `json:"model" validate:"required"`
}

// LLMCreatedResponse echoes the stored config without its key.
type LLMCreatedResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// LLMToggleResponse reports the new active flag.
type LLMToggleResponse struct {
	Success  bool `json:"success"`
	IsActive bool `json:"is_active"`
}

// ListLLMs godoc
// @Summary List AI-model configs
// @Tags llms
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.LLMConfig
// @Failure 401 {object} errors.ErrorResponse
// @Router /llms [get]
func (h *LLMHandler) ListLLMs(c echo.Context) error {
	cfgs, err := h.llmService.List(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	if cfgs == nil {
		cfgs = []model.LLMConfig{}
	}
	return c.JSON(http.StatusOK, cfgs)
}

// CreateLLM godoc
// @Summary Create AI-model config
// @Tags llms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateLLMRequest true "Config data"
// @Success 201 {object} LLMCreatedResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /llms [post]
func (h *LLMHandler) CreateLLM(c echo.Context) error {
	var req CreateLLMRequest
	if httpErr := bindAndValidate(c, &req); httpErr != nil {
		return httpErr
	}

	cfg, err := h.llmService.Create(c.Request().Context(), actorFrom(c), service.CreateLLMConfigInput{
		Name:     req.Name,
		Provider: req.Provider,
		APIKey:   req.APIKey,
		Model:    req.Model,
	})
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusCreated, LLMCreatedResponse{
		ID:       cfg.ID,
		Name:     cfg.Name,
		Provider: cfg.Provider,
		Model:    cfg.Model,
	})
}

// DeleteLLM godoc
// @Summary Delete AI-model config
// @Tags llms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Config ID"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /llms/{id} [delete]
func (h *LLMHandler) DeleteLLM(c echo.Context) error {
	if err := h.llmService.Delete(c.Request().Context(), actorFrom(c), c.Param("id")); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// ToggleLLM godoc
// @Summary Toggle AI-model config
// @Tags llms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Config ID"
// @Success 200 {object} LLMToggleResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /llms/{id}/toggle [post]
func (h *LLMHandler) ToggleLLM(c echo.Context) error {
	active, err := h.llmService.Toggle(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, LLMToggleResponse{Success: true, IsActive: active})
}
