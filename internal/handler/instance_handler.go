package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"zapmanager/internal/errors"
	"zapmanager/internal/model"
	"zapmanager/internal/service"
)

// InstanceHandler handles WhatsApp instance endpoints.
type InstanceHandler struct {
	instanceService service.InstanceService
}

// NewInstanceHandler creates a new instance handler.
func NewInstanceHandler(instanceService service.InstanceService) *InstanceHandler {
	return &InstanceHandler{instanceService: instanceService}
}

// CreateInstanceRequest represents an instance creation request.
type CreateInstanceRequest struct {
	Name       string `json:"name" validate:"required"`
	WebhookURL string `json:"webhook_url"`
}

// AlertsRequest represents an alert settings update.
type AlertsRequest struct {
	AlertEnabled bool    `json:"alert_enabled"`
	AlertEmail   *string `json:"alert_email"`
}

// SettingsRequest represents an instance settings update.
type SettingsRequest struct {
	Phone        *string `json:"phone"`
	AlertEnabled bool    `json:"alert_enabled"`
	AlertEmail   *string `json:"alert_email"`
}

// QRCodeResponse carries a pairing QR payload.
type QRCodeResponse struct {
	Base64 string `json:"base64"`
}

// ListInstances godoc
// @Summary List instances
// @Description Reconciles with the gateway, then returns every local instance, newest first.
// @Tags instances
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Instance
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /instances [get]
func (h *InstanceHandler) ListInstances(c echo.Context) error {
	instances, err := h.instanceService.ListInstances(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	if instances == nil {
		instances = []model.Instance{}
	}
	return c.JSON(http.StatusOK, instances)
}

// CreateInstance godoc
// @Summary Create instance
// @Tags instances
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateInstanceRequest true "Instance data"
// @Success 201 {object} service.CreatedInstance
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /instances [post]
func (h *InstanceHandler) CreateInstance(c echo.Context) error {
	var req CreateInstanceRequest
	if httpErr := bindAndValidate(c, &req); httpErr != nil {
		return httpErr
	}

	created, err := h.instanceService.CreateInstance(c.Request().Context(), actorFrom(c), service.CreateInstanceInput{
		Name:       req.Name,
		WebhookURL: req.WebhookURL,
	})
	if err != nil {
		if stderrors.Is(err, errors.ErrGatewayFailure) {
			return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
				Error:   errors.ErrGatewayFailure.Error(),
				Code:    "GATEWAY_ERROR",
				Details: err.Error(),
			}).SetInternal(err)
		}
		return respondError(err)
	}

	return c.JSON(http.StatusCreated, created)
}

// DeleteInstance godoc
// @Summary Delete instance
// @Description Deletes the instance from the gateway when possible and always from local storage.
// @Tags instances
// @Security BearerAuth
// @Param id path string true "Instance ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /instances/{id} [delete]
func (h *InstanceHandler) DeleteInstance(c echo.Context) error {
	if err := h.instanceService.DeleteInstance(c.Request().Context(), actorFrom(c), c.Param("id")); err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleInstance godoc
// @Summary Toggle instance connection
// @Tags instances
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instance ID"
// @Success 200 {object} model.Instance
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /instances/{id}/toggle [post]
func (h *InstanceHandler) ToggleInstance(c echo.Context) error {
	inst, err := h.instanceService.ToggleInstance(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, inst)
}

// ConnectInstance godoc
// @Summary Get pairing QR code
// @Tags instances
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instance ID"
// @Success 200 {object} QRCodeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /instances/{id}/connect [get]
func (h *InstanceHandler) ConnectInstance(c echo.Context) error {
	qr, err := h.instanceService.ConnectInstance(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, QRCodeResponse{Base64: qr})
}

// RestartInstance godoc
// @Summary Restart instance
// @Description Fires a restart at the gateway without waiting for the outcome.
// @Tags instances
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instance ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /instances/{id}/restart [post]
func (h *InstanceHandler) RestartInstance(c echo.Context) error {
	if err := h.instanceService.RestartInstance(c.Request().Context(), actorFrom(c), c.Param("id")); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Restarting..."})
}

// UpdateAlerts godoc
// @Summary Update instance alerts
// @Tags instances
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instance ID"
// @Param request body AlertsRequest true "Alert settings"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /instances/{id}/alerts [post]
func (h *InstanceHandler) UpdateAlerts(c echo.Context) error {
	var req AlertsRequest
	if httpErr := bindAndValidate(c, &req); httpErr != nil {
		return httpErr
	}

	err := h.instanceService.UpdateAlerts(c.Request().Context(), actorFrom(c), c.Param("id"), service.AlertsInput{
		Enabled: req.AlertEnabled,
		Email:   req.AlertEmail,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// UpdateSettings godoc
// @Summary Update instance settings
// @Tags instances
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instance ID"
// @Param request body SettingsRequest true "Instance settings"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /instances/{id}/settings [post]
func (h *InstanceHandler) UpdateSettings(c echo.Context) error {
	var req SettingsRequest
	if httpErr := bindAndValidate(c, &req); httpErr != nil {
		return httpErr
	}

	err := h.instanceService.UpdateSettings(c.Request().Context(), actorFrom(c), c.Param("id"), service.SettingsInput{
		Phone:        req.Phone,
		AlertEnabled: req.AlertEnabled,
		AlertEmail:   req.AlertEmail,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// CheckGateway godoc
// @Summary Probe the messaging gateway
// @Tags gateway
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gateway.Result
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /evolution/check [get]
func (h *InstanceHandler) CheckGateway(c echo.Context) error {
	return c.JSON(http.StatusOK, h.instanceService.CheckGateway(c.Request().Context()))
}
