package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "zapmanager/internal/errors"
	"zapmanager/internal/gateway"
	"zapmanager/internal/model"
	"zapmanager/internal/repository"
)

// Gateway is the subset of the gateway client the instance service drives.
type Gateway interface {
	Check(ctx context.Context) *gateway.Result
	FetchInstances(ctx context.Context) ([]gateway.RemoteInstance, *gateway.Result)
	CreateInstance(ctx context.Context, name, token string) *gateway.Result
	SetWebhook(ctx context.Context, name, webhookURL string) *gateway.Result
	Connect(ctx context.Context, name string) *gateway.Result
	Restart(ctx context.Context, name string) *gateway.Result
	Logout(ctx context.Context, name string) *gateway.Result
	Delete(ctx context.Context, name string) *gateway.Result
}

var _ Gateway = (*gateway.Client)(nil)

// CreateInstanceInput carries the fields accepted when creating an instance.
type CreateInstanceInput struct {
	Name       string
	WebhookURL string
}

// AlertsInput carries the alert fields of an instance.
type AlertsInput struct {
	Enabled bool
	Email   *string
}

// SettingsInput carries the editable settings of an instance.
type SettingsInput struct {
	Phone        *string
	AlertEnabled bool
	AlertEmail   *string
}

// CreatedInstance is a newly created instance plus the pairing QR code, when one was obtained.
type CreatedInstance struct {
	model.Instance
	QRCode string `json:"qrcode,omitempty"`
}

// SyncStats summarizes one reconciliation pass.
type SyncStats struct {
	Remote  int
	Created int
	Updated int
}

// InstanceService manages WhatsApp instances and mirrors them against the gateway.
type InstanceService interface {
	ListInstances(ctx context.Context) ([]model.Instance, error)
	Sync(ctx context.Context) (SyncStats, error)
	CheckGateway(ctx context.Context) *gateway.Result
	CreateInstance(ctx context.Context, actor Actor, in CreateInstanceInput) (*CreatedInstance, error)
	DeleteInstance(ctx context.Context, actor Actor, id string) error
	ToggleInstance(ctx context.Context, actor Actor, id string) (*model.Instance, error)
	ConnectInstance(ctx context.Context, id string) (string, error)
	RestartInstance(ctx context.Context, actor Actor, id string) error
	UpdateAlerts(ctx context.Context, actor Actor, id string, in AlertsInput) error
	UpdateSettings(ctx context.Context, actor Actor, id string, in SettingsInput) error
}

type instanceService struct {
	repo    repository.InstanceRepository
	gateway Gateway
	audit   AuditService
	log     *zap.Logger
	qrDelay time.Duration

	// writeMu serializes local instance writes so a sync pass never interleaves with create, delete or edits.
	writeMu sync.Mutex
}

// NewInstanceService creates a new instance service. qrDelay is the pause before asking the gateway
// for a QR code when the create reply carried none.
func NewInstanceService(
	repo repository.InstanceRepository,
	gw Gateway,
	audit AuditService,
	log *zap.Logger,
	qrDelay time.Duration,
) InstanceService {
	return &instanceService{
		repo:    repo,
		gateway: gw,
		audit:   audit,
		log:     log.Named("instances"),
		qrDelay: qrDelay,
	}
}

// ListInstances reconciles against the gateway and returns every local instance, newest first.
// A failed gateway fetch is logged and the stale local list is served.
func (s *instanceService) ListInstances(ctx context.Context) ([]model.Instance, error) {
	if _, err := s.Sync(ctx); err != nil {
		s.log.Warn("sync skipped, serving local instances", zap.Error(err))
	}
	instances, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list instances: %w", err)
	}
	return instances, nil
}

// Sync pulls the remote instance list and writes it back locally. Matched rows get status and phone
// overwritten; remote-only instances are inserted; local-only rows are left alone.
func (s *instanceService) Sync(ctx context.Context) (SyncStats, error) {
	remote, res := s.gateway.FetchInstances(ctx)
	if !res.OK {
		return SyncStats{}, fmt.Errorf("fetch remote instances: %s", res.ErrorText())
	}

	stats := SyncStats{Remote: len(remote)}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := s.repo.WithTransaction(ctx, func(ctx context.Context, tx repository.InstanceRepository) error {
		local, err := tx.List(ctx)
		if err != nil {
			return err
		}
		byName := make(map[string]string, len(local))
		for _, inst := range local {
			byName[inst.Name] = inst.ID
		}

		for _, r := range remote {
			status := model.StatusFromRemote(r.Status)
			phone := optionalString(r.Owner)

			if id, ok := byName[r.Name]; ok {
				if err := tx.UpdateFields(ctx, id, map[string]interface{}{
					"status": status,
					"phone":  nullable(phone),
				}); err != nil {
					return fmt.Errorf("update %s: %w", r.Name, err)
				}
				stats.Updated++
				continue
			}

			inst := &model.Instance{
				ID:     uuid.NewString(),
				Name:   r.Name,
				Status: status,
				Phone:  phone,
			}
			if err := tx.Create(ctx, inst); err != nil {
				return fmt.Errorf("insert %s: %w", r.Name, err)
			}
			byName[r.Name] = inst.ID
			stats.Created++
		}
		return nil
	})
	if err != nil {
		return SyncStats{}, fmt.Errorf("write back sync: %w", err)
	}

	s.log.Debug("instances synced",
		zap.Int("remote", stats.Remote),
		zap.Int("created", stats.Created),
		zap.Int("updated", stats.Updated),
	)
	return stats, nil
}

func (s *instanceService) CheckGateway(ctx context.Context) *gateway.Result {
	return s.gateway.Check(ctx)
}

// CreateInstance creates the instance remotely, then records it locally. A name the gateway already
// knows is adopted instead of failing. Webhook registration and QR retrieval are best effort.
func (s *instanceService) CreateInstance(ctx context.Context, actor Actor, in CreateInstanceInput) (*CreatedInstance, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.ErrValidation
	}
	webhookURL := strings.TrimSpace(in.WebhookURL)
	localID := uuid.NewString()
	log := s.log.With(zap.String("instance", name))

	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	res := s.gateway.CreateInstance(ctx, name, token)

	var (
		remote     gateway.RemoteInstance
		haveRemote bool
	)
	switch {
	case res.OK:
		remote, haveRemote = gateway.ParseInstance(res.Data)
	case gateway.IsAlreadyExists(res):
		log.Info("instance already exists in gateway, adopting remote data")
		list, fetchRes := s.gateway.FetchInstances(ctx)
		if fetchRes.OK {
			remote, haveRemote = gateway.FindInstance(list, name)
		}
	default:
		log.Error("gateway create failed", zap.String("error", res.ErrorText()))
		return nil, fmt.Errorf("%w: %s", apperrors.ErrGatewayFailure, res.ErrorText())
	}

	if webhookURL != "" {
		if wr := s.gateway.SetWebhook(ctx, name, webhookURL); !wr.OK {
			log.Warn("set webhook failed", zap.String("error", wr.ErrorText()))
		}
	}

	inst, err := s.upsertCreated(ctx, localID, name, webhookURL, remote, haveRemote)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, model.ActionInstanceCreated, fmt.Sprintf("instance: %s (%s)", inst.Name, inst.ID))

	out := &CreatedInstance{Instance: *inst}
	if res.OK {
		if qr, ok := gateway.QRCode(res.Data); ok {
			out.QRCode = qr
		}
	}
	if out.QRCode == "" && inst.Status != model.InstanceStatusConnected {
		out.QRCode = s.fetchQRCodeAfter(ctx, name, s.qrDelay)
	}
	return out, nil
}

// upsertCreated updates the row already holding name, or inserts a new one with localID.
func (s *instanceService) upsertCreated(
	ctx context.Context,
	localID, name, webhookURL string,
	remote gateway.RemoteInstance,
	haveRemote bool,
) (*model.Instance, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var inst *model.Instance
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, tx repository.InstanceRepository) error {
		existing, err := tx.FindByName(ctx, name)
		switch {
		case err == nil:
			fields := map[string]interface{}{"webhook_url": nullable(optionalString(webhookURL))}
			if haveRemote {
				fields["status"] = model.StatusFromRemote(remote.Status)
				fields["phone"] = nullable(optionalString(remote.Owner))
			}
			if err := tx.UpdateFields(ctx, existing.ID, fields); err != nil {
				return err
			}
			inst, err = tx.FindByID(ctx, existing.ID)
			return err
		case errors.Is(err, gorm.ErrRecordNotFound):
			inst = &model.Instance{
				ID:         localID,
				Name:       name,
				Status:     model.InstanceStatusDisconnected,
				WebhookURL: optionalString(webhookURL),
			}
			if haveRemote {
				inst.Status = model.StatusFromRemote(remote.Status)
				inst.Phone = optionalString(remote.Owner)
			}
			return tx.Create(ctx, inst)
		default:
			return err
		}
	})
	if err != nil {
		return nil, fmt.Errorf("save instance %s: %w", name, err)
	}
	return inst, nil
}

// fetchQRCodeAfter waits delay, then asks the gateway for a QR code. It returns "" when none is available.
func (s *instanceService) fetchQRCodeAfter(ctx context.Context, name string, delay time.Duration) string {
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ""
		case <-timer.C:
		}
	}
	res := s.gateway.Connect(ctx, name)
	if !res.OK {
		s.log.Warn("qr code fetch failed", zap.String("instance", name), zap.String("error", res.ErrorText()))
		return ""
	}
	qr, _ := gateway.QRCode(res.Data)
	return qr
}

// DeleteInstance removes the instance remotely (best effort) and locally (always).
func (s *instanceService) DeleteInstance(ctx context.Context, actor Actor, id string) error {
	inst, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if res := s.gateway.Delete(ctx, inst.Name); !res.OK {
		s.log.Warn("gateway delete failed, deleting locally anyway",
			zap.String("instance", inst.Name),
			zap.String("error", res.ErrorText()),
		)
	}

	s.writeMu.Lock()
	_, err = s.repo.Delete(context.WithoutCancel(ctx), inst.ID)
	s.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("delete instance: %w", err)
	}

	s.audit.Record(ctx, actor, model.ActionInstanceDeleted, "instance: "+inst.Name)
	return nil
}

// ToggleInstance logs out a connected instance, or marks any other instance as connecting.
func (s *instanceService) ToggleInstance(ctx context.Context, actor Actor, id string) (*model.Instance, error) {
	inst, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	next := model.InstanceStatusConnecting
	if inst.Status == model.InstanceStatusConnected {
		if res := s.gateway.Logout(ctx, inst.Name); !res.OK {
			s.log.Warn("gateway logout failed", zap.String("instance", inst.Name), zap.String("error", res.ErrorText()))
		}
		next = model.InstanceStatusDisconnected
	}

	if err := s.updateFields(ctx, inst.ID, map[string]interface{}{"status": next}); err != nil {
		return nil, err
	}
	inst.Status = next
	return inst, nil
}

// ConnectInstance returns a pairing QR code for the instance.
func (s *instanceService) ConnectInstance(ctx context.Context, id string) (string, error) {
	inst, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}
	res := s.gateway.Connect(ctx, inst.Name)
	if !res.OK {
		s.log.Warn("gateway connect failed", zap.String("instance", inst.Name), zap.String("error", res.ErrorText()))
		return "", apperrors.ErrQRCodeUnavailable
	}
	qr, ok := gateway.QRCode(res.Data)
	if !ok {
		return "", apperrors.ErrQRCodeUnavailable
	}
	return qr, nil
}

// RestartInstance fires a remote restart. The gateway outcome is logged, never returned.
func (s *instanceService) RestartInstance(ctx context.Context, actor Actor, id string) error {
	inst, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if res := s.gateway.Restart(ctx, inst.Name); !res.OK {
		s.log.Warn("gateway restart failed", zap.String("instance", inst.Name), zap.String("error", res.ErrorText()))
	}
	s.audit.Record(ctx, actor, model.ActionInstanceRestart, "instance: "+inst.Name)
	return nil
}

func (s *instanceService) UpdateAlerts(ctx context.Context, actor Actor, id string, in AlertsInput) error {
	inst, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.updateFields(ctx, inst.ID, map[string]interface{}{
		"alert_enabled": in.Enabled,
		"alert_email":   nullable(in.Email),
	}); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, model.ActionInstanceAlertsUpdate,
		fmt.Sprintf("instance: %s, alerts: %s", inst.Name, onOff(in.Enabled)))
	return nil
}

func (s *instanceService) UpdateSettings(ctx context.Context, actor Actor, id string, in SettingsInput) error {
	inst, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.updateFields(ctx, inst.ID, map[string]interface{}{
		"phone":         nullable(in.Phone),
		"alert_enabled": in.AlertEnabled,
		"alert_email":   nullable(in.AlertEmail),
	}); err != nil {
		return err
	}
	phone := ""
	if in.Phone != nil {
		phone = *in.Phone
	}
	s.audit.Record(ctx, actor, model.ActionInstanceSettingsUpdate,
		fmt.Sprintf("instance: %s, phone: %s, alerts: %s", inst.Name, phone, onOff(in.AlertEnabled)))
	return nil
}

func (s *instanceService) find(ctx context.Context, id string) (*model.Instance, error) {
	inst, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInstanceNotFound
		}
		return nil, fmt.Errorf("find instance: %w", err)
	}
	return inst, nil
}

func (s *instanceService) updateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return fmt.Errorf("update instance: %w", err)
	}
	return nil
}

func onOff(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
