package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "zapmanager/internal/errors"
	"zapmanager/internal/gateway"
	"zapmanager/internal/model"
	"zapmanager/internal/repository"
	"zapmanager/internal/testutil"
)

// fakeEvolution is an in-process gateway. Routes are keyed by "METHOD /path/prefix".
type fakeEvolution struct {
	mu     sync.Mutex
	calls  []string
	bodies map[string][]byte
	routes map[string]http.HandlerFunc
}

func newFakeEvolution(t *testing.T) (*fakeEvolution, *httptest.Server) {
	t.Helper()
	f := &fakeEvolution{
		bodies: make(map[string][]byte),
		routes: make(map[string]http.HandlerFunc),
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeEvolution) handle(method, prefix string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+prefix] = h
}

func (f *fakeEvolution) reply(method, prefix string, status int, body string) {
	f.handle(method, prefix, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (f *fakeEvolution) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	call := r.Method + " " + r.URL.Path

	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.bodies[call] = body
	var handler http.HandlerFunc
	for key, h := range f.routes {
		method, prefix, _ := strings.Cut(key, " ")
		if method == r.Method && strings.HasPrefix(r.URL.Path, prefix) {
			handler = h
			break
		}
	}
	f.mu.Unlock()

	if handler == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"not found"}`)
		return
	}
	handler(w, r)
}

func (f *fakeEvolution) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeEvolution) Body(call string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[call]
}

type instanceFixture struct {
	svc   InstanceService
	repo  repository.InstanceRepository
	audit AuditService
	fake  *fakeEvolution
}

func newInstanceFixture(t *testing.T, timeout time.Duration) *instanceFixture {
	t.Helper()
	gormDB := testutil.NewDB(t)
	fake, srv := newFakeEvolution(t)

	repo := repository.NewInstanceRepository(gormDB)
	audit := NewAuditService(repository.NewAuditLogRepository(gormDB), zap.NewNop())
	client := gateway.NewClient(srv.URL, "test-key", timeout, zap.NewNop())

	return &instanceFixture{
		svc:   NewInstanceService(repo, client, audit, zap.NewNop(), 0),
		repo:  repo,
		audit: audit,
		fake:  fake,
	}
}

func (fx *instanceFixture) seed(t *testing.T, name string, status model.InstanceStatus) *model.Instance {
	t.Helper()
	inst := &model.Instance{Name: name, Status: status}
	require.NoError(t, fx.repo.Create(context.Background(), inst))
	return inst
}

func (fx *instanceFixture) actions(t *testing.T) []string {
	t.Helper()
	entries, err := fx.audit.Recent(context.Background())
	require.NoError(t, err)
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Action)
	}
	return out
}

var admin = Actor{UserID: "admin-id", Username: "admin"}

func TestInstanceService_Sync_IsIdempotent(t *testing.T) {
	fx := newInstanceFixture(t, time.Second)
	fx.reply(t, http.MethodGet, "/instance/fetchInstances", http.StatusOK, `[
		{"name":"alpha","connectionStatus":"open","ownerJid":"5511999999999@s.whatsapp.net"},
		{"instance":{"instanceName":"beta","status":"connecting"}},
		{"instanceName":"","status":"open"}
	]`)
	local := fx.seed(t, "gamma", model.InstanceStatusError)

	ctx := context.Background()
	first, err := fx.svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncStats{Remote: 2, Created: 2}, first)

	second, err := fx.svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncStats{Remote: 2, Updated: 2}, second)

	instances, err := fx.repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, instances, 3)

	byName := map[string]model.Instance{}
	for _, inst := range instances {
		byName[inst.Name] = inst
	}
	alpha := byName["alpha"]
	assert.Equal(t, model.InstanceStatusConnected, alpha.Status)
	require.NotNil(t, alpha.Phone)
	assert.Equal(t, "5511999999999@s.whatsapp.net", *alpha.Phone)

	beta := byName["beta"]
	assert.Equal(t, model.InstanceStatusConnecting, beta.Status)
	assert.Nil(t, beta.Phone)

	gamma := byName["gamma"]
	assert.Equal(t, local.ID, gamma.ID)
	assert.Equal(t, model.InstanceStatusError, gamma.Status)
}

func TestInstanceService_Sync_RemoteOverwritesStatusAndPhone(t *testing.T) {
	fx := newInstanceFixture(t, time.Second)
	inst := fx.seed(t, "alpha", model.InstanceStatusConnected)
	ctx := context.Background()
	require.NoError(t, fx.repo.UpdateFields(ctx, inst.ID, map[string]interface{}{"phone": "123", "alert_enabled": true}))
	fx.reply(t, http.MethodGet, "/instance/fetchInstances", http.StatusOK, `[{"instanceName":"alpha","status":"close"}]`)

	_, err := fx.svc.Sync(ctx)
	require.NoError(t, err)

	got, err := fx.repo.FindByID(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InstanceStatusDisconnected, got.Status)
	assert.Nil(t, got.Phone)
	assert.True(t, got.AlertEnabled)
}

func TestInstanceService_ListInstances_ServesLocalWhenGatewayFails(t *testing.T) {
	fx := newInstanceFixture(t, time.Second)
	fx.seed(t, "alpha", model.InstanceStatusConnected)
	fx.fake.handle(http.MethodGet, "/instance/fetchInstances", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	})

	instances, err := fx.svc.ListInstances(context.Background())

	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, model.InstanceStatusConnected, instances[0].Status)
}

func TestInstanceService_Sync_RejectsNonArray(t *testing.T) {
	fx := newInstanceFixture(t, time.Second)
	fx.reply(t, http.MethodGet, "/instance/fetchInstances", http.StatusOK, `{"instanceName":"alpha"}`)

	_, err := fx.svc.Sync(context.Background())

	assert.Error(t, err)
	instances, listErr := fx.repo.List(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, instances)
}

func TestInstanceService_CreateInstance_OpenStatusSkipsQRCode(t *testing.T) {
	fx := newInstanceFixture(t, time.Second)
	fx.reply(t, http.MethodPost, "/instance/create", http.StatusCreated,
		`{"instance":{"instanceName":"sales-wa","status":"open","owner":"5511888888888"}}`)
	fx.reply(t, http.MethodPost, "/webhook/set/", http.StatusOK, `{"ok":true}`)

	created, err := fx.svc.CreateInstance(context.Background(), admin, CreateInstanceInput{
		Name:       "sales-wa",
		WebhookURL: "https://hooks.example.com/wa",
	})

	require.NoError(t, err)
	assert.Equal(t, "sales-wa", created.Name)
	assert.Equal(t, model.InstanceStatusConnected, created.Status)
	require.NotNil(t, created.Phone)
	assert.Equal(t, "5511888888888", *created.Phone)
	require.NotNil(t, created.WebhookURL)
	assert.Equal(t, "https://hooks.example.com/wa", *created.WebhookURL)
	assert.Empty(t, created.QRCode)

	calls := fx.fake.Calls()
	assert.Contains(t, calls, "POST /instance/create")
	assert.Contains(t, calls, "POST /webhook/set/sales-wa")
	assert.NotContains(t, calls, "GET /instance/connect/sales-wa")

	var createBody map[string]interface{}
	require.NoError(t, json.Unmarshal(fx.fake.Body("POST /instance/create"), &createBody))
	assert.Equal(t, "sales-wa", createBody["instanceName"])
	assert.Equal(t, true, createBody["qrcode"])
	assert.NotEmpty(t, createBody["token"])

	assert.Equal(t, []string{model.ActionInstanceCreated}, fx.actions(t))
}

func TestInstanceService_CreateInstance_QRCodeFromCreateReply(t *testing.T) {
	fx := newInstanceFixture(t, time.Second)
	fx.reply(t, http.MethodPost, "/instance/create", http.StatusCreated,
		`{"instance":{"instanceName":"support","status":"created"},"qrcode":{"base64":"data:image/png;base64,AAA"}}`)

	created, err := fx.svc.CreateInstance(context.Background(), admin, CreateInstanceInput{Name: "support"})

	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AAA", created.QRCode)
	assert.Equal(t, model.InstanceStatusDisconnected, created.Status)
	assert.Nil(t, created.WebhookURL)
	assert.NotContains(t, fx.fake.Calls(), "GET /instance/connect/support")
	assert.NotContains(t, fx.fake.Calls(), "POST /webhook/set/support")
}

func TestInstanceService_CreateInstance_QRCodeFromConnect(t *testing.T) {
	fx := newInstanceFixture(t, time.Second)
	fx.reply(t, http.MethodPost, "/instance/create", http.StatusCreated, `{"instance":{"instanceName":"support","status":"connecting"}}`)
	fx.reply(t, http.MethodGet, "/instance/connect/", http.StatusOK, `{"base64":"data:image/png;base64,BBB"}`)

	created, err := fx.svc.CreateInstance(context.Background(), admin, CreateInstanceInput{Name: "support"})

	require.NoError(t, err)
	assert.Equal(t, model.InstanceStatusConnecting, created.Status)
	assert.Equal(t, "data:image/png;base64,BBB", created.QRCode)
	assert.Contains(t, fx.fake.Calls(), "GET /instance/connect/support")
}

func TestInstanceService_CreateInstance_AdoptsExistingRemote(t *testing.T) {
	fx := newInstanceFixture(t, time.Second)
	fx.reply(t, http.MethodPost, "/instance/create", http.StatusForbidden,
		`{"status":403,"error":"Forbidden","response":{"message":["This name \"support\" is already in use."]}}`)
	fx.reply(t, http.MethodGet, "/instance/fetchInstances", http.StatusOK,
		`[{"name":"support","connectionStatus":"open","ownerJid":"5511777777777"}]`)

	created, err := fx.svc.CreateInstance(context.Background(), admin, CreateInstanceInput{Name: "support"})

	require.NoError(t, err)
	assert.Equal(t, model.InstanceStatusConnected, created.Status)
	require.NotNil(t, created.Phone)
	assert.Equal(t, "5511777777777", *created.Phone)

	instances, err := fx.repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, instances, 1)
}

func TestInstanceService_CreateInstance_ReusesLocalRow(t *testing.T) {
	fx := newInstanceFixture(t, time.Second)
	existing := fx.seed(t, "support", model.InstanceStatusDisconnected)
	fx.reply(t, http.MethodPost, "/instance/create", http.StatusBadRequest, `{"message":"Instance already exists"}`)
	fx.reply(t, http.MethodGet, "/instance/fetchInstances", http.StatusOK, `[{"instanceName":"support","status":"connecting"}]`)
	fx.reply(t, http.MethodGet, "/instance/connect/", http.StatusOK, `{"qrcode":"QR-STRING"}`)

	created, err := fx.svc.CreateInstance(context.Background(), admin, CreateInstanceInput{Name: "support"})

	require.NoError(t, err)
	assert.Equal(t, existing.ID, created.ID)
	assert.Equal(t, model.InstanceStatusConnecting, created.Status)
	assert.Equal(t, "QR-STRING", created.QRCode)

	instances, err := fx.repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, instances, 1)
}

func TestInstanceService_CreateInstance_GatewayFailureWritesNothing(t *testing.T) {
	fx := newInstanceFixture(t, time.Second)
	fx.reply(t, http.MethodPost, "/instance/create", http.StatusInternalServerError, `{"error":"database offline"}`)

	created, err := fx.svc.CreateInstance(context.Background(), admin, CreateInstanceInput{Name: "support"})

	assert.Nil(t, created)
	assert.ErrorIs(t, err, apperrors.ErrGatewayFailure)
	assert.Contains(t, err.Error(), "database offline")

	instances, listErr := fx.repo.List(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, instances)
	assert.Empty(t, fx.actions(t))
}

func TestInstanceService_CreateInstance_WebhookFailureIsIgnored(t *testing.T) {
	fx := newInstanceFixture(t, time.Second)
	fx.reply(t, http.MethodPost, "/instance/create", http.StatusCreated, `{"instance":{"instanceName":"support","status":"open"}}`)
	fx.reply(t, http.MethodPost, "/webhook/set/", http.StatusBadRequest, `{"error":"invalid url"}`)

	created, err := fx.svc.CreateInstance(context.Background(), admin, CreateInstanceInput{
		Name:       "support",
		WebhookURL: "not-a-url",
	})

	require.NoError(t, err)
	require.NotNil(t, created.WebhookURL)
	assert.Equal(t, "not-a-url", *created.WebhookURL)
}

func TestInstanceService_CreateInstance_RequiresName(t *testing.T) {
	fx := newInstanceFixture(t, time.Second)

	_, err := fx.svc.CreateInstance(context.Background(), admin, CreateInstanceInput{Name: "   "})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Empty(t, fx.fake.Calls())
}

func TestInstanceService_DeleteInstance_SurvivesGatewayTimeout(t *testing.T) {
	fx := newInstanceFixture(t, 100*time.Millisecond)
	inst := fx.seed(t, "support", model.InstanceStatusConnected)
	fx.fake.handle(http.MethodDelete, "/instance/delete/", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	require.NoError(t, fx.svc.DeleteInstance(context.Background(), admin, inst.ID))

	_, err := fx.repo.FindByID(context.Background(), inst.ID)
	assert.Error(t, err)
	assert.Equal(t, []string{model.ActionInstanceDeleted}, fx.actions(t))
}

func TestInstanceService_DeleteInstance_NotFound(t *testing.T) {
	fx := newInstanceFixture(t, time.Second)

	err := fx.svc.DeleteInstance(context.Background(), admin, "missing")

	assert.ErrorIs(t, err, apperrors.ErrInstanceNotFound)
	assert.Empty(t, fx.fake.Calls())
}

func TestInstanceService_ToggleInstance(t *testing.T) {
	t.Run("connected logs out", func(t *testing.T) {
		fx := newInstanceFixture(t, time.Second)
		inst := fx.seed(t, "support", model.InstanceStatusConnected)
		fx.reply(t, http.MethodDelete, "/instance/logout/", http.StatusOK, `{"status":"SUCCESS"}`)

		got, err := fx.svc.ToggleInstance(context.Background(), admin, inst.ID)

		require.NoError(t, err)
		assert.Equal(t, model.InstanceStatusDisconnected, got.Status)
		assert.Contains(t, fx.fake.Calls(), "DELETE /instance/logout/support")
		stored, err := fx.repo.FindByID(context.Background(), inst.ID)
		require.NoError(t, err)
		assert.Equal(t, model.InstanceStatusDisconnected, stored.Status)
	})

	t.Run("connected logs out even if the gateway fails", func(t *testing.T) {
		fx := newInstanceFixture(t, time.Second)
		inst := fx.seed(t, "support", model.InstanceStatusConnected)

		got, err := fx.svc.ToggleInstance(context.Background(), admin, inst.ID)

		require.NoError(t, err)
		assert.Equal(t, model.InstanceStatusDisconnected, got.Status)
	})

	for _, status := range []model.InstanceStatus{
		model.InstanceStatusDisconnected,
		model.InstanceStatusConnecting,
		model.InstanceStatusError,
	} {
		t.Run(string(status)+" becomes connecting", func(t *testing.T) {
			fx := newInstanceFixture(t, time.Second)
			inst := fx.seed(t, "support", status)

			got, err := fx.svc.ToggleInstance(context.Background(), admin, inst.ID)

			require.NoError(t, err)
			assert.Equal(t, model.InstanceStatusConnecting, got.Status)
			assert.Empty(t, fx.fake.Calls())
			assert.Empty(t, fx.actions(t))
		})
	}
}

func TestInstanceService_ConnectInstance(t *testing.T) {
	fx := newInstanceFixture(t, time.Second)
	inst := fx.seed(t, "support", model.InstanceStatusDisconnected)

	_, err := fx.svc.ConnectInstance(context.Background(), inst.ID)
	assert.ErrorIs(t, err, apperrors.ErrQRCodeUnavailable)

	fx.reply(t, http.MethodGet, "/instance/connect/", http.StatusOK, `{"pairingCode":null}`)
	_, err = fx.svc.ConnectInstance(context.Background(), inst.ID)
	assert.ErrorIs(t, err, apperrors.ErrQRCodeUnavailable)

	fx.reply(t, http.MethodGet, "/instance/connect/", http.StatusOK, `{"base64":"QR"}`)
	qr, err := fx.svc.ConnectInstance(context.Background(), inst.ID)
	require.NoError(t, err)
	assert.Equal(t, "QR", qr)

	_, err = fx.svc.ConnectInstance(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrInstanceNotFound)
}

func TestInstanceService_RestartInstance_AlwaysSucceeds(t *testing.T) {
	fx := newInstanceFixture(t, time.Second)
	inst := fx.seed(t, "support", model.InstanceStatusConnected)
	fx.reply(t, http.MethodPost, "/instance/restart/", http.StatusInternalServerError, `{"error":"boom"}`)

	require.NoError(t, fx.svc.RestartInstance(context.Background(), admin, inst.ID))
	assert.Contains(t, fx.fake.Calls(), "POST /instance/restart/support")
	assert.Equal(t, []string{model.ActionInstanceRestart}, fx.actions(t))

	assert.ErrorIs(t, fx.svc.RestartInstance(context.Background(), admin, "missing"), apperrors.ErrInstanceNotFound)
}

func TestInstanceService_UpdateAlertsAndSettings(t *testing.T) {
	fx := newInstanceFixture(t, time.Second)
	inst := fx.seed(t, "support", model.InstanceStatusConnected)
	ctx := context.Background()
	email := "ops@example.com"
	phone := "5511000000000"

	require.NoError(t, fx.svc.UpdateAlerts(ctx, admin, inst.ID, AlertsInput{Enabled: true, Email: &email}))
	got, err := fx.repo.FindByID(ctx, inst.ID)
	require.NoError(t, err)
	assert.True(t, got.AlertEnabled)
	require.NotNil(t, got.AlertEmail)
	assert.Equal(t, email, *got.AlertEmail)

	require.NoError(t, fx.svc.UpdateSettings(ctx, admin, inst.ID, SettingsInput{Phone: &phone}))
	got, err = fx.repo.FindByID(ctx, inst.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Phone)
	assert.Equal(t, phone, *got.Phone)
	assert.False(t, got.AlertEnabled)
	assert.Nil(t, got.AlertEmail)

	assert.Equal(t, []string{model.ActionInstanceSettingsUpdate, model.ActionInstanceAlertsUpdate}, fx.actions(t))

	assert.ErrorIs(t, fx.svc.UpdateAlerts(ctx, admin, "missing", AlertsInput{}), apperrors.ErrInstanceNotFound)
	assert.ErrorIs(t, fx.svc.UpdateSettings(ctx, admin, "missing", SettingsInput{}), apperrors.ErrInstanceNotFound)
}

func TestInstanceService_CheckGateway(t *testing.T) {
	fx := newInstanceFixture(t, time.Second)
	fx.reply(t, http.MethodGet, "/instance/fetchInstances", http.StatusOK, `[]`)

	res := fx.svc.CheckGateway(context.Background())

	assert.True(t, res.OK)
	assert.JSONEq(t, `[]`, string(res.Data))
}

func (fx *instanceFixture) reply(t *testing.T, method, prefix string, status int, body string) {
	t.Helper()
	fx.fake.reply(method, prefix, status, body)
}
