package gateway

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
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestClient_URL(t *testing.T) {
	tests := []struct {
		base     string
		endpoint string
		want     string
	}{
		{"https://gw.example.com", "/instance/create", "https://gw.example.com/instance/create"},
		{"https://gw.example.com/", "instance/create", "https://gw.example.com/instance/create"},
		{"https://gw.example.com///", "///instance/create", "https://gw.example.com/instance/create"},
		{"https://gw.example.com/api/", "/instance/connect/x", "https://gw.example.com/api/instance/connect/x"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			c := NewClient(tt.base, "key", 0, nil)
			assert.Equal(t, tt.want, c.URL(tt.endpoint))
		})
	}
}

func TestClient_Do_SendsHeadersAndBody(t *testing.T) {
	var gotKey, gotType, gotMethod, gotPath string
	var gotBody map[string]any
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("apikey")
		gotType = r.Header.Get("Content-Type")
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		writeJSON(w, http.StatusCreated, `{"instance":{"instanceName":"sales-wa","status":"created"}}`)
	})

	c := NewClient(srv.URL+"/", "secret-key", time.Second, nil)
	res := c.CreateInstance(context.Background(), "sales-wa", "tok")

	require.True(t, res.OK)
	assert.Equal(t, http.StatusCreated, res.Status)
	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/instance/create", gotPath)
	assert.Equal(t, "sales-wa", gotBody["instanceName"])
	assert.Equal(t, "tok", gotBody["token"])
	assert.Equal(t, true, gotBody["qrcode"])
}

func TestClient_Do_NonJSONIsFailure(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html>"+strings.Repeat("x", 200)+"</html>")
	})

	res := NewClient(srv.URL, "k", time.Second, nil).Check(context.Background())

	assert.False(t, res.OK)
	assert.Nil(t, res.Data)
	assert.True(t, strings.HasPrefix(res.Error, "Invalid response format: <html>"))
	assert.Len(t, strings.TrimPrefix(res.Error, "Invalid response format: "), errorSnippetLen)
}

func TestClient_Do_JSONErrorStatus(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, `{"status":403,"error":"Forbidden","response":{"message":["This name \"sales-wa\" is already in use."]}}`)
	})

	res := NewClient(srv.URL, "k", time.Second, nil).CreateInstance(context.Background(), "sales-wa", "t")

	assert.False(t, res.OK)
	assert.Equal(t, http.StatusForbidden, res.Status)
	assert.Empty(t, res.Error)
	assert.Contains(t, res.ErrorText(), "already in use")
	assert.True(t, IsAlreadyExists(res))
}

func TestClient_Do_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	res := NewClient(addr, "k", time.Second, nil).Restart(context.Background(), "x")

	assert.False(t, res.OK)
	assert.NotEmpty(t, res.Error)
}

func TestClient_Do_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	start := time.Now()
	res := NewClient(srv.URL, "k", 50*time.Millisecond, nil).Delete(context.Background(), "x")

	assert.False(t, res.OK)
	assert.NotEmpty(t, res.Error)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestClient_Do_MalformedJSON(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"broken":`)
	})

	res := NewClient(srv.URL, "k", time.Second, nil).Check(context.Background())

	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "Invalid JSON response")
}

func TestClient_PathsAndMethods(t *testing.T) {
	type call struct{ method, path string }
	var (
		mu    sync.Mutex
		calls []call
	)
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, call{r.Method, r.URL.EscapedPath()})
		mu.Unlock()
		writeJSON(w, http.StatusOK, `{}`)
	})

	c := NewClient(srv.URL, "k", time.Second, nil)
	ctx := context.Background()
	c.Connect(ctx, "sales wa")
	c.Restart(ctx, "a")
	c.Logout(ctx, "a")
	c.Delete(ctx, "a")
	c.SetWebhook(ctx, "a", "https://hooks.example.com")
	c.Check(ctx)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []call{
		{http.MethodGet, "/instance/connect/sales%20wa"},
		{http.MethodPost, "/instance/restart/a"},
		{http.MethodDelete, "/instance/logout/a"},
		{http.MethodDelete, "/instance/delete/a"},
		{http.MethodPost, "/webhook/set/a"},
		{http.MethodGet, "/instance/fetchInstances"},
	}, calls)
}

func TestClient_SetWebhook_Body(t *testing.T) {
	var body struct {
		Webhook         string   `json:"webhook"`
		WebhookByEvents bool     `json:"webhookByEvents"`
		Events          []string `json:"events"`
	}
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusCreated, `{}`)
	})

	res := NewClient(srv.URL, "k", time.Second, nil).SetWebhook(context.Background(), "a", "https://hooks.example.com/wa")

	assert.True(t, res.OK)
	assert.Equal(t, "https://hooks.example.com/wa", body.Webhook)
	assert.False(t, body.WebhookByEvents)
	assert.Equal(t, []string{"MESSAGES_UPSERT", "MESSAGES_UPDATE", "SEND_MESSAGE"}, body.Events)
}

func TestClient_FetchInstances(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `[
				{"instance":{"instanceName":"a","owner":"5511@s.whatsapp.net","status":"open"}},
				{"name":"b","ownerJid":null,"connectionStatus":"connecting"},
				{"instance":{}}
			]`)
		})

		instances, res := NewClient(srv.URL, "k", time.Second, nil).FetchInstances(context.Background())

		require.True(t, res.OK)
		assert.Equal(t, []RemoteInstance{
			{Name: "a", Owner: "5511@s.whatsapp.net", Status: "open"},
			{Name: "b", Status: "connecting"},
		}, instances)
	})

	t.Run("not an array", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"instances":[]}`)
		})

		instances, res := NewClient(srv.URL, "k", time.Second, nil).FetchInstances(context.Background())

		assert.False(t, res.OK)
		assert.Nil(t, instances)
	})

	t.Run("error status", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, `{"error":"Unauthorized"}`)
		})

		instances, res := NewClient(srv.URL, "k", time.Second, nil).FetchInstances(context.Background())

		assert.False(t, res.OK)
		assert.Nil(t, instances)
	})
}

func TestResult_ErrorText(t *testing.T) {
	var nilResult *Result
	assert.Equal(t, "", nilResult.ErrorText())
	assert.Equal(t, "boom", (&Result{Error: "boom", Data: json.RawMessage(`{}`)}).ErrorText())
	assert.Equal(t, `{"error":"x"}`, (&Result{Data: json.RawMessage(`{"error":"x"}`)}).ErrorText())
	assert.Equal(t, "gateway returned status 502", (&Result{Status: 502}).ErrorText())
	assert.Equal(t, "", (&Result{OK: true}).ErrorText())
}

func TestIsAlreadyExists(t *testing.T) {
	assert.True(t, IsAlreadyExists(&Result{Error: "Instance ALREADY EXISTS"}))
	assert.True(t, IsAlreadyExists(&Result{Data: json.RawMessage(`{"error":"instance already exists"}`)}))
	assert.False(t, IsAlreadyExists(&Result{Error: "connection refused"}))
	assert.False(t, IsAlreadyExists(&Result{OK: true, Data: json.RawMessage(`{"note":"already exists"}`)}))
	assert.False(t, IsAlreadyExists(nil))
}
