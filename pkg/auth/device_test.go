package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakeProvider stands in for the identity provider's device flow endpoints.
// The token endpoint reports authorization_pending once before approving.
type fakeProvider struct {
	srv        *httptest.Server
	tokenPolls atomic.Int32
	idToken    string
}

func newFakeProvider(t *testing.T, idToken string) *fakeProvider {
	t.Helper()
	p := &fakeProvider{idToken: idToken}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/device/code", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-client", r.Form.Get("client_id"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"device_code":               "dev-code-1",
			"user_code":                 "ABCD-EFGH",
			"verification_uri":          p.srv.URL + "/activate",
			"verification_uri_complete": p.srv.URL + "/activate?user_code=ABCD-EFGH",
			"expires_in":                300,
			"interval":                  1,
		})
	})
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "dev-code-1", r.Form.Get("device_code"))
		assert.Equal(t, "urn:ietf:params:oauth:grant-type:device_code", r.Form.Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		if p.tokenPolls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":             "authorization_pending",
				"error_description": "user has not approved yet",
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-1",
			"id_token":     p.idToken,
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})

	p.srv = httptest.NewServer(mux)
	t.Cleanup(p.srv.Close)
	return p
}

func TestDeviceFlow_Login(t *testing.T) {
	provider := newFakeProvider(t, "fake.id.token")

	flow := NewDeviceFlow(Config{
		Domain:   provider.srv.URL,
		ClientID: "test-client",
		Scopes:   []string{"openid", "profile"},
	}, nil)
	flow.SetHTTPClient(provider.srv.Client())

	var prompted *oauth2.DeviceAuthResponse
	flow.Prompt = func(resp *oauth2.DeviceAuthResponse) {
		prompted = resp
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tokens, err := flow.Login(ctx)
	require.NoError(t, err)

	require.NotNil(t, prompted, "prompt should run before polling")
	assert.Equal(t, "ABCD-EFGH", prompted.UserCode)
	assert.Contains(t, prompted.VerificationURIComplete, "user_code=ABCD-EFGH")

	assert.Equal(t, "fake.id.token", tokens.IDToken)
	assert.Equal(t, "access-1", tokens.AccessToken)
	assert.False(t, tokens.FetchedAt.IsZero())

	// One pending poll plus the approved poll.
	assert.GreaterOrEqual(t, provider.tokenPolls.Load(), int32(2))
}

func TestDeviceFlow_MissingIDToken(t *testing.T) {
	provider := newFakeProvider(t, "")

	flow := NewDeviceFlow(Config{
		Domain:   provider.srv.URL,
		ClientID: "test-client",
	}, nil)
	flow.SetHTTPClient(provider.srv.Client())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := flow.Login(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id_token")
}

func TestDeviceFlow_AccessDenied(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/device/code", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"device_code":      "dev-code-1",
			"user_code":        "ABCD-EFGH",
			"verification_uri": "http://example.invalid/activate",
			"expires_in":       300,
			"interval":         1,
		})
	})
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":             "access_denied",
			"error_description": "user declined",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	flow := NewDeviceFlow(Config{Domain: srv.URL, ClientID: "test-client"}, nil)
	flow.SetHTTPClient(srv.Client())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := flow.Login(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device authorization")
}
