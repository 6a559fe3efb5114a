//go:build integration

// Package integration exercises a running privacy service seeded with
// cmd/seed. Tests skip when the service is not reachable.
package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/doltnamn-se/doltnamn/services/privacy/internal/seed"
)

func baseURL() string {
	if v := os.Getenv("PRIVACY_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8010"
}

func jwtSecret() string {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		return v
	}
	return "change-this-to-a-secure-secret"
}

// skipIfNotRunning performs a quick liveness check. If the service is
// unreachable, the test is skipped (not failed).
func skipIfNotRunning(t *testing.T) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL() + "/health/live")
	if err != nil {
		t.Skipf("privacy service not reachable at %s: %v", baseURL(), err)
	}
	resp.Body.Close()
}

func tokenFor(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := seed.SignToken(jwtSecret(), os.Getenv("JWT_ISSUER"), userID, role, time.Hour, time.Now())
	require.NoError(t, err)
	return token
}

// envelope mirrors the {data} / {error} response body.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code      string `json:"code"`
		Retryable bool   `json:"retryable"`
	} `json:"error"`
}

// call sends a JSON request and decodes the envelope.
func call(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, baseURL()+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decodeData(t *testing.T, env envelope, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst))
}
