//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doltnamn-se/doltnamn/services/privacy/internal/domain"
	"github.com/doltnamn-se/doltnamn/services/privacy/internal/seed"
)

func TestHealth(t *testing.T) {
	skipIfNotRunning(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp, err := http.Get(baseURL() + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestUnauthenticatedRequestHasNoSession(t *testing.T) {
	skipIfNotRunning(t)

	status, env := call(t, http.MethodGet, "/api/v1/me/privacy-score", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NO_SESSION", env.Error.Code)
}

func TestPrivacyScore_Established(t *testing.T) {
	skipIfNotRunning(t)
	token := tokenFor(t, seed.CustomerID("established"), domain.RoleCustomer)

	status, env := call(t, http.MethodGet, "/api/v1/me/privacy-score", token, nil)
	require.Equal(t, http.StatusOK, status)

	var score domain.PrivacyScore
	decodeData(t, env, &score)
	assert.Equal(t, 100, score.Individual.Address)
	assert.Equal(t, 33, score.Individual.URLs)
	assert.GreaterOrEqual(t, score.Total, 0)
	assert.LessOrEqual(t, score.Total, 100)
}

func TestChecklist_PasswordStep(t *testing.T) {
	skipIfNotRunning(t)
	token := tokenFor(t, seed.CustomerID("newcomer"), domain.RoleCustomer)

	status, env := call(t, http.MethodPut, "/api/v1/me/checklist/password", token, nil)
	require.Equal(t, http.StatusOK, status)

	var summary domain.ChecklistSummary
	decodeData(t, env, &summary)
	require.Len(t, summary.Steps, domain.TotalChecklistSteps)
	assert.True(t, summary.Steps[domain.StepPasswordUpdated])
}

func TestGuideToggle_TwiceRestores(t *testing.T) {
	skipIfNotRunning(t)
	token := tokenFor(t, seed.CustomerID("trial"), domain.RoleCustomer)

	status, env := call(t, http.MethodGet, "/api/v1/me/guides", token, nil)
	if status == http.StatusServiceUnavailable {
		t.Skip("guide catalog not reachable")
	}
	require.Equal(t, http.StatusOK, status)
	var guides []domain.GuideStatus
	decodeData(t, env, &guides)
	if len(guides) == 0 {
		t.Skip("guide catalog is empty")
	}
	guide := guides[0]

	path := fmt.Sprintf("/api/v1/me/guides/%s/toggle", guide.ID)
	status, _ = call(t, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusOK, status)
	status, env = call(t, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusOK, status)

	var toggle struct {
		Completed bool `json:"completed"`
	}
	decodeData(t, env, &toggle)
	assert.Equal(t, guide.Completed, toggle.Completed)
}

func TestURLLifecycle(t *testing.T) {
	skipIfNotRunning(t)
	customerToken := tokenFor(t, seed.CustomerID("newcomer"), domain.RoleCustomer)
	adminToken := tokenFor(t, seed.AdminID(), domain.RoleAdmin)

	url := fmt.Sprintf("https://www.ratsit.se/person/%s", uuid.NewString())
	status, env := call(t, http.MethodPost, "/api/v1/me/urls", customerToken, map[string]any{"urls": []string{url}})
	require.Equal(t, http.StatusCreated, status)

	var created []domain.IncomingURL
	decodeData(t, env, &created)
	require.Len(t, created, 1)
	assert.Equal(t, domain.StatusReceived, created[0].Status)

	statusPath := "/api/v1/admin/urls/" + created[0].ID + "/status"
	status, _ = call(t, http.MethodPost, statusPath, adminToken, map[string]any{
		"step": domain.StatusRequestSubmitted,
		"at":   time.Now().UTC(),
	})
	require.Equal(t, http.StatusOK, status)

	status, env = call(t, http.MethodPost, statusPath, adminToken, map[string]any{"step": domain.StatusCaseStarted})
	assert.Equal(t, http.StatusConflict, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "STATUS_REGRESSION", env.Error.Code)

	status, env = call(t, http.MethodGet, "/api/v1/me/urls", customerToken, nil)
	require.Equal(t, http.StatusOK, status)
	var views []domain.IncomingURLView
	decodeData(t, env, &views)
	for _, v := range views {
		if v.ID != created[0].ID {
			continue
		}
		require.Len(t, v.Grid, 4)
		assert.True(t, v.Grid[2].Current)
		assert.Empty(t, v.Grid[3].LabelKey)
		return
	}
	t.Fatalf("submitted url %s not listed", created[0].ID)
}

func TestAdminRoutesRejectCustomers(t *testing.T) {
	skipIfNotRunning(t)
	token := tokenFor(t, seed.CustomerID("trial"), domain.RoleCustomer)

	status, _ := call(t, http.MethodGet, "/api/v1/admin/customers/"+seed.CustomerID("trial")+"/privacy-score", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}
