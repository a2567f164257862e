package remote

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/evandahm/reviewdesk/internal/identity"
	"github.com/evandahm/reviewdesk/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(Config{
		PlanStoreURL:  server.URL,
		IdentityURL:   server.URL,
		CatalogURL:    server.URL,
		Timeout:       2 * time.Second,
		RetryAttempts: 2,
	}, zap.NewNop())
	return client, server
}

func TestListPlansQueryAndParsing(t *testing.T) {
	var gotQuery map[string]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/plans/", r.URL.Path)
		gotQuery = map[string]string{
			"status":       r.URL.Query().Get("status"),
			"organization": r.URL.Query().Get("organization"),
			"limit":        r.URL.Query().Get("limit"),
		}
		w.Write([]byte(`{"results": [{"id": 1, "organization": 10, "status": "submitted"}]}`))
	}))

	subs, err := client.ListPlans(context.Background(), models.StatusSubmitted, 10, 50)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, int64(1), subs[0].ID)

	assert.Equal(t, "submitted", gotQuery["status"])
	assert.Equal(t, "10", gotQuery["organization"])
	assert.Equal(t, "50", gotQuery["limit"])
}

func TestListPlansRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	}))

	subs, err := client.ListPlans(context.Background(), models.StatusSubmitted, 10, 50)
	require.NoError(t, err)
	assert.Empty(t, subs)
	assert.Equal(t, int32(2), calls.Load())
}

func TestListPlansRetryBudgetExhausted(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.ListPlans(context.Background(), models.StatusSubmitted, 10, 50)
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load(), "at most two attempts")
}

func TestListPlansClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := client.ListPlans(context.Background(), models.StatusSubmitted, 10, 50)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDecideApprove(t *testing.T) {
	var gotPath, gotBody, gotBust string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBust = r.URL.Query().Get("_")
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		w.WriteHeader(http.StatusOK)
	}))
	client.now = func() time.Time { return time.UnixMilli(1700000000000) }

	err := client.Decide(context.Background(), 3, models.StatusApproved, "looks good")
	require.NoError(t, err)

	assert.Equal(t, "/plans/3/approve/", gotPath)
	assert.Equal(t, "1700000000000", gotBust, "cache-busting timestamp")
	assert.JSONEq(t, `{"status": "approved", "feedback": "looks good"}`, gotBody)
}

func TestDecideRejectPath(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.Decide(context.Background(), 8, models.StatusRejected, "needs work"))
	assert.Equal(t, "/plans/8/reject/", gotPath)
}

func TestDecideInvalidOutcome(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an invalid outcome")
	}))

	err := client.Decide(context.Background(), 3, models.StatusSubmitted, "")
	require.ErrorIs(t, err, ErrInvalidReviewPayload)
}

func TestDecideErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		wantErr error
	}{
		{"forbidden", http.StatusForbidden, identity.ErrPermissionDenied},
		{"not found", http.StatusNotFound, ErrSubmissionNotFound},
		{"bad request", http.StatusBadRequest, ErrInvalidReviewPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
			}))

			err := client.Decide(context.Background(), 3, models.StatusApproved, "")
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecideUnknownError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("brew failure"))
	}))

	err := client.Decide(context.Background(), 3, models.StatusApproved, "")
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTeapot, statusErr.Code)
	assert.Contains(t, statusErr.Message, "brew failure")
}

func TestCurrentUser(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/me/", r.URL.Path)
		w.Write([]byte(`{
			"isAuthenticated": true,
			"userOrganizations": [{"id": 7, "organization": 10, "role": "evaluator"}]
		}`))
	}))

	payload, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.True(t, payload.IsAuthenticated)
	require.Len(t, payload.UserOrganizations, 1)
	assert.Equal(t, int64(7), payload.UserOrganizations[0].ID)
}

func TestCatalogAll(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/organizations/", r.URL.Path)
		w.Write([]byte(`{"data": [{"id": 10, "name": "Northwind"}]}`))
	}))

	orgs, err := client.All(context.Background())
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, "Northwind", orgs[0].Name)
}

func TestAuthTokenForwarded(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(Config{
		PlanStoreURL: server.URL,
		AuthToken:    "sekrit",
	}, zap.NewNop())

	_, err := client.ListPlans(context.Background(), models.StatusSubmitted, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, "Bearer sekrit", gotAuth)
}
