package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/subwise/subtrack/internal/app/service/dispatch"
	"github.com/subwise/subtrack/internal/app/service/reminder"
	"github.com/subwise/subtrack/internal/app/service/renewal"
	"github.com/subwise/subtrack/internal/models"
	"github.com/subwise/subtrack/internal/platform/email"
	"github.com/subwise/subtrack/internal/store"
	"github.com/subwise/subtrack/pkg/config"
	"github.com/subwise/subtrack/pkg/response"
	"github.com/subwise/subtrack/pkg/types"
)

// brokenScanStore fails the overdue scan to exercise the fault path.
type brokenScanStore struct {
	*store.MemStore
}

func (s *brokenScanStore) ListOverdueSubscriptions(ctx context.Context, now time.Time, userID string) ([]*models.Subscription, error) {
	return nil, fmt.Errorf("connection refused")
}

func newJobsRouter(st store.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	log := zap.NewNop().Sugar()
	adv := renewal.NewService(cfg, st, log)
	recon := reminder.NewService(cfg, st, log)
	disp := dispatch.NewService(cfg, st, email.NewLogMailer(log), log)

	r := gin.New()
	r.POST("/internal/jobs/run", ApiRunJobs(adv, recon, disp, log))
	return r
}

func TestApiRunJobs_ReturnsSummary(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemStore()
	require.NoError(t, st.SaveSubscription(ctx, &models.Subscription{
		UserID:       "u1",
		Name:         "Netflix",
		Cost:         15.99,
		BillingCycle: types.BillingCycleMonthly,
		Status:       types.SubscriptionStatusActive,
		RenewalDate:  time.Now().AddDate(0, 0, -10),
	}))

	w := httptest.NewRecorder()
	newJobsRouter(st).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/internal/jobs/run", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Code response.APIResponseCode `json:"code"`
		Data JobRunResult             `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.APIResponseCodeOK, body.Code)
	assert.Equal(t, 1, body.Data.Scanned)
	assert.Equal(t, 1, body.Data.Advanced)
	assert.Empty(t, body.Data.Errors)
}

func TestApiRunJobs_FaultReturns500(t *testing.T) {
	st := &brokenScanStore{MemStore: store.NewMemStore()}

	w := httptest.NewRecorder()
	newJobsRouter(st).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/internal/jobs/run", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body struct {
		Code response.APIResponseCode `json:"code"`
		Data string                   `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, response.APIResponseCodeError, body.Code)
	// generic payload only, no internal detail
	assert.Equal(t, "job run failed", body.Data)
}
