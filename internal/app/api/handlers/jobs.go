package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/subwise/subtrack/internal/app/api/middleware"
	"github.com/subwise/subtrack/internal/app/service/dispatch"
	"github.com/subwise/subtrack/internal/app/service/reminder"
	"github.com/subwise/subtrack/internal/app/service/renewal"
	"github.com/subwise/subtrack/pkg/logctx"
	"github.com/subwise/subtrack/pkg/response"
	"github.com/subwise/subtrack/pkg/types"
)

// JobRunResult is the summary returned by the batch trigger and the per-user
// sync endpoint. Dispatch counters are zero for sync, which never sends email.
type JobRunResult struct {
	Scanned          int               `json:"scanned"`
	Advanced         int               `json:"advanced"`
	Backfilled       int               `json:"backfilled"`
	RemindersCreated int               `json:"reminders_created"`
	Dispatched       int               `json:"dispatched"`
	Suppressed       int               `json:"suppressed"`
	Errors           []types.ItemError `json:"errors,omitempty"`
}

// @Summary      Sync Subscriptions
// @Description  Advances the caller's overdue subscriptions and backfills missing reminders. Safe to call repeatedly.
// @Tags         Jobs
// @Produce      json
// @Success      200  {object}  response.APIResponse[handlers.JobRunResult]
// @Router       /api/v1/sync [post]
func ApiSync(adv *renewal.Service, recon *reminder.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		now := time.Now()

		advRes, err := adv.AdvanceOverdue(c.Request.Context(), userID, now)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, "sync failed"))
			return
		}
		backRes, err := recon.Backfill(c.Request.Context(), userID, now)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, "sync failed"))
			return
		}

		res := JobRunResult{
			Scanned:          advRes.Scanned,
			Advanced:         advRes.Advanced,
			Backfilled:       backRes.Created,
			RemindersCreated: advRes.RemindersCreated + backRes.Created,
			Errors:           append(advRes.Errors, backRes.Errors...),
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Run Engine Jobs
// @Description  Runs the full engine pass for all users: advance overdue renewals, backfill reminders, dispatch due notifications. Requires the X-Cron-Secret header.
// @Tags         Jobs
// @Produce      json
// @Param        X-Cron-Secret header string true "Shared cron secret"
// @Success      200  {object}  response.APIResponse[handlers.JobRunResult]
// @Router       /internal/jobs/run [post]
func ApiRunJobs(adv *renewal.Service, recon *reminder.Service, disp *dispatch.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		now := time.Now()
		res := JobRunResult{}

		advRes, err := adv.AdvanceOverdue(ctx, "", now)
		if err != nil {
			logctx.FromGin(c, log).Errorw("advance pass failed", "err", err)
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, "job run failed"))
			return
		}
		res.Scanned = advRes.Scanned
		res.Advanced = advRes.Advanced
		res.RemindersCreated = advRes.RemindersCreated
		res.Errors = append(res.Errors, advRes.Errors...)

		backRes, err := recon.Backfill(ctx, "", now)
		if err != nil {
			logctx.FromGin(c, log).Errorw("backfill pass failed", "err", err)
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, "job run failed"))
			return
		}
		res.Backfilled = backRes.Created
		res.RemindersCreated += backRes.Created
		res.Errors = append(res.Errors, backRes.Errors...)

		dispRes, err := disp.Run(ctx, now)
		if err != nil {
			logctx.FromGin(c, log).Errorw("dispatch pass failed", "err", err)
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, "job run failed"))
			return
		}
		res.Dispatched = dispRes.Dispatched
		res.Suppressed = dispRes.Suppressed
		res.Errors = append(res.Errors, dispRes.Errors...)

		c.JSON(http.StatusOK, response.OKT(res))
	}
}
