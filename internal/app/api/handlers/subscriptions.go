package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	subsvc "github.com/subwise/subtrack/internal/app/service/subscription"
	"github.com/subwise/subtrack/internal/app/api/middleware"
	"github.com/subwise/subtrack/internal/store"
	"github.com/subwise/subtrack/pkg/response"
)

// @Summary      Create Subscription
// @Description  Records a new recurring subscription for the authenticated user.
// @Tags         Subscriptions
// @Accept       json
// @Produce      json
// @Param        request body subscription.CreateRequest true "Subscription to create"
// @Success      200  {object}  response.APIResponse[models.Subscription]
// @Router       /api/v1/subscriptions [post]
func ApiCreateSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subsvc.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		sub, err := svc.Create(c.Request.Context(), middleware.UserID(c), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

// @Summary      List Subscriptions
// @Tags         Subscriptions
// @Produce      json
// @Success      200  {object}  response.APIResponse[[]models.Subscription]
// @Router       /api/v1/subscriptions [get]
func ApiListSubscriptions(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		subs, err := svc.List(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, "failed to list subscriptions"))
			return
		}
		c.JSON(http.StatusOK, response.OKT(subs))
	}
}

// @Summary      Update Subscription
// @Description  Edits subscription fields. Date edits invalidate and recreate pending reminders.
// @Tags         Subscriptions
// @Accept       json
// @Produce      json
// @Param        id path string true "Subscription ID"
// @Param        request body subscription.UpdateRequest true "Fields to change"
// @Success      200  {object}  response.APIResponse[models.Subscription]
// @Router       /api/v1/subscriptions/{id} [patch]
func ApiUpdateSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subsvc.UpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		sub, err := svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), &req)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, "subscription not found"))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

// @Summary      Cancel Subscription
// @Description  Ends a subscription for billing; the record is kept for history.
// @Tags         Subscriptions
// @Produce      json
// @Param        id path string true "Subscription ID"
// @Success      200  {object}  response.APIResponse[models.Subscription]
// @Router       /api/v1/subscriptions/{id}/cancel [post]
func ApiCancelSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, err := svc.Cancel(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, "subscription not found"))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, "failed to cancel subscription"))
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

// @Summary      Get Notification Preferences
// @Tags         Preferences
// @Produce      json
// @Success      200  {object}  response.APIResponse[models.UserPreferences]
// @Router       /api/v1/preferences [get]
func ApiGetPreferences(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.GetPreferences(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, "failed to load preferences"))
			return
		}
		c.JSON(http.StatusOK, response.OKT(p))
	}
}

// @Summary      Save Notification Preferences
// @Tags         Preferences
// @Accept       json
// @Produce      json
// @Param        request body subscription.PreferencesRequest true "Preferences"
// @Success      200  {object}  response.APIResponse[models.UserPreferences]
// @Router       /api/v1/preferences [put]
func ApiSavePreferences(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subsvc.PreferencesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		p, err := svc.SavePreferences(c.Request.Context(), middleware.UserID(c), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(p))
	}
}

// @Summary      Due Reminders (in-app)
// @Description  Unsent reminders due now for the authenticated user, honoring the in-app preference.
// @Tags         Reminders
// @Produce      json
// @Success      200  {object}  response.APIResponse[[]models.Reminder]
// @Router       /api/v1/reminders/due [get]
func ApiDueReminders(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rs, err := svc.DueReminders(c.Request.Context(), middleware.UserID(c), time.Now())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, "failed to load reminders"))
			return
		}
		c.JSON(http.StatusOK, response.OKT(rs))
	}
}

func RegisterSubscriptionRoutes(r gin.IRouter, svc *subsvc.Service) {
	r.POST("/subscriptions", ApiCreateSubscription(svc))
	r.GET("/subscriptions", ApiListSubscriptions(svc))
	r.PATCH("/subscriptions/:id", ApiUpdateSubscription(svc))
	r.POST("/subscriptions/:id/cancel", ApiCancelSubscription(svc))
	r.GET("/preferences", ApiGetPreferences(svc))
	r.PUT("/preferences", ApiSavePreferences(svc))
	r.GET("/reminders/due", ApiDueReminders(svc))
}
