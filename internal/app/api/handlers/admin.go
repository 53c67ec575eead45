package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	subsvc "github.com/subwise/subtrack/internal/app/service/subscription"
	"github.com/subwise/subtrack/internal/models"
	"github.com/subwise/subtrack/pkg/response"
	"github.com/subwise/subtrack/pkg/types"
)

type ListSubscriptionsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type SubscriptionItem struct {
	ID           string                   `json:"id"`
	UserID       string                   `json:"user_id"`
	Name         string                   `json:"name"`
	Category     string                   `json:"category"`
	Cost         float64                  `json:"cost"`
	BillingCycle types.BillingCycle       `json:"billing_cycle"`
	Status       types.SubscriptionStatus `json:"status"`
	RenewalDate  time.Time                `json:"renewal_date"`
	TrialEndDate *time.Time               `json:"trial_end_date"`
	LastUsed     *time.Time               `json:"last_used"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

func toSubscriptionItem(m *models.Subscription) *SubscriptionItem {
	return &SubscriptionItem{
		ID:           m.ID,
		UserID:       m.UserID,
		Name:         m.Name,
		Category:     m.Category,
		Cost:         m.Cost,
		BillingCycle: m.BillingCycle,
		Status:       m.Status,
		RenewalDate:  m.RenewalDate,
		TrialEndDate: m.TrialEndDate,
		LastUsed:     m.LastUsed,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type ListSubscriptionsResponse struct {
	Items []*SubscriptionItem `json:"items"`
	Total int64               `json:"total"`
}

// @Summary      List Subscriptions (Admin)
// @Description  Retrieves a paginated and filterable list of all subscriptions.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ListSubscriptionsRequest true "List request with filters, pagination, and sorting"
// @Success      200  {object}  response.APIResponse[handlers.ListSubscriptionsResponse]
// @Router       /api/v1/admin/list_subscriptions [post]
func ApiAdminListSubscriptions(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListSubscriptionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		scanReq := &subsvc.ScanSubscriptionsRequest{Filters: req.Filters, From: req.From, Size: req.Size, SortBy: req.SortBy, SortOrder: req.SortOrder}
		res, err := svc.ScanSubscriptions(c.Request.Context(), scanReq)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		items := lo.Map(res.Items, func(it *models.Subscription, _ int) *SubscriptionItem { return toSubscriptionItem(it) })
		c.JSON(http.StatusOK, response.OKT(&ListSubscriptionsResponse{Items: items, Total: res.Total}))
	}
}

func RegisterAdminRoutes(r gin.IRouter, svc *subsvc.Service) {
	r.POST("/list_subscriptions", ApiAdminListSubscriptions(svc))
}
