package types

type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

func (c BillingCycle) Valid() bool {
	return c == BillingCycleMonthly || c == BillingCycleYearly
}

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusTrial     SubscriptionStatus = "trial"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// BillableStatuses are the statuses eligible for renewal advancement and
// reminder backfill. Cancelled subscriptions are retained for history but
// never advanced.
var BillableStatuses = []SubscriptionStatus{SubscriptionStatusActive, SubscriptionStatusTrial}

func (s SubscriptionStatus) Billable() bool {
	return s == SubscriptionStatusActive || s == SubscriptionStatusTrial
}
