package domain

import (
	"context"
	"errors"
	"time"
)

type CreateSubscriptionRequest struct {
	ServiceName     string         `json:"service_name"`
	Category        string         `json:"category"`
	MonthlyCost     float64        `json:"monthly_cost"`
	BillingCycle    BillingCycle   `json:"billing_cycle"`
	LastUsedDate    *time.Time     `json:"last_used_date,omitempty"`
	NextBillingDate *time.Time     `json:"next_billing_date,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

type UpdateSubscriptionRequest struct {
	ServiceName     *string       `json:"service_name,omitempty"`
	Category        *string       `json:"category,omitempty"`
	MonthlyCost     *float64      `json:"monthly_cost,omitempty"`
	BillingCycle    *BillingCycle `json:"billing_cycle,omitempty"`
	NextBillingDate *time.Time    `json:"next_billing_date,omitempty"`
}

type ListSubscriptionRequest struct {
	Category     string
	BillingCycle string
	Search       string
}

type ListSubscriptionResponse struct {
	Subscriptions []Subscription `json:"subscriptions"`
}

type Service interface {
	Create(ctx context.Context, req CreateSubscriptionRequest) (Subscription, error)
	List(ctx context.Context, req ListSubscriptionRequest) (ListSubscriptionResponse, error)
	GetByID(ctx context.Context, id string) (Subscription, error)
	Update(ctx context.Context, id string, req UpdateSubscriptionRequest) (Subscription, error)
	Delete(ctx context.Context, id string) error
	MarkUsed(ctx context.Context, id string) (Subscription, error)
	RecordUsage(ctx context.Context, serviceName string, score int, data map[string]any) (Subscription, error)
}

var (
	ErrInvalidUser          = errors.New("invalid_user")
	ErrInvalidServiceName   = errors.New("invalid_service_name")
	ErrInvalidBillingCycle  = errors.New("invalid_billing_cycle")
	ErrNegativeCost         = errors.New("negative_cost")
	ErrSubscriptionNotFound = errors.New("subscription_not_found")
)
