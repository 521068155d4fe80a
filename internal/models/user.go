package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account row in PostgreSQL. Accounts are username-only; no
// email or personal data is collected.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Locale       string    `json:"locale"`
	CreatedAt    time.Time `json:"created_at"`
	IsActive     bool      `json:"is_active"`
}

// Subscription plans and statuses.
const (
	PlanFree    = "free"
	PlanPremium = "premium"

	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
)

// Subscription is the freemium bookkeeping row for a user. Payment capture
// happens at the provider; only the opaque reference is stored here.
type Subscription struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	Plan             string     `json:"plan"`
	Status           string     `json:"status"`
	PaymentRef       string     `json:"-"`
	StartedAt        time.Time  `json:"started_at"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// IsPremium reports whether the subscription currently grants premium
// access. A canceled subscription stays premium until its period ends.
func (s *Subscription) IsPremium(now time.Time) bool {
	if s.Plan != PlanPremium {
		return false
	}
	if s.CurrentPeriodEnd != nil && now.After(*s.CurrentPeriodEnd) {
		return false
	}
	return true
}
