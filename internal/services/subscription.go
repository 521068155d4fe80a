package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/tsukuroi/kintsugi-backend/internal/database"
	"github.com/tsukuroi/kintsugi-backend/internal/models"
)

// PremiumPeriod is the length of one paid period.
const PremiumPeriod = 30 * 24 * time.Hour

// GetSubscription returns the user's subscription row. A missing row is
// treated as an active free plan.
func GetSubscription(userID uuid.UUID) (*models.Subscription, error) {
	sub := &models.Subscription{
		UserID: userID,
		Plan:   models.PlanFree,
		Status: models.SubscriptionActive,
	}

	var paymentRef sql.NullString
	var periodEnd sql.NullTime
	err := database.PostgresDB.QueryRow(`
		SELECT id, plan, status, payment_ref, started_at, current_period_end, updated_at
		FROM subscriptions
		WHERE user_id = $1
	`, userID).Scan(&sub.ID, &sub.Plan, &sub.Status, &paymentRef, &sub.StartedAt, &periodEnd, &sub.UpdatedAt)
	if err == sql.ErrNoRows {
		return sub, nil
	}
	if err != nil {
		return nil, err
	}

	if paymentRef.Valid {
		sub.PaymentRef = paymentRef.String
	}
	if periodEnd.Valid {
		t := periodEnd.Time
		sub.CurrentPeriodEnd = &t
	}
	return sub, nil
}

// EnsureSubscription inserts the free-plan row for a new user inside the
// signup transaction.
func EnsureSubscription(tx *sql.Tx, userID uuid.UUID) error {
	_, err := tx.Exec(`
		INSERT INTO subscriptions (id, user_id, plan, status, started_at, updated_at)
		VALUES (gen_random_uuid(), $1, 'free', 'active', NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	return err
}

// UpgradeSubscription marks the user premium for one period. paymentRef is
// the opaque reference from the payment provider; it is stored, not
// interpreted.
func UpgradeSubscription(userID uuid.UUID, paymentRef string, now time.Time) (*models.Subscription, error) {
	periodEnd := now.Add(PremiumPeriod)
	_, err := database.PostgresDB.Exec(`
		INSERT INTO subscriptions (id, user_id, plan, status, payment_ref, started_at, current_period_end, updated_at)
		VALUES (gen_random_uuid(), $1, 'premium', 'active', $2, $3, $4, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			plan = 'premium',
			status = 'active',
			payment_ref = $2,
			current_period_end = $4,
			updated_at = $3
	`, userID, paymentRef, now, periodEnd)
	if err != nil {
		return nil, err
	}
	return GetSubscription(userID)
}

// CancelSubscription marks a premium subscription canceled. Access stays
// premium until the current period ends.
func CancelSubscription(userID uuid.UUID) (*models.Subscription, error) {
	_, err := database.PostgresDB.Exec(`
		UPDATE subscriptions
		SET status = 'canceled', updated_at = NOW()
		WHERE user_id = $1 AND plan = 'premium'
	`, userID)
	if err != nil {
		return nil, err
	}
	return GetSubscription(userID)
}

// IsPremium reports whether the user currently has premium access.
// Database errors fail closed to the free plan.
func IsPremium(userID uuid.UUID, now time.Time) bool {
	sub, err := GetSubscription(userID)
	if err != nil {
		return false
	}
	return sub.IsPremium(now)
}
