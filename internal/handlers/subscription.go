package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/tsukuroi/kintsugi-backend/internal/config"
	"github.com/tsukuroi/kintsugi-backend/internal/models"
	"github.com/tsukuroi/kintsugi-backend/internal/services"
)

// paywallCfg carries the freemium knobs into the subscription handlers.
// Set from main via InitSubscriptionHandlers.
var paywallCfg *config.Config

// InitSubscriptionHandlers wires the loaded configuration into the
// subscription endpoints.
func InitSubscriptionHandlers(cfg *config.Config) {
	paywallCfg = cfg
}

type SubscriptionResponse struct {
	Success      bool                 `json:"success"`
	Message      string               `json:"message,omitempty"`
	Subscription *models.Subscription `json:"subscription,omitempty"`
	Premium      bool                 `json:"premium"`
	// Free-plan quota for today; zero and meaningless for premium users
	QuotaLimit     int `json:"quota_limit,omitempty"`
	QuotaRemaining int `json:"quota_remaining,omitempty"`
	// Informational price for the upgrade prompt
	PriceJPY int `json:"price_jpy,omitempty"`
}

type UpgradeRequest struct {
	// Opaque reference from the payment provider; stored, never interpreted
	PaymentRef string `json:"payment_ref"`
}

// GetSubscription returns the user's plan plus today's remaining free quota.
func GetSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(SubscriptionResponse{Success: false, Message: "Authentication required"})
		return
	}

	sub, err := services.GetSubscription(userID)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(SubscriptionResponse{Success: false, Message: "Failed to load subscription"})
		return
	}

	now := time.Now()
	resp := SubscriptionResponse{
		Success:      true,
		Subscription: sub,
		Premium:      sub.IsPremium(now),
		PriceJPY:     paywallCfg.PremiumPlanPriceJPY,
	}
	if !resp.Premium {
		used := services.UsedActivitySlots(r.Context(), userID.String(), now)
		resp.QuotaLimit = paywallCfg.FreeDailyActivityLimit
		resp.QuotaRemaining = services.RemainingSlots(paywallCfg.FreeDailyActivityLimit, used)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// UpgradeSubscription marks the account premium for one period after the
// payment provider confirmed the charge.
func UpgradeSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(SubscriptionResponse{Success: false, Message: "Authentication required"})
		return
	}

	var req UpgradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SubscriptionResponse{Success: false, Message: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.PaymentRef) == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SubscriptionResponse{Success: false, Message: "payment_ref is required"})
		return
	}

	sub, err := services.UpgradeSubscription(userID, strings.TrimSpace(req.PaymentRef), time.Now())
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(SubscriptionResponse{Success: false, Message: "Failed to upgrade subscription"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SubscriptionResponse{
		Success:      true,
		Message:      "Upgraded to premium",
		Subscription: sub,
		Premium:      true,
	})
}

// CancelSubscription cancels a premium subscription. Access continues until
// the current period ends.
func CancelSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(SubscriptionResponse{Success: false, Message: "Authentication required"})
		return
	}

	sub, err := services.CancelSubscription(userID)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(SubscriptionResponse{Success: false, Message: "Failed to cancel subscription"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SubscriptionResponse{
		Success:      true,
		Message:      "Subscription canceled; premium access continues until the period ends",
		Subscription: sub,
		Premium:      sub.IsPremium(time.Now()),
	})
}
