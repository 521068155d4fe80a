package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tsukuroi/kintsugi-backend/internal/config"
	"github.com/tsukuroi/kintsugi-backend/internal/services"
)

// RequireQuota is the freemium gate for module activity POSTs. Free-plan
// users get cfg.FreeDailyActivityLimit recorded activities per UTC day;
// premium users pass through. Unauthenticated requests get 401, exhausted
// quota gets 402 so the frontend can show the upgrade prompt.
func RequireQuota(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			userID, ok, err := services.ValidateSession(strings.TrimSpace(token))
			if err != nil || !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"success":false,"message":"Authentication required"}`))
				return
			}

			now := time.Now()
			if services.IsPremium(userID, now) {
				next.ServeHTTP(w, r)
				return
			}

			allowed, remaining := services.ConsumeActivitySlot(r.Context(), userID.String(), cfg.FreeDailyActivityLimit, now)
			if !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusPaymentRequired)
				w.Write([]byte(fmt.Sprintf(`{"success":false,"message":"Daily limit reached on the free plan. Upgrade for unlimited activities.","limit":%d}`, cfg.FreeDailyActivityLimit)))
				return
			}

			w.Header().Set("X-Quota-Remaining", fmt.Sprintf("%d", remaining))
			next.ServeHTTP(w, r)
		})
	}
}
