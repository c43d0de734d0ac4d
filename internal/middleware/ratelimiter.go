package middleware

import (
	"encoding/json"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"voxdesk/internal/metrics"
)

// TenantHeader carries the sub-account id on every API request
const TenantHeader = "X-Sub-Account-ID"

// ThrottledMessage is the error body returned when a sub-account is over
// its request budget
const ThrottledMessage = "too many requests for this sub-account, retry shortly"

// RateLimiter keeps one token bucket per tenant
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	r        rate.Limit
	burst    int
}

// NewRateLimiter allows r requests per second with the given burst per tenant
func NewRateLimiter(r rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		burst:    burst,
	}
}

func (rl *RateLimiter) getLimiter(tenant string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[tenant]
	if !exists {
		limiter = rate.NewLimiter(rl.r, rl.burst)
		rl.limiters[tenant] = limiter
	}
	return limiter
}

// Middleware rejects requests over the tenant's budget with 429
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenant := r.Header.Get(TenantHeader)
		if !rl.getLimiter(tenant).Allow() {
			metrics.HttpRateLimitRejectionsTotal.Inc()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"error": ThrottledMessage})
			return
		}
		next.ServeHTTP(w, r)
	})
}
