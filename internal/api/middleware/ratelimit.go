package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/nokan/nokan/internal/api/response"
	"github.com/nokan/nokan/internal/domain"
	"github.com/nokan/nokan/pkg/nokan"
)

const (
	// DefaultRequestsPerMinute is the sustained per-token rate.
	DefaultRequestsPerMinute = 100
	// DefaultBurst is how many requests a fresh token may make at once.
	DefaultBurst = 100
)

// RateLimiter holds one token bucket per API token.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

// NewRateLimiter creates a limiter allowing perMinute requests per token
// with the given burst. Non-positive values select the defaults.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = DefaultRequestsPerMinute
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		now:      time.Now,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[key]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[key] = l
	}
	return l
}

// Handler charges one request to the authenticated token. Allowed requests
// carry the remaining budget into the response meta; denied requests get a
// 429 with Retry-After in seconds. It must run after Auth.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := GetToken(r.Context())
		if token == nil {
			next.ServeHTTP(w, r)
			return
		}

		l := rl.limiter(token.ID)
		now := rl.now()

		if !l.AllowN(now, 1) {
			missing := 1 - l.TokensAt(now)
			wait := int(math.Ceil(missing / float64(rl.limit)))
			if wait < 1 {
				wait = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(wait))
			response.Error(w, domain.NewRateLimitedError())
			return
		}

		tokens := l.TokensAt(now)
		untilFull := time.Duration((float64(rl.burst) - tokens) / float64(rl.limit) * float64(time.Second))
		meta := nokan.RateLimitMeta{
			Remaining: int(math.Floor(tokens)),
			ResetAt:   now.Add(untilFull).UTC().Round(time.Second),
		}

		ctx := response.WithRateLimit(r.Context(), meta)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
