package middleware

import (
	"sync"
	"time"

	"adaptiv/config"
	"adaptiv/internal/delivery/http/response"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// Idle limiters are dropped after this long so the per-IP map cannot grow
// without bound.
const limiterTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware throttles credential-guessing surfaces per client IP.
// It backs the account lockout rather than replacing it: lockout protects a
// single account, the limiter slows an attacker spraying many accounts.
type RateLimitMiddleware struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rps     rate.Limit
	burst   int
}

// NewRateLimitMiddleware creates the per-IP limiter from configuration.
func NewRateLimitMiddleware(cfg *config.Config) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		clients: make(map[string]*clientLimiter),
		rps:     rate.Limit(cfg.RateLimit.LoginRPS),
		burst:   cfg.RateLimit.LoginBurst,
	}
}

// Limit rejects requests exceeding the per-IP budget with 429.
func (m *RateLimitMiddleware) Limit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !m.allow(c.RealIP()) {
			return response.TooManyRequests(c, "RATE_LIMITED", "Too many attempts, slow down")
		}

		return next(c)
	}
}

func (m *RateLimitMiddleware) allow(ip string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	client, ok := m.clients[ip]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(m.rps, m.burst)}
		m.clients[ip] = client
	}
	client.lastSeen = now

	for key, cl := range m.clients {
		if now.Sub(cl.lastSeen) > limiterTTL {
			delete(m.clients, key)
		}
	}

	return client.limiter.Allow()
}
