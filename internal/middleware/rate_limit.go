// internal/middleware/rate_limit.go
package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/fortexuz/fortex-backend/internal/utils"
)

// visitorTTL is how long an idle caller keeps its bucket.
const visitorTTL = 3 * time.Minute

// KeyFunc picks the bucket a request is charged to.
type KeyFunc func(c *gin.Context) string

func ByClientIP(c *gin.Context) string {
	return c.ClientIP()
}

// BySession charges storefront writes to the cart session, falling back to
// the client address when the session middleware has not run.
func BySession(c *gin.Context) string {
	if sessionID := c.GetString("session_id"); sessionID != "" {
		return "sess:" + sessionID
	}
	return c.ClientIP()
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiter struct {
	visitors map[string]*visitor
	mtx      sync.Mutex
	rate     rate.Limit
	burst    int
	key      KeyFunc
}

func NewRateLimiter(r rate.Limit, b int, key KeyFunc) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    b,
		key:      key,
	}

	go rl.cleanupVisitors()

	return rl
}

func (rl *RateLimiter) cleanupVisitors() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.prune(time.Now())
	}
}

func (rl *RateLimiter) prune(now time.Time) {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(rl.visitors, key)
		}
	}
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.visitors[key] = v
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(rl.key(c)).Allow() {
			utils.TooManyRequestsResponse(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RateLimits groups the per-route limiters used by the router.
type RateLimits struct {
	General  gin.HandlerFunc
	Auth     gin.HandlerFunc
	Checkout gin.HandlerFunc // orders, reviews and bookings; each one pings the staff chat
	Upload   gin.HandlerFunc
}

// NewRateLimits builds the limiters. When disabled every entry is a
// pass-through and no cleanup goroutines are started.
func NewRateLimits(enabled bool) RateLimits {
	if !enabled {
		pass := func(c *gin.Context) { c.Next() }
		return RateLimits{General: pass, Auth: pass, Checkout: pass, Upload: pass}
	}

	return RateLimits{
		General:  NewRateLimiter(rate.Every(100*time.Millisecond), 20, ByClientIP).Middleware(),
		Auth:     NewRateLimiter(rate.Every(12*time.Second), 5, ByClientIP).Middleware(), // 5 per minute
		Checkout: NewRateLimiter(rate.Every(10*time.Second), 3, BySession).Middleware(),
		Upload:   NewRateLimiter(rate.Every(6*time.Second), 10, ByClientIP).Middleware(),
	}
}
