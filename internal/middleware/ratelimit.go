package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/tailwag/walkops/internal/utils"
)

// RateLimitConfig rate limiting ayarları
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
	IdleTimeout       time.Duration // bu süre görülmeyen key'ler silinir
	CleanupInterval   time.Duration
}

// DefaultRateLimitConfig varsayılan rate limit ayarları
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerMinute: 30,
		Burst:             5,
		IdleTimeout:       30 * time.Minute,
		CleanupInterval:   10 * time.Minute,
	}
}

type keyLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware token bucket rate limiter. Authenticated isteklerde key
// kullanıcı id'si, diğerlerinde client IP'sidir.
type RateLimitMiddleware struct {
	config   *RateLimitConfig
	limiters map[string]*keyLimiter
	mutex    sync.Mutex
	stop     chan struct{}
	once     sync.Once
}

// NewRateLimitMiddleware limiter oluşturur ve cleanup goroutine'ini başlatır
func NewRateLimitMiddleware(config *RateLimitConfig) *RateLimitMiddleware {
	if config == nil {
		config = DefaultRateLimitConfig()
	}
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = DefaultRateLimitConfig().RequestsPerMinute
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultRateLimitConfig().CleanupInterval
	}

	rlm := &RateLimitMiddleware{
		config:   config,
		limiters: make(map[string]*keyLimiter),
		stop:     make(chan struct{}),
	}
	go rlm.cleanupLimiters()
	return rlm
}

// Handler middleware fonksiyonunu döner
func (rlm *RateLimitMiddleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rlm.keyFor(r)
			limiter := rlm.limiterFor(key)

			reservation := limiter.Reserve()
			delay := reservation.Delay()
			remaining := int(limiter.Tokens())
			if remaining < 0 {
				remaining = 0
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rlm.config.RequestsPerMinute))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if delay > 0 {
				reservation.Cancel()
				retryAfter := int(delay.Seconds()) + 1
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				log.Warn().
					Str("key", key).
					Str("path", r.URL.Path).
					Msg("⏳ Rate limit aşıldı")
				WriteError(w, r, http.StatusTooManyRequests, "rate limit exceeded", map[string]interface{}{
					"retry_after_seconds": retryAfter,
					"limit_per_minute":    rlm.config.RequestsPerMinute,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Close cleanup goroutine'ini durdurur
func (rlm *RateLimitMiddleware) Close() {
	rlm.once.Do(func() { close(rlm.stop) })
}

func (rlm *RateLimitMiddleware) keyFor(r *http.Request) string {
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		return "user:" + strconv.Itoa(claims.UserID)
	}
	return "ip:" + utils.GetClientIP(r)
}

func (rlm *RateLimitMiddleware) limiterFor(key string) *rate.Limiter {
	rlm.mutex.Lock()
	defer rlm.mutex.Unlock()

	kl, ok := rlm.limiters[key]
	if !ok {
		every := rate.Every(time.Minute / time.Duration(rlm.config.RequestsPerMinute))
		kl = &keyLimiter{limiter: rate.NewLimiter(every, rlm.config.Burst)}
		rlm.limiters[key] = kl
	}
	kl.lastSeen = time.Now()
	return kl.limiter
}

func (rlm *RateLimitMiddleware) cleanupLimiters() {
	ticker := time.NewTicker(rlm.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rlm.stop:
			return
		case <-ticker.C:
			rlm.evictIdle(time.Now())
		}
	}
}

func (rlm *RateLimitMiddleware) evictIdle(now time.Time) {
	rlm.mutex.Lock()
	defer rlm.mutex.Unlock()

	for key, kl := range rlm.limiters {
		if now.Sub(kl.lastSeen) > rlm.config.IdleTimeout {
			delete(rlm.limiters, key)
		}
	}
	log.Debug().Int("active_limiters", len(rlm.limiters)).Msg("Rate limiter cleanup completed")
}
