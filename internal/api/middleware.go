package api

import (
	"alcyxob/routine-tracker/internal/domain"
	"alcyxob/routine-tracker/internal/metrics"
	"alcyxob/routine-tracker/internal/repository"
	"alcyxob/routine-tracker/internal/service"
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
)

const (
	ContextClaimsKey  = "claims"
	AccessTokenCookie = "access_token"
)

// AuthMiddleware authenticates the request with a bearer token taken from the
// Authorization header or, failing that, the access_token cookie. The token's
// user must still exist and be active.
func AuthMiddleware(tokens service.TokenService, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			abortWithError(c, http.StatusUnauthorized, "Authentication token is missing")
			return
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			respondError(c, err)
			return
		}
		if !user.IsActive {
			abortWithError(c, http.StatusUnauthorized, "User is inactive")
			return
		}

		// The stored role wins over whatever the token was issued with.
		c.Set(ContextClaimsKey, domain.Claims{UserID: user.ID, Email: user.Email, Role: user.Role})
		c.Next()
	}
}

// bearerToken prefers a Bearer Authorization header. Any other header, such as
// a proxy's Basic credentials, leaves the cookie as the source.
func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		if token := strings.TrimSpace(parts[1]); token != "" {
			return token
		}
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

// RoleMiddleware rejects authenticated callers whose role is not in allowedRoles.
// An empty list admits every authenticated caller. Must run AFTER AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFromContext(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		if len(allowedRoles) > 0 && !domain.HasAnyRole(claims.Role, allowedRoles...) {
			abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied: role '%s' does not have permission", claims.Role))
			return
		}
		c.Next()
	}
}

func claimsFromContext(c *gin.Context) (domain.Claims, bool) {
	raw, exists := c.Get(ContextClaimsKey)
	if !exists {
		return domain.Claims{}, false
	}
	claims, ok := raw.(domain.Claims)
	return claims, ok
}

// mustClaims is used by handlers mounted behind AuthMiddleware.
func mustClaims(c *gin.Context) (domain.Claims, bool) {
	claims, ok := claimsFromContext(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "Authentication required")
	}
	return claims, ok
}

// RequestLogger logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"ip":       c.ClientIP(),
		})
		if claims, ok := claimsFromContext(c); ok {
			entry = entry.WithField("user_id", claims.UserID)
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Debug("request served")
		}
	}
}

// RequestMetrics counts and times requests by their route template.
func RequestMetrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.GaugeRequests.Inc()
		start := time.Now()
		c.Next()
		m.GaugeRequests.Dec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.CounterRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HistRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateLimit allows allowedPerMin requests per client IP for the named limiter.
func RateLimit(rateLimiter RequestRateLimiter, limiterName string, allowedPerMin int, m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := rateLimiter.Allow(
			c.Request.Context(),
			limiterName+":"+c.ClientIP(),
			redis_rate.PerMinute(allowedPerMin),
		)
		if err != nil {
			log.Errorf("rate limiter %s: %v", limiterName, err)
			abortWithError(c, http.StatusInternalServerError, "rate limit internal error")
			return
		}

		if res.Allowed > 0 {
			c.Next()
			return
		}

		if m != nil {
			m.CounterRateLimited.WithLabelValues(limiterName).Inc()
		}
		retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		abortWithError(c, http.StatusTooManyRequests, fmt.Sprintf("retry after %d seconds", retryAfter))
	}
}
