package middleware

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RateLimiter throttles the invocations of a single route
type RateLimiter struct {
	limiter           *rate.Limiter
	requestsPerSecond float64
	logger            *logrus.Logger
}

// NewRateLimiter returns a limiter allowing requestsPerSecond with the given burst
func NewRateLimiter(requestsPerSecond float64, burstSize int, logger *logrus.Logger) *RateLimiter {
	if burstSize < 1 {
		burstSize = 1
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RateLimiter{
		limiter:           rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize),
		requestsPerSecond: requestsPerSecond,
		logger:            logger,
	}
}

// Allow reports whether one more invocation may proceed now
func (r *RateLimiter) Allow(route string) bool {
	if r == nil {
		return true
	}
	if r.limiter.Allow() {
		return true
	}

	r.logger.WithFields(logrus.Fields{
		"route": route,
		"limit": r.requestsPerSecond,
	}).Warn("Rate limit exceeded")
	return false
}
