package server

import (
	"fmt"
	"sync"
	"time"
)

// ClientLimiter throttles extraction requests per client. Recognition calls
// are the expensive part of a request, so limits count extraction attempts
// and uploaded bytes, not arbitrary HTTP traffic.
type ClientLimiter struct {
	mu sync.Mutex

	perMinute      int
	dailyUploadCap int64

	clients map[string]*clientUsage
}

type clientUsage struct {
	minuteCount int
	minuteStart time.Time

	uploadedToday int64
	dayStart      time.Time
}

// NewClientLimiter creates a limiter. A zero perMinute or dailyUploadCap
// disables that limit.
func NewClientLimiter(perMinute int, dailyUploadCap int64) *ClientLimiter {
	return &ClientLimiter{
		perMinute:      perMinute,
		dailyUploadCap: dailyUploadCap,
		clients:        make(map[string]*clientUsage),
	}
}

// Allow records one extraction attempt of uploadSize bytes for the client and
// reports whether it is within limits.
func (l *ClientLimiter) Allow(client string, uploadSize int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	u, ok := l.clients[client]
	if !ok {
		u = &clientUsage{minuteStart: now, dayStart: now}
		l.clients[client] = u
	}

	if now.Sub(u.minuteStart) >= time.Minute {
		u.minuteCount = 0
		u.minuteStart = now
	}
	if now.YearDay() != u.dayStart.YearDay() || now.Year() != u.dayStart.Year() {
		u.uploadedToday = 0
		u.dayStart = now
	}

	if l.perMinute > 0 && u.minuteCount >= l.perMinute {
		return &LimitError{
			Kind:       "requests",
			RetryAfter: time.Minute - now.Sub(u.minuteStart),
		}
	}
	if l.dailyUploadCap > 0 && u.uploadedToday+uploadSize > l.dailyUploadCap {
		midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
		return &LimitError{
			Kind:       "upload",
			RetryAfter: midnight.Sub(now),
		}
	}

	u.minuteCount++
	u.uploadedToday += uploadSize
	return nil
}

// LimitError reports which limit a client hit and when to retry.
type LimitError struct {
	Kind       string
	RetryAfter time.Duration
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s limit exceeded, retry after %s", e.Kind, e.RetryAfter.Round(time.Second))
}
