package webhook

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// phoneLimiter rate-limits submissions per sender number.
type phoneLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newPhoneLimiter(requests int, window time.Duration) *phoneLimiter {
	return &phoneLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
	}
}

func (p *phoneLimiter) Allow(number string) bool {
	p.mu.Lock()
	l, ok := p.limiters[number]
	if !ok {
		l = rate.NewLimiter(p.limit, p.burst)
		p.limiters[number] = l
	}
	p.mu.Unlock()

	return l.Allow()
}
