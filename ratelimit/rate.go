// Package ratelimit implements a per-host rate limiter for fetchers.
package ratelimit

import (
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// QueryFunc returns the minimal fetch interval and burst of a host.
type QueryFunc func(host string) (interval time.Duration, burst int)

// A Limit controls how frequently hosts are allowed to be fetched.
type Limit struct {
	mu    sync.Mutex
	host  map[string]*rate.Limiter
	query QueryFunc
}

// New creates a rate limiter. The query function is called once per
// host, on first contact.
func New(query QueryFunc) *Limit {
	return &Limit{
		host:  make(map[string]*rate.Limiter),
		query: query,
	}
}

// Every creates a rate limiter that enforces the same interval for all
// hosts.
func Every(interval time.Duration) *Limit {
	return New(func(string) (time.Duration, int) { return interval, 1 })
}

// Reserve returns how long the caller should wait before fetching u.
func (l *Limit) Reserve(u *url.URL) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	h := u.Host
	v, ok := l.host[h]
	if !ok {
		d, burst := l.query(h)
		if burst < 1 {
			burst = 1
		}
		v = rate.NewLimiter(rate.Every(d), burst)
		l.host[h] = v
	}
	return v.Reserve().Delay()
}
