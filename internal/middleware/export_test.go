package middleware

import "time"

// SetNow overrides the limiter clock in tests.
func (l *WindowLimiter) SetNow(now func() time.Time) { l.now = now }
