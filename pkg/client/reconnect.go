package client

import "time"

// ReconnectPolicy governs whether and how often the client retries
// after an abnormal closure. MaxAttempts == 0 means unlimited attempts.
type ReconnectPolicy struct {
	Enabled     bool
	Interval    time.Duration
	MaxAttempts int
}

// permits reports whether another attempt may be scheduled after the
// given number of abnormal closures. The unlimited case is an explicit
// condition of its own.
func (p ReconnectPolicy) permits(attempts int) bool {
	if !p.Enabled {
		return false
	}
	unlimited := p.MaxAttempts == 0
	if unlimited {
		return true
	}
	return attempts <= p.MaxAttempts
}
