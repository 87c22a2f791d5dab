package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a lifecycle operation
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultLockTTL bounds how long a crashed process can hold a fiscal year lock
	DefaultLockTTL = 30 * time.Second

	// DefaultRetainedEarningsPrefix is the equity code prefix used when a
	// company has no retained earnings account configured
	DefaultRetainedEarningsPrefix = "33"

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// SystemUser is recorded when no actor is supplied
	SystemUser = "system"
)

// Options tunes the lifecycle use cases.
type Options struct {
	RetainedEarningsPrefix string
	LockTTL                time.Duration
	Timeout                time.Duration
	Now                    func() time.Time
}

func (o Options) withDefaults() Options {
	if o.RetainedEarningsPrefix == "" {
		o.RetainedEarningsPrefix = DefaultRetainedEarningsPrefix
	}
	if o.LockTTL <= 0 {
		o.LockTTL = DefaultLockTTL
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTransactionTimeout
	}
	if o.Now == nil {
		o.Now = func() time.Time { return time.Now().UTC() }
	}
	return o
}
