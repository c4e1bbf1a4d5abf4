package database

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// RetryPolicy controls how often a read is repeated after a transient failure
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// readRetry is used by QueryBuilder.Retry and DB.Health. Writes and transactions are never retried.
var readRetry = RetryPolicy{
	Attempts:  3,
	BaseDelay: 100 * time.Millisecond,
	MaxDelay:  2 * time.Second,
}

// SQLSTATE classes and codes worth another attempt
var (
	transientClasses = []string{
		"08", // connection exception
		"53", // insufficient resources
	}
	transientCodes = map[string]bool{
		"40001": true, // serialization_failure
		"40P01": true, // deadlock_detected
		"57P03": true, // cannot_connect_now
	}
)

var transientMessages = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"bad connection",
	"connection closed",
	"too many clients",
	"server is not accepting",
	"unexpected eof",
}

// isTransient reports whether err is worth retrying. Constraint violations, missing rows and
// cancelled contexts never are.
func isTransient(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, sql.ErrNoRows):
		return false
	}

	if code, ok := sqlStateCode(err); ok {
		if transientCodes[code] {
			return true
		}
		for _, class := range transientClasses {
			if strings.HasPrefix(code, class) {
				return true
			}
		}
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, m := range transientMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// sqlStateCode extracts the SQLSTATE from a pgx or pgdriver error
func sqlStateCode(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, true
	}
	var drvErr pgdriver.Error
	if errors.As(err, &drvErr) {
		return drvErr.Field('C'), true
	}
	return "", false
}

// Run calls op until it succeeds, fails permanently or the attempts are used up.
// The delay doubles after every attempt, capped at MaxDelay.
func (p RetryPolicy) Run(ctx context.Context, op func() error) error {
	delay := p.BaseDelay
	var err error

	for attempt := 1; ; attempt++ {
		if err = op(); err == nil || !isTransient(err) || attempt >= p.Attempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = min(delay*2, p.MaxDelay)
	}
}

// WithRetry runs a read with the default read policy
func WithRetry(ctx context.Context, fn func() error) error {
	return readRetry.Run(ctx, fn)
}
