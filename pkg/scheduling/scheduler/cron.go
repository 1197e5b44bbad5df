package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	fgerrors "github.com/vnykmshr/firengo/pkg/common/errors"
	"github.com/vnykmshr/firengo/pkg/common/validation"
)

// cronParser accepts the standard five fields with an optional leading
// seconds field, descriptors such as "@hourly" and "@every 5m", and a
// CRON_TZ= prefix.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseCron parses a cron expression.
//
//	"0 */2 * * *"     every 2 hours
//	"*/10 * * * * *"  every 10 seconds
//	"30 14 * * 1-5"   2:30 PM on weekdays
//	"@daily"          every day at midnight
func ParseCron(expr string) (cron.Schedule, error) {
	if expr == "" {
		return nil, fgerrors.NewValidationError("scheduler", "cron", expr, "cannot be empty").
			WithHint(`use five fields such as "0 * * * *", six with seconds, or a descriptor like "@hourly"`)
	}
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return schedule, nil
}

// ValidateCron reports whether expr can be scheduled.
func ValidateCron(expr string) error {
	_, err := ParseCron(expr)
	return err
}

// NextRuns returns up to n activation times of expr after from. Fewer are
// returned when the expression stops matching.
func NextRuns(expr string, from time.Time, n int) ([]time.Time, error) {
	if err := validation.ValidateNonNegative("scheduler", "n", n); err != nil {
		return nil, err
	}
	schedule, err := ParseCron(expr)
	if err != nil {
		return nil, err
	}

	runs := make([]time.Time, 0, n)
	next := from
	for i := 0; i < n; i++ {
		next = schedule.Next(next)
		if next.IsZero() {
			break
		}
		runs = append(runs, next)
	}
	return runs, nil
}
