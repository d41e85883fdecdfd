package values

import "fmt"

// Duration is a subscription period expressed in whole days.
type Duration struct {
	days int
}

// NewDuration validates and creates a Duration.
func NewDuration(days int) (Duration, error) {
	if days <= 0 {
		return Duration{}, fmt.Errorf("duration must be a positive number of days, got %d", days)
	}
	return Duration{days: days}, nil
}

// Days returns the duration in days.
func (d Duration) Days() int {
	return d.days
}

func (d Duration) String() string {
	return fmt.Sprintf("%dd", d.days)
}
