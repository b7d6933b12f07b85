package forecast

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/KasumiMercury/primind-demand-allocation/internal/domain"
)

// maxDecodable is the first float64 at or above which int conversion overflows.
const maxDecodable = float64(math.MaxInt64)

// Decode converts a log-scale prediction to a demand count as
// trunc(exp(prediction)). Results that are not finite or overflow int are errors.
func Decode(prediction float64) (int, error) {
	value := math.Exp(prediction)
	if math.IsNaN(value) || math.IsInf(value, 0) || value >= maxDecodable {
		return 0, fmt.Errorf("%w: exp(%v)", ErrDecode, prediction)
	}
	return int(math.Trunc(value)), nil
}

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	time.DateTime,
	"2006-01-02T15:04:05",
}

// ParseDate accepts an ISO calendar date, optionally with a time component,
// and returns midnight UTC of the calendar day as written.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, domain.ErrNoDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, s)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
