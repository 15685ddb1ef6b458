package service

import (
	"time"

	"github.com/dawam/attendance-system/internal/core/domain"
	"github.com/dawam/attendance-system/internal/core/ports"
	"github.com/dawam/attendance-system/internal/pkg/timeutil"
)

// aggregate buckets closed records by the local calendar day of their
// check-in and sums durations per day and overall. Records are expected most
// recent check-in first; day ordering follows the input order. Raw durations
// are summed before rounding so multi-shift days do not accumulate rounding
// error.
func aggregate(records []*domain.AttendanceRecord, clock *timeutil.Clock) *ports.SummaryResult {
	dayOrder := make([]string, 0, len(records))
	dayTotals := make(map[string]time.Duration, len(records))
	var total time.Duration

	for _, r := range records {
		if r.Open() {
			continue
		}
		d := r.Duration()
		total += d

		key := clock.DayKey(r.CheckInAt)
		if _, seen := dayTotals[key]; !seen {
			dayOrder = append(dayOrder, key)
		}
		dayTotals[key] += d
	}

	days := make([]ports.DaySummary, 0, len(dayOrder))
	for _, key := range dayOrder {
		days = append(days, ports.DaySummary{
			Date:  key,
			Hours: domain.RoundHours(dayTotals[key]),
		})
	}

	return &ports.SummaryResult{
		Days:       days,
		TotalHours: domain.RoundHours(total),
	}
}
