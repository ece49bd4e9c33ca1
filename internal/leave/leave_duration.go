package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

var halfDay = decimal.NewFromFloat(0.5)

// Duration converts an inclusive date range and the half-day flags into the
// number of days the request consumes. Each half-day flag shaves 0.5 off
// independently, so a single-day request marked half on both ends comes out
// to zero; callers must reject non-positive results.
//
// Dates are expected at midnight UTC (the repository stores plain dates);
// the computation is pure and has no I/O.
func Duration(startDate, endDate time.Time, halfDayStart, halfDayEnd bool) decimal.Decimal {
	wholeDays := int64(endDate.Sub(startDate).Hours()/24) + 1

	d := decimal.NewFromInt(wholeDays)
	if halfDayStart {
		d = d.Sub(halfDay)
	}
	if halfDayEnd {
		d = d.Sub(halfDay)
	}
	return d
}
