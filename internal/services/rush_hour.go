package services

import "time"

// Rush-hour windows in local time, inclusive-exclusive, and the flat
// penalty added to a leg departing inside one. A static heuristic, not
// derived from live traffic data.
const (
	morningRushStart = 7
	morningRushEnd   = 10
	eveningRushStart = 16
	eveningRushEnd   = 18

	rushHourPenaltyMinutes = 30
)

// AdjustForRushHour adds the rush-hour penalty to baseMinutes when the
// departure's hour-of-day falls in [7,10) or [16,18); otherwise the base
// travel time is returned unchanged.
func AdjustForRushHour(departAt time.Time, baseMinutes float64) float64 {
	h := departAt.Hour()
	if (h >= morningRushStart && h < morningRushEnd) || (h >= eveningRushStart && h < eveningRushEnd) {
		return baseMinutes + rushHourPenaltyMinutes
	}
	return baseMinutes
}
