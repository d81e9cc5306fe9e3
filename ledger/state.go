package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// State is the display-ready account summary derived from events. It is
// never stored on its own; recompute it from the events on every read.
type State struct {
	AchievedProfit decimal.Decimal             `json:"achievedProfit"`
	Balance        decimal.Decimal             `json:"balance"`
	TodaysPnL      decimal.Decimal             `json:"todaysPnL"`
	Last7Days      [WindowDays]decimal.Decimal `json:"last7Days"`
}

// Derive folds events into a State. today selects the calendar day
// (in today's location) that ends the trailing window.
//
// Event order does not matter. An event whose date is not a valid key
// still counts toward AchievedProfit and Balance but lands in no daily
// bucket.
func Derive(initialBalance decimal.Decimal, events []Event, today time.Time) State {
	keys := WindowKeys(today)
	slot := make(map[string]int, WindowDays)
	for i, k := range keys {
		slot[k] = i
	}

	var st State
	for i := range st.Last7Days {
		st.Last7Days[i] = decimal.Zero
	}
	st.AchievedProfit = decimal.Zero

	for _, e := range events {
		st.AchievedProfit = st.AchievedProfit.Add(e.Amount)
		// keys are always well formed, so a malformed date can never hit
		if i, ok := slot[e.Date]; ok {
			st.Last7Days[i] = st.Last7Days[i].Add(e.Amount)
		}
	}

	st.TodaysPnL = st.Last7Days[WindowDays-1]
	st.Balance = initialBalance.Add(st.AchievedProfit)
	return st
}

// Point is one day of the trailing series, labelled for charting.
type Point struct {
	Date    string          `json:"date"`
	Weekday string          `json:"weekday"`
	PnL     decimal.Decimal `json:"pnl"`
}

// Series labels Last7Days with the real dates and weekdays ending at today.
// today must be the same day the State was derived with.
func (s State) Series(today time.Time) []Point {
	days := WindowDates(today)
	out := make([]Point, 0, WindowDays)
	for i, day := range days {
		out = append(out, Point{
			Date:    DateKey(day),
			Weekday: day.Weekday().String()[:3],
			PnL:     s.Last7Days[i],
		})
	}
	return out
}
