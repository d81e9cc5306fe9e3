package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t.Add(15 * time.Hour)
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "want %s, got %s", want, got)
}

func assertSeries(t *testing.T, want [WindowDays]string, got [WindowDays]decimal.Decimal) {
	t.Helper()
	for i := range want {
		assert.Truef(t, d(want[i]).Equal(got[i]), "slot %d: want %s, got %s", i, want[i], got[i])
	}
}

func TestDeriveNoEvents(t *testing.T) {
	t.Parallel()

	for _, initial := range []string{"0", "10000", "-250.5"} {
		st := Derive(d(initial), nil, day("2024-01-02"))
		assertDec(t, initial, st.Balance)
		assertDec(t, "0", st.AchievedProfit)
		assertDec(t, "0", st.TodaysPnL)
		assertSeries(t, [WindowDays]string{"0", "0", "0", "0", "0", "0", "0"}, st.Last7Days)
	}
}

func TestDeriveBucketing(t *testing.T) {
	t.Parallel()

	events := []Event{
		{Date: "2024-01-01", Amount: d("100")},
		{Date: "2024-01-01", Amount: d("-30")},
		{Date: "2024-01-02", Amount: d("50")},
	}

	st := Derive(d("5000"), events, day("2024-01-02"))
	assertDec(t, "50", st.TodaysPnL)
	assertDec(t, "120", st.AchievedProfit)
	assertDec(t, "5120", st.Balance)
	assertSeries(t, [WindowDays]string{"0", "0", "0", "0", "0", "70", "50"}, st.Last7Days)
}

func TestDeriveSumInvariant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		initial string
		events  []Event
	}{
		{"single", "100", []Event{{Date: "2024-03-01", Amount: d("1.1")}}},
		{"many small", "0", []Event{
			{Date: "2024-03-01", Amount: d("0.1")},
			{Date: "2024-03-02", Amount: d("0.2")},
			{Date: "2024-03-03", Amount: d("-0.3")},
			{Date: "2024-03-03", Amount: d("0.01")},
		}},
		{"malformed dates", "25", []Event{
			{Date: "", Amount: d("10")},
			{Date: "03/04/2024", Amount: d("-4")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := Derive(d(tt.initial), tt.events, day("2024-03-03"))
			assert.True(t, st.Balance.Equal(d(tt.initial).Add(st.AchievedProfit)))
		})
	}
}

func TestDeriveExactDecimalSums(t *testing.T) {
	t.Parallel()

	var events []Event
	for i := 0; i < 10; i++ {
		events = append(events, Event{Date: "2024-05-10", Amount: d("0.1")})
	}

	st := Derive(decimal.Zero, events, day("2024-05-10"))
	assertDec(t, "1", st.AchievedProfit)
	assertDec(t, "1", st.TodaysPnL)
}

func TestDeriveOrderIndependence(t *testing.T) {
	t.Parallel()

	events := []Event{
		{Date: "2024-02-01", Amount: d("12.5")},
		{Date: "2024-02-05", Amount: d("-7")},
		{Date: "2024-02-07", Amount: d("3.25")},
		{Date: "2024-02-07", Amount: d("100")},
		{Date: "2024-01-15", Amount: d("-40")},
	}
	reversed := make([]Event, len(events))
	for i, e := range events {
		reversed[len(events)-1-i] = e
	}
	rotated := append(append([]Event{}, events[2:]...), events[:2]...)

	today := day("2024-02-07")
	want := Derive(d("1000"), events, today)
	for _, perm := range [][]Event{reversed, rotated} {
		got := Derive(d("1000"), perm, today)
		assert.True(t, want.Balance.Equal(got.Balance))
		assert.True(t, want.AchievedProfit.Equal(got.AchievedProfit))
		assert.True(t, want.TodaysPnL.Equal(got.TodaysPnL))
		for i := range want.Last7Days {
			assert.True(t, want.Last7Days[i].Equal(got.Last7Days[i]))
		}
	}
}

func TestDeriveAfterAppend(t *testing.T) {
	t.Parallel()

	today := day("2024-06-30")
	events := []Event{
		{Date: "2024-06-28", Amount: d("40")},
		{Date: "2024-06-29", Amount: d("-15")},
	}
	before := Derive(d("100"), events, today)

	e := Event{Date: "2024-06-30", Amount: d("22.75")}
	after := Derive(d("100"), Append(events, e), today)

	assert.True(t, after.AchievedProfit.Equal(before.AchievedProfit.Add(e.Amount)))
	assertDec(t, "22.75", after.TodaysPnL)
}

func TestDeriveOutOfWindow(t *testing.T) {
	t.Parallel()

	events := []Event{
		{Date: "2024-01-02", Amount: d("500")}, // 8 days before today
		{Date: "2024-01-03", Amount: d("7")},   // first day of the window
	}

	st := Derive(d("0"), events, day("2024-01-10"))
	assertDec(t, "507", st.AchievedProfit)
	assertDec(t, "507", st.Balance)
	assertSeries(t, [WindowDays]string{"0", "0", "0", "0", "0", "0", "0"}, st.Last7Days)

	st = Derive(d("0"), events, day("2024-01-09"))
	assertSeries(t, [WindowDays]string{"7", "0", "0", "0", "0", "0", "0"}, st.Last7Days)
}

func TestDeriveMalformedDateIgnoredForBuckets(t *testing.T) {
	t.Parallel()

	events := []Event{
		{Date: "2024-1-2", Amount: d("9")},
		{Date: "not a date", Amount: d("1")},
		{Amount: d("2")},
		{Date: "2024-01-02", Amount: d("4")},
	}

	st := Derive(d("10"), events, day("2024-01-02"))
	assertDec(t, "16", st.AchievedProfit)
	assertDec(t, "26", st.Balance)
	assertDec(t, "4", st.TodaysPnL)
}

func TestDeriveIdempotent(t *testing.T) {
	t.Parallel()

	events := []Event{
		{Date: "2024-04-01", Amount: d("3")},
		{Date: "2024-04-02", Amount: d("-1")},
	}
	today := day("2024-04-02")

	first := Derive(d("50"), events, today)
	second := Derive(d("50"), events, today)
	assert.Equal(t, first, second)
}

func TestDeriveUsesTodaysLocation(t *testing.T) {
	t.Parallel()

	tokyo := time.FixedZone("JST", 9*60*60)

	// 2024-01-01T20:00Z is already 2024-01-02 in Tokyo.
	now := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	events := []Event{{Date: "2024-01-02", Amount: d("5")}}

	assertDec(t, "0", Derive(d("0"), events, now).TodaysPnL)
	assertDec(t, "5", Derive(d("0"), events, now.In(tokyo)).TodaysPnL)
}

func TestSeries(t *testing.T) {
	t.Parallel()

	today := day("2024-01-07") // a Sunday
	st := Derive(d("0"), []Event{
		{Date: "2024-01-01", Amount: d("1")},
		{Date: "2024-01-07", Amount: d("7")},
	}, today)

	pts := st.Series(today)
	require.Len(t, pts, WindowDays)
	assert.Equal(t, "2024-01-01", pts[0].Date)
	assert.Equal(t, "Mon", pts[0].Weekday)
	assertDec(t, "1", pts[0].PnL)
	assert.Equal(t, "2024-01-07", pts[6].Date)
	assert.Equal(t, "Sun", pts[6].Weekday)
	assertDec(t, "7", pts[6].PnL)
}
