package booking

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeQuoteBaseOnly(t *testing.T) {
	// 3 天 × 50.00 元/天 = 150.00 元。
	q, err := ComputeQuote(5000, day("2026-09-10"), day("2026-09-12"), nil)
	require.NoError(t, err)
	require.Equal(t, 3, q.DurationDays)
	require.EqualValues(t, 15000, q.BasePrice)
	require.EqualValues(t, 15000, q.TotalPrice)
	require.Empty(t, q.Options)
}

func TestComputeQuoteSameDayIsOneDay(t *testing.T) {
	q, err := ComputeQuote(5000, day("2026-09-10"), day("2026-09-10"), nil)
	require.NoError(t, err)
	require.Equal(t, 1, q.DurationDays)
	require.EqualValues(t, 5000, q.TotalPrice)
}

func TestComputeQuoteWithOptions(t *testing.T) {
	q, err := ComputeQuote(5000, day("2026-09-10"), day("2026-09-12"),
		[]string{OptionGPSNavigation, OptionChildSeat})
	require.NoError(t, err)
	require.EqualValues(t, 15000, q.BasePrice)
	require.EqualValues(t, 1500, q.Options[OptionGPSNavigation]) // 5.00/天 × 3
	require.EqualValues(t, 900, q.Options[OptionChildSeat])      // 3.00/天 × 3
	require.EqualValues(t, 17400, q.TotalPrice)
}

func TestComputeQuoteAdditionalDriver(t *testing.T) {
	q, err := ComputeQuote(10000, day("2026-09-01"), day("2026-09-05"),
		[]string{OptionAdditionalDriver})
	require.NoError(t, err)
	require.Equal(t, 5, q.DurationDays)
	require.EqualValues(t, 5000, q.Options[OptionAdditionalDriver]) // 10.00/天 × 5
	require.EqualValues(t, 55000, q.TotalPrice)
}

func TestComputeQuoteUnknownOption(t *testing.T) {
	_, err := ComputeQuote(5000, day("2026-09-10"), day("2026-09-12"), []string{"wifi_hotspot"})
	require.Error(t, err)
}

func TestComputeQuoteInvalidDuration(t *testing.T) {
	_, err := ComputeQuote(5000, day("2026-09-12"), day("2026-09-10"), nil)
	require.Error(t, err)
}

func TestRepriceIdempotent(t *testing.T) {
	b := &Booking{StartDate: day("2026-09-10"), EndDate: day("2026-09-12")}
	require.NoError(t, b.SetOptions(map[string]int64{OptionGPSNavigation: 1}))

	require.NoError(t, Reprice(b, 5000))
	require.EqualValues(t, 16500, b.TotalPrice)

	// 重复重算结果一致，选项价被纠正为 “每日价 × 天数”。
	require.NoError(t, Reprice(b, 5000))
	require.EqualValues(t, 16500, b.TotalPrice)
	opts, err := b.Options()
	require.NoError(t, err)
	require.EqualValues(t, 1500, opts[OptionGPSNavigation])
}

func TestRepricePicksUpNewDailyRate(t *testing.T) {
	b := &Booking{StartDate: day("2026-09-10"), EndDate: day("2026-09-12"), TotalPrice: 15000}
	require.NoError(t, Reprice(b, 6000))
	require.EqualValues(t, 18000, b.TotalPrice)
}

func TestOptionMenuIsCopy(t *testing.T) {
	menu := OptionMenu()
	menu[OptionGPSNavigation] = 99999
	require.EqualValues(t, 500, OptionMenu()[OptionGPSNavigation])
}
