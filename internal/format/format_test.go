package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNaira(t *testing.T) {
	t.Parallel()

	require.Equal(t, "₦12,500,000", Naira(decimal.NewFromInt(12500000)))
	require.Equal(t, "₦850,001", Naira(decimal.RequireFromString("850000.50")))
	require.Equal(t, "₦0", Naira(decimal.Zero))
	require.Equal(t, "-₦1,000", Naira(decimal.NewFromInt(-1000)))
}

func TestNairaShort(t *testing.T) {
	t.Parallel()

	require.Equal(t, "₦12.5M", NairaShort(decimal.NewFromInt(12500000)))
	require.Equal(t, "₦12M", NairaShort(decimal.NewFromInt(12000000)))
	require.Equal(t, "₦850K", NairaShort(decimal.NewFromInt(850000)))
	require.Equal(t, "₦1.2B", NairaShort(decimal.NewFromInt(1200000000)))
	require.Equal(t, "₦999", NairaShort(decimal.NewFromInt(999)))
}

func TestMileageAndNumber(t *testing.T) {
	t.Parallel()

	require.Equal(t, "54,000 km", Mileage(54000))
	require.Equal(t, "0 km", Mileage(-3))
	require.Equal(t, "1,234,567", Number(1234567))
	require.Equal(t, "-12", Number(-12))
	require.Equal(t, "12.5%", Percent(decimal.RequireFromString("12.50")))
}

func TestDate(t *testing.T) {
	t.Parallel()

	require.Equal(t, "2 Nov 2026", Date(time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)))
	require.Empty(t, Date(time.Time{}))
}
