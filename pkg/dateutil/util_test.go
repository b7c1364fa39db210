package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_startOfDay(t *testing.T) {
	at := time.Date(2023, time.April, 14, 17, 30, 12, 0, time.UTC)
	require.Equal(t, time.Date(2023, time.April, 14, 0, 0, 0, 0, time.UTC), StartOfDay(at))
}

func Test_startOfWeek(t *testing.T) {
	// 2023-04-14 is a Friday, the week began on Monday the 10th.
	friday := time.Date(2023, time.April, 14, 12, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2023, time.April, 10, 0, 0, 0, 0, time.UTC), StartOfWeek(friday))

	// A Sunday still belongs to the week of the previous Monday.
	sunday := time.Date(2023, time.April, 16, 12, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2023, time.April, 10, 0, 0, 0, 0, time.UTC), StartOfWeek(sunday))

	monday := time.Date(2023, time.April, 10, 0, 0, 0, 0, time.UTC)
	require.Equal(t, monday, StartOfWeek(monday))
}

func Test_startOfMonth(t *testing.T) {
	at := time.Date(2023, time.April, 14, 12, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC), StartOfMonth(at))
}

func Test_startOfQuarter(t *testing.T) {
	require.Equal(t,
		time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC),
		StartOfQuarter(time.Date(2023, time.June, 30, 23, 59, 0, 0, time.UTC)))

	require.Equal(t,
		time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		StartOfQuarter(time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)))

	require.Equal(t,
		time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC),
		StartOfQuarter(time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)))
}

func Test_startOfYear(t *testing.T) {
	at := time.Date(2023, time.April, 14, 12, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC), StartOfYear(at))
}
