package datecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subwise/subtrack/pkg/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAdvance_AllCases(t *testing.T) {
	tests := []struct {
		name    string
		in      time.Time
		cycle   types.BillingCycle
		want    time.Time
		wantErr bool
	}{
		{name: "monthly plain", in: date(2024, time.March, 15), cycle: types.BillingCycleMonthly, want: date(2024, time.April, 15)},
		{name: "monthly jan 31 leap year", in: date(2024, time.January, 31), cycle: types.BillingCycleMonthly, want: date(2024, time.February, 29)},
		{name: "monthly jan 31 non-leap year", in: date(2023, time.January, 31), cycle: types.BillingCycleMonthly, want: date(2023, time.February, 28)},
		{name: "monthly jan 30 clamps", in: date(2023, time.January, 30), cycle: types.BillingCycleMonthly, want: date(2023, time.February, 28)},
		{name: "monthly mar 31 to apr 30", in: date(2024, time.March, 31), cycle: types.BillingCycleMonthly, want: date(2024, time.April, 30)},
		{name: "monthly dec rolls year", in: date(2023, time.December, 5), cycle: types.BillingCycleMonthly, want: date(2024, time.January, 5)},
		{name: "yearly plain", in: date(2023, time.June, 10), cycle: types.BillingCycleYearly, want: date(2024, time.June, 10)},
		{name: "yearly feb 29 clamps", in: date(2024, time.February, 29), cycle: types.BillingCycleYearly, want: date(2025, time.February, 28)},
		{name: "yearly feb 29 to leap year", in: date(2023, time.February, 28), cycle: types.BillingCycleYearly, want: date(2024, time.February, 28)},
		{name: "unknown cycle", in: date(2024, time.January, 1), cycle: types.BillingCycle("weekly"), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Advance(tc.in, tc.cycle)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "want %s got %s", tc.want, got)
		})
	}
}

func TestAdvance_PreservesTimeOfDay(t *testing.T) {
	in := time.Date(2024, time.January, 31, 9, 30, 15, 0, time.UTC)
	got, err := Advance(in, types.BillingCycleMonthly)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.February, 29, 9, 30, 15, 0, time.UTC), got)
}

func TestAdvanceUntilFuture(t *testing.T) {
	now := date(2024, time.April, 15)

	tests := []struct {
		name  string
		in    time.Time
		cycle types.BillingCycle
		want  time.Time
	}{
		// four monthly steps: Feb 1, Mar 1, Apr 1, May 1
		{name: "months elapsed", in: date(2024, time.January, 1), cycle: types.BillingCycleMonthly, want: date(2024, time.May, 1)},
		{name: "one period", in: date(2024, time.April, 1), cycle: types.BillingCycleMonthly, want: date(2024, time.May, 1)},
		{name: "already future is unchanged", in: date(2024, time.April, 16), cycle: types.BillingCycleMonthly, want: date(2024, time.April, 16)},
		{name: "equal to now gets one more period", in: now, cycle: types.BillingCycleMonthly, want: date(2024, time.May, 15)},
		{name: "yearly elapsed", in: date(2021, time.March, 1), cycle: types.BillingCycleYearly, want: date(2025, time.March, 1)},
		{name: "far past is bounded", in: date(2004, time.April, 30), cycle: types.BillingCycleMonthly, want: date(2024, time.April, 30)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AdvanceUntilFuture(tc.in, tc.cycle, now)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "want %s got %s", tc.want, got)
			assert.True(t, got.After(now), "result must be strictly after now")

			// advancing the already-future result again is a no-op
			again, err := AdvanceUntilFuture(got, tc.cycle, now)
			require.NoError(t, err)
			assert.True(t, got.Equal(again))
		})
	}
}

func TestAdvanceUntilFuture_UnknownCycle(t *testing.T) {
	_, err := AdvanceUntilFuture(date(2024, time.January, 1), types.BillingCycle("daily"), date(2024, time.April, 15))
	assert.Error(t, err)
}
