package timedelta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMagnitude(t *testing.T) {
	testCases := []struct {
		desc string
		in   Fields
		want Fields
	}{
		{
			desc: "day minus hour",
			in:   Fields{Days: 1, Hours: -1},
			want: Fields{Hours: 23},
		},
		{
			desc: "weeks minus days",
			in:   Fields{Weeks: 3, Days: -2},
			want: Fields{Days: 19},
		},
		{
			desc: "all negative",
			in:   Fields{Hours: -2, Days: -2},
			want: Fields{Hours: 50},
		},
		{
			desc: "cancels to zero",
			in:   Fields{Hours: 24, Days: -1},
			want: Fields{},
		},
		{
			desc: "minutes dominate",
			in:   Fields{Hours: -12, Minutes: 780},
			want: Fields{Hours: 1},
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			got, err := New(tC.in)
			if assert.NoError(t, err) {
				assert.Equal(t, mustNew(t, tC.want), got.Abs())
			}
		})
	}
}

func TestNewNormalization(t *testing.T) {
	d := mustNew(t, Fields{Seconds: -1})
	assert.Equal(t, -1, d.Sign())
	assert.Equal(t, int64(0), d.Days())
	assert.Equal(t, int64(1), d.Seconds())
	assert.Equal(t, int64(0), d.Microseconds())

	d = mustNew(t, Fields{Hours: 25, Seconds: 0.5})
	assert.Equal(t, 1, d.Sign())
	assert.Equal(t, int64(1), d.Days())
	assert.Equal(t, int64(3600), d.Seconds())
	assert.Equal(t, int64(500000), d.Microseconds())
}

func TestNewRejectsYearsAndMonths(t *testing.T) {
	for _, f := range []Fields{{Years: 1}, {Months: 1}, {Years: 1, Days: 3}} {
		_, err := New(f)
		assert.Equal(t, ErrYearsMonthsUnsupported, err)
	}

	// Zero-valued years and months are inert.
	d, err := New(Fields{Years: 0, Months: 0, Days: 1})
	if assert.NoError(t, err) {
		assert.Equal(t, int64(1), d.Days())
	}
}

func TestNewOverflow(t *testing.T) {
	for _, f := range []Fields{
		{Days: 2e14},
		{Days: -2e14},
		{Seconds: 1e19},
		{Weeks: 3e13},
	} {
		_, err := New(f)
		assert.Equal(t, ErrInt64Overflow, err)
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, mustNew(t, Fields{Days: 1}).Equal(mustNew(t, Fields{Hours: 24})))
	assert.True(t, mustNew(t, Fields{Minutes: 90}) == mustNew(t, Fields{Hours: 1.5}))
	assert.False(t, mustNew(t, Fields{Days: 1}).Equal(mustNew(t, Fields{Days: -1})))
}

func TestNegAbs(t *testing.T) {
	d := mustNew(t, Fields{Hours: 1})
	neg := d.Neg()
	assert.Equal(t, -1, neg.Sign())
	assert.Equal(t, d, neg.Neg())
	assert.Equal(t, d, neg.Abs())

	zero := Timedelta{}
	assert.Equal(t, zero, zero.Neg())
	assert.Equal(t, 0, zero.Sign())
	assert.True(t, zero.IsZero())
}

func TestAddSub(t *testing.T) {
	sum, err := mustNew(t, Fields{Hours: 1}).Add(mustNew(t, Fields{Minutes: 30}))
	require.NoError(t, err)
	assert.Equal(t, mustNew(t, Fields{Hours: 1.5}), sum)

	diff, err := mustNew(t, Fields{Days: 1}).Sub(mustNew(t, Fields{Hours: 1}))
	require.NoError(t, err)
	assert.Equal(t, mustNew(t, Fields{Hours: 23}), diff)

	diff, err = mustNew(t, Fields{Hours: 1}).Sub(mustNew(t, Fields{Days: 1}))
	require.NoError(t, err)
	assert.Equal(t, -1, diff.Sign())
	assert.Equal(t, mustNew(t, Fields{Hours: -23}), diff)
}

func TestAddOverflow(t *testing.T) {
	huge := mustNew(t, Fields{Days: 106751991})
	_, err := huge.Add(huge)
	assert.Equal(t, ErrInt64Overflow, err)

	_, err = huge.Neg().Sub(huge)
	assert.Equal(t, ErrInt64Overflow, err)
}
