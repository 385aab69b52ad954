package sizes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleFor_Values(t *testing.T) {
	tests := []struct {
		tier    Tier
		users   int
		loops   int
		rampUp  int
		courses []int
	}{
		{0, 1, 5, 1, []int{2, 1, 0, 0, 0, 0}},
		{1, 30, 5, 6, []int{8, 4, 0, 0, 0, 0}},
		{2, 100, 5, 40, []int{64, 8, 1, 0, 0, 0}},
		{3, 1000, 6, 100, []int{256, 16, 4, 1, 0, 0}},
		{4, 5000, 6, 500, []int{1024, 32, 8, 0, 1, 0}},
		{5, 10000, 7, 800, []int{4096, 64, 16, 0, 0, 1}},
	}

	table := DefaultTable()
	for _, tt := range tests {
		t.Run(EnglishLabels{}.ShortSize(tt.tier), func(t *testing.T) {
			scale, err := table.ScaleFor(tt.tier)
			require.NoError(t, err)
			assert.Equal(t, tt.tier, scale.Tier)
			assert.Equal(t, tt.users, scale.Users)
			assert.Equal(t, tt.loops, scale.Loops)
			assert.Equal(t, tt.rampUp, scale.RampUp)
			assert.Equal(t, tt.courses, scale.CoursesPerCategory)
		})
	}
}

func TestScaleFor_Deterministic(t *testing.T) {
	table := DefaultTable()
	for _, tier := range Tiers() {
		first, err := table.ScaleFor(tier)
		require.NoError(t, err)
		second, err := table.ScaleFor(tier)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		users, err := table.UsersFor(tier)
		require.NoError(t, err)
		assert.Equal(t, first.Users, users)
	}
}

func TestScaleFor_ReturnedSliceIsACopy(t *testing.T) {
	table := DefaultTable()
	scale, err := table.ScaleFor(MaxTier)
	require.NoError(t, err)
	scale.CoursesPerCategory[0] = -1

	again, err := table.ScaleFor(MaxTier)
	require.NoError(t, err)
	assert.Equal(t, 4096, again.CoursesPerCategory[0])
}

func TestScaleFor_OutOfRange(t *testing.T) {
	table := DefaultTable()
	for _, tier := range []Tier{-1, 6, 100} {
		_, err := table.ScaleFor(tier)
		var rangeErr *OutOfRangeError
		if !errors.As(err, &rangeErr) {
			t.Fatalf("ScaleFor(%d) error = %v, want *OutOfRangeError", tier, err)
		}
		if rangeErr.Tier != tier {
			t.Errorf("OutOfRangeError.Tier = %d, want %d", rangeErr.Tier, tier)
		}

		if _, err := table.UsersFor(tier); err == nil {
			t.Errorf("UsersFor(%d) should fail", tier)
		}
	}
}

func TestTotalCourses(t *testing.T) {
	scale, err := DefaultTable().ScaleFor(1)
	require.NoError(t, err)
	assert.Equal(t, 12, scale.TotalCourses())
}

func TestTierForDisplayName(t *testing.T) {
	table := DefaultTable()

	tier, ok := table.TierForDisplayName(EnglishLabels{}, "XL")
	assert.True(t, ok)
	assert.Equal(t, Tier(4), tier)

	_, ok = table.TierForDisplayName(EnglishLabels{}, "huge")
	assert.False(t, ok)

	// First match wins when two tiers share a label.
	labels := MapLabels{1: "same", 3: "same"}
	tier, ok = table.TierForDisplayName(labels, "same")
	assert.True(t, ok)
	assert.Equal(t, Tier(1), tier)

	tier, ok = table.TierForDisplayName(labels, "XXL")
	assert.True(t, ok)
	assert.Equal(t, Tier(5), tier)
}

func TestEnglishLabels_OutOfRange(t *testing.T) {
	if got := (EnglishLabels{}).ShortSize(9); got != "9" {
		t.Errorf("ShortSize(9) = %q, want %q", got, "9")
	}
}
