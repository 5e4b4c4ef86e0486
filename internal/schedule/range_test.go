package schedule

import (
	"testing"
	"time"

	"github.com/carhive/carbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateRange(t *testing.T) {
	now := day(2025, time.March, 1).Add(14 * time.Hour) // mid-afternoon

	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		wantDays  int
		wantSame  bool
		wantError string
	}{
		{
			name:     "three day rental",
			start:    day(2025, time.March, 1),
			end:      day(2025, time.March, 3),
			wantDays: 3,
		},
		{
			name:     "same day rental counts one day",
			start:    day(2025, time.March, 5),
			end:      day(2025, time.March, 5),
			wantDays: 1,
			wantSame: true,
		},
		{
			name:     "thirty inclusive days is the maximum",
			start:    day(2025, time.March, 1),
			end:      day(2025, time.March, 30),
			wantDays: 30,
		},
		{
			name:      "thirty one inclusive days exceeds the window",
			start:     day(2025, time.March, 1),
			end:       day(2025, time.March, 31),
			wantError: "exceeds max window",
		},
		{
			name:      "end before start",
			start:     day(2025, time.March, 10),
			end:       day(2025, time.March, 9),
			wantError: "end before start",
		},
		{
			name:      "start in past",
			start:     day(2025, time.February, 28),
			end:       day(2025, time.March, 3),
			wantError: "start in past",
		},
		{
			name:     "starting today is allowed even late in the day",
			start:    day(2025, time.March, 1),
			end:      day(2025, time.March, 1),
			wantDays: 1,
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, err := ValidateRange(tt.start, tt.end, now, 30)
			if tt.wantError != "" {
				require.Error(t, err)
				var ve *domain.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.wantError, ve.Reason)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDays, rc.RentalDays)
			assert.Equal(t, tt.wantSame, rc.IsSameDay)
		})
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(day(2025, time.March, 1), day(2025, time.March, 1)))
	assert.Equal(t, 2, DaysBetween(day(2025, time.March, 1), day(2025, time.March, 3)))
	assert.Equal(t, -2, DaysBetween(day(2025, time.March, 3), day(2025, time.March, 1)))
	// time-of-day never shifts the count
	assert.Equal(t, 1, DaysBetween(day(2025, time.March, 1).Add(23*time.Hour), day(2025, time.March, 2)))
}

func TestFindConflicts(t *testing.T) {
	existing := []domain.Booking{
		{ID: "b1", StartDate: day(2025, time.January, 10), EndDate: day(2025, time.January, 15)},
	}

	t.Run("shared boundary day conflicts", func(t *testing.T) {
		conflicts := FindConflicts(existing, day(2025, time.January, 15), day(2025, time.January, 20))
		require.Len(t, conflicts, 1)
		assert.Equal(t, "b1", conflicts[0].ID)
	})

	t.Run("adjacent interval does not conflict", func(t *testing.T) {
		assert.Empty(t, FindConflicts(existing, day(2025, time.January, 16), day(2025, time.January, 20)))
	})

	t.Run("contained interval conflicts", func(t *testing.T) {
		assert.Len(t, FindConflicts(existing, day(2025, time.January, 11), day(2025, time.January, 12)), 1)
	})

	t.Run("surrounding interval conflicts", func(t *testing.T) {
		assert.Len(t, FindConflicts(existing, day(2025, time.January, 1), day(2025, time.January, 31)), 1)
	})

	t.Run("cancelled booking on the identical interval never conflicts", func(t *testing.T) {
		cancelled := []domain.Booking{
			{ID: "b2", StartDate: day(2025, time.January, 10), EndDate: day(2025, time.January, 15), IsCancelled: true},
		}
		assert.Empty(t, FindConflicts(cancelled, day(2025, time.January, 10), day(2025, time.January, 15)))
	})
}
