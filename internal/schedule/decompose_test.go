package schedule

import (
	"testing"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecomposeWindow(t *testing.T) {
	// [09:00, 13:00) даёт ровно 4 часовых слота, из которых окно
	// собирается обратно без дыр
	slots, err := DecomposeWindow(7, 1, 9*60, 13*60)
	require.NoError(t, err)
	require.Len(t, slots, 4)

	for i, slot := range slots {
		assert.Equal(t, int64(7), slot.TeacherID)
		assert.Equal(t, 1, slot.Weekday)
		assert.Equal(t, 9*60+i*60, slot.StartMinute)
		assert.Equal(t, slot.StartMinute+60, slot.EndMinute)
	}
	assert.Equal(t, 9*60, slots[0].StartMinute)
	assert.Equal(t, 13*60, slots[len(slots)-1].EndMinute)
}

func TestDecomposeWindowSingleHour(t *testing.T) {
	slots, err := DecomposeWindow(1, 0, 14*60, 15*60)
	require.NoError(t, err)
	require.Len(t, slots, 1)
}

func TestDecomposeWindowValidation(t *testing.T) {
	tests := []struct {
		name    string
		weekday int
		start   int
		end     int
	}{
		{"end before start", 1, 13 * 60, 9 * 60},
		{"zero length", 1, 9 * 60, 9 * 60},
		{"not whole hours", 1, 9 * 60, 9*60 + 30},
		{"weekday too big", 7, 9 * 60, 10 * 60},
		{"negative weekday", -1, 9 * 60, 10 * 60},
		{"negative start", 1, -60, 60},
		{"past end of day", 1, 23 * 60, 25 * 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecomposeWindow(1, tt.weekday, tt.start, tt.end)
			var validationErr *model.ValidationError
			require.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestFindOverlap(t *testing.T) {
	existing, err := DecomposeWindow(1, 1, 9*60, 12*60)
	require.NoError(t, err)

	// соседнее окно встык не пересекается
	adjacent, err := DecomposeWindow(1, 1, 12*60, 14*60)
	require.NoError(t, err)
	assert.Nil(t, FindOverlap(existing, adjacent))

	// окно, задевающее существующий слот хотя бы одним часом, отклоняется
	clashing, err := DecomposeWindow(1, 1, 11*60, 13*60)
	require.NoError(t, err)
	clash := FindOverlap(existing, clashing)
	require.NotNil(t, clash)
	assert.Equal(t, 11*60, clash.StartMinute)

	assert.Nil(t, FindOverlap(nil, adjacent))
}
