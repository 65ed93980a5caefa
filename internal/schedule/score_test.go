package schedule

import (
	"testing"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(id int64, fallback, available bool, load, weekly int) *Candidate {
	return &Candidate{
		Teacher:         &model.Teacher{ID: id, Fallback: fallback},
		HasAvailability: available,
		ScheduledLoad:   load,
		WeeklySlots:     weekly,
	}
}

func TestLessAvailabilityDominates(t *testing.T) {
	available := candidate(1, false, true, 100, 1)
	unavailable := candidate(2, true, false, 0, 100)

	assert.True(t, Less(available, unavailable))
	assert.False(t, Less(unavailable, available))
}

func TestLessFallbackBeatsLoadAndCapacity(t *testing.T) {
	// из двух доступных дежурный учитель строго выше, даже при худшей
	// загрузке и меньшем расписании
	fallback := candidate(1, true, true, 9, 2)
	regular := candidate(2, false, true, 0, 40)

	assert.True(t, Less(fallback, regular))
	assert.False(t, Less(regular, fallback))
}

func TestLessLoadThenCapacity(t *testing.T) {
	lighter := candidate(1, false, true, 1, 10)
	heavier := candidate(2, false, true, 3, 10)
	assert.True(t, Less(lighter, heavier))

	roomier := candidate(3, false, true, 1, 20)
	assert.True(t, Less(roomier, lighter))
}

func TestRankTieBreakKeepsInputOrder(t *testing.T) {
	// полностью равные кандидаты сохраняют входной порядок — это контракт,
	// а не случайность реализации
	a := candidate(10, false, true, 2, 8)
	b := candidate(20, false, true, 2, 8)
	c := candidate(30, false, true, 2, 8)

	candidates := []*Candidate{a, b, c}
	Rank(candidates)

	require.Equal(t, int64(10), candidates[0].Teacher.ID)
	require.Equal(t, int64(20), candidates[1].Teacher.ID)
	require.Equal(t, int64(30), candidates[2].Teacher.ID)
}

func TestRankOrdersByKeys(t *testing.T) {
	busyFallback := candidate(1, true, true, 5, 10)
	idleRegular := candidate(2, false, true, 0, 10)
	unavailable := candidate(3, false, false, 0, 50)
	idleRoomy := candidate(4, false, true, 0, 30)

	candidates := []*Candidate{unavailable, idleRegular, busyFallback, idleRoomy}
	Rank(candidates)

	assert.Equal(t, int64(1), candidates[0].Teacher.ID) // fallback первым
	assert.Equal(t, int64(4), candidates[1].Teacher.ID) // меньше загрузка, больше слотов
	assert.Equal(t, int64(2), candidates[2].Teacher.ID)
	assert.Equal(t, int64(3), candidates[3].Teacher.ID) // недоступный в хвосте
}

func TestPick(t *testing.T) {
	unavailable := candidate(1, false, false, 0, 0)
	available := candidate(2, false, true, 0, 0)

	got := Pick([]*Candidate{unavailable, available})
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.Teacher.ID)

	assert.Nil(t, Pick([]*Candidate{unavailable}))
	assert.Nil(t, Pick(nil))
}
