package service

import (
	"time"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"go.uber.org/zap"
)

type env struct {
	teachers     *fakeDirectory
	slots        *fakeSlotStore
	sessions     *fakeSessionStore
	notifier     *fakeNotifier
	schedule     *ScheduleService
	assignments  *AssignmentService
	availability *AvailabilityService
}

func newEnv() *env {
	logger := zap.NewNop()
	teachers := newFakeDirectory()
	slots := newFakeSlotStore()
	sessions := newFakeSessionStore()
	notifier := &fakeNotifier{}

	return &env{
		teachers:     teachers,
		slots:        slots,
		sessions:     sessions,
		notifier:     notifier,
		schedule:     NewScheduleService(teachers, slots, sessions, logger, time.Second),
		assignments:  NewAssignmentService(teachers, slots, sessions, notifier, logger, time.Second),
		availability: NewAvailabilityService(teachers, slots, sessions, logger, time.Second),
	}
}

func (e *env) addTeacher(id int64, timezone string, fallback bool, subjectIDs ...int64) *model.Teacher {
	teacher := &model.Teacher{
		ID:          id,
		DisplayName: "Teacher",
		Timezone:    timezone,
		Fallback:    fallback,
	}
	e.teachers.add(teacher, subjectIDs...)
	return teacher
}
