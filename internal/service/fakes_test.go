package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/model"
)

// In-memory фейки хранилищ. fakeSessionStore повторяет поведение базы,
// важное для тестов гонки: claim (slot_id, teaching_day) уникален, вставка
// атомарна под мьютексом.

type fakeSlotStore struct {
	mu       sync.Mutex
	nextID   int64
	slots    map[int64]*model.TimeSlot
	failNext error // одноразовая ошибка следующего чтения
}

func newFakeSlotStore() *fakeSlotStore {
	return &fakeSlotStore{slots: make(map[int64]*model.TimeSlot)}
}

func (f *fakeSlotStore) CreateBatch(ctx context.Context, slots []*model.TimeSlot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, slot := range slots {
		f.nextID++
		slot.ID = f.nextID
		slot.CreatedAt = time.Now()
		f.slots[slot.ID] = slot
	}
	return nil
}

func (f *fakeSlotStore) GetByID(ctx context.Context, id int64) (*model.TimeSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slots[id], nil
}

func (f *fakeSlotStore) GetByTeacherWeekday(ctx context.Context, teacherID int64, weekday int) ([]*model.TimeSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.TimeSlot
	for _, slot := range f.slots {
		if slot.TeacherID == teacherID && slot.Weekday == weekday {
			out = append(out, slot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartMinute < out[j].StartMinute })
	return out, nil
}

func (f *fakeSlotStore) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.slots[id]; !ok {
		return model.ErrNotFound
	}
	delete(f.slots, id)
	return nil
}

func (f *fakeSlotStore) DeleteByWeekday(ctx context.Context, teacherID int64, weekday int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for id, slot := range f.slots {
		if slot.TeacherID == teacherID && slot.Weekday == weekday {
			delete(f.slots, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeSlotStore) WeeklyCounts(ctx context.Context, teacherIDs []int64) (map[int64]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return nil, err
	}
	counts := make(map[int64]int)
	for _, slot := range f.slots {
		counts[slot.TeacherID]++
	}
	out := make(map[int64]int, len(teacherIDs))
	for _, id := range teacherIDs {
		if c, ok := counts[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (f *fakeSlotStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.slots)
}

type claimKey struct {
	slotID int64
	day    string
}

type fakeSessionStore struct {
	mu       sync.Mutex
	nextID   int64
	sessions map[int64]*model.BookedSession
	claims   map[claimKey]int64
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[int64]*model.BookedSession),
		claims:   make(map[claimKey]int64),
	}
}

func (f *fakeSessionStore) CreateWithSlots(ctx context.Context, session *model.BookedSession, teachingDay string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// либо все claim свободны, либо вставки нет вообще
	for _, slotID := range session.SlotIDs {
		if _, taken := f.claims[claimKey{slotID, teachingDay}]; taken {
			return model.ErrSlotTaken
		}
	}

	f.nextID++
	session.ID = f.nextID
	session.CreatedAt = time.Now()
	session.UpdatedAt = session.CreatedAt
	f.sessions[session.ID] = session
	for _, slotID := range session.SlotIDs {
		f.claims[claimKey{slotID, teachingDay}] = session.ID
	}
	return nil
}

func (f *fakeSessionStore) GetByID(ctx context.Context, id int64) (*model.BookedSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[id], nil
}

func (f *fakeSessionStore) GetScheduledInRange(ctx context.Context, teacherID int64, from, to time.Time) ([]*model.BookedSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.BookedSession
	for _, s := range f.sessions {
		if s.TeacherID != teacherID || s.Status != model.SessionStatusScheduled {
			continue
		}
		if s.StartDatetime.Before(from) || !s.StartDatetime.Before(to) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDatetime.Before(out[j].StartDatetime) })
	return out, nil
}

func (f *fakeSessionStore) CountScheduled(ctx context.Context, teacherIDs []int64) (map[int64]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[int64]int)
	for _, s := range f.sessions {
		if s.Status == model.SessionStatusScheduled {
			out[s.TeacherID]++
		}
	}
	return out, nil
}

func (f *fakeSessionStore) Cancel(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok {
		return model.ErrNotFound
	}
	session.Status = model.SessionStatusCancelled
	for key, sid := range f.claims {
		if sid == id {
			delete(f.claims, key)
		}
	}
	return nil
}

func (f *fakeSessionStore) FirstSlotInUse(ctx context.Context, slotIDs []int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var found int64
	for _, slotID := range slotIDs {
		for key, sid := range f.claims {
			if key.slotID != slotID {
				continue
			}
			if s, ok := f.sessions[sid]; ok && s.Status == model.SessionStatusScheduled {
				if found == 0 || slotID < found {
					found = slotID
				}
			}
		}
	}
	return found, nil
}

func (f *fakeSessionStore) scheduledCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.sessions {
		if s.Status == model.SessionStatusScheduled {
			n++
		}
	}
	return n
}

type fakeDirectory struct {
	mu       sync.Mutex
	teachers []*model.Teacher
	subjects map[int64][]int64 // subject -> teacher ids в порядке добавления
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{subjects: make(map[int64][]int64)}
}

func (f *fakeDirectory) add(teacher *model.Teacher, subjectIDs ...int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.teachers = append(f.teachers, teacher)
	for _, sid := range subjectIDs {
		f.subjects[sid] = append(f.subjects[sid], teacher.ID)
	}
}

func (f *fakeDirectory) GetByID(ctx context.Context, id int64) (*model.Teacher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.teachers {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeDirectory) GetBySubject(ctx context.Context, subjectID int64) ([]*model.Teacher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Teacher
	for _, id := range f.subjects[subjectID] {
		for _, t := range f.teachers {
			if t.ID == id {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeNotifier) SessionBooked(ctx context.Context, teacher *model.Teacher, session *model.BookedSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
