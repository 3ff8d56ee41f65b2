package main

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Thiht/transactor"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/benjamonnguyen/focusflow"
	"github.com/benjamonnguyen/focusflow/timer"
)

// In-memory repo implementations backing handler tests.

type passTransactor struct{}

func (passTransactor) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

var _ transactor.Transactor = passTransactor{}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newRecord[T ~string](id string, now time.Time) focusflow.ExistingRecord[T] {
	return focusflow.ExistingRecord[T]{ID: T(id), CreatedAt: now, UpdatedAt: now}
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[focusflow.TimerSessionID]focusflow.ExistingTimerSessionRecord
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[focusflow.TimerSessionID]focusflow.ExistingTimerSessionRecord)}
}

func (m *memSessionRepo) InsertSession(ctx context.Context, r focusflow.TimerSessionRecord) (focusflow.ExistingTimerSessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := focusflow.ExistingTimerSessionRecord{
		ExistingRecord:     newRecord[focusflow.TimerSessionID](uuid.NewString(), time.Now()),
		TimerSessionRecord: r,
	}
	m.sessions[rec.ID] = rec
	return rec, nil
}

func (m *memSessionRepo) UpdateSession(ctx context.Context, id focusflow.TimerSessionID, r focusflow.TimerSessionRecord) (focusflow.ExistingTimerSessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.sessions[id]
	if !ok {
		return focusflow.ExistingTimerSessionRecord{}, focusflow.ErrNotFound
	}
	existing.TimerSessionRecord = r
	existing.UpdatedAt = time.Now()
	m.sessions[id] = existing
	return existing, nil
}

func (m *memSessionRepo) DeleteSession(ctx context.Context, id focusflow.TimerSessionID) (focusflow.ExistingTimerSessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.sessions[id]
	if !ok {
		return focusflow.ExistingTimerSessionRecord{}, focusflow.ErrNotFound
	}
	delete(m.sessions, id)
	return existing, nil
}

func (m *memSessionRepo) GetSession(ctx context.Context, id focusflow.TimerSessionID) (focusflow.ExistingTimerSessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.sessions[id]
	if !ok {
		return focusflow.ExistingTimerSessionRecord{}, focusflow.ErrNotFound
	}
	return existing, nil
}

func (m *memSessionRepo) GetActiveSessionForOwner(ctx context.Context, ownerID focusflow.UserID) (focusflow.ExistingTimerSessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.OwnerID == ownerID && !s.Status.IsTerminal() {
			return s, nil
		}
	}
	return focusflow.ExistingTimerSessionRecord{}, focusflow.ErrNotFound
}

func (m *memSessionRepo) GetSessionsByOwner(ctx context.Context, ownerID focusflow.UserID, limit, offset int) ([]focusflow.ExistingTimerSessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []focusflow.ExistingTimerSessionRecord
	for _, s := range m.sessions {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func (m *memSessionRepo) GetSessionsByStatus(ctx context.Context, statuses ...focusflow.TimerStatus) ([]focusflow.ExistingTimerSessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []focusflow.ExistingTimerSessionRecord
	for _, s := range m.sessions {
		for _, status := range statuses {
			if s.Status == status {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

type memGoalRepo struct {
	mu    sync.Mutex
	goals map[focusflow.GoalID]focusflow.ExistingGoalRecord
}

func newMemGoalRepo() *memGoalRepo {
	return &memGoalRepo{goals: make(map[focusflow.GoalID]focusflow.ExistingGoalRecord)}
}

func (m *memGoalRepo) InsertGoal(ctx context.Context, r focusflow.GoalRecord) (focusflow.ExistingGoalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := focusflow.ExistingGoalRecord{
		ExistingRecord: newRecord[focusflow.GoalID](uuid.NewString(), time.Now()),
		GoalRecord:     r,
	}
	m.goals[rec.ID] = rec
	return rec, nil
}

func (m *memGoalRepo) UpdateGoal(ctx context.Context, id focusflow.GoalID, r focusflow.GoalRecord) (focusflow.ExistingGoalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.goals[id]
	if !ok {
		return focusflow.ExistingGoalRecord{}, focusflow.ErrNotFound
	}
	existing.GoalRecord = r
	m.goals[id] = existing
	return existing, nil
}

func (m *memGoalRepo) DeleteGoal(ctx context.Context, id focusflow.GoalID) (focusflow.ExistingGoalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.goals[id]
	if !ok {
		return focusflow.ExistingGoalRecord{}, focusflow.ErrNotFound
	}
	delete(m.goals, id)
	return existing, nil
}

func (m *memGoalRepo) GetGoal(ctx context.Context, id focusflow.GoalID) (focusflow.ExistingGoalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.goals[id]
	if !ok {
		return focusflow.ExistingGoalRecord{}, focusflow.ErrNotFound
	}
	return existing, nil
}

func (m *memGoalRepo) GetGoalsByOwner(ctx context.Context, ownerID focusflow.UserID) ([]focusflow.ExistingGoalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []focusflow.ExistingGoalRecord
	for _, g := range m.goals {
		if g.OwnerID == ownerID {
			out = append(out, g)
		}
	}
	return out, nil
}

type memCategoryRepo struct {
	mu         sync.Mutex
	categories map[focusflow.CategoryID]focusflow.ExistingCategoryRecord
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{categories: make(map[focusflow.CategoryID]focusflow.ExistingCategoryRecord)}
}

func (m *memCategoryRepo) InsertCategory(ctx context.Context, r focusflow.CategoryRecord) (focusflow.ExistingCategoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := focusflow.ExistingCategoryRecord{
		ExistingRecord: newRecord[focusflow.CategoryID](uuid.NewString(), time.Now()),
		CategoryRecord: r,
	}
	m.categories[rec.ID] = rec
	return rec, nil
}

func (m *memCategoryRepo) UpdateCategory(ctx context.Context, id focusflow.CategoryID, r focusflow.CategoryRecord) (focusflow.ExistingCategoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.categories[id]
	if !ok {
		return focusflow.ExistingCategoryRecord{}, focusflow.ErrNotFound
	}
	existing.CategoryRecord = r
	m.categories[id] = existing
	return existing, nil
}

func (m *memCategoryRepo) DeleteCategory(ctx context.Context, id focusflow.CategoryID) (focusflow.ExistingCategoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.categories[id]
	if !ok {
		return focusflow.ExistingCategoryRecord{}, focusflow.ErrNotFound
	}
	delete(m.categories, id)
	return existing, nil
}

func (m *memCategoryRepo) GetCategory(ctx context.Context, id focusflow.CategoryID) (focusflow.ExistingCategoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.categories[id]
	if !ok {
		return focusflow.ExistingCategoryRecord{}, focusflow.ErrNotFound
	}
	return existing, nil
}

func (m *memCategoryRepo) GetCategoriesByOwner(ctx context.Context, ownerID focusflow.UserID) ([]focusflow.ExistingCategoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []focusflow.ExistingCategoryRecord
	for _, c := range m.categories {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[focusflow.UserID]focusflow.ExistingUserRecord
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[focusflow.UserID]focusflow.ExistingUserRecord)}
}

func (m *memUserRepo) InsertUser(ctx context.Context, r focusflow.UserRecord) (focusflow.ExistingUserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := focusflow.ExistingUserRecord{
		ExistingRecord: newRecord[focusflow.UserID](uuid.NewString(), time.Now()),
		UserRecord:     r,
	}
	m.users[rec.ID] = rec
	return rec, nil
}

func (m *memUserRepo) UpdateUser(ctx context.Context, id focusflow.UserID, r focusflow.UserRecord) (focusflow.ExistingUserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[id]
	if !ok {
		return focusflow.ExistingUserRecord{}, focusflow.ErrNotFound
	}
	existing.UserRecord = r
	m.users[id] = existing
	return existing, nil
}

func (m *memUserRepo) DeleteUser(ctx context.Context, id focusflow.UserID) (focusflow.ExistingUserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[id]
	if !ok {
		return focusflow.ExistingUserRecord{}, focusflow.ErrNotFound
	}
	delete(m.users, id)
	return existing, nil
}

func (m *memUserRepo) GetUser(ctx context.Context, id focusflow.UserID) (focusflow.ExistingUserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[id]
	if !ok {
		return focusflow.ExistingUserRecord{}, focusflow.ErrNotFound
	}
	return existing, nil
}

func (m *memUserRepo) GetUserByEmail(ctx context.Context, email string) (focusflow.ExistingUserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return focusflow.ExistingUserRecord{}, focusflow.ErrNotFound
}

type memNotificationRepo struct {
	mu            sync.Mutex
	notifications map[focusflow.NotificationID]focusflow.ExistingNotificationRecord
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{notifications: make(map[focusflow.NotificationID]focusflow.ExistingNotificationRecord)}
}

func (m *memNotificationRepo) InsertNotification(ctx context.Context, r focusflow.NotificationRecord) (focusflow.ExistingNotificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := focusflow.ExistingNotificationRecord{
		ExistingRecord:     newRecord[focusflow.NotificationID](uuid.NewString(), time.Now()),
		NotificationRecord: r,
	}
	m.notifications[rec.ID] = rec
	return rec, nil
}

func (m *memNotificationRepo) GetNotificationsByOwner(ctx context.Context, ownerID focusflow.UserID, unreadOnly bool) ([]focusflow.ExistingNotificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []focusflow.ExistingNotificationRecord
	for _, n := range m.notifications {
		if n.OwnerID != ownerID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (m *memNotificationRepo) MarkNotificationRead(ctx context.Context, id focusflow.NotificationID) (focusflow.ExistingNotificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.notifications[id]
	if !ok {
		return focusflow.ExistingNotificationRecord{}, focusflow.ErrNotFound
	}
	existing.Read = true
	m.notifications[id] = existing
	return existing, nil
}

func (m *memNotificationRepo) DeleteNotification(ctx context.Context, id focusflow.NotificationID) (focusflow.ExistingNotificationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.notifications[id]
	if !ok {
		return focusflow.ExistingNotificationRecord{}, focusflow.ErrNotFound
	}
	delete(m.notifications, id)
	return existing, nil
}

type memStatsRepo struct {
	stats focusflow.TimerStats
}

func (m *memStatsRepo) GetTimerStats(ctx context.Context, ownerID focusflow.UserID, from, to time.Time) (focusflow.TimerStats, error) {
	return m.stats, nil
}

func (m *memStatsRepo) GetDailyBuckets(ctx context.Context, ownerID focusflow.UserID, from, to time.Time) ([]focusflow.DailyBucket, error) {
	return nil, nil
}

func (m *memStatsRepo) GetKindBreakdown(ctx context.Context, ownerID focusflow.UserID, from, to time.Time) ([]focusflow.KindBreakdown, error) {
	return nil, nil
}

type testEnv struct {
	server  *server
	clock   *testClock
	goals   *memGoalRepo
	notifs  *memNotificationRepo
	users   *memUserRepo
	machine *timer.Machine
}

func newTestEnv() *testEnv {
	clock := &testClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	sessions := newMemSessionRepo()
	goals := newMemGoalRepo()
	users := newMemUserRepo()
	notifs := newMemNotificationRepo()
	machine := timer.NewMachine(sessions, goals, notifs, passTransactor{}, clock, *log.Default())

	cfg := focusflow.Config{
		JWTSecret:   "test-secret",
		TokenTTL:    time.Hour,
		CORSOrigins: []string{"*"},
	}
	s := newServer(serverDeps{
		cfg:           cfg,
		machine:       machine,
		sessions:      sessions,
		goals:         goals,
		categories:    newMemCategoryRepo(),
		users:         users,
		notifications: notifs,
		stats:         &memStatsRepo{},
		auth:          newAuthService(users, []byte(cfg.JWTSecret), cfg.TokenTTL),
		l:             *log.Default(),
	})

	return &testEnv{
		server:  s,
		clock:   clock,
		goals:   goals,
		notifs:  notifs,
		users:   users,
		machine: machine,
	}
}
