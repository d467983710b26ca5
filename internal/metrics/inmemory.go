package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered uint64
	LoginSuccesses  uint64
	LoginFailures   uint64
	TokensRevoked   uint64
	TasksCreated    uint64
	TasksUpdated    uint64
	TasksDeleted    uint64
	TasksToggled    uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersRegistered uint64
	loginSuccesses  uint64
	loginFailures   uint64
	tokensRevoked   uint64
	tasksCreated    uint64
	tasksUpdated    uint64
	tasksDeleted    uint64
	tasksToggled    uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered: atomic.LoadUint64(&m.usersRegistered),
		LoginSuccesses:  atomic.LoadUint64(&m.loginSuccesses),
		LoginFailures:   atomic.LoadUint64(&m.loginFailures),
		TokensRevoked:   atomic.LoadUint64(&m.tokensRevoked),
		TasksCreated:    atomic.LoadUint64(&m.tasksCreated),
		TasksUpdated:    atomic.LoadUint64(&m.tasksUpdated),
		TasksDeleted:    atomic.LoadUint64(&m.tasksDeleted),
		TasksToggled:    atomic.LoadUint64(&m.tasksToggled),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLoginSuccess increments the successful login counter.
func (m *InMemoryRecorder) IncLoginSuccess() {
	atomic.AddUint64(&m.loginSuccesses, 1)
}

// IncLoginFailure increments the failed login counter.
func (m *InMemoryRecorder) IncLoginFailure() {
	atomic.AddUint64(&m.loginFailures, 1)
}

// IncTokenRevoked increments the revocation counter.
func (m *InMemoryRecorder) IncTokenRevoked() {
	atomic.AddUint64(&m.tokensRevoked, 1)
}

// IncTaskCreated increments the task created counter.
func (m *InMemoryRecorder) IncTaskCreated() {
	atomic.AddUint64(&m.tasksCreated, 1)
}

// IncTaskUpdated increments the task updated counter.
func (m *InMemoryRecorder) IncTaskUpdated() {
	atomic.AddUint64(&m.tasksUpdated, 1)
}

// IncTaskDeleted increments the task deleted counter.
func (m *InMemoryRecorder) IncTaskDeleted() {
	atomic.AddUint64(&m.tasksDeleted, 1)
}

// IncTaskToggled increments the task toggled counter.
func (m *InMemoryRecorder) IncTaskToggled() {
	atomic.AddUint64(&m.tasksToggled, 1)
}
