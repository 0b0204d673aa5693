package state

import (
	"fmt"
	"sync"
	"time"
)

// Phase represents the automation run's aggregate state machine
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseLoading    Phase = "loading"
	PhaseSubmitting Phase = "submitting"
	PhasePolling    Phase = "polling"
	PhaseComplete   Phase = "complete"
	PhaseError      Phase = "error"
)

// LogEntry represents a single log line with timestamp
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Snapshot is a point-in-time copy of the run state
type Snapshot struct {
	Phase     Phase      `json:"phase"`
	Logs      []LogEntry `json:"logs"`
	Submitted int        `json:"submitted"`
	Failed    int        `json:"failed"`
	Error     string     `json:"error,omitempty"`
}

// Manager holds the run state with thread-safe access
type Manager struct {
	mu sync.RWMutex

	phase     Phase
	logs      []LogEntry
	maxLogs   int
	submitted int
	failed    int
	lastErr   error
}

// NewManager creates a new state manager
func NewManager() *Manager {
	return &Manager{
		phase:   PhaseIdle,
		logs:    make([]LogEntry, 0),
		maxLogs: 50, // Keep last 50 log entries
	}
}

// AddLog adds a log entry (thread-safe)
func (m *Manager) AddLog(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appendLogLocked(message)
}

// SetPhase sets the current phase (thread-safe)
func (m *Manager) SetPhase(phase Phase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phase = phase
}

// Phase gets the current phase (thread-safe)
func (m *Manager) Phase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

// SetError moves the run into the error phase
func (m *Manager) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phase = PhaseError
	m.lastErr = err
	m.appendLogLocked(fmt.Sprintf("Error: %v", err))
}

// CountSubmission tallies one submission outcome
func (m *Manager) CountSubmission(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.submitted++
	} else {
		m.failed++
	}
}

// GetStatus returns a snapshot of the current state (thread-safe)
func (m *Manager) GetStatus() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		Phase:     m.phase,
		Logs:      append([]LogEntry{}, m.logs...), // Copy slice
		Submitted: m.submitted,
		Failed:    m.failed,
	}
	if m.lastErr != nil {
		snap.Error = m.lastErr.Error()
	}
	return snap
}

// appendLogLocked must be called with the lock held
func (m *Manager) appendLogLocked(message string) {
	m.logs = append(m.logs, LogEntry{Timestamp: time.Now(), Message: message})
	if len(m.logs) > m.maxLogs {
		m.logs = m.logs[len(m.logs)-m.maxLogs:]
	}
}
