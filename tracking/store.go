package tracking

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"renderbot/types"
)

// sessionFile is the on-disk shape of the tracking file. Records are kept
// as raw messages on load so one corrupt entry never poisons the rest.
type sessionFile struct {
	SessionID    string            `json:"session_id"`
	SessionStart time.Time         `json:"session_start"`
	Records      []json.RawMessage `json:"records"`
}

// Store persists per-job lifecycle state across process restarts. Every
// mutation is flushed to disk (write-temp-then-rename) before it returns,
// so a crash can never lose an acknowledged transition.
type Store struct {
	path string

	mu           sync.Mutex
	sessionID    string
	sessionStart time.Time
	records      map[string]types.TrackingRecord
	order        []string
}

// NewStore creates a store bound to path. Call Load before use.
func NewStore(path string) *Store {
	return &Store{
		path:    path,
		records: make(map[string]types.TrackingRecord),
	}
}

// Load reads the tracking file. A missing or empty file yields an empty
// store; individually corrupt entries are logged and skipped.
func (s *Store) Load() (map[string]types.TrackingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]types.TrackingRecord)
	s.order = nil

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) || (err == nil && len(data) == 0) {
		s.sessionID = uuid.NewString()
		s.sessionStart = time.Now()
		return s.snapshotLocked(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tracking file: %w", err)
	}

	var file sessionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse tracking file: %w", err)
	}

	s.sessionID = file.SessionID
	if s.sessionID == "" {
		s.sessionID = uuid.NewString()
	}
	s.sessionStart = file.SessionStart
	if s.sessionStart.IsZero() {
		s.sessionStart = time.Now()
	}

	for i, raw := range file.Records {
		var rec types.TrackingRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			log.Printf("⚠️ Skipping corrupt tracking entry %d: %v", i, err)
			continue
		}
		if rec.ID == "" {
			log.Printf("⚠️ Skipping tracking entry %d: missing id", i)
			continue
		}
		if _, dup := s.records[rec.ID]; dup {
			log.Printf("⚠️ Skipping duplicate tracking entry for %s", rec.ID)
			continue
		}
		s.records[rec.ID] = rec
		s.order = append(s.order, rec.ID)
	}
	return s.snapshotLocked(), nil
}

// Upsert persists a record's new state atomically
func (s *Store) Upsert(rec types.TrackingRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("tracking record has no id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; !exists {
		s.order = append(s.order, rec.ID)
	}
	s.records[rec.ID] = rec
	return s.flushLocked()
}

// Transition moves a record forward, stamps the state timestamp, and
// flushes before returning. Illegal transitions are rejected.
func (s *Store) Transition(id string, next types.Status, mutate func(*types.TrackingRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return fmt.Errorf("no tracking record for %s", id)
	}
	if !rec.Status.CanTransitionTo(next) {
		return fmt.Errorf("illegal transition %s → %s for %s", rec.Status, next, id)
	}

	now := time.Now()
	rec.Status = next
	switch next {
	case types.StatusSubmitted:
		rec.SubmittedAt = &now
	case types.StatusRendering:
		rec.RenderingAt = &now
	case types.StatusReady:
		rec.ReadyAt = &now
	case types.StatusDownloaded:
		rec.DownloadedAt = &now
	case types.StatusFailed:
		rec.FailedAt = &now
	}
	if mutate != nil {
		mutate(&rec)
	}

	s.records[id] = rec
	return s.flushLocked()
}

// Get returns a copy of the record for id
func (s *Store) Get(id string) (types.TrackingRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	return rec, ok
}

// FindByStatus returns records in the given state, in insertion order
func (s *Store) FindByStatus(status types.Status) []types.TrackingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []types.TrackingRecord
	for _, id := range s.order {
		if rec := s.records[id]; rec.Status == status {
			out = append(out, rec)
		}
	}
	return out
}

// Records returns all records in insertion order
func (s *Store) Records() []types.TrackingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.TrackingRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out
}

// AllTerminal reports whether every record is downloaded or failed
func (s *Store) AllTerminal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.records {
		if !rec.Status.IsTerminal() {
			return false
		}
	}
	return true
}

// Report summarizes the store for the UI and the status viewer
func (s *Store) Report() types.StatusReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := types.StatusReport{
		SessionID:   s.sessionID,
		GeneratedAt: time.Now(),
		Records:     make([]types.TrackingRecord, 0, len(s.order)),
	}
	for _, id := range s.order {
		rec := s.records[id]
		report.Records = append(report.Records, rec)
		report.Total++
		switch {
		case rec.Status == types.StatusDownloaded:
			report.Downloaded++
		case rec.Status == types.StatusFailed:
			report.Failed++
		default:
			report.Pending++
		}
	}
	return report
}

func (s *Store) snapshotLocked() map[string]types.TrackingRecord {
	out := make(map[string]types.TrackingRecord, len(s.records))
	for id, rec := range s.records {
		out[id] = rec
	}
	return out
}

// flushLocked writes the whole store to a temp file and renames it over
// the tracking file, so a crash mid-write leaves the previous state intact.
func (s *Store) flushLocked() error {
	file := sessionFile{
		SessionID:    s.sessionID,
		SessionStart: s.sessionStart,
	}
	for _, id := range s.order {
		raw, err := json.Marshal(s.records[id])
		if err != nil {
			return fmt.Errorf("encode record %s: %w", id, err)
		}
		file.Records = append(file.Records, raw)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tracking file: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".tracking-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp tracking file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp tracking file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp tracking file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp tracking file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace tracking file: %w", err)
	}
	return nil
}

// ReadReport loads a tracking file without taking ownership of it. Used by
// read-only consumers (the UI server and the status viewer).
func ReadReport(path string) (types.StatusReport, error) {
	s := NewStore(path)
	if _, err := s.Load(); err != nil {
		return types.StatusReport{}, err
	}
	rep := s.Report()
	sort.SliceStable(rep.Records, func(i, j int) bool {
		return rep.Records[i].CreatedAt.Before(rep.Records[j].CreatedAt)
	})
	return rep, nil
}
