// Package progress is the process-wide rendezvous a running schedule
// generation publishes its progress and final result to, and a status
// poll reads back from. See spec.md §5.
//
// It mirrors the teacher's in-memory proposalStore (a TTL'd map guarded
// by a mutex) but backs it with Redis when available, so progress
// survives a process restart and is visible across replicas; the
// in-memory map is the fallback when Redis is unreachable.
package progress

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/deptsched/coursetime/internal/models"
)

// Status is the coarse state of one generation run.
type Status string

const (
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Impossible is the sentinel published as a failed run's Error when a
// phase comes back infeasible, mirroring the original's
// generate_schedule returning the literal string "impossible".
const Impossible = "impossible"

// Record is everything a status poll can learn about one process id.
type Record struct {
	Status   Status               `json:"status"`
	Progress int                  `json:"progress"`
	Events   []models.ScheduleEvent `json:"events,omitempty"`
	Error    string               `json:"error,omitempty"`
}

type memEntry struct {
	record    Record
	expiresAt time.Time
}

// Store publishes and reads back Records for a process id. A nil Redis
// client is valid and makes every Store purely in-memory.
type Store struct {
	redis *redis.Client
	ttl   time.Duration

	mu  sync.RWMutex
	mem map[string]memEntry
}

// New returns a Store. redisClient may be nil.
func New(redisClient *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{redis: redisClient, ttl: ttl, mem: make(map[string]memEntry)}
}

// SetProgress publishes a coarse 0-100 progress value, or -1 to signal
// an internal (non-infeasibility) failure mid-run.
func (s *Store) SetProgress(ctx context.Context, processID string, value int) error {
	return s.save(ctx, processID, Record{Status: StatusRunning, Progress: value})
}

// SetDone publishes a run's final schedule.
func (s *Store) SetDone(ctx context.Context, processID string, events []models.ScheduleEvent) error {
	return s.save(ctx, processID, Record{Status: StatusDone, Progress: 100, Events: events})
}

// SetFailed publishes a run's terminal *internal* failure (an
// unexpected error in the Orchestrator, not a phase coming back
// infeasible). Progress is set to -1, the crash sentinel; see spec.md
// §7 InternalError.
func (s *Store) SetFailed(ctx context.Context, processID string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return s.save(ctx, processID, Record{Status: StatusFailed, Progress: -1, Error: msg})
}

// SetInfeasible publishes a run's terminal *infeasibility* failure: a
// phase's solver returned no feasible placement. Per spec.md §7
// PhaseInfeasible, this is distinct from InternalError and never reuses
// the -1 crash sentinel; lastProgress is the last monotonic progress
// value reported before the phase failed.
func (s *Store) SetInfeasible(ctx context.Context, processID string, lastProgress int) error {
	return s.save(ctx, processID, Record{Status: StatusFailed, Progress: lastProgress, Error: Impossible})
}

// Get reads back the current record for a process id.
func (s *Store) Get(ctx context.Context, processID string) (Record, bool, error) {
	if s.redis != nil {
		val, err := s.redis.Get(ctx, redisKey(processID)).Result()
		if err == nil {
			var rec Record
			if jsonErr := json.Unmarshal([]byte(val), &rec); jsonErr == nil {
				return rec, true, nil
			}
		} else if err != redis.Nil {
			return s.getMem(processID)
		}
	}
	return s.getMem(processID)
}

func (s *Store) save(ctx context.Context, processID string, rec Record) error {
	if s.redis != nil {
		payload, err := json.Marshal(rec)
		if err == nil {
			if err := s.redis.Set(ctx, redisKey(processID), payload, s.ttl).Err(); err == nil {
				return nil
			}
		}
	}
	s.setMem(processID, rec)
	return nil
}

func (s *Store) setMem(processID string, rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem[processID] = memEntry{record: rec, expiresAt: time.Now().Add(s.ttl)}
}

func (s *Store) getMem(processID string) (Record, bool, error) {
	s.mu.RLock()
	entry, ok := s.mem[processID]
	s.mu.RUnlock()
	if !ok {
		return Record{}, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.mem, processID)
		s.mu.Unlock()
		return Record{}, false, nil
	}
	return entry.record, true, nil
}

func redisKey(processID string) string {
	return "coursetime:progress:" + processID
}
