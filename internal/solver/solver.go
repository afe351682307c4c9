package solver

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/deptsched/coursetime/internal/models"
	"github.com/deptsched/coursetime/internal/occupancy"
	"github.com/deptsched/coursetime/internal/timegrid"
)

// Solve searches for a joint placement of every session in model within
// the given context's deadline, using up to workers goroutines running
// independent randomized attempts. On success every session in
// model.Sessions has its Day/Start/RoomIndex fields filled in and Solve
// returns (true, attempts-used); on timeout it returns (false,
// attempts-used) and the phase is infeasible under this search budget.
func Solve(ctx context.Context, model *Model, grid timegrid.Grid, ledger *occupancy.Ledger, workers int, seed int64) (bool, int) {
	if len(model.Sessions) == 0 {
		return true, 0
	}
	if workers < 1 {
		workers = 1
	}

	index := buildIndex(model.Sessions, grid)
	base := preblockedRooms(ledger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var attempts int64
	var found int32
	resultCh := make(chan map[*models.Session]assignment, 1)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed + int64(workerID)*104729 + 1))
			for {
				select {
				case <-runCtx.Done():
					return
				default:
				}
				atomic.AddInt64(&attempts, 1)
				result, ok := runAttempt(rng, model, grid, index, base)
				if ok {
					if atomic.CompareAndSwapInt32(&found, 0, 1) {
						resultCh <- result
						cancel()
					}
					return
				}
			}
		}(w)
	}

	wg.Wait()

	select {
	case result := <-resultCh:
		applyAssignments(model, result)
		return true, int(atomic.LoadInt64(&attempts))
	default:
		return false, int(atomic.LoadInt64(&attempts))
	}
}

// applyAssignments copies a winning attempt's placements onto the real
// session records.
func applyAssignments(model *Model, result map[*models.Session]assignment) {
	for _, s := range model.Sessions {
		a, ok := result[s]
		if !ok {
			continue
		}
		s.Day = a.Day
		s.Start = a.Start
		s.RoomIndex = a.RoomIndex
	}
}
