package standing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"RelayOnlineJudge/model"
)

// ErrStandingUpdate is surfaced after the single persist retry is also
// exhausted. The originating submission's verdict is unaffected.
var ErrStandingUpdate = errors.New("standing update failed")

// Store is the persistence the engine relies on. GetOrCreate must be an
// atomic create-if-absent (unique key on contest_id+user_id), and
// ClaimFirstSolve must let exactly one claim per (contest, problem)
// succeed.
type Store interface {
	GetOrCreate(contestID, userID int64, problems []int64) (*model.Standing, error)
	Save(st *model.Standing) error
	ClaimFirstSolve(contestID, problemID, userID int64) (bool, error)
}

// Engine applies terminal verdicts to standings, exactly once per
// submission. Per-key mutex maps serialize the two read-then-write
// races: standing mutation per (contest, user) and the first-accept
// claim per (contest, problem).
// muKey is (contest id, user or problem id). A composite key rather
// than packed bits so large ids can never alias across contests.
type muKey [2]int64

type Engine struct {
	store Store

	userMu       map[muKey]*sync.Mutex
	userGuard    sync.Mutex
	problemMu    map[muKey]*sync.Mutex
	problemGuard sync.Mutex
}

func NewEngine(store Store) *Engine {
	return &Engine{
		store:     store,
		userMu:    make(map[muKey]*sync.Mutex),
		problemMu: make(map[muKey]*sync.Mutex),
	}
}

func (e *Engine) userMutex(contestID, userID int64) *sync.Mutex {
	key := muKey{contestID, userID}
	e.userGuard.Lock()
	defer e.userGuard.Unlock()
	if _, ok := e.userMu[key]; !ok {
		e.userMu[key] = new(sync.Mutex)
	}
	return e.userMu[key]
}

func (e *Engine) problemMutex(contestID, problemID int64) *sync.Mutex {
	key := muKey{contestID, problemID}
	e.problemGuard.Lock()
	defer e.problemGuard.Unlock()
	if _, ok := e.problemMu[key]; !ok {
		e.problemMu[key] = new(sync.Mutex)
	}
	return e.problemMu[key]
}

// penaltyMinutes is the true elapsed minutes between contest start and
// submission time, not a minute-of-hour subtraction.
func penaltyMinutes(begin, submittedAt time.Time) uint {
	d := submittedAt.Sub(begin)
	if d < 0 {
		return 0
	}
	return uint(d / time.Minute)
}

// ApplyVerdict folds one terminal verdict into the (contest, user)
// standing. Repeated "accepted" verdicts on an already-accepted problem
// only advance total_submissions; solved count and penalty are applied
// once, the moment is_accepted flips.
func (e *Engine) ApplyVerdict(ctx context.Context, contest *model.Contest, userID, problemID int64, verdict string, submittedAt time.Time) error {
	mu := e.userMutex(contest.ID, userID)
	mu.Lock()
	defer mu.Unlock()

	st, err := e.store.GetOrCreate(contest.ID, userID, contest.Problems)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStandingUpdate, err)
	}
	cell, ok := st.Problems[problemID]
	if !ok {
		return fmt.Errorf("problem %d is not part of contest %d", problemID, contest.ID)
	}
	cell.TotalSubmissions++

	if strings.ToLower(strings.TrimSpace(verdict)) == "accepted" {
		if !cell.IsAccepted {
			mins := penaltyMinutes(contest.Begin, submittedAt)
			st.Solved++
			st.Penalty += cell.FailedSubmissions*20 + mins
			cell.SolvedAt = mins
			cell.IsAccepted = true
			e.claimFirstSolve(st, cell, problemID)
		}
	} else {
		cell.FailedSubmissions++
	}

	if err := e.store.Save(st); err != nil {
		slog.Warn("standing persist failed, retrying once", "contest", contest.ID, "user", userID, "err", err)
		if err := e.store.Save(st); err != nil {
			return fmt.Errorf("%w: %v", ErrStandingUpdate, err)
		}
	}
	return nil
}

func (e *Engine) claimFirstSolve(st *model.Standing, cell *model.ProblemCell, problemID int64) {
	mu := e.problemMutex(st.ContestID, problemID)
	mu.Lock()
	defer mu.Unlock()
	ok, err := e.store.ClaimFirstSolve(st.ContestID, problemID, st.UserID)
	if err != nil {
		//losing the flag is recoverable by rejudging; the claim row decides
		slog.Error("first-solve claim failed", "contest", st.ContestID, "problem", problemID, "err", err)
		return
	}
	cell.IsFirstAccepted = ok
}
