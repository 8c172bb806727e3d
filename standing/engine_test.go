package standing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RelayOnlineJudge/model"
)

type memStore struct {
	mu        sync.Mutex
	standings map[string]*model.Standing
	claims    map[string]int64
	failSaves int
	saves     int
}

func newMemStore() *memStore {
	return &memStore{
		standings: make(map[string]*model.Standing),
		claims:    make(map[string]int64),
	}
}

func (m *memStore) GetOrCreate(contestID, userID int64, problems []int64) (*model.Standing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprintf("%d_%d", contestID, userID)
	if st, ok := m.standings[key]; ok {
		return st, nil
	}
	st := model.NewStanding(contestID, userID, problems)
	m.standings[key] = st
	return st, nil
}

func (m *memStore) Save(st *model.Standing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.failSaves > 0 {
		m.failSaves--
		return errors.New("lost connection")
	}
	return nil
}

func (m *memStore) ClaimFirstSolve(contestID, problemID, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprintf("%d_%d", contestID, problemID)
	if _, ok := m.claims[key]; ok {
		return false, nil
	}
	m.claims[key] = userID
	return true, nil
}

var begin = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func testContest() *model.Contest {
	return &model.Contest{
		ID:       1,
		Begin:    begin,
		Duration: 120,
		Problems: []int64{10, 11, 12},
	}
}

func TestAcceptedUpdatesStanding(t *testing.T) {
	store := newMemStore()
	e := NewEngine(store)
	contest := testContest()

	//user 5 solves problem 10 five minutes in
	err := e.ApplyVerdict(context.Background(), contest, 5, 10, "Accepted", begin.Add(5*time.Minute))
	require.NoError(t, err)

	st, _ := store.GetOrCreate(1, 5, contest.Problems)
	assert.Equal(t, uint(1), st.Solved)
	assert.Equal(t, uint(5), st.Penalty)
	cell := st.Problems[10]
	assert.True(t, cell.IsAccepted)
	assert.True(t, cell.IsFirstAccepted)
	assert.Equal(t, uint(5), cell.SolvedAt)
	assert.Equal(t, uint(1), cell.TotalSubmissions)
	assert.Equal(t, uint(0), cell.FailedSubmissions)

	//untouched problems keep their zeroed cells
	assert.False(t, st.Problems[11].IsAccepted)
	assert.Equal(t, uint(0), st.Problems[11].TotalSubmissions)
}

func TestFailedSubmissionsRaisePenalty(t *testing.T) {
	store := newMemStore()
	e := NewEngine(store)
	contest := testContest()
	ctx := context.Background()

	require.NoError(t, e.ApplyVerdict(ctx, contest, 5, 10, "Wrong answer on test 2", begin.Add(2*time.Minute)))
	require.NoError(t, e.ApplyVerdict(ctx, contest, 5, 10, "Time limit exceeded on test 9", begin.Add(4*time.Minute)))
	require.NoError(t, e.ApplyVerdict(ctx, contest, 5, 10, "Accepted", begin.Add(7*time.Minute)))

	st, _ := store.GetOrCreate(1, 5, contest.Problems)
	assert.Equal(t, uint(1), st.Solved)
	assert.Equal(t, uint(2*20+7), st.Penalty)
	cell := st.Problems[10]
	assert.Equal(t, uint(2), cell.FailedSubmissions)
	assert.Equal(t, uint(3), cell.TotalSubmissions)
	assert.Equal(t, uint(7), cell.SolvedAt)
}

func TestReacceptIsIdempotent(t *testing.T) {
	store := newMemStore()
	e := NewEngine(store)
	contest := testContest()
	ctx := context.Background()

	require.NoError(t, e.ApplyVerdict(ctx, contest, 5, 10, "Accepted", begin.Add(5*time.Minute)))
	require.NoError(t, e.ApplyVerdict(ctx, contest, 5, 10, "Accepted", begin.Add(30*time.Minute)))
	require.NoError(t, e.ApplyVerdict(ctx, contest, 5, 10, "Wrong answer on test 1", begin.Add(40*time.Minute)))

	st, _ := store.GetOrCreate(1, 5, contest.Problems)
	assert.Equal(t, uint(1), st.Solved)
	assert.Equal(t, uint(5), st.Penalty)
	cell := st.Problems[10]
	assert.True(t, cell.IsAccepted)
	assert.Equal(t, uint(5), cell.SolvedAt)
	assert.Equal(t, uint(3), cell.TotalSubmissions)
	//failed attempts keep counting after acceptance; the frozen penalty
	//just never picks them up
	assert.Equal(t, uint(1), cell.FailedSubmissions)
}

func TestFirstAcceptGoesToEarliestApplied(t *testing.T) {
	store := newMemStore()
	e := NewEngine(store)
	contest := testContest()
	ctx := context.Background()

	require.NoError(t, e.ApplyVerdict(ctx, contest, 5, 10, "Accepted", begin.Add(5*time.Minute)))
	require.NoError(t, e.ApplyVerdict(ctx, contest, 6, 10, "Wrong answer on test 1", begin.Add(3*time.Minute)))
	require.NoError(t, e.ApplyVerdict(ctx, contest, 6, 10, "Wrong answer on test 3", begin.Add(6*time.Minute)))
	require.NoError(t, e.ApplyVerdict(ctx, contest, 6, 10, "Accepted", begin.Add(7*time.Minute)))

	first, _ := store.GetOrCreate(1, 5, contest.Problems)
	second, _ := store.GetOrCreate(1, 6, contest.Problems)
	assert.True(t, first.Problems[10].IsFirstAccepted)
	assert.Equal(t, uint(5), first.Penalty)
	assert.False(t, second.Problems[10].IsFirstAccepted)
	assert.Equal(t, uint(2*20+7), second.Penalty)
	assert.Equal(t, uint(7), second.Problems[10].SolvedAt)
}

func TestConcurrentFirstAcceptIsUnique(t *testing.T) {
	store := newMemStore()
	e := NewEngine(store)
	contest := testContest()

	const users = 8
	var wg sync.WaitGroup
	for i := int64(1); i <= users; i++ {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			err := e.ApplyVerdict(context.Background(), contest, uid, 11, "Accepted", begin.Add(9*time.Minute))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	firsts := 0
	for i := int64(1); i <= users; i++ {
		st, _ := store.GetOrCreate(1, i, contest.Problems)
		assert.True(t, st.Problems[11].IsAccepted)
		if st.Problems[11].IsFirstAccepted {
			firsts++
		}
	}
	assert.Equal(t, 1, firsts)
}

func TestUnknownProblemIsRejected(t *testing.T) {
	store := newMemStore()
	e := NewEngine(store)
	err := e.ApplyVerdict(context.Background(), testContest(), 5, 99, "Accepted", begin.Add(time.Minute))
	require.Error(t, err)

	st, _ := store.GetOrCreate(1, 5, testContest().Problems)
	assert.Equal(t, uint(0), st.Solved)
	assert.Equal(t, uint(0), st.Penalty)
}

func TestSaveRetriesOnce(t *testing.T) {
	store := newMemStore()
	store.failSaves = 1
	e := NewEngine(store)

	err := e.ApplyVerdict(context.Background(), testContest(), 5, 10, "Accepted", begin.Add(5*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, store.saves)
}

func TestSaveExhaustedSurfacesError(t *testing.T) {
	store := newMemStore()
	store.failSaves = 2
	e := NewEngine(store)

	err := e.ApplyVerdict(context.Background(), testContest(), 5, 10, "Accepted", begin.Add(5*time.Minute))
	require.ErrorIs(t, err, ErrStandingUpdate)
}

func TestMutexKeysDoNotAliasLargeIDs(t *testing.T) {
	e := NewEngine(newMemStore())

	//ids past 32 bits must still map to distinct locks
	big := int64(1)<<32 + 7
	assert.NotSame(t, e.userMutex(1, 7), e.userMutex(1, big))
	assert.NotSame(t, e.userMutex(1, 7), e.userMutex(2, 7))
	assert.NotSame(t, e.problemMutex(1, 7), e.problemMutex(1, big))

	//while repeated lookups stay stable
	assert.Same(t, e.userMutex(1, big), e.userMutex(1, big))
	assert.Same(t, e.problemMutex(2, 7), e.problemMutex(2, 7))
}

func TestPenaltyMinutesTruncates(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    uint
	}{
		{0, 0},
		{59 * time.Second, 0},
		{time.Minute, 1},
		{5*time.Minute + 59*time.Second, 5},
		{65 * time.Minute, 65},
		{-time.Minute, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, penaltyMinutes(begin, begin.Add(tt.elapsed)), "elapsed %v", tt.elapsed)
	}
}
