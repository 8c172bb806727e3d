package judger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RelayOnlineJudge/model"
)

type fakeProvider struct {
	mu          sync.Mutex
	dispatchErr error
	fetchErrs   int //initial FetchVerdict calls that fail
	verdicts    []string
	fetches     int
}

func (f *fakeProvider) Dispatch(ctx context.Context, cfContestID int64, problem, langID, sourceCode string) (string, error) {
	if f.dispatchErr != nil {
		return "", f.dispatchErr
	}
	return "4242", nil
}

func (f *fakeProvider) FetchVerdict(ctx context.Context, cfContestID int64, providerID string) (*Verdict, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetches <= f.fetchErrs {
		return nil, ErrProviderUnavailable
	}
	i := f.fetches - f.fetchErrs - 1
	if i >= len(f.verdicts) {
		i = len(f.verdicts) - 1
	}
	return &Verdict{ID: providerID, Verdict: f.verdicts[i], Time: 15, Memory: 256}, nil
}

func (f *fakeProvider) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

type memStore struct {
	mu          sync.Mutex
	nextID      int64
	created     int
	failUpdates int //UpdateSubmission calls that fail before succeeding
	updates     int
	first       model.Submission //snapshot taken at creation
	statuses    []model.Status
	last        model.Submission
}

func (m *memStore) CreateSubmission(s *model.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	s.ID = m.nextID
	m.created++
	m.first = *s
	m.last = *s
	return nil
}

func (m *memStore) UpdateSubmission(s *model.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	if m.failUpdates > 0 {
		m.failUpdates--
		return errors.New("lost connection")
	}
	m.statuses = append(m.statuses, s.Status)
	m.last = *s
	return nil
}

func (m *memStore) firstCopy() model.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.first
}

func (m *memStore) lastCopy() model.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

type scoreCall struct {
	contestID int64
	userID    int64
	problemID int64
	verdict   string
}

type fakeScorer struct {
	mu    sync.Mutex
	calls []scoreCall
}

func (f *fakeScorer) ApplyVerdict(ctx context.Context, contest *model.Contest, userID, problemID int64, verdict string, submittedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, scoreCall{contest.ID, userID, problemID, verdict})
	return nil
}

func (f *fakeScorer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testSubmission(contestID int64, inWindow bool) *model.Submission {
	return &model.Submission{
		Code:      "print(input())",
		Lang:      "31",
		AuthorID:  7,
		ProblemID: 3,
		ContestID: contestID,
		InWindow:  inWindow,
		CreatedAt: time.Now(),
	}
}

func testContest() *model.Contest {
	return &model.Contest{
		ID:       1,
		Begin:    time.Now().Add(-10 * time.Minute),
		Duration: 120,
		Problems: []int64{3, 4},
	}
}

var testProblem = &model.Problem{ID: 3, CfContestID: 1800, CfProblem: "B"}

func fastConfig() Config {
	return Config{PollInterval: time.Millisecond, MaxPolls: 50, MaxFailures: 3}
}

func TestSubmitDispatchFailure(t *testing.T) {
	provider := &fakeProvider{dispatchErr: errors.New("503")}
	store := &memStore{}
	o := NewOrchestrator(provider, ClassifyPrefix, store, &fakeScorer{}, fastConfig())
	defer o.Shutdown()

	err := o.Submit(context.Background(), testSubmission(1, true), testProblem, testContest())
	require.ErrorIs(t, err, ErrDispatch)
	assert.Equal(t, 0, store.created)
	assert.Equal(t, 0, o.Pending())
}

func TestPollUntilDone(t *testing.T) {
	provider := &fakeProvider{verdicts: []string{"In Queue", "Running on test 4", "Accepted"}}
	store := &memStore{}
	scorer := &fakeScorer{}
	o := NewOrchestrator(provider, ClassifyPrefix, store, scorer, fastConfig())
	defer o.Shutdown()

	require.NoError(t, o.Submit(context.Background(), testSubmission(1, true), testProblem, testContest()))
	created := store.firstCopy()
	assert.Equal(t, "4242", created.ProviderID)
	assert.Equal(t, model.StatusJudging, created.Status)

	require.Eventually(t, func() bool {
		return store.lastCopy().Status == model.StatusDone
	}, time.Second, time.Millisecond)

	final := store.lastCopy()
	assert.Equal(t, "Accepted", final.Verdict)
	assert.Equal(t, uint(15), final.Time)
	assert.Equal(t, uint(256), final.Memory)
	assert.Equal(t, 0, o.Pending())

	require.Equal(t, 1, scorer.callCount())
	assert.Equal(t, scoreCall{contestID: 1, userID: 7, problemID: 3, verdict: "Accepted"}, scorer.calls[0])

	//a finished submission is never polled again
	fetched := provider.fetchCount()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, fetched, provider.fetchCount())
}

func TestContestlessSubmissionSkipsScoring(t *testing.T) {
	provider := &fakeProvider{verdicts: []string{"Wrong answer on test 2"}}
	store := &memStore{}
	scorer := &fakeScorer{}
	o := NewOrchestrator(provider, ClassifyPrefix, store, scorer, fastConfig())
	defer o.Shutdown()

	require.NoError(t, o.Submit(context.Background(), testSubmission(0, false), testProblem, nil))
	require.Eventually(t, func() bool {
		return store.lastCopy().Status == model.StatusDone
	}, time.Second, time.Millisecond)
	assert.Equal(t, 0, scorer.callCount())
}

func TestOutOfWindowSubmissionSkipsScoring(t *testing.T) {
	provider := &fakeProvider{verdicts: []string{"Accepted"}}
	store := &memStore{}
	scorer := &fakeScorer{}
	o := NewOrchestrator(provider, ClassifyPrefix, store, scorer, fastConfig())
	defer o.Shutdown()

	require.NoError(t, o.Submit(context.Background(), testSubmission(1, false), testProblem, testContest()))
	require.Eventually(t, func() bool {
		return store.lastCopy().Status == model.StatusDone
	}, time.Second, time.Millisecond)
	assert.Equal(t, 0, scorer.callCount())
}

func TestStuckAfterMaxPolls(t *testing.T) {
	provider := &fakeProvider{verdicts: []string{"Running on test 1"}}
	store := &memStore{}
	scorer := &fakeScorer{}
	cfg := fastConfig()
	cfg.MaxPolls = 4
	o := NewOrchestrator(provider, ClassifyPrefix, store, scorer, cfg)
	defer o.Shutdown()

	require.NoError(t, o.Submit(context.Background(), testSubmission(1, true), testProblem, testContest()))
	require.Eventually(t, func() bool {
		return store.lastCopy().Status == model.StatusStuck
	}, time.Second, time.Millisecond)
	assert.Equal(t, 0, scorer.callCount())
	assert.Equal(t, 0, o.Pending())
	assert.Equal(t, cfg.MaxPolls, provider.fetchCount())
}

func TestStuckAfterProviderFailures(t *testing.T) {
	provider := &fakeProvider{fetchErrs: 100, verdicts: []string{"Accepted"}}
	store := &memStore{}
	scorer := &fakeScorer{}
	cfg := fastConfig()
	cfg.MaxFailures = 2
	o := NewOrchestrator(provider, ClassifyPrefix, store, scorer, cfg)
	defer o.Shutdown()

	require.NoError(t, o.Submit(context.Background(), testSubmission(1, true), testProblem, testContest()))
	require.Eventually(t, func() bool {
		return store.lastCopy().Status == model.StatusStuck
	}, time.Second, time.Millisecond)
	assert.Equal(t, 0, scorer.callCount())
	assert.Equal(t, cfg.MaxFailures, provider.fetchCount())
}

func TestFailureCounterResetsOnSuccess(t *testing.T) {
	//one failure, then a pending poll, then one more failure: with
	//MaxFailures=2 the reset after the success keeps the loop alive
	provider := &fakeProvider{fetchErrs: 1, verdicts: []string{"In Queue", "Accepted"}}
	store := &memStore{}
	cfg := fastConfig()
	cfg.MaxFailures = 2
	o := NewOrchestrator(provider, ClassifyPrefix, store, &fakeScorer{}, cfg)
	defer o.Shutdown()

	require.NoError(t, o.Submit(context.Background(), testSubmission(0, false), testProblem, nil))
	require.Eventually(t, func() bool {
		return store.lastCopy().Status == model.StatusDone
	}, time.Second, time.Millisecond)
	assert.Equal(t, "Accepted", store.lastCopy().Verdict)
}

func TestShutdownCancelsPolls(t *testing.T) {
	provider := &fakeProvider{verdicts: []string{"Running on test 1"}}
	store := &memStore{}
	cfg := fastConfig()
	cfg.PollInterval = time.Hour
	o := NewOrchestrator(provider, ClassifyPrefix, store, &fakeScorer{}, cfg)

	require.NoError(t, o.Submit(context.Background(), testSubmission(1, true), testProblem, testContest()))
	require.NoError(t, o.Submit(context.Background(), testSubmission(1, true), testProblem, testContest()))
	assert.Equal(t, 2, o.Pending())

	o.Shutdown()
	assert.Equal(t, 0, o.Pending())
	assert.Equal(t, 0, provider.fetchCount())

	//a closed orchestrator never arms new timers
	o.schedule(&task{sub: testSubmission(1, true)})
	assert.Equal(t, 0, o.Pending())
}

func TestFinalPersistRetriesOnce(t *testing.T) {
	provider := &fakeProvider{verdicts: []string{"Accepted"}}
	store := &memStore{failUpdates: 1}
	scorer := &fakeScorer{}
	o := NewOrchestrator(provider, ClassifyPrefix, store, scorer, fastConfig())
	defer o.Shutdown()

	require.NoError(t, o.Submit(context.Background(), testSubmission(1, true), testProblem, testContest()))
	require.Eventually(t, func() bool {
		return store.lastCopy().Status == model.StatusDone
	}, time.Second, time.Millisecond)

	//one failed attempt plus the retry that landed
	store.mu.Lock()
	updates := store.updates
	store.mu.Unlock()
	assert.Equal(t, 2, updates)
	assert.Equal(t, 1, scorer.callCount())
}

func TestStepAfterTerminalIsNoop(t *testing.T) {
	provider := &fakeProvider{verdicts: []string{"Accepted"}}
	store := &memStore{}
	scorer := &fakeScorer{}
	o := NewOrchestrator(provider, ClassifyPrefix, store, scorer, fastConfig())
	defer o.Shutdown()

	sub := testSubmission(1, true)
	sub.ID = 9
	sub.Status = model.StatusDone
	o.step(&task{sub: sub, problem: testProblem, contest: testContest()})

	assert.Equal(t, 0, provider.fetchCount())
	assert.Equal(t, 0, scorer.callCount())
	assert.Empty(t, store.statuses)
}
