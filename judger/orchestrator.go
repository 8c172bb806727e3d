package judger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"RelayOnlineJudge/model"
)

// ErrDispatch is returned when the provider rejects the initial submit;
// nothing is persisted in that case.
var ErrDispatch = errors.New("submission dispatch failed")

// Provider is the external judging service. Dispatch creates a fresh
// provider-side submission on every call; FetchVerdict is retryable.
type Provider interface {
	Dispatch(ctx context.Context, cfContestID int64, problem, langID, sourceCode string) (string, error)
	FetchVerdict(ctx context.Context, cfContestID int64, providerID string) (*Verdict, error)
}

// SubmissionStore persists submissions. The orchestrator is the only
// writer of a submission after creation.
type SubmissionStore interface {
	CreateSubmission(s *model.Submission) error
	UpdateSubmission(s *model.Submission) error
}

// Scorer receives exactly one verdict event per contest-scored
// submission that reaches Done.
type Scorer interface {
	ApplyVerdict(ctx context.Context, contest *model.Contest, userID, problemID int64, verdict string, submittedAt time.Time) error
}

type Config struct {
	PollInterval time.Duration //delay between two polls of one submission
	MaxPolls     int           //pending polls before the submission is declared stuck
	MaxFailures  int           //consecutive provider failures before giving up
}

func (cfg *Config) withDefaults() {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Second
	}
	if cfg.MaxPolls <= 0 {
		cfg.MaxPolls = 200
	}
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
}

// task is the per-submission poll loop state. Polls of one submission
// never overlap: each timer fires once and the next one is armed only
// after the step resolves.
type task struct {
	sub     *model.Submission
	problem *model.Problem
	contest *model.Contest //nil for contest-less submissions
	polls   int
	fails   int
}

// Orchestrator owns the submission life cycle from dispatch to a
// terminal state. One timer per in-flight submission, keyed by
// submission id so shutdown and bound enforcement share one control
// point.
type Orchestrator struct {
	provider Provider
	classify Classifier
	store    SubmissionStore
	scorer   Scorer
	cfg      Config

	mu     sync.Mutex
	timers map[int64]*time.Timer
	closed bool
}

func NewOrchestrator(provider Provider, classify Classifier, store SubmissionStore, scorer Scorer, cfg Config) *Orchestrator {
	cfg.withDefaults()
	return &Orchestrator{
		provider: provider,
		classify: classify,
		store:    store,
		scorer:   scorer,
		cfg:      cfg,
		timers:   make(map[int64]*time.Timer),
	}
}

// Submit dispatches to the provider and persists the submission with
// status Judging. It returns as soon as the submission is accepted;
// polling continues in the background. A provider failure here is fatal
// for the request and leaves nothing behind.
func (o *Orchestrator) Submit(ctx context.Context, sub *model.Submission, problem *model.Problem, contest *model.Contest) error {
	providerID, err := o.provider.Dispatch(ctx, problem.CfContestID, problem.CfProblem, sub.Lang, sub.Code)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDispatch, err)
	}
	sub.ProviderID = providerID
	sub.Status = model.StatusJudging
	if err := o.store.CreateSubmission(sub); err != nil {
		return err
	}
	o.schedule(&task{sub: sub, problem: problem, contest: contest})
	return nil
}

func (o *Orchestrator) schedule(t *task) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.timers[t.sub.ID] = time.AfterFunc(o.cfg.PollInterval, func() {
		o.step(t)
	})
}

func (o *Orchestrator) drop(id int64) {
	o.mu.Lock()
	delete(o.timers, id)
	o.mu.Unlock()
}

// step runs one poll. Re-entering after the submission left Judging is
// a no-op, so a terminal transition happens at most once.
func (o *Orchestrator) step(t *task) {
	sub := t.sub
	if sub.Status != model.StatusJudging {
		o.drop(sub.ID)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), o.cfg.PollInterval*2)
	res, err := o.provider.FetchVerdict(ctx, t.problem.CfContestID, sub.ProviderID)
	cancel()
	if err != nil {
		t.fails++
		slog.Warn("verdict poll failed", "submission", sub.ID, "fails", t.fails, "err", err)
		if t.fails >= o.cfg.MaxFailures {
			o.giveUp(t)
			return
		}
		o.schedule(t)
		return
	}
	t.fails = 0

	out := o.classify(res.Verdict)
	sub.Verdict = res.Verdict
	sub.Time = res.Time
	sub.Memory = res.Memory
	if out.Pending {
		//best effort, the next poll overwrites it anyway
		if err := o.store.UpdateSubmission(sub); err != nil {
			slog.Warn("submission progress update failed", "submission", sub.ID, "err", err)
		}
		t.polls++
		if t.polls >= o.cfg.MaxPolls {
			o.giveUp(t)
			return
		}
		o.schedule(t)
		return
	}

	sub.Status = model.StatusDone
	if err := o.store.UpdateSubmission(sub); err != nil {
		slog.Warn("final verdict persist failed, retrying once", "submission", sub.ID, "err", err)
		if err := o.store.UpdateSubmission(sub); err != nil {
			slog.Error("final verdict persist failed twice, row left in judging", "submission", sub.ID, "err", err)
		}
	}
	o.drop(sub.ID)

	if sub.ContestID != 0 && sub.InWindow {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := o.scorer.ApplyVerdict(ctx, t.contest, sub.AuthorID, sub.ProblemID, sub.Verdict, sub.CreatedAt); err != nil {
			//the verdict stays Done; scoring failures never roll it back
			slog.Error("standing update failed", "submission", sub.ID, "contest", sub.ContestID, "err", err)
		}
	}
}

// giveUp moves a submission to Stuck. Operators and users see it as a
// terminal-but-unresolved state; the standing is never touched.
func (o *Orchestrator) giveUp(t *task) {
	t.sub.Status = model.StatusStuck
	if err := o.store.UpdateSubmission(t.sub); err != nil {
		slog.Error("stuck state persist failed", "submission", t.sub.ID, "err", err)
	}
	slog.Error("judging stuck", "submission", t.sub.ID, "polls", t.polls, "fails", t.fails)
	o.drop(t.sub.ID)
}

// Shutdown cancels every in-flight poll timer. Submissions stay in
// Judging and are not resumed; nothing keeps running in the background.
func (o *Orchestrator) Shutdown() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	for id, timer := range o.timers {
		timer.Stop()
		delete(o.timers, id)
	}
}

// Pending reports how many submissions are still being polled.
func (o *Orchestrator) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.timers)
}
