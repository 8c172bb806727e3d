package model

import (
	"strings"
	"time"
)

// Status is the submission life-cycle state. A submission leaves
// Judging exactly once, either to Done (terminal verdict) or to
// Stuck (poll bounds exhausted).
type Status string

const (
	StatusJudging Status = "Judging"
	StatusDone    Status = "Done"
	StatusStuck   Status = "Stuck"
)

type Submission struct {
	ID         int64     `json:"id" xorm:"pk autoincr"`
	CreatedAt  time.Time `json:"created_at" xorm:"created"`
	Code       string    `json:"code" xorm:"text notnull"`
	Lang       string    `json:"lang" xorm:"varchar(20)"`
	Length     uint      `json:"length"`
	Status     Status    `json:"status" xorm:"varchar(20) default 'Judging'"`
	Verdict    string    `json:"verdict" xorm:"varchar(64)"`
	Time       uint      `json:"time"`
	Memory     uint      `json:"memory"`
	ProblemID  int64     `json:"problem_id" xorm:"index"`
	ContestID  int64     `json:"contest_id" xorm:"index"` //0 when the submission is outside any contest
	AuthorID   int64     `json:"author_id" xorm:"index"`
	ProviderID string    `json:"provider_id" xorm:"varchar(32)"` //scraper-side submission id, empty until dispatched
	InWindow   bool      `json:"in_window"`                      //captured once at creation, never re-evaluated
}

func (s *Submission) GetTableName() string {
	return "submission"
}

// NormalizedVerdict is the form used for comparisons; the raw provider
// wording stays in Verdict.
func (s *Submission) NormalizedVerdict() string {
	return strings.ToLower(strings.TrimSpace(s.Verdict))
}
