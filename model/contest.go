package model

import "time"

type Contest struct {
	ID       int64     `json:"id" xorm:"pk autoincr"`
	Title    string    `json:"title" xorm:"varchar(64) notnull"`
	Begin    time.Time `json:"begin"`
	Duration uint      `json:"duration"` //minutes
	Problems []int64   `json:"problems"` //ordered problem ids, json column
	IsPublic bool      `json:"is_public"`
	Author   string    `json:"author"`
	Desc     string    `json:"desc" xorm:"text"`
}

func (c *Contest) GetTableName() string {
	return "contest"
}

func (c *Contest) End() time.Time {
	return c.Begin.Add(time.Duration(c.Duration) * time.Minute)
}

// HasStarted gates submission intake.
func (c *Contest) HasStarted(now time.Time) bool {
	return now.After(c.Begin)
}

// IsDuringWindow decides whether a submission made at `now` is scored.
// The result is captured once at submission creation; a submission made
// during the contest but judged after it ends still scores.
func (c *Contest) IsDuringWindow(now time.Time) bool {
	return now.After(c.Begin) && now.Before(c.End())
}

// HasProblem reports whether pid is part of the contest's problem set.
func (c *Contest) HasProblem(pid int64) bool {
	for _, p := range c.Problems {
		if p == pid {
			return true
		}
	}
	return false
}
