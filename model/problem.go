package model

import (
	"time"
)

const ProblemTypeCodeforces = "CODEFORCES"

type Problem struct {
	ID            int64     `json:"id" xorm:"pk autoincr"`
	CreatedAt     time.Time `json:"created_at" xorm:"created"`
	Author        string    `json:"author" xorm:"index"`
	Title         string    `json:"title" xorm:"varchar(64)"`
	Statement     string    `json:"statement" xorm:"text"`
	ProblemType   string    `json:"problem_type" xorm:"varchar(20) default 'CODEFORCES'"`
	CfContestID   int64     `json:"cf_contest_id"`                //contest id on the external judge
	CfProblem     string    `json:"cf_problem" xorm:"varchar(8)"` //problem letter on the external judge
	BalloonColor  string    `json:"balloon_color" xorm:"varchar(16)"`
	IsOpen        bool      `json:"is_open" xorm:"index"`
	AcceptedCount uint      `json:"accepted_count" xorm:"default 0"`
	AllCount      uint      `json:"all_count" xorm:"default 0"`
}

func (p *Problem) GetTableName() string {
	return "problem"
}
