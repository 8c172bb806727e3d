package model

// ProblemCell is the per-problem scoring record inside a standing.
// Once IsAccepted flips true it never reverts; SolvedAt and the
// penalty contribution are frozen at that moment.
type ProblemCell struct {
	IsAccepted        bool `json:"is_accepted"`
	IsFirstAccepted   bool `json:"is_first_accepted"`
	FailedSubmissions uint `json:"failed_submissions"`
	TotalSubmissions  uint `json:"total_submissions"`
	SolvedAt          uint `json:"solved_at"` //penalty minutes at acceptance
}

// Standing is the per-(contest, user) scoring record. Problems is keyed
// by problem id rather than scanned linearly.
type Standing struct {
	ID        int64                  `json:"id" xorm:"pk autoincr"`
	ContestID int64                  `json:"contest_id" xorm:"unique(contest_user) index"`
	UserID    int64                  `json:"user_id" xorm:"unique(contest_user) index"`
	Solved    uint                   `json:"solved"`
	Penalty   uint                   `json:"penalty"`
	Problems  map[int64]*ProblemCell `json:"problems"`
}

func (st *Standing) GetTableName() string {
	return "standing"
}

// NewStanding pre-populates a zeroed cell for every contest problem.
func NewStanding(contestID, userID int64, problems []int64) *Standing {
	st := &Standing{
		ContestID: contestID,
		UserID:    userID,
		Problems:  make(map[int64]*ProblemCell, len(problems)),
	}
	for _, pid := range problems {
		st.Problems[pid] = &ProblemCell{}
	}
	return st
}

// FirstSolve is the claim row behind first-acceptance: the unique
// (contest_id, problem_id) key lets exactly one insert succeed no
// matter how many users get accepted concurrently.
type FirstSolve struct {
	ID        int64 `json:"id" xorm:"pk autoincr"`
	ContestID int64 `json:"contest_id" xorm:"unique(contest_problem)"`
	ProblemID int64 `json:"problem_id" xorm:"unique(contest_problem)"`
	UserID    int64 `json:"user_id"`
}

func (f *FirstSolve) GetTableName() string {
	return "first_solve"
}
