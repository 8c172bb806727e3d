package dao

import (
	"strconv"
	"sync"
	"time"

	"RelayOnlineJudge/common"
	"RelayOnlineJudge/model"
)

const (
	PROBLEM_REDIS_EXPIRE = 0
)

var problemUpdateMutex sync.Mutex

type Problem = model.Problem

type ProblemDao struct {
	ID      int64
	Problem *Problem
}

func problemInitRedis() {
	problems := make([]Problem, 0)
	engine.Find(&problems)
	for idx := range problems {
		pd := &ProblemDao{Problem: &problems[idx]}
		PutToRedis(pd)
	}
}

func (pd *ProblemDao) GetTableName() string {
	return "problem"
}

func (pd *ProblemDao) GetRedisExpire() time.Duration {
	return PROBLEM_REDIS_EXPIRE
}

func (pd *ProblemDao) GetSelf() interface{} {
	if pd.Problem == nil {
		pd.Problem = &Problem{}
	}
	return pd.Problem
}

func (pd *ProblemDao) GetID() int64 {
	if pd.ID == 0 && pd.Problem != nil {
		pd.ID = pd.Problem.ID
	}
	return pd.ID
}

func (pd *ProblemDao) GetRedisKey() string {
	return pd.GetTableName() + "_" + strconv.FormatInt(pd.GetID(), 10)
}

func (pd *ProblemDao) BeforePutToRedis() error {
	return nil
}

func (pd *ProblemDao) Create() error {
	return Create(pd)
}

func (pd *ProblemDao) Update(mp common.H) error {
	return UpdateCols(pd, mp)
}

func (pd *ProblemDao) Delete() error {
	return Delete(pd)
}

// CountJudged bumps the problem-wide counters after a terminal verdict.
// Serialized because concurrent verdicts for different users hit the
// same row.
func CountJudged(problemID int64, accepted bool) {
	pd := &ProblemDao{ID: problemID}
	problemUpdateMutex.Lock()
	defer problemUpdateMutex.Unlock()
	cols := Cols(pd, "accepted_count", "all_count")
	if cols == nil {
		return
	}
	update := common.H{"all_count": cols[1].ToUint() + 1}
	if accepted {
		update["accepted_count"] = cols[0].ToUint() + 1
	}
	UpdateCols(pd, update)
}

func SearchProblems(l, r int64, rules []string, values []interface{}) (int64, []Problem) {
	ps := make([]Problem, 0)
	var total int64
	if len(rules) > 0 {
		engine.Desc("id").Where(ToSqlConditions(rules), values...).Limit(int(r-l+1), int(l-1)).Find(&ps)
		total, _ = engine.Where(ToSqlConditions(rules), values...).Count(new(Problem))
	} else {
		engine.Desc("id").Limit(int(r-l+1), int(l-1)).Find(&ps)
		total, _ = engine.Count(new(Problem))
	}
	return total, ps
}
