package dao

import (
	"strconv"
	"time"

	"RelayOnlineJudge/common"
	"RelayOnlineJudge/model"

	"github.com/go-redis/redis/v8"
)

const (
	SUBMISSION_REDIS_EXPIRE = time.Hour * 5
)

type Submission = model.Submission

type SubmissionDao struct {
	ID         int64
	Submission *Submission
}

func (sd *SubmissionDao) GetTableName() string {
	return "submission"
}

func (sd *SubmissionDao) GetRedisExpire() time.Duration {
	return SUBMISSION_REDIS_EXPIRE
}

func (sd *SubmissionDao) GetSelf() interface{} {
	if sd.Submission == nil {
		sd.Submission = &Submission{}
	}
	return sd.Submission
}

func (sd *SubmissionDao) GetID() int64 {
	if sd.ID == 0 && sd.Submission != nil {
		sd.ID = sd.Submission.ID
	}
	return sd.ID
}

func (sd *SubmissionDao) GetRedisKey() string {
	return sd.GetTableName() + "_" + strconv.FormatInt(sd.GetID(), 10)
}

func (sd *SubmissionDao) getHistoryZSetKey() string {
	return "u:" + strconv.FormatInt(sd.Submission.AuthorID, 10) +
		"_p:" + strconv.FormatInt(sd.Submission.ProblemID, 10) + "_sub_zset"
}

func historyZSetKey(aid, pid int64) string {
	return "u:" + strconv.FormatInt(aid, 10) + "_p:" + strconv.FormatInt(pid, 10) + "_sub_zset"
}

// BeforePutToRedis keeps the per-(author, problem) history zset warm,
// newest first.
func (sd *SubmissionDao) BeforePutToRedis() error {
	key := sd.getHistoryZSetKey()
	if rdb.Exists(ctx, key).Val() > 0 {
		rdb.ZAdd(ctx, key, &redis.Z{Score: float64(-sd.GetID()), Member: sd.GetID()})
	} else {
		ids := make([]int64, 0)
		if err := engine.Table(sd.GetTableName()).
			Where("author_id = ? and problem_id = ?", sd.Submission.AuthorID, sd.Submission.ProblemID).
			Cols("id").Find(&ids); err != nil {
			return err
		}
		zs := make([]*redis.Z, len(ids))
		for i, id := range ids {
			zs[i] = &redis.Z{Score: float64(-id), Member: id}
		}
		if len(zs) > 0 {
			rdb.ZAdd(ctx, key, zs...)
		}
	}
	rdb.Expire(ctx, key, SUBMISSION_REDIS_EXPIRE)
	return nil
}

// GetHistory lists a user's submission ids for one problem, newest
// first.
func GetHistory(aid, pid int64) []int64 {
	key := historyZSetKey(aid, pid)
	if rdb.Exists(ctx, key).Val() <= 0 {
		ids := make([]int64, 0)
		engine.Table("submission").Where("author_id = ? and problem_id = ?", aid, pid).Cols("id").Desc("id").Find(&ids)
		return ids
	}
	idsStr := rdb.ZRange(ctx, key, 0, -1).Val()
	rdb.Expire(ctx, key, SUBMISSION_REDIS_EXPIRE)
	ids := make([]int64, len(idsStr))
	for i := range ids {
		ids[i] = common.StrToInt64(idsStr[i])
	}
	return ids
}

func SearchSubmissions(l, r int64, rules []string, values []interface{}) []Submission {
	ss := make([]Submission, 0)
	if len(rules) > 0 {
		engine.Desc("id").Where(ToSqlConditions(rules), values...).Limit(int(r-l+1), int(l-1)).Omit("code").Find(&ss)
	} else {
		engine.Desc("id").Limit(int(r-l+1), int(l-1)).Omit("code").Find(&ss)
	}
	return ss
}

// SubmissionStore adapts the dao layer to the orchestrator's store
// contract.
type SubmissionStore struct{}

func (SubmissionStore) CreateSubmission(s *Submission) error {
	sd := &SubmissionDao{Submission: s}
	return Create(sd)
}

func (SubmissionStore) UpdateSubmission(s *Submission) error {
	sd := &SubmissionDao{ID: s.ID, Submission: s}
	if err := UpdateCols(sd, common.H{
		"status":  string(s.Status),
		"verdict": s.Verdict,
		"time":    s.Time,
		"memory":  s.Memory,
	}); err != nil {
		return err
	}
	if s.Status == model.StatusDone {
		countJudged(s)
	}
	return nil
}

// countJudged maintains the per-problem and per-user counters once a
// submission is finally judged.
func countJudged(s *Submission) {
	accepted := s.NormalizedVerdict() == "accepted"
	CountJudged(s.ProblemID, accepted)
	solvedDelta := uint(0)
	if accepted {
		prior, _ := engine.Where(
			"author_id = ? and problem_id = ? and status = ? and lower(verdict) = 'accepted' and id <> ?",
			s.AuthorID, s.ProblemID, string(model.StatusDone), s.ID).Exist(&Submission{})
		if !prior {
			solvedDelta = 1
		}
	}
	CountSubmission(s.AuthorID, solvedDelta, 1)
}
