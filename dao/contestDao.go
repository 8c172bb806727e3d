package dao

import (
	"strconv"
	"time"

	"RelayOnlineJudge/common"
	"RelayOnlineJudge/model"
)

const (
	CONTEST_REDIS_EXPIRE = time.Hour * 24
)

type Contest = model.Contest

type ContestDao struct {
	ID      int64
	Contest *Contest
}

func (cd *ContestDao) GetTableName() string {
	return "contest"
}

func (cd *ContestDao) GetRedisExpire() time.Duration {
	return CONTEST_REDIS_EXPIRE
}

func (cd *ContestDao) GetSelf() interface{} {
	if cd.Contest == nil {
		cd.Contest = &Contest{}
	}
	return cd.Contest
}

func (cd *ContestDao) GetID() int64 {
	if cd.ID == 0 && cd.Contest != nil {
		cd.ID = cd.Contest.ID
	}
	return cd.ID
}

func (cd *ContestDao) GetRedisKey() string {
	return cd.GetTableName() + "_" + strconv.FormatInt(cd.GetID(), 10)
}

func (cd *ContestDao) BeforePutToRedis() error {
	return nil
}

func (cd *ContestDao) Create() error {
	return Create(cd)
}

func (cd *ContestDao) Update(mp common.H) error {
	return UpdateCols(cd, mp)
}

// GetContest returns the fully loaded contest row.
func GetContest(id int64) (*Contest, error) {
	cd := &ContestDao{ID: id}
	if err := GetSelfAll(cd); err != nil {
		return nil, err
	}
	return cd.Contest, nil
}

func SearchContests(l, r int64, rules []string, values []interface{}) (int64, []Contest) {
	cs := make([]Contest, 0)
	var total int64
	if len(rules) > 0 {
		engine.Desc("id").Where(ToSqlConditions(rules), values...).Limit(int(r-l+1), int(l-1)).Find(&cs)
		total, _ = engine.Where(ToSqlConditions(rules), values...).Count(new(Contest))
	} else {
		engine.Desc("id").Limit(int(r-l+1), int(l-1)).Find(&cs)
		total, _ = engine.Count(new(Contest))
	}
	return total, cs
}
