package dao

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"RelayOnlineJudge/common"
	"RelayOnlineJudge/model"

	"github.com/go-redis/redis/v8"
)

/*
	c_{cid}_standing_zset: rank score , userid
	c_{cid}_standing_hash: userid : jsonStanding
*/

type Standing = model.Standing

func getStandingZSetKey(cid int64) string {
	return "c_" + strconv.FormatInt(cid, 10) + "_standing_zset"
}

func getStandingHashKey(cid int64) string {
	return "c_" + strconv.FormatInt(cid, 10) + "_standing_hash"
}

// rankScore orders by solved desc, then penalty asc.
func rankScore(st *Standing) float64 {
	return -float64(st.Solved*100000) + float64(st.Penalty)
}

func standingCache(cid int64) string {
	zkey := getStandingZSetKey(cid)
	hkey := getStandingHashKey(cid)
	if rdb.Exists(ctx, zkey, hkey).Val() < 2 {
		sts := make([]Standing, 0)
		engine.Where("contest_id = ?", cid).Find(&sts)
		for idx := range sts {
			st := &sts[idx]
			rdb.ZAdd(ctx, zkey, &redis.Z{Score: rankScore(st), Member: st.UserID})
			js, _ := json.Marshal(st)
			rdb.HSet(ctx, hkey, st.UserID, js)
		}
		rdb.Expire(ctx, zkey, CONTEST_REDIS_EXPIRE)
		rdb.Expire(ctx, hkey, CONTEST_REDIS_EXPIRE)
	}
	return hkey
}

func putStandingToCache(st *Standing) {
	rdb.ZAdd(ctx, getStandingZSetKey(st.ContestID), &redis.Z{
		Score:  rankScore(st),
		Member: st.UserID,
	})
	js, _ := json.Marshal(st)
	rdb.HSet(ctx, getStandingHashKey(st.ContestID), st.UserID, js)
}

// StandingStore implements the standing engine's persistence. Creation
// relies on the unique (contest_id, user_id) key: when two submissions
// race for a brand-new user, the losing insert falls back to reading
// the winner's row.
type StandingStore struct{}

func (StandingStore) GetOrCreate(contestID, userID int64, problems []int64) (*Standing, error) {
	st := &Standing{}
	if ok, err := engine.Where("contest_id = ? and user_id = ?", contestID, userID).Get(st); err != nil {
		return nil, err
	} else if ok {
		return st, nil
	}
	st = model.NewStanding(contestID, userID, problems)
	if _, err := engine.InsertOne(st); err != nil {
		//unique key collision: someone else created it first
		st = &Standing{}
		if ok, err2 := engine.Where("contest_id = ? and user_id = ?", contestID, userID).Get(st); err2 != nil || !ok {
			return nil, err
		}
		return st, nil
	}
	putStandingToCache(st)
	return st, nil
}

func (StandingStore) Save(st *Standing) error {
	sd := &StandingDao{ID: st.ID, Standing: st}
	if err := UpdateCols(sd, common.H{
		"solved":   st.Solved,
		"penalty":  st.Penalty,
		"problems": st.Problems,
	}); err != nil {
		return err
	}
	putStandingToCache(st)
	return nil
}

// ClaimFirstSolve lets exactly one (contest, problem) claim through;
// the unique key rejects everyone after the first.
func (StandingStore) ClaimFirstSolve(contestID, problemID, userID int64) (bool, error) {
	num, err := engine.InsertOne(&model.FirstSolve{
		ContestID: contestID,
		ProblemID: problemID,
		UserID:    userID,
	})
	if err != nil {
		exist, err2 := engine.Where("contest_id = ? and problem_id = ?", contestID, problemID).Exist(&model.FirstSolve{})
		if err2 == nil && exist {
			return false, nil
		}
		return false, err
	}
	return num == 1, nil
}

type StandingDao struct {
	ID       int64
	Standing *Standing
}

func (sd *StandingDao) GetTableName() string {
	return "standing"
}

func (sd *StandingDao) GetRedisExpire() time.Duration {
	return CONTEST_REDIS_EXPIRE
}

func (sd *StandingDao) GetSelf() interface{} {
	if sd.Standing == nil {
		sd.Standing = &Standing{}
	}
	return sd.Standing
}

func (sd *StandingDao) GetID() int64 {
	if sd.ID == 0 && sd.Standing != nil {
		sd.ID = sd.Standing.ID
	}
	return sd.ID
}

func (sd *StandingDao) GetRedisKey() string {
	return sd.GetTableName() + "_" + strconv.FormatInt(sd.GetID(), 10)
}

func (sd *StandingDao) BeforePutToRedis() error {
	return nil
}

// GetRankData builds the standings page, best rank first. Equal scores
// share a rank.
func GetRankData(cid int64) []common.H {
	hkey := standingCache(cid)
	zkey := getStandingZSetKey(cid)
	z := rdb.ZRangeWithScores(ctx, zkey, 0, -1).Val()
	rk := 0
	lastScore := math.Inf(1)
	data := make([]common.H, len(z))
	for i, item := range z {
		uid := common.StrToInt64(item.Member.(string))
		if item.Score != lastScore {
			rk++
			lastScore = item.Score
		}
		st := &Standing{}
		json.Unmarshal([]byte(rdb.HGet(ctx, hkey, strconv.FormatInt(uid, 10)).Val()), st)
		ud := &UserDao{ID: uid}
		data[i] = common.H{
			"rank":     rk,
			"user":     OneCol(ud, "username").ToString(),
			"solved":   st.Solved,
			"penalty":  st.Penalty,
			"problems": st.Problems,
		}
	}
	return data
}
