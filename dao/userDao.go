package dao

import (
	"strconv"
	"time"

	"RelayOnlineJudge/common"
	"RelayOnlineJudge/model"
)

const (
	USER_REDIS_EXPIRE = 0 //users never expire from redis
	USER_HASH_KEY     = "user_hash(name:id)"
)

type User = model.User

type UserDao struct {
	ID       int64
	Username string
	User     *User
}

func userInitRedis() {
	users := make([]User, 0)
	engine.Find(&users)
	for idx := range users {
		ud := &UserDao{User: &users[idx]}
		PutToRedis(ud)
	}
}

func (ud *UserDao) GetRedisExpire() time.Duration {
	return USER_REDIS_EXPIRE
}

func (ud *UserDao) GetTableName() string {
	return "user"
}

func (ud *UserDao) GetSelf() interface{} {
	if ud.User == nil {
		ud.User = &User{}
	}
	return ud.User
}

func (ud *UserDao) GetName() string {
	if ud.Username == "" {
		if ud.User != nil && ud.User.Username != "" {
			ud.Username = ud.User.Username
		} else {
			ud.Username = OneCol(ud, "username").ToString()
		}
	}
	return ud.Username
}

// GetID resolves through the username hash when only the name is known.
func (ud *UserDao) GetID() int64 {
	if ud.ID != 0 {
		return ud.ID
	}
	if ud.User != nil && ud.User.ID != 0 {
		ud.ID = ud.User.ID
		return ud.ID
	}
	name := ud.Username
	if name == "" && ud.User != nil {
		name = ud.User.Username
	}
	if name == "" {
		return 0
	}
	if rdb.HExists(ctx, USER_HASH_KEY, name).Val() {
		ud.ID = common.StrToInt64(rdb.HGet(ctx, USER_HASH_KEY, name).Val())
		return ud.ID
	}
	u := &User{}
	if ok, err := engine.Where("username = ?", name).Get(u); err == nil && ok {
		ud.ID = u.ID
		ud.User = u
	}
	return ud.ID
}

func (ud *UserDao) GetRedisKey() string {
	return ud.GetTableName() + "_" + strconv.FormatInt(ud.GetID(), 10)
}

func (ud *UserDao) BeforePutToRedis() error {
	rdb.HSet(ctx, USER_HASH_KEY, ud.GetName(), ud.GetID())
	return nil
}

func (ud *UserDao) Create() error {
	if err := Create(ud); err != nil {
		return err
	}
	return nil
}

// CheckPassword compares against the stored salted hash.
func (ud *UserDao) CheckPassword(pwd string) bool {
	return OneCol(ud, "password").ToString() == common.GetMD5Password(pwd)
}

func CountSubmission(userID int64, solvedDelta, allDelta uint) {
	ud := &UserDao{ID: userID}
	cols := Cols(ud, "solved_count", "all_sub_count")
	if cols == nil {
		return
	}
	UpdateCols(ud, common.H{
		"solved_count":  cols[0].ToUint() + solvedDelta,
		"all_sub_count": cols[1].ToUint() + allDelta,
	})
}
