package dao

import (
	"errors"
	"time"
)

// SingleData is one row plus its redis hash mirror. The generic helpers
// below work for every entity dao through it.
type SingleData interface {
	GetRedisKey() string
	GetID() int64
	GetTableName() string
	GetRedisExpire() time.Duration
	GetSelf() interface{}

	BeforePutToRedis() error
}

func PutToRedis(sd SingleData) error {
	sd.BeforePutToRedis()
	return putObjToRedis(sd.GetRedisKey(), sd.GetSelf(), sd.GetRedisExpire())
}

func IsInRedis(sd SingleData) bool {
	return rdb.Exists(ctx, sd.GetRedisKey()).Val() > 0
}

func DeleteFromRedis(sd SingleData) error {
	return rdb.Del(ctx, sd.GetRedisKey()).Err()
}

func Create(sd SingleData) error {
	self := sd.GetSelf()
	if num, err := engine.InsertOne(self); err != nil {
		return err
	} else if num != 1 {
		return errors.New("insert affected no rows")
	}
	return PutToRedis(sd)
}

func Exists(sd SingleData) bool {
	if IsInRedis(sd) {
		return true
	}
	exist, err := engine.Table(sd.GetTableName()).Where("id = ?", sd.GetID()).Exist()
	return err == nil && exist
}

func Delete(sd SingleData) error {
	id := sd.GetID()
	if id == 0 {
		return errors.New("no such row")
	}
	if err := DeleteFromRedis(sd); err != nil {
		return err
	}
	_, err := engine.Exec("delete from `"+sd.GetTableName()+"` where id=?", id)
	return err
}

// GetSelfAll fills the dao's struct from redis, falling back to mysql
// and repopulating the cache.
func GetSelfAll(sd SingleData) error {
	if !Exists(sd) {
		return errors.New("no such row")
	}
	key := sd.GetRedisKey()
	self := sd.GetSelf()
	if rdb.Exists(ctx, key).Val() > 0 {
		return GetObjFromRedis(key, self)
	}
	if exist, err := engine.ID(sd.GetID()).Get(self); !exist || err != nil {
		return errors.New("no such row")
	}
	return PutToRedis(sd)
}

// OneCol reads a single field without materializing the whole struct.
func OneCol(sd SingleData, want string) *Col {
	x := new(Col)
	key := sd.GetRedisKey()
	if rdb.Exists(ctx, key).Val() > 0 {
		x.data = rdb.HGet(ctx, key, want).Val()
		return x
	}
	if GetSelfAll(sd) != nil {
		return nil
	}
	return OneCol(sd, want)
}

func Cols(sd SingleData, wants ...string) []Col {
	n := len(wants)
	key := sd.GetRedisKey()
	if rdb.Exists(ctx, key).Val() > 0 {
		raw := rdb.HMGet(ctx, key, wants...).Val()
		ret := make([]Col, n)
		for i := 0; i < n; i++ {
			ret[i].data = raw[i]
		}
		return ret
	}
	if GetSelfAll(sd) != nil {
		return nil
	}
	return Cols(sd, wants...)
}

// UpdateCols writes the given columns to mysql and mirrors them into
// the redis hash. Never update the columns the redis key derives from.
func UpdateCols(sd SingleData, mp map[string]interface{}) error {
	args := make([]interface{}, 0, 2*len(mp))
	sqlArgs := make([]interface{}, 0, len(mp)+2)
	sql := "update `" + sd.GetTableName() + "` set "
	first := true
	for k, v := range mp {
		t := typeAnalyzed(v)
		args = append(args, k, t)
		sqlArgs = append(sqlArgs, t)
		if first {
			sql += "`" + k + "`=?"
			first = false
		} else {
			sql += ",`" + k + "`=?"
		}
	}
	sql += " where id=?"
	sqlArgs = append(sqlArgs, sd.GetID())
	sqlArgs = append([]interface{}{sql}, sqlArgs...)
	if _, err := engine.Exec(sqlArgs...); err != nil {
		return err
	}
	if key := sd.GetRedisKey(); rdb.Exists(ctx, key).Val() > 0 {
		if _, err := rdb.HMSet(ctx, key, args...).Result(); err != nil {
			return err
		}
		if sd.GetRedisExpire() != 0 {
			rdb.Expire(ctx, key, sd.GetRedisExpire())
		}
	} else {
		if err := GetSelfAll(sd); err != nil {
			return err
		}
	}
	return nil
}
