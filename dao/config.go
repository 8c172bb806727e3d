package dao

import (
	"context"
	"errors"
	"log/slog"

	"RelayOnlineJudge/common"
	"RelayOnlineJudge/model"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/go-xorm/xorm"
	"xorm.io/core"
)

type H = map[string]interface{}

var (
	engine *xorm.Engine
	rdb    *redis.Client
	ctx    context.Context
)

func connect(cfg H) error {
	var err error
	mysql, ok := cfg["mysql"].(H)
	if !ok {
		return errors.New("missing mysql configuration")
	}
	dataSourceName := common.EnvOr("MYSQL_USER", mysql["name"].(string)) +
		":" + common.EnvOr("MYSQL_PASSWORD", mysql["password"].(string)) +
		"@tcp(" + common.EnvOr("MYSQL_HOST", mysql["host"].(string)) + ")/" +
		common.EnvOr("MYSQL_DATABASE", mysql["database"].(string)) + "?charset=utf8"
	engine, err = xorm.NewEngine("mysql", dataSourceName)
	if err != nil {
		return err
	}
	if err = engine.Ping(); err != nil {
		return err
	}
	engine.SetMapper(core.GonicMapper{})

	rds, ok := cfg["redis"].(H)
	if !ok {
		return errors.New("missing redis configuration")
	}
	rdb = redis.NewClient(&redis.Options{
		Addr:     common.EnvOr("REDIS_ADDR", rds["addr"].(string)),
		Password: common.EnvOr("REDIS_PASSWORD", rds["password"].(string)),
		DB:       0,
	})
	ctx = context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return err
	}
	return nil
}

func sync(cfg H) error {
	if err := engine.Sync2(new(model.User)); err != nil {
		return err
	}
	if err := engine.Sync2(new(model.Problem)); err != nil {
		return err
	}
	if err := engine.Sync2(new(model.Contest)); err != nil {
		return err
	}
	if err := engine.Sync2(new(model.Submission)); err != nil {
		return err
	}
	if err := engine.Sync2(new(model.Standing)); err != nil {
		return err
	}
	if err := engine.Sync2(new(model.FirstSolve)); err != nil {
		return err
	}

	userInitRedis()
	problemInitRedis()

	superAdmin, ok := cfg["super_admin"].(H)
	if !ok {
		return errors.New("missing super_admin configuration")
	}
	ud := &UserDao{Username: superAdmin["name"].(string)}
	if ud.GetID() == 0 {
		ud.User = &User{
			Username: superAdmin["name"].(string),
			Password: common.GetMD5Password(superAdmin["password"].(string)),
			IsAdmin:  true,
			Email:    superAdmin["email"].(string),
		}
		if err := ud.Create(); err != nil {
			return err
		}
		slog.Info("admin account created", "username", ud.User.Username)
	}
	return nil
}

func Init(cfg H) error {
	if err := connect(cfg); err != nil {
		return err
	}
	return sync(cfg)
}
