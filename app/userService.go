package app

import (
	"RelayOnlineJudge/common"
	"RelayOnlineJudge/dao"

	"github.com/gin-gonic/gin"
)

func ping(c *gin.Context) {
	c.Set("info", "pong")
}

func login(c *gin.Context) {
	lv := &loginValidator{}
	if err := c.ShouldBindJSON(lv); err != nil {
		setError(c, 422, "malformed body")
		return
	}
	if ok, msg := lv.isOk(); !ok {
		setError(c, 422, msg)
		return
	}
	ud := &dao.UserDao{Username: lv.Username}
	if ud.GetID() == 0 || !ud.CheckPassword(lv.Password) {
		setError(c, 401, "invalid username or password")
		return
	}
	setSession(c, lv.Username, ud.GetID())
	c.Set("id", ud.GetID())
	c.Set("username", lv.Username)
	c.Set("is_admin", dao.OneCol(ud, "is_admin").ToBool())
}

func register(c *gin.Context) {
	rv := &registerValidator{}
	if err := c.ShouldBindJSON(rv); err != nil {
		setError(c, 422, "malformed body")
		return
	}
	if ok, msg := rv.isOk(); !ok {
		setError(c, 422, msg)
		return
	}
	ud := &dao.UserDao{Username: rv.Username}
	if ud.GetID() != 0 {
		setError(c, 422, "username already taken")
		return
	}
	ud = &dao.UserDao{
		User: &dao.User{
			Username: rv.Username,
			Password: common.GetMD5Password(rv.Password),
			Email:    rv.Email,
		},
	}
	if err := ud.Create(); err != nil {
		setError(c, 500, "registration failed")
		return
	}
	setSession(c, rv.Username, ud.GetID())
	c.Set("status", 201)
	c.Set("id", ud.GetID())
	c.Set("username", rv.Username)
}

func logout(c *gin.Context) {
	deleteSession(c)
	c.Set("info", "bye")
}

func getUserInfo(c *gin.Context) {
	id := common.StrToInt64(c.Param("id"))
	ud := &dao.UserDao{ID: id}
	if !dao.Exists(ud) {
		setError(c, 404, "no such user")
		return
	}
	cols := dao.Cols(ud, "username", "email", "description", "solved_count", "all_sub_count")
	setMap(c, common.H{
		"id":            id,
		"username":      cols[0].ToString(),
		"email":         cols[1].ToString(),
		"description":   cols[2].ToString(),
		"solved_count":  cols[3].ToUint(),
		"all_sub_count": cols[4].ToUint(),
	})
}
