package app

import (
	"RelayOnlineJudge/common"
	"RelayOnlineJudge/dao"
	"RelayOnlineJudge/model"

	"github.com/gin-gonic/gin"
)

func getProblems(c *gin.Context) {
	l := common.StrToInt64(c.DefaultQuery("from", "1"))
	r := common.StrToInt64(c.DefaultQuery("to", "20"))
	if l < 1 || r < l {
		setError(c, 422, "bad range")
		return
	}
	total, ps := dao.SearchProblems(l, r, []string{"is_open"}, []interface{}{true})
	c.Set("total", total)
	c.Set("problems", ps)
}

func getOneProblem(c *gin.Context) {
	pd := &dao.ProblemDao{ID: common.StrToInt64(c.Param("id"))}
	if !dao.Exists(pd) {
		setError(c, 404, "no such problem")
		return
	}
	if err := dao.GetSelfAll(pd); err != nil {
		setError(c, 500, err.Error())
		return
	}
	if !pd.Problem.IsOpen {
		ud := &dao.UserDao{ID: getUserID(c)}
		if ud.GetID() == 0 || !dao.OneCol(ud, "is_admin").ToBool() {
			setError(c, 403, "problem is not public")
			return
		}
	}
	c.Set("problem", pd.Problem)
}

func newProblem(c *gin.Context) {
	pv := &problemValidator{}
	if err := c.ShouldBindJSON(pv); err != nil {
		setError(c, 422, "malformed body")
		return
	}
	if ok, msg := pv.isOk(); !ok {
		setError(c, 422, msg)
		return
	}
	pd := &dao.ProblemDao{Problem: &dao.Problem{
		Author:       getUserName(c),
		Title:        pv.Title,
		Statement:    pv.Statement,
		ProblemType:  model.ProblemTypeCodeforces,
		CfContestID:  pv.CfContestID,
		CfProblem:    pv.CfProblem,
		BalloonColor: pv.BalloonColor,
		IsOpen:       pv.IsOpen,
	}}
	if err := pd.Create(); err != nil {
		setError(c, 500, "create failed")
		return
	}
	c.Set("status", 201)
	c.Set("id", pd.GetID())
}

func updateProblem(c *gin.Context) {
	pd := &dao.ProblemDao{ID: common.StrToInt64(c.Param("id"))}
	if !dao.Exists(pd) {
		setError(c, 404, "no such problem")
		return
	}
	pv := &problemValidator{}
	if err := c.ShouldBindJSON(pv); err != nil {
		setError(c, 422, "malformed body")
		return
	}
	if ok, msg := pv.isOk(); !ok {
		setError(c, 422, msg)
		return
	}
	if err := pd.Update(common.H{
		"title":         pv.Title,
		"statement":     pv.Statement,
		"cf_contest_id": pv.CfContestID,
		"cf_problem":    pv.CfProblem,
		"balloon_color": pv.BalloonColor,
		"is_open":       pv.IsOpen,
	}); err != nil {
		setError(c, 500, "update failed")
		return
	}
	c.Set("id", pd.GetID())
}

func delProblem(c *gin.Context) {
	pd := &dao.ProblemDao{ID: common.StrToInt64(c.Param("id"))}
	if !dao.Exists(pd) {
		setError(c, 404, "no such problem")
		return
	}
	if err := pd.Delete(); err != nil {
		setError(c, 500, "delete failed")
		return
	}
	c.Set("info", "deleted")
}
