package app

import (
	"time"

	"RelayOnlineJudge/common"
	"RelayOnlineJudge/dao"

	"github.com/gin-gonic/gin"
)

func getContests(c *gin.Context) {
	l := common.StrToInt64(c.DefaultQuery("from", "1"))
	r := common.StrToInt64(c.DefaultQuery("to", "20"))
	if l < 1 || r < l {
		setError(c, 422, "bad range")
		return
	}
	total, cs := dao.SearchContests(l, r, []string{"is_public"}, []interface{}{true})
	c.Set("total", total)
	c.Set("contests", cs)
}

func getOneContest(c *gin.Context) {
	cid := common.StrToInt64(c.Param("id"))
	contest, err := dao.GetContest(cid)
	if err != nil {
		setError(c, 404, "no such contest")
		return
	}
	now := time.Now()
	status := "Pending"
	if now.After(contest.End()) {
		status = "Ended"
	} else if contest.HasStarted(now) {
		status = "Running"
	}
	c.Set("contest", contest)
	c.Set("contest_status", status)
}

// getStandings serves the rank list: solved desc, penalty asc.
func getStandings(c *gin.Context) {
	cid := common.StrToInt64(c.Param("id"))
	cd := &dao.ContestDao{ID: cid}
	if !dao.Exists(cd) {
		setError(c, 404, "no such contest")
		return
	}
	c.Set("standings", dao.GetRankData(cid))
}

func newContest(c *gin.Context) {
	cv := &contestValidator{}
	if err := c.ShouldBindJSON(cv); err != nil {
		setError(c, 422, "malformed body")
		return
	}
	if ok, msg := cv.isOk(); !ok {
		setError(c, 422, msg)
		return
	}
	begin := common.StrToTime(cv.Begin)
	if begin.IsZero() {
		setError(c, 422, "begin must be formatted as "+common.TIME_FORMAT)
		return
	}
	for _, pid := range cv.Problems {
		if !dao.Exists(&dao.ProblemDao{ID: pid}) {
			setError(c, 422, "unknown problem in contest")
			return
		}
	}
	cd := &dao.ContestDao{Contest: &dao.Contest{
		Title:    cv.Title,
		Begin:    begin,
		Duration: cv.Duration,
		Problems: cv.Problems,
		IsPublic: cv.IsPublic,
		Author:   getUserName(c),
		Desc:     cv.Desc,
	}}
	if err := cd.Create(); err != nil {
		setError(c, 500, "create failed")
		return
	}
	c.Set("status", 201)
	c.Set("id", cd.GetID())
}

func updateContest(c *gin.Context) {
	cd := &dao.ContestDao{ID: common.StrToInt64(c.Param("id"))}
	if !dao.Exists(cd) {
		setError(c, 404, "no such contest")
		return
	}
	cv := &contestValidator{}
	if err := c.ShouldBindJSON(cv); err != nil {
		setError(c, 422, "malformed body")
		return
	}
	if ok, msg := cv.isOk(); !ok {
		setError(c, 422, msg)
		return
	}
	//begin stays fixed once the contest exists; only the metadata moves
	if err := cd.Update(common.H{
		"title":     cv.Title,
		"duration":  cv.Duration,
		"problems":  cv.Problems,
		"is_public": cv.IsPublic,
		"desc":      cv.Desc,
	}); err != nil {
		setError(c, 500, "update failed")
		return
	}
	c.Set("id", cd.GetID())
}
