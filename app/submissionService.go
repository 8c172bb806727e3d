package app

import (
	"errors"
	"time"

	"RelayOnlineJudge/common"
	"RelayOnlineJudge/dao"
	"RelayOnlineJudge/judger"
	"RelayOnlineJudge/model"

	"github.com/gin-gonic/gin"
)

// createContestSubmission is the scored intake path:
// POST /api/contests/:id/problems/:pid/submissions
func createContestSubmission(c *gin.Context) {
	sv := &submitValidator{}
	if err := c.ShouldBindJSON(sv); err != nil {
		setError(c, 422, "malformed body")
		return
	}
	if ok, msg := sv.isOk(); !ok {
		setError(c, 422, msg)
		return
	}
	cid := common.StrToInt64(c.Param("id"))
	pid := common.StrToInt64(c.Param("pid"))
	contest, err := dao.GetContest(cid)
	if err != nil {
		setError(c, 404, "no such contest")
		return
	}
	if !contest.HasProblem(pid) {
		setError(c, 404, "problem is not part of this contest")
		return
	}
	pd := &dao.ProblemDao{ID: pid}
	if err := dao.GetSelfAll(pd); err != nil {
		setError(c, 404, "no such problem")
		return
	}
	now := time.Now()
	if !contest.HasStarted(now) {
		setError(c, 403, "contest has not started")
		return
	}
	sub := &model.Submission{
		Code:      sv.SourceCode,
		Lang:      sv.LanguageID,
		Length:    uint(len(sv.SourceCode)),
		ProblemID: pid,
		ContestID: cid,
		AuthorID:  getUserID(c),
		InWindow:  contest.IsDuringWindow(now),
	}
	if err := orch.Submit(c.Request.Context(), sub, pd.Problem, contest); err != nil {
		if errors.Is(err, judger.ErrDispatch) {
			setError(c, 400, "judging provider rejected the submission")
		} else {
			setError(c, 500, "submission failed")
		}
		return
	}
	c.Set("status", 201)
	c.Set("submission", sub)
}

// createSubmission is the contest-less practice path:
// POST /api/problems/:id/submissions
func createSubmission(c *gin.Context) {
	sv := &submitValidator{}
	if err := c.ShouldBindJSON(sv); err != nil {
		setError(c, 422, "malformed body")
		return
	}
	if ok, msg := sv.isOk(); !ok {
		setError(c, 422, msg)
		return
	}
	pid := common.StrToInt64(c.Param("id"))
	pd := &dao.ProblemDao{ID: pid}
	if err := dao.GetSelfAll(pd); err != nil {
		setError(c, 404, "no such problem")
		return
	}
	sub := &model.Submission{
		Code:      sv.SourceCode,
		Lang:      sv.LanguageID,
		Length:    uint(len(sv.SourceCode)),
		ProblemID: pid,
		AuthorID:  getUserID(c),
	}
	if err := orch.Submit(c.Request.Context(), sub, pd.Problem, nil); err != nil {
		if errors.Is(err, judger.ErrDispatch) {
			setError(c, 400, "judging provider rejected the submission")
		} else {
			setError(c, 500, "submission failed")
		}
		return
	}
	c.Set("status", 201)
	c.Set("submission", sub)
}

// submissionFilters turns the recognized query params into equality
// conditions for the search. Unknown params are ignored.
func submissionFilters(c *gin.Context) ([]string, []interface{}) {
	rules := make([]string, 0, 3)
	values := make([]interface{}, 0, 3)
	if pid := c.Query("problem_id"); pid != "" {
		rules = append(rules, "problem_id")
		values = append(values, common.StrToInt64(pid))
	}
	if aid := c.Query("author_id"); aid != "" {
		rules = append(rules, "author_id")
		values = append(values, common.StrToInt64(aid))
	}
	if status := c.Query("status"); status != "" {
		rules = append(rules, "status")
		values = append(values, status)
	}
	return rules, values
}

// getSubmissions is the global judging feed, newest first, source code
// omitted: GET /api/submissions?from=&to=&problem_id=&author_id=&status=
func getSubmissions(c *gin.Context) {
	l := common.StrToInt64(c.DefaultQuery("from", "1"))
	r := common.StrToInt64(c.DefaultQuery("to", "20"))
	if l < 1 || r < l {
		setError(c, 422, "bad range")
		return
	}
	rules, values := submissionFilters(c)
	c.Set("submissions", dao.SearchSubmissions(l, r, rules, values))
}

func getSubmission(c *gin.Context) {
	sid := common.StrToInt64(c.Param("id"))
	sd := &dao.SubmissionDao{ID: sid}
	if !dao.Exists(sd) {
		setError(c, 404, "no such submission")
		return
	}
	if err := dao.GetSelfAll(sd); err != nil {
		setError(c, 500, err.Error())
		return
	}
	uid := getUserID(c)
	if sd.Submission.AuthorID != uid {
		ud := &dao.UserDao{ID: uid}
		if !dao.OneCol(ud, "is_admin").ToBool() {
			setError(c, 403, "not your submission")
			return
		}
	}
	c.Set("submission", sd.Submission)
}

// getSubmissionHistory lists the caller's own submissions for one
// problem, newest first.
func getSubmissionHistory(c *gin.Context) {
	pid := common.StrToInt64(c.Param("id"))
	ids := dao.GetHistory(getUserID(c), pid)
	history := make([]common.H, len(ids))
	for i, id := range ids {
		sd := &dao.SubmissionDao{ID: id}
		cols := dao.Cols(sd, "status", "verdict", "created_at")
		history[i] = common.H{
			"id":         id,
			"status":     cols[0].ToString(),
			"verdict":    cols[1].ToString(),
			"created_at": cols[2].ToString(),
		}
	}
	c.Set("history", history)
}
