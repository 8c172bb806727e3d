package app

import (
	"RelayOnlineJudge/common"
	"RelayOnlineJudge/judger"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

var orch *judger.Orchestrator

// InitRouters wires the http surface around the orchestrator. The
// caller owns the listener so shutdown can drain it together with the
// poll loops.
func InitRouters(o *judger.Orchestrator) *gin.Engine {
	orch = o

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(common.SessionSecret))
	store.Options(sessions.Options{
		MaxAge: int(SESSION_EXPIRE),
	})
	r.Use(requestLog)
	r.Use(sessions.Sessions("ojSession", store))
	r.Use(jsonResponse)

	initUserRouters(r)
	initAdminRouters(r)
	return r
}

func initUserRouters(r *gin.Engine) {
	g0 := r.Group("/api") //no login required
	{
		g0.GET("/ping", ping)
		g0.POST("/login", login)
		g0.POST("/register", register)
		g0.GET("/users/:id", getUserInfo)

		g0.GET("/problems", getProblems)
		g0.GET("/problems/:id", getOneProblem)

		g0.GET("/contests", getContests)
		g0.GET("/contests/:id", getOneContest)
		g0.GET("/contests/:id/standings", getStandings)

		g0.GET("/submissions", getSubmissions)
	}

	g1 := r.Group("/api")
	g1.Use(AuthLogin)
	{
		g1.GET("/logout", logout)

		g1.POST("/contests/:id/problems/:pid/submissions", createContestSubmission)
		g1.POST("/problems/:id/submissions", createSubmission)
		g1.GET("/problems/:id/submissions", getSubmissionHistory)
		g1.GET("/submissions/:id", getSubmission)
	}
}

func initAdminRouters(r *gin.Engine) {
	g := r.Group("/api", AuthAdmin)
	{
		g.POST("/problems", newProblem)
		g.PUT("/problems/:id", updateProblem)
		g.DELETE("/problems/:id", delProblem)

		g.POST("/contests", newContest)
		g.PUT("/contests/:id", updateContest)
	}
}
