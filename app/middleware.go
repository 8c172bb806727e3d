package app

import (
	"log/slog"
	"time"

	"RelayOnlineJudge/dao"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func AuthLogin(c *gin.Context) {
	if !isLogin(c) {
		setError(c, 401, "not logged in")
		c.Abort()
	}
}

func AuthAdmin(c *gin.Context) {
	id := getUserID(c)
	if id == 0 {
		setError(c, 401, "not logged in")
		c.Abort()
		return
	}
	ud := &dao.UserDao{ID: id}
	if !dao.OneCol(ud, "is_admin").ToBool() {
		setError(c, 403, "permission denied")
		c.Abort()
	}
}

// requestLog tags every request with an id for log correlation.
func requestLog(c *gin.Context) {
	rid := uuid.NewString()
	c.Set("request_id", rid)
	start := time.Now()
	c.Next()
	slog.Debug("request",
		"id", rid,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"took", time.Since(start))
}

// jsonResponse packs whatever the handler stored on the context into
// one json body. Handlers report failures via setError with the http
// status as errno; 2xx handlers may set "status" for non-200 success.
func jsonResponse(c *gin.Context) {
	c.Next()
	if c.Writer.Written() {
		return
	}
	if errno, exist := c.Get("errno"); exist {
		errmsg, _ := c.Get("errmsg")
		c.JSON(errno.(int), gin.H{"error": errmsg})
		return
	}
	status := 200
	if s, exist := c.Get("status"); exist {
		status = s.(int)
		delete(c.Keys, "status")
	}
	delete(c.Keys, "github.com/gin-contrib/sessions")
	delete(c.Keys, "request_id")
	c.JSON(status, c.Keys)
}
