package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"RelayOnlineJudge/app"
	"RelayOnlineJudge/common"
	"RelayOnlineJudge/dao"
	"RelayOnlineJudge/judger"
	"RelayOnlineJudge/standing"
)

func main() {
	common.InitLogger(os.Getenv("DEBUG") != "")

	cfg, err := common.LoadConfig("config.json")
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}
	if err := common.Init(cfg); err != nil {
		slog.Error("config invalid", "err", err)
		os.Exit(1)
	}
	if err := dao.Init(cfg); err != nil {
		slog.Error("storage init failed", "err", err)
		os.Exit(1)
	}
	slog.Info("storage ready")

	client := judger.NewClient(common.ScraperURL, common.ScraperKey)
	engine := standing.NewEngine(dao.StandingStore{})
	orch := judger.NewOrchestrator(client, judger.ClassifyPrefix, dao.SubmissionStore{}, engine, judger.Config{
		PollInterval: common.PollInterval,
		MaxPolls:     common.MaxPolls,
		MaxFailures:  common.MaxFailures,
	})

	srv := &http.Server{
		Addr:    ":" + common.Port,
		Handler: app.InitRouters(orch),
	}
	go func() {
		slog.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "err", err)
	}
	//stop the poll timers last so in-flight requests could still submit
	orch.Shutdown()
}
