package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"essay-panel/internal/config"
	"essay-panel/internal/essay"
	"essay-panel/internal/storage"
	"essay-panel/internal/subscriber"
	"essay-panel/internal/web"
	"essay-panel/internal/wechat"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf(".env file not found: %v", err)
	}

	cfg := config.New()

	essays, err := essay.NewFileStore(cfg.EssaysFilePath)
	if err != nil {
		log.Fatalf("failed to init essay store: %v", err)
	}

	subs, err := subscriber.NewFileStore(cfg.SubscribersFilePath)
	if err != nil {
		log.Fatalf("failed to init subscriber store: %v", err)
	}

	var rec storage.Recorder
	if cfg.MessageLogFilePath != "" {
		fr, err := storage.NewFileRecorder(cfg.MessageLogFilePath)
		if err != nil {
			log.Errorf("failed to init message recorder: %v", err)
		} else {
			rec = fr
		}
	}

	client := wechat.NewClient(cfg.WeChatAppID, cfg.WeChatAppSecret, cfg.WeChatAPIBaseURL)
	tokens := wechat.NewTokenCache(client)
	dispatcher := wechat.NewDispatcher(tokens, client)
	hook := wechat.NewWebhook(cfg.WeChatToken, subs, rec)

	handler := web.NewHandler(essays, subs, rec, dispatcher, hook)
	srv := web.NewServer(handler, cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("web server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}
}
