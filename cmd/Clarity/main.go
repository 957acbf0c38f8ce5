package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	https_server "Clarity/api/http"
	"Clarity/internal/config"
	"Clarity/pkg/zlog"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()
	zlog.Init(zlog.Options{
		Level:      conf.LogConfig.Level,
		LogPath:    conf.LogConfig.LogPath,
		MaxSizeMB:  conf.LogConfig.MaxSizeMB,
		MaxBackups: conf.LogConfig.MaxBackups,
		MaxAgeDays: conf.LogConfig.MaxAgeDays,
	})
	defer func() { _ = zlog.Sync() }()

	// 2. 初始化路由，凭据缺失不阻止启动
	if err := https_server.Init(context.Background(), conf); err != nil {
		zlog.Fatal("初始化失败: " + err.Error())
	}

	// 3. 启动 HTTP 服务
	addr := fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           https_server.GE,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zlog.Info(fmt.Sprintf("服务器正在启动，监听地址: %s", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("服务器启动失败: " + err.Error())
		}
	}()

	// 4. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("正在关闭服务器...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("服务器关闭异常: " + err.Error())
	}
	zlog.Info("服务器已关闭")
}
