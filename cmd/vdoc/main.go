package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/arielsanchezmora/vdoc/internal/cli"
	"github.com/arielsanchezmora/vdoc/internal/config"
	"github.com/arielsanchezmora/vdoc/pkg/log"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := log.InitLog(log.ParseLevel(cfg.LogLevel))
	defer func() {
		_ = logger.Sync()
	}()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	command := cli.NewCmdRoot()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := command.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
