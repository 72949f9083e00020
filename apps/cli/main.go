package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/session"
	"github.com/trezcool/darasa/services/backend"
	logsvc "github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/storage/credentials"
)

func main() {
	defer os.Exit(0)

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "CLI : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	notifier := newConsoleNotifier(os.Stdout)
	creds := credentials.NewFile(conf)
	api := backend.NewClient(conf, creds, logger, notifier)
	sess := session.NewService(api, creds, logger, notifier)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// silent boot-time restoration; a dead token just lands us on "not logged in"
	sess.Restore(ctx)

	cli := commandLine{
		conf:     conf,
		sess:     sess,
		api:      api,
		logger:   logger,
		notifier: notifier,
	}
	if err := cli.run(ctx, os.Args); err != nil {
		if err != errHelp {
			cli.reportError(err)
		}
		stop()
		os.Exit(1)
	}
}
