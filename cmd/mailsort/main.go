// Command mailsort watches an IMAP inbox and sorts arriving messages into
// mailboxes derived from their recipient addresses. It runs until a fatal
// protocol or pass error, then exits non-zero; operators restart it.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/levitatingpineapple/mail-sort/config"
	"github.com/levitatingpineapple/mail-sort/imap"
	"github.com/levitatingpineapple/mail-sort/notify"
	"github.com/levitatingpineapple/mail-sort/sorter"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", "config.toml", "Path to TOML configuration file")
	verbose := flag.Bool("verbose", false, "Log every IMAP command and response")
	showVersion := flag.Bool("version", false, "Show version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("mailsort %s\n", version)
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
		imap.Verbose = true
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	imap.SetSlogLogger(logger)

	if err := run(*configPath, logger); err != nil {
		logger.Error("terminating", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var session *imap.Dialer
	if cfg.IMAP.AccessToken != "" {
		session, err = imap.NewWithOAuth2(cfg.IMAP.Email, cfg.IMAP.AccessToken, cfg.IMAP.Server, cfg.IMAP.Port)
	} else {
		session, err = imap.New(cfg.IMAP.Email, cfg.IMAP.Password, cfg.IMAP.Server, cfg.IMAP.Port)
	}
	if err != nil {
		return err
	}
	defer func() {
		// Best effort: the session may already be gone.
		if err := session.Logout(); err != nil {
			logger.Warn("logout failed", "error", err)
		}
	}()

	if err := session.SelectFolder(cfg.Sort.Mailbox); err != nil {
		return err
	}

	engine := &sorter.Engine{
		Session:     session,
		Notifier:    notify.New(cfg.Pushover.Token, cfg.Pushover.User, cfg.Pushover.Mailboxes, logger),
		WaitTimeout: cfg.WaitTimeout(),
		Log:         logger,
	}
	logger.Info("watching mailbox",
		"server", cfg.IMAP.Server,
		"mailbox", cfg.Sort.Mailbox,
		"wait_timeout", cfg.WaitTimeout(),
	)
	return engine.Run()
}
