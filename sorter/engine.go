// Package sorter is the synchronization-and-classification engine: it
// derives destination mailboxes from recipient addresses, reconciles the
// mailbox hierarchy, relocates messages, and blocks on the session's
// change-wait primitive between passes.
package sorter

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/levitatingpineapple/mail-sort/imap"
)

// DefaultWaitTimeout bounds a single IDLE wait when the caller does not
// choose one.
const DefaultWaitTimeout = 5 * time.Minute

// Engine owns the session and runs the sort loop. It is not safe for
// concurrent use; exactly one goroutine drives it.
type Engine struct {
	Session  Session
	Notifier Notifier
	// WaitTimeout bounds a single wait-for-change call. Zero means
	// DefaultWaitTimeout.
	WaitTimeout time.Duration
	Log         *slog.Logger
}

// Run performs an initial sort pass, then loops: block until the mailbox
// changes, sort again. It returns only on error; a timed-out wait is a
// no-op. Pass-level and protocol errors are both fatal here — retrying
// against a session in an unknown state is worse than restarting.
func (e *Engine) Run() error {
	if e.Log == nil {
		e.Log = slog.Default()
	}
	timeout := e.WaitTimeout
	if timeout == 0 {
		timeout = DefaultWaitTimeout
	}

	if err := e.sortPass(); err != nil {
		return err
	}

	for {
		outcome, err := e.Session.WaitForChange(timeout)
		if err != nil {
			return fmt.Errorf("wait for change: %w", err)
		}
		switch outcome {
		case imap.WaitTimeout:
			e.Log.Debug("idle timed out")
		case imap.WaitChanged:
			e.Log.Info("mailbox changed")
			if err := e.sortPass(); err != nil {
				return err
			}
		}
	}
}

// sortPass runs one scan → reconcile → relocate round and hands the touched
// mailbox names to the notifier on a detached goroutine. The existing-
// mailbox snapshot is taken before scanning; it may be stale by the time
// reconciliation runs, which reconcile tolerates.
func (e *Engine) sortPass() error {
	folders, err := e.Session.GetFolders()
	if err != nil {
		return fmt.Errorf("list mailboxes: %w", err)
	}
	existing := make(map[string]struct{}, len(folders))
	for _, f := range folders {
		existing[f] = struct{}{}
	}

	res, err := e.scan()
	if err != nil {
		return err
	}
	if err := e.reconcile(res, existing); err != nil {
		return err
	}
	if err := e.relocate(res); err != nil {
		return err
	}

	if e.Notifier != nil {
		touched := make([]string, 0, len(res))
		for mailbox := range res {
			touched = append(touched, mailbox)
		}
		// Fire and forget: the notification is advisory and its outcome is
		// invisible to the loop.
		go e.Notifier.Notify(touched)
	}
	return nil
}
