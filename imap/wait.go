package imap

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/rs/xid"
)

// WaitOutcome is the result of a completed WaitForChange call.
type WaitOutcome int

const (
	// WaitTimeout means the timeout elapsed without a mailbox change.
	WaitTimeout WaitOutcome = iota
	// WaitChanged means the selected mailbox's message count changed.
	WaitChanged
)

// idleDoneGrace bounds how long the server gets to acknowledge DONE.
const idleDoneGrace = 30 * time.Second

var existsLineRE = regexp.MustCompile(`^\* \d+ EXISTS`)

// isExistsLine reports whether an unsolicited response announces a change
// in the mailbox's message count.
func isExistsLine(line []byte) bool {
	return existsLineRE.Match(line)
}

// WaitForChange enters IMAP IDLE and blocks the calling goroutine until the
// selected mailbox's message count changes, the timeout elapses, or the
// session fails. Unsolicited responses other than EXISTS are logged and
// discarded without ending the wait.
//
// Unlike Exec, there is no retry or reconnect here: a session that breaks
// mid-IDLE is surfaced to the caller as an error.
func (d *Dialer) WaitForChange(timeout time.Duration) (WaitOutcome, error) {
	tag := strings.ToUpper(xid.New().String())

	debugLog(d.ConnNum, d.Folder, "entering idle", "timeout", timeout)
	if _, err := d.conn.Write([]byte(tag + " IDLE\r\n")); err != nil {
		return WaitTimeout, fmt.Errorf("imap idle: %w", err)
	}
	_ = d.conn.SetReadDeadline(time.Now().Add(timeout))
	defer func() { _ = d.conn.SetReadDeadline(time.Time{}) }()

	doneSent := false
	sendDone := func() error {
		if doneSent {
			return nil
		}
		doneSent = true
		_ = d.conn.SetReadDeadline(time.Now().Add(idleDoneGrace))
		if _, err := d.conn.Write([]byte("DONE\r\n")); err != nil {
			return fmt.Errorf("imap idle done: %w", err)
		}
		return nil
	}

	r := bufio.NewReader(d.conn)
	outcome := WaitTimeout
	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() && !doneSent {
				// Timeout elapsed without a change; leave IDLE gracefully
				// and drain up to the tagged completion.
				if err := sendDone(); err != nil {
					return outcome, err
				}
				continue
			}
			return outcome, fmt.Errorf("imap idle: %w", err)
		}
		line = dropNl(line)

		switch {
		case bytes.HasPrefix(line, []byte("+")):
			debugLog(d.ConnNum, d.Folder, "idling")
		case isExistsLine(line):
			outcome = WaitChanged
			if err := sendDone(); err != nil {
				return outcome, err
			}
		case bytes.HasPrefix(line, []byte("* BYE")):
			_ = d.Close()
			return outcome, fmt.Errorf("imap idle: server sent BYE: %s", line)
		case bytes.HasPrefix(line, []byte(tag)):
			rest := bytes.TrimSpace(line[len(tag):])
			if bytes.HasPrefix(rest, []byte("OK")) {
				return outcome, nil
			}
			return outcome, fmt.Errorf("imap idle failed: %s", line)
		default:
			debugLog(d.ConnNum, d.Folder, "discarding unsolicited response", "response", string(line))
		}
	}
}
