package imap

import (
	"bytes"
	"io"
	"net"
	"strings"
	"testing"
	"time"
)

func TestIsExistsLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"* 23 EXISTS", true},
		{"* 1 EXISTS", true},
		{"* 0 RECENT", false},
		{"* 4 EXPUNGE", false},
		{"* 2 FETCH (FLAGS (\\Seen))", false},
		{"* OK Still here", false},
		{"* BYE logging out", false},
		{"+ idling", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := isExistsLine([]byte(tt.line)); got != tt.want {
				t.Errorf("isExistsLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

type scriptStep struct {
	line string
	err  error
}

// scriptConn plays back scripted server lines one Read at a time,
// substituting the command tag captured from the client's IDLE line for
// %TAG%. Writes are recorded so tests can assert what the client sent.
type scriptConn struct {
	steps  []scriptStep
	tag    string
	writes bytes.Buffer
	closed bool
}

func (c *scriptConn) Read(p []byte) (int, error) {
	if len(c.steps) == 0 {
		return 0, io.EOF
	}
	step := c.steps[0]
	c.steps = c.steps[1:]
	if step.err != nil {
		return 0, step.err
	}
	return copy(p, strings.ReplaceAll(step.line, "%TAG%", c.tag)), nil
}

func (c *scriptConn) Write(p []byte) (int, error) {
	c.writes.Write(p)
	if c.tag == "" {
		if fields := strings.Fields(string(p)); len(fields) == 2 && fields[1] == "IDLE" {
			c.tag = fields[0]
		}
	}
	return len(p), nil
}

func (c *scriptConn) Close() error                       { c.closed = true; return nil }
func (c *scriptConn) LocalAddr() net.Addr                { return nil }
func (c *scriptConn) RemoteAddr() net.Addr               { return nil }
func (c *scriptConn) SetDeadline(t time.Time) error      { return nil }
func (c *scriptConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *scriptConn) SetWriteDeadline(t time.Time) error { return nil }

func TestWaitForChangeTimeout(t *testing.T) {
	sc := &scriptConn{steps: []scriptStep{
		{line: "+ idling\r\n"},
		{err: timeoutError{}},
		{line: "%TAG% OK IDLE terminated\r\n"},
	}}
	d := &Dialer{conn: sc, Connected: true}

	outcome, err := d.WaitForChange(time.Minute)
	if err != nil {
		t.Fatalf("WaitForChange: %v", err)
	}
	if outcome != WaitTimeout {
		t.Errorf("outcome = %v, want WaitTimeout", outcome)
	}
	if !strings.Contains(sc.writes.String(), "DONE\r\n") {
		t.Error("DONE was not sent after the timeout")
	}
}

func TestWaitForChangeExists(t *testing.T) {
	sc := &scriptConn{steps: []scriptStep{
		{line: "+ idling\r\n"},
		{line: "* 2 RECENT\r\n"},
		{line: "* 3 EXISTS\r\n"},
		{line: "%TAG% OK IDLE terminated\r\n"},
	}}
	d := &Dialer{conn: sc, Connected: true}

	outcome, err := d.WaitForChange(time.Minute)
	if err != nil {
		t.Fatalf("WaitForChange: %v", err)
	}
	if outcome != WaitChanged {
		t.Errorf("outcome = %v, want WaitChanged", outcome)
	}
	if !strings.Contains(sc.writes.String(), "DONE\r\n") {
		t.Error("DONE was not sent after the EXISTS line")
	}
}

func TestWaitForChangeServerBye(t *testing.T) {
	sc := &scriptConn{steps: []scriptStep{
		{line: "+ idling\r\n"},
		{line: "* BYE shutting down\r\n"},
	}}
	d := &Dialer{conn: sc, Connected: true}

	if _, err := d.WaitForChange(time.Minute); err == nil {
		t.Fatal("WaitForChange returned nil error on BYE")
	}
	if !sc.closed {
		t.Error("connection was not closed after BYE")
	}
	if d.Connected {
		t.Error("dialer still marked connected after BYE")
	}
}

func TestWaitForChangeTaggedRefusal(t *testing.T) {
	sc := &scriptConn{steps: []scriptStep{
		{line: "%TAG% NO IDLE not supported\r\n"},
	}}
	d := &Dialer{conn: sc, Connected: true}

	if _, err := d.WaitForChange(time.Minute); err == nil {
		t.Fatal("WaitForChange returned nil error on tagged NO")
	}
}
