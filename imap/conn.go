package imap

import (
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"sync"

	retry "github.com/StirlingMarketingGroup/go-retry"
)

var (
	nextConnNum      = 0
	nextConnNumMutex = sync.RWMutex{}
)

// Dialer represents an IMAP connection. The conn is everything the
// command loop needs from the wire, so tests can script one in memory.
type Dialer struct {
	conn      net.Conn
	Folder    string
	ReadOnly  bool
	Username  string
	Password  string
	Host      string
	Port      int
	Connected bool
	ConnNum   int
	// useXOAUTH2 indicates whether XOAUTH2 authentication should be used
	// on (re)connection instead of LOGIN. It is set by NewWithOAuth2.
	useXOAUTH2 bool
}

// dialHost establishes a TLS connection to the IMAP server
func dialHost(host string, port int) (*tls.Conn, error) {
	dialer := &net.Dialer{Timeout: DialTimeout}
	var cfg *tls.Config
	if TLSSkipVerify {
		cfg = &tls.Config{InsecureSkipVerify: true}
	}
	return tls.DialWithDialer(dialer, "tcp", host+":"+strconv.Itoa(port), cfg)
}

// New creates a new IMAP connection using username/password authentication
func New(username string, password string, host string, port int) (*Dialer, error) {
	return connect(username, password, host, port, false)
}

// NewWithOAuth2 creates a new IMAP connection using OAuth2 authentication
func NewWithOAuth2(username string, accessToken string, host string, port int) (*Dialer, error) {
	return connect(username, accessToken, host, port, true)
}

// connect establishes the TLS connection with retries, then authenticates
// once. Authentication failures are never retried; a wrong password looks
// the same on every attempt.
func connect(username string, secret string, host string, port int, useXOAUTH2 bool) (d *Dialer, err error) {
	nextConnNumMutex.RLock()
	connNum := nextConnNum
	nextConnNumMutex.RUnlock()

	nextConnNumMutex.Lock()
	nextConnNum++
	nextConnNumMutex.Unlock()

	err = retry.Retry(func() error {
		debugLog(connNum, "", "establishing connection", "host", host, "port", port)
		conn, err := dialHost(host, port)
		if err != nil {
			debugLog(connNum, "", "failed to connect", "error", err)
			return err
		}
		d = &Dialer{
			conn:       conn,
			Username:   username,
			Password:   secret,
			Host:       host,
			Port:       port,
			Connected:  true,
			ConnNum:    connNum,
			useXOAUTH2: useXOAUTH2,
		}
		return nil
	}, RetryCount, func(err error) error {
		warnLog(connNum, "", "failed to connect, retrying shortly", "error", err)
		if d != nil && d.conn != nil {
			_ = d.conn.Close()
		}
		return nil
	}, func() error {
		debugLog(connNum, "", "retrying connection now")
		return nil
	})
	if err != nil {
		errorLog(connNum, "", "failed to establish connection", "error", err)
		if d != nil && d.conn != nil {
			_ = d.conn.Close()
		}
		return nil, err
	}

	if useXOAUTH2 {
		err = d.Authenticate(username, secret)
	} else {
		err = d.Login(username, secret)
	}
	if err != nil {
		errorLog(connNum, "", "authentication failed", "error", err)
		_ = d.Close()
		return nil, err
	}

	return d, nil
}

// Close closes the IMAP connection
func (d *Dialer) Close() (err error) {
	if d.Connected {
		debugLog(d.ConnNum, d.Folder, "closing connection")
		err = d.conn.Close()
		if err != nil {
			return fmt.Errorf("imap close: %s", err)
		}
		d.Connected = false
	}
	return err
}

// Logout sends a best-effort LOGOUT before closing the connection.
func (d *Dialer) Logout() error {
	if d.Connected {
		// Zero retries: a dying session must not trigger a reconnect.
		_, err := d.Exec("LOGOUT", false, 0, nil)
		if err != nil {
			_ = d.Close()
			return fmt.Errorf("imap logout: %s", err)
		}
	}
	return d.Close()
}

// Reconnect closes and reopens the IMAP connection with re-authentication
func (d *Dialer) Reconnect() (err error) {
	_ = d.Close()
	debugLog(d.ConnNum, d.Folder, "reopening connection")

	conn, err := dialHost(d.Host, d.Port)
	if err != nil {
		return fmt.Errorf("imap reconnect dial: %s", err)
	}
	d.conn = conn
	d.Connected = true

	// Re-authenticate using the original method
	if d.useXOAUTH2 {
		if err := d.Authenticate(d.Username, d.Password); err != nil {
			// Best effort cleanup on failure
			_ = d.conn.Close()
			d.Connected = false
			return fmt.Errorf("imap reconnect auth xoauth2: %s", err)
		}
	} else {
		if err := d.Login(d.Username, d.Password); err != nil {
			_ = d.conn.Close()
			d.Connected = false
			return fmt.Errorf("imap reconnect login: %s", err)
		}
	}

	// Restore selected folder state if any
	if d.Folder != "" {
		if d.ReadOnly {
			if err := d.ExamineFolder(d.Folder); err != nil {
				return fmt.Errorf("imap reconnect examine: %s", err)
			}
		} else {
			if err := d.SelectFolder(d.Folder); err != nil {
				return fmt.Errorf("imap reconnect select: %s", err)
			}
		}
	}

	return nil
}
