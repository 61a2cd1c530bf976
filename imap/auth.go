package imap

import (
	"fmt"

	"github.com/sqs/go-xoauth2"
)

// Login authenticates the session with a username and password. There are
// no retries: a bad credential looks the same on every attempt, and auth
// failures must never trigger a reconnect.
func (d *Dialer) Login(username, password string) error {
	_, err := d.Exec(fmt.Sprintf(`LOGIN "%s" "%s"`, AddSlashes.Replace(username), AddSlashes.Replace(password)), false, 0, nil)
	if err != nil {
		return fmt.Errorf("imap login: %w", err)
	}
	return nil
}

// Authenticate authenticates the session with an XOAUTH2 access token.
// Like Login, it never retries.
func (d *Dialer) Authenticate(user, accessToken string) error {
	_, err := d.Exec("AUTHENTICATE XOAUTH2 "+xoauth2.XOAuth2String(user, accessToken), false, 0, nil)
	if err != nil {
		return fmt.Errorf("imap authenticate: %w", err)
	}
	return nil
}
