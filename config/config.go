// Package config loads and validates the mailsort TOML configuration.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the process-lifetime configuration. It is never mutated after
// Load returns.
type Config struct {
	IMAP     IMAP     `toml:"imap"`
	Pushover Pushover `toml:"pushover"`
	Sort     Sort     `toml:"sort"`
}

// IMAP holds the connection and credential settings. Password and
// AccessToken are mutually exclusive ways to authenticate; AccessToken
// selects XOAUTH2.
type IMAP struct {
	Server      string `toml:"server"`
	Port        int    `toml:"port"`
	Email       string `toml:"email"`
	Password    string `toml:"password"`
	AccessToken string `toml:"access_token"`
}

// Pushover holds the notification tokens and the mailboxes whose movement
// warrants a normal-priority notification.
type Pushover struct {
	User      string   `toml:"user"`
	Token     string   `toml:"token"`
	Mailboxes []string `toml:"mailboxes"`
}

// Sort tunes the engine itself.
type Sort struct {
	// Mailbox is the watched mailbox. Default "INBOX".
	Mailbox string `toml:"mailbox"`
	// WaitTimeout bounds one idle wait, as a duration string. Default "5m".
	WaitTimeout string `toml:"wait_timeout"`
}

// Load reads the TOML file at path, applies defaults, and validates.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.IMAP.Port == 0 {
		c.IMAP.Port = 993
	}
	if c.Sort.Mailbox == "" {
		c.Sort.Mailbox = "INBOX"
	}
	if c.Sort.WaitTimeout == "" {
		c.Sort.WaitTimeout = "5m"
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.IMAP.Server == "" {
		errs = append(errs, errors.New("imap.server is required"))
	}
	if c.IMAP.Email == "" {
		errs = append(errs, errors.New("imap.email is required"))
	}
	if c.IMAP.Password == "" && c.IMAP.AccessToken == "" {
		errs = append(errs, errors.New("one of imap.password or imap.access_token is required"))
	}
	if c.IMAP.Password != "" && c.IMAP.AccessToken != "" {
		errs = append(errs, errors.New("imap.password and imap.access_token are mutually exclusive"))
	}
	if _, err := time.ParseDuration(c.Sort.WaitTimeout); err != nil {
		errs = append(errs, fmt.Errorf("sort.wait_timeout: %w", err))
	}
	return errors.Join(errs...)
}

// WaitTimeout returns the parsed idle wait bound. Valid after Load.
func (c *Config) WaitTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Sort.WaitTimeout)
	return d
}
