package imap

import (
	"bytes"
	"errors"
	"strings"
)

// ErrMailboxExists reports a CREATE that lost a race with some other client:
// the mailbox is already there, which callers are free to treat as success.
var ErrMailboxExists = errors.New("imap: mailbox already exists")

// GetFolders retrieves the list of available folders
func (d *Dialer) GetFolders() (folders []string, err error) {
	folders = make([]string, 0)
	_, err = d.Exec(`LIST "" "*"`, false, RetryCount, func(line []byte) error {
		if folder, ok := parseListLine(dropNl(line)); ok {
			folders = append(folders, folder)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return folders, nil
}

// parseListLine extracts the folder name from one LIST response line. The
// name is the last field, quoted or bare; literal folder names arrive on a
// continuation after a newline.
func parseListLine(line []byte) (string, bool) {
	if b := bytes.IndexByte(line, '\n'); b != -1 {
		return string(line[b+1:]), true
	}
	if len(line) == 0 {
		return "", false
	}
	i := len(line) - 1
	quoted := line[i] == '"'
	delim := byte(' ')
	if quoted {
		delim = '"'
		i--
	}
	end := i
	for i > 0 {
		if line[i] == delim {
			if !quoted || line[i-1] != '\\' {
				break
			}
		}
		i--
	}
	return RemoveSlashes.Replace(string(line[i+1 : end+1])), true
}

// ExamineFolder selects a folder in read-only mode
func (d *Dialer) ExamineFolder(folder string) (err error) {
	_, err = d.Exec(`EXAMINE "`+AddSlashes.Replace(folder)+`"`, true, RetryCount, nil)
	if err != nil {
		return err
	}
	d.Folder = folder
	d.ReadOnly = true
	return nil
}

// SelectFolder selects a folder in read-write mode
func (d *Dialer) SelectFolder(folder string) (err error) {
	_, err = d.Exec(`SELECT "`+AddSlashes.Replace(folder)+`"`, true, RetryCount, nil)
	if err != nil {
		return err
	}
	d.Folder = folder
	d.ReadOnly = false
	return nil
}

// CreateFolder creates a new folder. If the server reports the name as
// already taken, ErrMailboxExists is returned so callers can keep going.
func (d *Dialer) CreateFolder(folder string) error {
	// No retries: a failed CREATE repeated after a reconnect can succeed on
	// the retry and mask the original failure as a duplicate.
	_, err := d.Exec(`CREATE "`+AddSlashes.Replace(folder)+`"`, true, 0, nil)
	if err != nil {
		if isMailboxExists(err) {
			return ErrMailboxExists
		}
		return err
	}
	return nil
}

// SubscribeFolder adds a folder to the subscribed list
func (d *Dialer) SubscribeFolder(folder string) error {
	_, err := d.Exec(`SUBSCRIBE "`+AddSlashes.Replace(folder)+`"`, true, RetryCount, nil)
	return err
}

// isMailboxExists reports whether a command failure is the server refusing
// CREATE because the mailbox exists (RFC 5530 ALREADYEXISTS, or the
// response text used by servers that predate it).
func isMailboxExists(err error) bool {
	msg := strings.ToUpper(err.Error())
	return strings.Contains(msg, "ALREADYEXISTS") || strings.Contains(msg, "ALREADY EXISTS")
}
