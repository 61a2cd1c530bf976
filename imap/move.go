package imap

import (
	"strconv"
	"strings"
)

// MoveUIDs issues one bulk UID MOVE of the given messages to folder.
func (d *Dialer) MoveUIDs(uids []uint32, folder string) (err error) {
	if len(uids) == 0 {
		return nil
	}

	set := strings.Builder{}
	for i, u := range uids {
		if i != 0 {
			set.WriteByte(',')
		}
		set.WriteString(strconv.FormatUint(uint64(u), 10))
	}

	// if we are currently read-only, switch to SELECT for the move-operation
	readOnlyState := d.ReadOnly
	if readOnlyState {
		if err = d.SelectFolder(d.Folder); err != nil {
			return
		}
	}
	_, err = d.Exec(`UID MOVE `+set.String()+` "`+AddSlashes.Replace(folder)+`"`, true, RetryCount, nil)
	if readOnlyState {
		if e := d.ExamineFolder(d.Folder); e != nil && err == nil {
			err = e
		}
	}
	return err
}
