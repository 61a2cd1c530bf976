package sorter

import "fmt"

// Result maps destination mailbox paths to the messages bound for them.
// Each UID appears in exactly one bucket; it is rebuilt fresh every pass.
type Result map[string][]uint32

// scan fetches every message's recipient header and groups UIDs by derived
// destination mailbox. Messages without a classifiable recipient stay in
// the watched mailbox.
func (e *Engine) scan() (Result, error) {
	headers, err := e.Session.FetchHeaders(recipientField)
	if err != nil {
		return nil, fmt.Errorf("scan inbox: %w", err)
	}

	res := make(Result, len(headers))
	for _, h := range headers {
		mailbox, ok := Classify(h.Header)
		if !ok {
			e.Log.Debug("skipping unroutable message", "uid", h.UID)
			continue
		}
		res[mailbox] = append(res[mailbox], h.UID)
	}
	return res, nil
}
