package esclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/pthm/quarry"
)

// ResponseError is a non-2xx answer from the cluster.
type ResponseError struct {
	StatusCode int
	// Type and Reason come from the root cause in the error body, when the
	// body has one.
	Type   string
	Reason string
	Body   []byte
}

func (e *ResponseError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("elasticsearch: %d %s: %s", e.StatusCode, e.Type, e.Reason)
	}
	return fmt.Sprintf("elasticsearch: status %d", e.StatusCode)
}

// Unwrap lets errors.Is(err, quarry.ErrTransport) match.
func (e *ResponseError) Unwrap() error {
	return quarry.ErrTransport
}

// IsStatus reports whether err is a ResponseError with the given status.
func IsStatus(err error, status int) bool {
	var respErr *ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == status
}

func newResponseError(res *esapi.Response) *ResponseError {
	body, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	e := &ResponseError{StatusCode: res.StatusCode, Body: body}

	var parsed struct {
		Error struct {
			Type      string `json:"type"`
			Reason    string `json:"reason"`
			RootCause []struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"root_cause"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		e.Type, e.Reason = parsed.Error.Type, parsed.Error.Reason
		if len(parsed.Error.RootCause) > 0 {
			e.Type = parsed.Error.RootCause[0].Type
			e.Reason = parsed.Error.RootCause[0].Reason
		}
	}
	return e
}
