// Package testutil provides shared test utilities for quarry tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pthm/quarry"
)

// ErrNoResponse is returned by Transport when its script is exhausted.
var ErrNoResponse = errors.New("testutil: no scripted response")

// Transport is a scripted quarry.Transport. Search and Scroll pop responses
// from their queues in order and record every request they receive.
type Transport struct {
	mu sync.Mutex

	searchResponses []quarry.Response
	scrollResponses []quarry.Response
	searchErr       error
	scrollErr       error

	searches []quarry.Request
	scrolls  []quarry.ScrollRequest
}

// NewTransport returns a transport that answers searches with responses in
// order.
func NewTransport(responses ...quarry.Response) *Transport {
	return &Transport{searchResponses: responses}
}

// QueueScroll appends responses for subsequent Scroll calls.
func (t *Transport) QueueScroll(responses ...quarry.Response) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scrollResponses = append(t.scrollResponses, responses...)
	return t
}

// FailSearch makes every Search call return err.
func (t *Transport) FailSearch(err error) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.searchErr = err
	return t
}

// FailScroll makes every Scroll call return err.
func (t *Transport) FailScroll(err error) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scrollErr = err
	return t
}

// Search implements quarry.Transport.
func (t *Transport) Search(ctx context.Context, req quarry.Request) (quarry.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.searches = append(t.searches, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if t.searchErr != nil {
		return nil, t.searchErr
	}
	if len(t.searchResponses) == 0 {
		return nil, fmt.Errorf("search %s: %w", req.Index, ErrNoResponse)
	}
	resp := t.searchResponses[0]
	t.searchResponses = t.searchResponses[1:]
	return resp, nil
}

// Scroll implements quarry.Transport.
func (t *Transport) Scroll(ctx context.Context, req quarry.ScrollRequest) (quarry.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.scrolls = append(t.scrolls, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if t.scrollErr != nil {
		return nil, t.scrollErr
	}
	if len(t.scrollResponses) == 0 {
		return nil, fmt.Errorf("scroll: %w", ErrNoResponse)
	}
	resp := t.scrollResponses[0]
	t.scrollResponses = t.scrollResponses[1:]
	return resp, nil
}

// Searches returns the search requests received so far.
func (t *Transport) Searches() []quarry.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]quarry.Request(nil), t.searches...)
}

// LastSearch returns the most recent search request, or the zero Request.
func (t *Transport) LastSearch() quarry.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.searches) == 0 {
		return quarry.Request{}
	}
	return t.searches[len(t.searches)-1]
}

// Scrolls returns the scroll requests received so far.
func (t *Transport) Scrolls() []quarry.ScrollRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]quarry.ScrollRequest(nil), t.scrolls...)
}

var _ quarry.Transport = (*Transport)(nil)
