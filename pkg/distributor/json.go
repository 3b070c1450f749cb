package distributor

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"scribe-hq/proofread/pkg/validation"
)

// JSON buffers findings and writes them as one indented JSON array when
// the run ends. A run without findings writes "[]".
type JSON struct {
	w io.Writer

	mu      sync.Mutex
	results []*validation.ValidationError
}

// NewJSON creates a JSON distributor writing to w.
func NewJSON(w io.Writer) *JSON {
	return &JSON{w: w}
}

func (j *JSON) FlushHeader(context.Context) error {
	j.mu.Lock()
	j.results = make([]*validation.ValidationError, 0)
	j.mu.Unlock()
	return nil
}

func (j *JSON) FlushResult(_ context.Context, err *validation.ValidationError) error {
	j.mu.Lock()
	j.results = append(j.results, err)
	j.mu.Unlock()
	return nil
}

func (j *JSON) FlushFooter(context.Context) error {
	j.mu.Lock()
	results := j.results
	j.results = nil
	j.mu.Unlock()

	if results == nil {
		results = []*validation.ValidationError{}
	}
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
