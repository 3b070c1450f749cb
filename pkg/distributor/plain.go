package distributor

import (
	"context"
	"fmt"
	"io"

	"scribe-hq/proofread/pkg/validation"
)

// Plain writes one "file:line: message" line per finding as it arrives.
type Plain struct {
	w io.Writer
}

// NewPlain creates a Plain distributor writing to w.
func NewPlain(w io.Writer) *Plain {
	return &Plain{w: w}
}

func (p *Plain) FlushHeader(context.Context) error { return nil }

func (p *Plain) FlushResult(_ context.Context, err *validation.ValidationError) error {
	_, werr := fmt.Fprintln(p.w, err.String())
	return werr
}

func (p *Plain) FlushFooter(context.Context) error { return nil }
