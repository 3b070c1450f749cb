package distributor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"scribe-hq/proofread/pkg/validation"
)

// Distributor receives findings while a run is in progress. The pipeline
// calls FlushHeader once before the first finding, FlushResult once per
// finding in result order, and FlushFooter once after the last one.
type Distributor interface {
	FlushHeader(ctx context.Context) error
	FlushResult(ctx context.Context, err *validation.ValidationError) error
	FlushFooter(ctx context.Context) error
}

// Supported output formats.
const (
	FormatPlain = "plain"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// Formats lists the output formats accepted by New.
func Formats() []string {
	return []string{FormatPlain, FormatJSON, FormatCSV}
}

// New returns a distributor writing format to w.
func New(format string, w io.Writer) (Distributor, error) {
	switch strings.ToLower(format) {
	case FormatPlain, "":
		return NewPlain(w), nil
	case FormatJSON:
		return NewJSON(w), nil
	case FormatCSV:
		return NewCSV(w, true), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (available: %s)", format, strings.Join(Formats(), ", "))
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) FlushHeader(context.Context) error { return nil }
func (Nop) FlushResult(context.Context, *validation.ValidationError) error { return nil }
func (Nop) FlushFooter(context.Context) error { return nil }

// Multi fans every notification out to several distributors. All
// distributors are notified even when one fails; the failures are joined.
type Multi []Distributor

// NewMulti drops nil entries from ds.
func NewMulti(ds ...Distributor) Multi {
	m := make(Multi, 0, len(ds))
	for _, d := range ds {
		if d != nil {
			m = append(m, d)
		}
	}
	return m
}

func (m Multi) FlushHeader(ctx context.Context) error {
	var errs []error
	for _, d := range m {
		errs = append(errs, d.FlushHeader(ctx))
	}
	return errors.Join(errs...)
}

func (m Multi) FlushResult(ctx context.Context, err *validation.ValidationError) error {
	var errs []error
	for _, d := range m {
		errs = append(errs, d.FlushResult(ctx, err))
	}
	return errors.Join(errs...)
}

func (m Multi) FlushFooter(ctx context.Context) error {
	var errs []error
	for _, d := range m {
		errs = append(errs, d.FlushFooter(ctx))
	}
	return errors.Join(errs...)
}
