package distributor

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"scribe-hq/proofread/pkg/model"
	"scribe-hq/proofread/pkg/validation"
)

// CSV streams findings as comma-separated rows.
type CSV struct {
	// IncludeHeader writes a column header row on FlushHeader.
	IncludeHeader bool

	writer *csv.Writer
}

// NewCSV creates a CSV distributor writing to w.
func NewCSV(w io.Writer, includeHeader bool) *CSV {
	return &CSV{
		IncludeHeader: includeHeader,
		writer:        csv.NewWriter(w),
	}
}

// Columns returns the CSV column names in order.
func Columns() []string {
	return []string{"file", "line", "validator", "message", "start_line", "start_offset", "end_line", "end_offset"}
}

func (c *CSV) FlushHeader(context.Context) error {
	if !c.IncludeHeader {
		return nil
	}
	if err := c.writer.Write(Columns()); err != nil {
		return err
	}
	c.writer.Flush()
	return c.writer.Error()
}

func (c *CSV) FlushResult(_ context.Context, err *validation.ValidationError) error {
	startLine, startOffset := positionColumns(err.StartPosition)
	endLine, endOffset := positionColumns(err.EndPosition)
	row := []string{
		err.FileName,
		strconv.Itoa(err.LineNumber),
		err.ValidatorName,
		err.Message,
		startLine, startOffset,
		endLine, endOffset,
	}
	if werr := c.writer.Write(row); werr != nil {
		return werr
	}
	c.writer.Flush()
	return c.writer.Error()
}

func (c *CSV) FlushFooter(context.Context) error {
	c.writer.Flush()
	return c.writer.Error()
}

func positionColumns(pos *model.LineOffset) (string, string) {
	if pos == nil {
		return "", ""
	}
	return strconv.Itoa(pos.Line), strconv.Itoa(pos.Offset)
}
