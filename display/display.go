// Package display provides the user-facing output surface for the CLI:
// status messages and tabular rendering in table, CSV, or JSON form.
package display

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
)

// Format selects the table rendering format
type Format int

const (
	FormatTable Format = iota
	FormatCSV
	FormatJSON
)

// Display is the output surface handed to CLI commands
type Display interface {
	Info(format string, args ...interface{})
	Success(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
	Table(data TableData) *TableRenderer
}

// TableData holds rows ready for rendering
type TableData struct {
	Headers []string
	Rows    [][]interface{}
}

type contextKey struct{}

// WithDisplay attaches a display instance to the context
func WithDisplay(ctx context.Context, d Display) context.Context {
	return context.WithValue(ctx, contextKey{}, d)
}

// GetDisplayOrDefault retrieves the display from context, falling back to a
// default stdout display
func GetDisplayOrDefault(ctx context.Context) Display {
	if d, ok := ctx.Value(contextKey{}).(Display); ok {
		return d
	}
	return New()
}

// terminalDisplay renders through pterm
type terminalDisplay struct {
	out io.Writer
}

// New creates a display writing to stdout
func New() Display {
	return &terminalDisplay{out: os.Stdout}
}

// NewWithWriter creates a display writing to the given writer, used in tests
func NewWithWriter(out io.Writer) Display {
	return &terminalDisplay{out: out}
}

func (d *terminalDisplay) Info(format string, args ...interface{}) {
	pterm.Info.WithWriter(d.out).Printfln(format, args...)
}

func (d *terminalDisplay) Success(format string, args ...interface{}) {
	pterm.Success.WithWriter(d.out).Printfln(format, args...)
}

func (d *terminalDisplay) Warning(format string, args ...interface{}) {
	pterm.Warning.WithWriter(d.out).Printfln(format, args...)
}

func (d *terminalDisplay) Error(format string, args ...interface{}) {
	pterm.Error.WithWriter(d.out).Printfln(format, args...)
}

func (d *terminalDisplay) Table(data TableData) *TableRenderer {
	return &TableRenderer{out: d.out, data: data, format: FormatTable}
}

// TableRenderer renders a TableData in the selected format
type TableRenderer struct {
	out    io.Writer
	data   TableData
	format Format
}

// WithFormat selects the output format, returning the renderer for chaining
func (r *TableRenderer) WithFormat(f Format) *TableRenderer {
	r.format = f
	return r
}

// Render writes the table to the display's writer
func (r *TableRenderer) Render() error {
	switch r.format {
	case FormatCSV:
		return r.renderCSV()
	case FormatJSON:
		return r.renderJSON()
	}
	return r.renderTable()
}

func (r *TableRenderer) renderTable() error {
	rows := make(pterm.TableData, 0, len(r.data.Rows)+1)
	rows = append(rows, r.data.Headers)
	for _, row := range r.data.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = formatCell(cell)
		}
		rows = append(rows, cells)
	}
	return pterm.DefaultTable.WithWriter(r.out).WithHasHeader().WithData(rows).Render()
}

func (r *TableRenderer) renderCSV() error {
	w := csv.NewWriter(r.out)
	if err := w.Write(r.data.Headers); err != nil {
		return err
	}
	for _, row := range r.data.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = formatCell(cell)
		}
		if err := w.Write(cells); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (r *TableRenderer) renderJSON() error {
	records := make([]map[string]interface{}, 0, len(r.data.Rows))
	for _, row := range r.data.Rows {
		rec := make(map[string]interface{}, len(r.data.Headers))
		for i, h := range r.data.Headers {
			if i < len(row) {
				rec[h] = row[i]
			}
		}
		records = append(records, rec)
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func formatCell(v interface{}) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
