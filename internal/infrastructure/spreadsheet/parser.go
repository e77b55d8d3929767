package spreadsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// SheetParser reads the rows of one worksheet of an .xlsx workbook.
// Cells are read raw, so dates arrive as Excel serial numbers; see CellTime.
type SheetParser struct {
	sheet      string
	trimSpace  bool
	headers    []string
	rows       [][]string
	currentRow int
}

// ParserOption is a functional option for SheetParser configuration
type ParserOption func(*SheetParser)

// WithSheet selects a worksheet by name (default is the first sheet)
func WithSheet(name string) ParserOption {
	return func(p *SheetParser) {
		p.sheet = name
	}
}

// WithTrimSpace enables trimming of leading/trailing spaces from cells
func WithTrimSpace(trim bool) ParserOption {
	return func(p *SheetParser) {
		p.trimSpace = trim
	}
}

// NewSheetParser loads a workbook and reads its header row
func NewSheetParser(r io.Reader, opts ...ParserOption) (*SheetParser, error) {
	parser := &SheetParser{trimSpace: true}
	for _, opt := range opts {
		opt(parser)
	}

	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	if parser.sheet == "" {
		parser.sheet = sheets[0]
	}

	rows, err := f.GetRows(parser.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", parser.sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	parser.headers = parser.clean(rows[0])
	if len(parser.headers) == 0 {
		return nil, ErrMissingHeader
	}
	parser.rows = rows[1:]
	parser.currentRow = 1 // Header is row 1
	return parser, nil
}

// Headers returns the parsed header names
func (p *SheetParser) Headers() []string {
	return p.headers
}

// Row represents a data row with its 1-based sheet line number
type Row struct {
	LineNumber int
	Fields     []string
}

// Get returns the cell at a 0-based column index, or "" past the last cell
func (r *Row) Get(col int) string {
	if col < 0 || col >= len(r.Fields) {
		return ""
	}
	return r.Fields[col]
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Fields {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow returns the next data row, or io.EOF
func (p *SheetParser) ReadRow() (*Row, error) {
	idx := p.currentRow - 1
	if idx >= len(p.rows) {
		return nil, io.EOF
	}
	p.currentRow++
	return &Row{
		LineNumber: p.currentRow,
		Fields:     p.clean(p.rows[idx]),
	}, nil
}

// ReadAllRows reads all remaining rows, skipping completely empty ones
func (p *SheetParser) ReadAllRows() []*Row {
	var rows []*Row
	for {
		row, err := p.ReadRow()
		if err == io.EOF {
			return rows
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
}

func (p *SheetParser) clean(fields []string) []string {
	if !p.trimSpace {
		return fields
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.TrimSpace(f)
	}
	// excelize already drops trailing empty cells; trimming can create new ones
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// CellTime interprets a raw cell value as an Excel date serial number
func CellTime(value string) (time.Time, bool) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || serial <= 0 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
