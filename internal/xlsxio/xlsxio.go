// Package xlsxio reads and writes the dataset workbooks. A workbook
// carries two sheets, one per ledger; sheets are matched by name
// fragment so uploads with "Sales 2024" / "Claims 2024" tabs still load.
package xlsxio

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/claimlens/claimlens/internal/table"
)

// Workbook is the raw dataset pair as read from one file. Cells keep the
// string form excelize yields; typing happens downstream at use sites.
type Workbook struct {
	Sales  *table.Table
	Claims *table.Table
}

// Load reads a workbook from disk.
func Load(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()
	return read(f)
}

// LoadReader reads a workbook from a stream.
func LoadReader(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return read(f)
}

func read(f *excelize.File) (*Workbook, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	salesSheet := matchSheet(sheets, "sale", sheets[0])
	claimsFallback := sheets[0]
	if len(sheets) > 1 {
		claimsFallback = sheets[1]
	}
	claimsSheet := matchSheet(sheets, "claim", claimsFallback)

	sales, err := readSheet(f, salesSheet)
	if err != nil {
		return nil, fmt.Errorf("read sales sheet %q: %w", salesSheet, err)
	}
	claims, err := readSheet(f, claimsSheet)
	if err != nil {
		return nil, fmt.Errorf("read claims sheet %q: %w", claimsSheet, err)
	}
	return &Workbook{Sales: sales, Claims: claims}, nil
}

// matchSheet returns the first sheet whose name contains the fragment,
// case-insensitive, or the fallback.
func matchSheet(sheets []string, fragment, fallback string) string {
	for _, s := range sheets {
		if strings.Contains(strings.ToLower(s), fragment) {
			return s
		}
	}
	return fallback
}

// readSheet converts one sheet into a table. The first row is the
// header; header cells are whitespace-trimmed and blank header columns
// are dropped. Short data rows are padded with empty cells.
func readSheet(f *excelize.File, sheet string) (*table.Table, error) {
	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return table.New(nil), nil
	}

	var columns []string
	var keep []int
	for i, h := range raw[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		columns = append(columns, h)
		keep = append(keep, i)
	}

	rows := make([][]any, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := make([]any, len(keep))
		for j, src := range keep {
			if src < len(cells) {
				row[j] = strings.TrimSpace(cells[src])
			} else {
				row[j] = ""
			}
		}
		rows = append(rows, row)
	}
	return table.New(columns, rows...), nil
}

// Export renders a table as workbook bytes under the given sheet name.
// The internal row id column is never exported.
func Export(t *table.Table, sheet string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	if err := writeSheet(f, sheet, t); err != nil {
		return nil, err
	}
	return workbookBytes(f)
}

// ExportPair renders both ledgers into one workbook under "Sales" and
// "Claims" sheets.
func ExportPair(sales, claims *table.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", "Sales"); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	if _, err := f.NewSheet("Claims"); err != nil {
		return nil, fmt.Errorf("add claims sheet: %w", err)
	}
	if err := writeSheet(f, "Sales", sales); err != nil {
		return nil, err
	}
	if err := writeSheet(f, "Claims", claims); err != nil {
		return nil, err
	}
	return workbookBytes(f)
}

func writeSheet(f *excelize.File, sheet string, t *table.Table) error {
	var columns []string
	for _, c := range t.Columns {
		if c != table.RowIDColumn {
			columns = append(columns, c)
		}
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		cells := make([]any, len(columns))
		for j, c := range columns {
			cells[j] = exportCell(row.Get(c))
		}
		if err := setRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func workbookBytes(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, n int, cells []any) error {
	ref, err := excelize.JoinCellName("A", n)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, ref, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", n, err)
	}
	return nil
}

// exportCell renders dates as their canonical string form; other values
// pass through for excelize to type natively.
func exportCell(v any) any {
	if table.IsMissing(v) {
		return nil
	}
	if s, ok := v.(string); ok {
		return s
	}
	switch v.(type) {
	case float64, float32, int, int64, bool:
		return v
	}
	return table.AsString(v)
}
