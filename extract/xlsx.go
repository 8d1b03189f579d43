package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXParser handles spreadsheet claim forms. Cells are flattened row by row
// into "label: value" lines so the field patterns can match them.
type XLSXParser struct{}

func (p *XLSXParser) SupportedFormats() []string { return []string{"xlsx"} }

func (p *XLSXParser) Parse(ctx context.Context, path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: opening XLSX: %v", ErrDecode, err)
	}
	defer f.Close()

	var b strings.Builder

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}

		for _, row := range rows {
			if len(row) == 0 {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			// Two-column sheets are label/value pairs; wider rows are joined as-is.
			if len(row) == 2 && row[0] != "" {
				label := strings.TrimRight(strings.TrimSpace(row[0]), ":")
				b.WriteString(label + ": " + strings.TrimSpace(row[1]))
			} else {
				b.WriteString(strings.Join(row, " "))
			}
		}
	}

	return b.String(), nil
}
