// Package export renders consolidated snapshots for download: the canonical
// JSON document and an expense spreadsheet.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/sivaworkplace/money-expense-tracker/internal/domain"
)

// WriteJSON writes the snapshot as indented JSON, the same shape the file
// backend persists and the import endpoint accepts back.
func WriteJSON(w io.Writer, data domain.AppData) error {
	data.Normalize()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// ParseJSON decodes a snapshot produced by WriteJSON (or by the original app's
// export). Unknown top-level keys are ignored; missing collections come back
// empty rather than nil.
func ParseJSON(r io.Reader) (domain.AppData, error) {
	var data domain.AppData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return domain.AppData{}, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	data.Normalize()
	return data, nil
}

// WriteExpensesXLSX writes a spreadsheet with one row per expense. Category ids
// are resolved to display names through the provided category list.
func WriteExpensesXLSX(w io.Writer, expenses []domain.Expense, categories []domain.Category) error {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	// Add headers
	headers := []string{"Date", "Description", "Category", "Amount", "Payment Method", "Account", "Tags"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, h)
	}

	// Add data
	for row, e := range expenses {
		category := names[e.Category]
		if category == "" {
			category = e.Category
		}
		values := []interface{}{
			e.Date,
			e.Description,
			category,
			e.Amount,
			string(e.PaymentMethod),
			e.AccountID,
			joinTags(e.Tags),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			f.SetCellValue(sheet, cell, v)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return nil
}

func joinTags(tags []string) string {
	out := ""
	for i, t := range tags {
		if i > 0 {
			out += ", "
		}
		out += t
	}
	return out
}
