// Package report renders inventory snapshots as XLSX workbooks.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"bloodlink-backend/internal/domain"
	"bloodlink-backend/internal/service"

	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	SheetSummary   = "Summary"
	SheetStock     = "Stock"
	SheetDonations = "Donations"
)

var (
	summaryHeader  = []string{"Blood Group", "Units Available"}
	stockHeader    = []string{"Blood Bank", "Location", "Blood Group", "Units Available", "Last Updated"}
	donationHeader = []string{"Donation ID", "Donor ID", "Blood Bank", "Request ID", "Quantity", "Status", "Donation Date"}
)

// Filename is the download name for a snapshot taken at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("inventory-%s.xlsx", t.UTC().Format("20060102-1504"))
}

// InventoryWorkbook builds a three-sheet workbook: totals per blood group,
// stock per bank and the donation history.
func InventoryWorkbook(snap *service.InventorySnapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F4CCCC"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	banks := make(map[int32]domain.BloodBank, len(snap.Banks))
	for _, b := range snap.Banks {
		banks[b.ID] = b
	}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeTable(f, SheetSummary, summaryHeader, summaryRows(snap.Stock), headerStyle); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(SheetStock); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeTable(f, SheetStock, stockHeader, stockRows(snap.Stock, banks), headerStyle); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(SheetDonations); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeTable(f, SheetDonations, donationHeader, donationRows(snap.Donations, banks), headerStyle); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Blood inventory",
		Created: snap.TakenAt.UTC().Format(time.RFC3339),
	}); err != nil {
		return nil, fmt.Errorf("failed to set document properties: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTable(f *excelize.File, sheet string, header []string, rows [][]any, headerStyle int) error {
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheet, name, name, 20); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+2, sheet, err)
		}
	}
	return nil
}

// summaryRows lists every blood group, including those with no stock.
func summaryRows(stock []domain.BloodStock) [][]any {
	totals := make(map[domain.BloodGroup]int32, len(domain.BloodGroups))
	for _, s := range stock {
		totals[s.BloodGroup] += s.UnitsAvailable
	}
	rows := make([][]any, 0, len(domain.BloodGroups))
	for _, g := range domain.BloodGroups {
		rows = append(rows, []any{string(g), totals[g]})
	}
	return rows
}

func stockRows(stock []domain.BloodStock, banks map[int32]domain.BloodBank) [][]any {
	sorted := append([]domain.BloodStock(nil), stock...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].BloodBankID != sorted[j].BloodBankID {
			return sorted[i].BloodBankID < sorted[j].BloodBankID
		}
		return sorted[i].BloodGroup < sorted[j].BloodGroup
	})
	rows := make([][]any, 0, len(sorted))
	for _, s := range sorted {
		b := banks[s.BloodBankID]
		rows = append(rows, []any{
			bankName(b, s.BloodBankID),
			b.Location,
			string(s.BloodGroup),
			s.UnitsAvailable,
			s.LastUpdated.UTC().Format("2006-01-02 15:04"),
		})
	}
	return rows
}

func donationRows(donations []domain.DonationRecord, banks map[int32]domain.BloodBank) [][]any {
	rows := make([][]any, 0, len(donations))
	for _, d := range donations {
		var requestID any = ""
		if d.RequestID != nil {
			requestID = *d.RequestID
		}
		rows = append(rows, []any{
			d.ID,
			d.DonorID,
			bankName(banks[d.BloodBankID], d.BloodBankID),
			requestID,
			d.Quantity,
			string(d.Status),
			d.DonationDate.UTC().Format("2006-01-02"),
		})
	}
	return rows
}

func bankName(b domain.BloodBank, id int32) string {
	if b.Name != "" {
		return b.Name
	}
	return fmt.Sprintf("#%d", id)
}
