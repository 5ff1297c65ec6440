package roster

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExportSheetName is the worksheet holding the team stats.
const ExportSheetName = "Team Stats"

var exportHeader = []any{"ID", "Name", "Position", "Team", "Points", "Market Value", "Bid Value", "Role"}

// ExportSheet writes the whole squad, ordered by id, as an XLSX workbook.
func (e *Engine) ExportSheet(ctx context.Context, w io.Writer) error {
	ps, err := e.Players(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), ExportSheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(ExportSheetName, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for idx, p := range ps {
		axis, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return err
		}
		row := []any{p.ID, p.Name, p.Position, p.Team, p.Points, p.MarketValue, p.BidValue, string(p.Role)}
		if err := f.SetSheetRow(ExportSheetName, axis, &row); err != nil {
			return fmt.Errorf("write player %d: %w", p.ID, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
