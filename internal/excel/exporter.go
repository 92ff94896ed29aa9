package excel

import (
	"bytes"
	"fmt"
	"time"

	"route-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

// TrackingSheet is the sheet title of the exported workbook.
const TrackingSheet = "Visit Tracking"

// TrackingRow pairs a customer slot with its latest visit, if any.
type TrackingRow struct {
	Customer models.Customer
	Visit    *models.Visit
}

var trackingHeaders = []interface{}{
	"Week", "Day", "Date", "Location", "Stop #",
	"Customer Name", "Account #", "Address",
	"Status", "Visited At", "Sales Amount",
	"Notes", "Follow-up Required", "Follow-up Date",
}

// WriteTracking renders one header row plus one data row per input pair,
// preserving caller order. Visit columns fall back to defaults when the
// customer has no visit record.
func WriteTracking(rows []TrackingRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TrackingSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(TrackingSheet, "A1", &trackingHeaders); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}

	for i, row := range rows {
		c := row.Customer

		date := ""
		if c.Date != nil {
			date = c.Date.Format("01/02/2006")
		}

		status := models.StatusNotVisited
		visitedAt := ""
		salesAmount := 0.0
		notes := ""
		followUpRequired := false
		followUpDate := ""
		if v := row.Visit; v != nil {
			status = v.Status
			visitedAt = formatTimestamp(v.VisitedAt)
			salesAmount = v.SalesAmount
			notes = v.Notes
			followUpRequired = v.FollowUpRequired
			followUpDate = formatTimestamp(v.FollowUpDate)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{
			c.WeekLabel, c.DayOfWeek, date, c.Location, c.StopNumber,
			c.Name, c.AccountNumber, c.Address,
			status, visitedAt, salesAmount,
			notes, followUpRequired, followUpDate,
		}
		if err := f.SetSheetRow(TrackingSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	return f.WriteToBuffer()
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
