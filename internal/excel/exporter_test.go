package excel

import (
	"bytes"
	"testing"
	"time"

	"route-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func readRow(t *testing.T, buf *bytes.Buffer, row int) []string {
	t.Helper()

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	var values []string
	for col := 1; col <= len(trackingHeaders); col++ {
		cell, err := excelize.CoordinatesToCellName(col, row)
		require.NoError(t, err)
		value, err := f.GetCellValue(TrackingSheet, cell)
		require.NoError(t, err)
		values = append(values, value)
	}
	return values
}

func TestWriteTrackingHeaderRow(t *testing.T) {
	buf, err := WriteTracking(nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Week", "Day", "Date", "Location", "Stop #",
		"Customer Name", "Account #", "Address",
		"Status", "Visited At", "Sales Amount",
		"Notes", "Follow-up Required", "Follow-up Date",
	}, readRow(t, buf, 1))
}

func TestWriteTrackingWithVisit(t *testing.T) {
	date := time.Date(2026, 1, 19, 0, 0, 0, 0, time.UTC)
	visitedAt := time.Date(2026, 1, 19, 14, 30, 0, 0, time.UTC)
	followUp := time.Date(2026, 1, 26, 0, 0, 0, 0, time.UTC)

	buf, err := WriteTracking([]TrackingRow{{
		Customer: models.Customer{
			Name:          "Jane Doe",
			Address:       "123 Main St",
			AccountNumber: "AB123",
			WeekNumber:    1,
			WeekLabel:     "WEEK 1",
			DayOfWeek:     "MONDAY",
			Date:          &date,
			Location:      "MCKINLEYVILLE",
			StopNumber:    3,
		},
		Visit: &models.Visit{
			Status:           models.StatusSaleMade,
			VisitedAt:        &visitedAt,
			Notes:            "bought two cases",
			SalesAmount:      250.75,
			FollowUpRequired: true,
			FollowUpDate:     &followUp,
		},
	}})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"WEEK 1", "MONDAY", "01/19/2026", "MCKINLEYVILLE", "3",
		"Jane Doe", "AB123", "123 Main St",
		"sale_made", "2026-01-19T14:30:00Z", "250.75",
		"bought two cases", "TRUE", "2026-01-26T00:00:00Z",
	}, readRow(t, buf, 2))
}

func TestWriteTrackingVisitDefaults(t *testing.T) {
	buf, err := WriteTracking([]TrackingRow{{
		Customer: models.Customer{
			Name:       "No Visit Yet",
			WeekLabel:  "WEEK 2",
			DayOfWeek:  "FRIDAY",
			StopNumber: 7,
		},
	}})
	require.NoError(t, err)

	row := readRow(t, buf, 2)
	assert.Equal(t, "", row[2])           // date absent
	assert.Equal(t, "not_visited", row[8])
	assert.Equal(t, "", row[9])           // visited at
	assert.Equal(t, "0", row[10])         // sales amount
	assert.Equal(t, "", row[11])          // notes
	assert.Equal(t, "FALSE", row[12])     // follow-up required
	assert.Equal(t, "", row[13])          // follow-up date
}

func TestWriteTrackingPreservesCallerOrder(t *testing.T) {
	rows := []TrackingRow{
		{Customer: models.Customer{Name: "Third", WeekLabel: "WEEK 3"}},
		{Customer: models.Customer{Name: "First", WeekLabel: "WEEK 1"}},
		{Customer: models.Customer{Name: "Second", WeekLabel: "WEEK 2"}},
	}

	buf, err := WriteTracking(rows)
	require.NoError(t, err)

	assert.Equal(t, "Third", readRow(t, buf, 2)[5])
	assert.Equal(t, "First", readRow(t, buf, 3)[5])
	assert.Equal(t, "Second", readRow(t, buf, 4)[5])
}

// A parse then export of a one-stop fixture keeps every slot field intact
// in the flat sheet.
func TestParseExportRoundTrip(t *testing.T) {
	r := newRoutePlan(t, func(f *excelize.File) {
		setCell(t, f, 2, 5, "MONDAY\n01/19/2026")
		setCell(t, f, 2, 6, "MCKINLEYVILLE")
		setCell(t, f, 1, 8, "1")
		setCell(t, f, 2, 8, "Jane Doe\n123 Main St\nAcct: AB123")
	})

	customers, err := ParseRoutePlan(r)
	require.NoError(t, err)
	require.Len(t, customers, 1)

	buf, err := WriteTracking([]TrackingRow{{Customer: customers[0]}})
	require.NoError(t, err)

	row := readRow(t, buf, 2)
	assert.Equal(t, "WEEK 1", row[0])
	assert.Equal(t, "MONDAY", row[1])
	assert.Equal(t, "01/19/2026", row[2])
	assert.Equal(t, "MCKINLEYVILLE", row[3])
	assert.Equal(t, "1", row[4])
	assert.Equal(t, "Jane Doe", row[5])
	assert.Equal(t, "AB123", row[6])
	assert.Equal(t, "123 Main St", row[7])
}
