package excel

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"route-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

// RoutePlanSheet is the exact sheet title the parser requires.
const RoutePlanSheet = "4-Week Route Plan"

// The grid encodes four weeks stacked vertically. Each block starts at a
// fixed header row: weekday/date headers on the start row, locations one
// row below, then ten stop rows beginning two rows below the header.
var weekBlocks = []struct {
	Number   int
	Label    string
	StartRow int
}{
	{1, "WEEK 1", 5},
	{2, "WEEK 2", 22},
	{3, "WEEK 3", 39},
	{4, "WEEK 4", 56},
}

const (
	firstDayCol = 2 // column B, Monday
	lastDayCol  = 6 // column F, Friday
	stopsPerDay = 10
)

var acctPattern = regexp.MustCompile(`Acct:\s*(\w+)`)

// SchemaMismatchError means the workbook does not contain the route plan
// sheet. Present carries the sheet names that were found, for diagnosis.
type SchemaMismatchError struct {
	Sheet   string
	Present []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("sheet %q not found, available sheets: [%s]",
		e.Sheet, strings.Join(e.Present, ", "))
}

// ParseRoutePlan reads the fixed-layout route plan workbook and returns one
// customer slot per populated stop cell, ordered week ascending, then stop
// number ascending, then day column left to right. Malformed customer cells
// and stop rows without their literal stop number are skipped, not errors.
func ParseRoutePlan(r io.Reader) ([]models.Customer, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(RoutePlanSheet); err != nil || idx < 0 {
		return nil, &SchemaMismatchError{Sheet: RoutePlanSheet, Present: f.GetSheetList()}
	}

	var customers []models.Customer

	for _, week := range weekBlocks {
		headerRow := week.StartRow
		locationRow := headerRow + 1

		type dayColumn struct {
			col       int
			dayOfWeek string
			date      *time.Time
			location  string
		}
		var days []dayColumn

		for col := firstDayCol; col <= lastDayCol; col++ {
			header := cellValue(f, col, headerRow)
			if header == "" {
				continue
			}
			dayOfWeek, date := parseDayHeader(header)
			days = append(days, dayColumn{
				col:       col,
				dayOfWeek: dayOfWeek,
				date:      date,
				location:  cellValue(f, col, locationRow),
			})
		}

		for stop := 1; stop <= stopsPerDay; stop++ {
			row := headerRow + 2 + stop

			// The stop-number cell gates the row: a row whose first column
			// does not literally hold the expected number is skipped.
			if cellValue(f, 1, row) != strconv.Itoa(stop) {
				continue
			}

			for _, day := range days {
				cell := cellValue(f, day.col, row)
				if cell == "" {
					continue
				}

				parsed, ok := parseCustomerCell(cell)
				if !ok {
					continue
				}

				customers = append(customers, models.Customer{
					Name:          parsed.name,
					Address:       parsed.address,
					AccountNumber: parsed.accountNumber,
					WeekNumber:    week.Number,
					WeekLabel:     week.Label,
					DayOfWeek:     day.dayOfWeek,
					Date:          day.date,
					Location:      day.location,
					StopNumber:    stop,
				})
			}
		}
	}

	return customers, nil
}

// parseDayHeader splits a header like "MONDAY\n01/19/2026". A header with
// fewer than two lines, or an unparseable date, yields an empty day and nil
// date rather than an error.
func parseDayHeader(value string) (string, *time.Time) {
	lines := strings.Split(value, "\n")
	if len(lines) < 2 {
		return "", nil
	}

	dayOfWeek := strings.TrimSpace(lines[0])
	date, err := time.Parse("01/02/2006", strings.TrimSpace(lines[1]))
	if err != nil {
		return "", nil
	}
	return dayOfWeek, &date
}

type customerCell struct {
	name          string
	address       string
	accountNumber string
}

// parseCustomerCell extracts name, address and account number from a
// three-or-more-line cell. Line three is scanned for an "Acct: <alnum>"
// token; no match leaves the account number empty. Cells with fewer than
// three lines are unparseable and reported as not ok.
func parseCustomerCell(value string) (customerCell, bool) {
	lines := strings.Split(strings.TrimSpace(value), "\n")
	if len(lines) < 3 {
		return customerCell{}, false
	}

	cell := customerCell{
		name:    strings.TrimSpace(lines[0]),
		address: strings.TrimSpace(lines[1]),
	}
	if m := acctPattern.FindStringSubmatch(lines[2]); m != nil {
		cell.accountNumber = m[1]
	}
	return cell, true
}

func cellValue(f *excelize.File, col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	value, err := f.GetCellValue(RoutePlanSheet, name)
	if err != nil {
		return ""
	}
	return value
}
