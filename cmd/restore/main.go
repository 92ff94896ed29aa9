package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/xuri/excelize/v2"
)

// Rebuilds the customers and visits tables from a tracking backup workbook
// (the file served by /api/sync/download). Meant for disaster recovery;
// wipes existing rows first.

const trackingSheet = "Visit Tracking"

func main() {
	file := flag.String("file", "", "Path to the tracking backup .xlsx")
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres connection string")
	flag.Parse()

	if *file == "" {
		fmt.Println("Usage: restore -file Route_Tracking_Backup_YYYY-MM-DD.xlsx [-dsn postgres://...]")
		return
	}
	if *dsn == "" {
		fmt.Println("No DSN given: set DATABASE_URL or pass -dsn")
		return
	}

	f, err := excelize.OpenFile(*file)
	if err != nil {
		fmt.Printf("Error opening workbook: %v\n", err)
		return
	}
	defer f.Close()

	rows, err := f.GetRows(trackingSheet)
	if err != nil {
		fmt.Printf("Error reading sheet %q: %v\n", trackingSheet, err)
		return
	}
	if len(rows) < 2 {
		fmt.Println("Workbook has no data rows")
		return
	}

	db, err := sql.Open("postgres", *dsn)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		return
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		fmt.Printf("Error starting transaction: %v\n", err)
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM visits"); err != nil {
		fmt.Printf("Error clearing visits: %v\n", err)
		return
	}
	if _, err := tx.Exec("DELETE FROM customers"); err != nil {
		fmt.Printf("Error clearing customers: %v\n", err)
		return
	}

	customers := 0
	visits := 0
	for i, row := range rows[1:] {
		// Pad short rows; trailing empty cells are dropped by GetRows
		for len(row) < 14 {
			row = append(row, "")
		}

		weekLabel := row[0]
		weekNumber := parseWeekNumber(weekLabel)
		date := parseDate(row[2], "01/02/2006")
		stopNumber, _ := strconv.Atoi(row[4])

		var customerID int
		err := tx.QueryRow(`
			INSERT INTO customers (name, address, account_number, week_number, week_label, day_of_week, date, location, stop_number)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id`,
			row[5], row[7], row[6], weekNumber, weekLabel, row[1], date, row[3], stopNumber,
		).Scan(&customerID)
		if err != nil {
			fmt.Printf("Error inserting customer at row %d: %v\n", i+2, err)
			return
		}
		customers++

		status := row[8]
		if status == "" || status == "not_visited" {
			continue
		}

		salesAmount, _ := strconv.ParseFloat(row[10], 64)
		followUpRequired := strings.EqualFold(row[12], "true")

		_, err = tx.Exec(`
			INSERT INTO visits (customer_id, status, visited_at, notes, sales_amount, follow_up_required, follow_up_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			customerID, status, parseDate(row[9], time.RFC3339), row[11], salesAmount, followUpRequired, parseDate(row[13], time.RFC3339),
		)
		if err != nil {
			fmt.Printf("Error inserting visit at row %d: %v\n", i+2, err)
			return
		}
		visits++
	}

	if err := tx.Commit(); err != nil {
		fmt.Printf("Error committing: %v\n", err)
		return
	}

	fmt.Printf("Restored %d customers and %d visits from %s\n", customers, visits, *file)
}

// parseWeekNumber extracts n from a "WEEK n" label.
func parseWeekNumber(label string) int {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return 0
	}
	n, _ := strconv.Atoi(fields[len(fields)-1])
	return n
}

func parseDate(value, layout string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return nil
	}
	return &t
}
