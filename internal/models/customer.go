package models

import "time"

// Customer is one stop slot on the four-week route plan.
// A full re-import replaces every row, so ids are not stable across syncs.
type Customer struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	Address       string     `json:"address"`
	AccountNumber string     `json:"account_number"`
	WeekNumber    int        `json:"week_number"` // 1-4
	WeekLabel     string     `json:"week_label"`  // "WEEK 1" .. "WEEK 4"
	DayOfWeek     string     `json:"day_of_week"` // "MONDAY" .. "FRIDAY"
	Date          *time.Time `json:"date"`
	Location      string     `json:"location"`
	StopNumber    int        `json:"stop_number"` // 1-10
}

// CustomerWithVisit is a list-view row: the customer plus its most
// recently updated visit, if any.
type CustomerWithVisit struct {
	Customer
	LatestVisit *Visit `json:"latest_visit"`
}

// WeekStats is the per-week rollup used by the dashboard.
type WeekStats struct {
	WeekNumber     int     `json:"week_number"`
	WeekLabel      string  `json:"week_label"`
	TotalCustomers int     `json:"total_customers"`
	Visited        int     `json:"visited"`
	Sales          int     `json:"sales"`
	FollowUps      int     `json:"follow_ups"`
	TotalSales     float64 `json:"total_sales"`
}
