package models

import "time"

// Visit status values.
const (
	StatusNotVisited       = "not_visited"
	StatusNoContact        = "no_contact"
	StatusContactMade      = "contact_made"
	StatusSaleMade         = "sale_made"
	StatusFollowUpRequired = "follow_up_required"
)

// ValidStatus reports whether s is one of the recognized visit statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusNotVisited, StatusNoContact, StatusContactMade, StatusSaleMade, StatusFollowUpRequired:
		return true
	}
	return false
}

// Visit is one recorded outcome against a customer slot.
// Rows are deleted with their customer (FK cascade) and on full re-import.
type Visit struct {
	ID               int        `json:"id"`
	CustomerID       int        `json:"customer_id"`
	Status           string     `json:"status"`
	VisitedAt        *time.Time `json:"visited_at"`
	Notes            string     `json:"notes"`
	SalesAmount      float64    `json:"sales_amount"`
	FollowUpRequired bool       `json:"follow_up_required"`
	FollowUpDate     *time.Time `json:"follow_up_date"`
	FollowUpNotes    string     `json:"follow_up_notes"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CreateVisitRequest creates a visit for a customer slot.
type CreateVisitRequest struct {
	Status           string     `json:"status"`
	VisitedAt        *time.Time `json:"visited_at"`
	Notes            string     `json:"notes"`
	SalesAmount      float64    `json:"sales_amount"`
	FollowUpRequired bool       `json:"follow_up_required"`
	FollowUpDate     *time.Time `json:"follow_up_date"`
	FollowUpNotes    string     `json:"follow_up_notes"`
}

// UpdateVisitRequest carries a partial update; nil fields are left alone.
type UpdateVisitRequest struct {
	Status           *string    `json:"status"`
	VisitedAt        *time.Time `json:"visited_at"`
	Notes            *string    `json:"notes"`
	SalesAmount      *float64   `json:"sales_amount"`
	FollowUpRequired *bool      `json:"follow_up_required"`
	FollowUpDate     *time.Time `json:"follow_up_date"`
	FollowUpNotes    *string    `json:"follow_up_notes"`
}
