package repositories

import (
	"context"
	"strconv"

	"route-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	DB *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

const customerColumns = `
	id, name, COALESCE(address, ''), COALESCE(account_number, ''),
	COALESCE(week_number, 0), COALESCE(week_label, ''), COALESCE(day_of_week, ''),
	date, COALESCE(location, ''), COALESCE(stop_number, 0)
`

// ReplaceAll clears every customer (visits cascade) and inserts the new
// slots in one transaction, so a failed import never leaves a half-replaced
// route plan behind.
func (r *CustomerRepository) ReplaceAll(ctx context.Context, customers []models.Customer) (int, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM visits"); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM customers"); err != nil {
		return 0, err
	}

	rows := make([][]interface{}, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []interface{}{
			c.Name, c.Address, c.AccountNumber,
			c.WeekNumber, c.WeekLabel, c.DayOfWeek,
			c.Date, c.Location, c.StopNumber,
		})
	}

	count, err := tx.CopyFrom(ctx,
		pgx.Identifier{"customers"},
		[]string{"name", "address", "account_number", "week_number", "week_label", "day_of_week", "date", "location", "stop_number"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return int(count), nil
}

// List returns customers matching the given equality filters. Zero-valued
// filters are ignored. Rows come back in route order.
func (r *CustomerRepository) List(ctx context.Context, weekNumber int, dayOfWeek, accountNumber string) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE 1=1`
	var args []interface{}

	if weekNumber > 0 {
		args = append(args, weekNumber)
		query += ` AND week_number = $1`
	}
	if dayOfWeek != "" {
		args = append(args, dayOfWeek)
		query += ` AND day_of_week = $` + strconv.Itoa(len(args))
	}
	if accountNumber != "" {
		args = append(args, accountNumber)
		query += ` AND account_number = $` + strconv.Itoa(len(args))
	}
	// Route order: the day date stands in for column order within a week.
	query += ` ORDER BY week_number, stop_number, date NULLS LAST, id`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		c := &models.Customer{}
		if err := scanCustomer(rows, c); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) Get(ctx context.Context, id int) (*models.Customer, error) {
	c := &models.Customer{}
	row := r.DB.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	if err := scanCustomer(row, c); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// Delete removes a customer; its visits go with it via the FK cascade.
func (r *CustomerRepository) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.DB.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *CustomerRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.DB.QueryRow(ctx, "SELECT COUNT(*) FROM customers").Scan(&total)
	return total, err
}

// WeekStats aggregates visit outcomes per week for the dashboard.
func (r *CustomerRepository) WeekStats(ctx context.Context) ([]*models.WeekStats, error) {
	query := `
		SELECT
			c.week_number, COALESCE(c.week_label, ''),
			COUNT(DISTINCT c.id) AS total_customers,
			COUNT(DISTINCT c.id) FILTER (WHERE v.status IS NOT NULL AND v.status <> 'not_visited') AS visited,
			COUNT(DISTINCT c.id) FILTER (WHERE v.status = 'sale_made') AS sales,
			COUNT(DISTINCT c.id) FILTER (WHERE v.follow_up_required) AS follow_ups,
			COALESCE(SUM(v.sales_amount), 0) AS total_sales
		FROM customers c
		LEFT JOIN visits v ON v.customer_id = c.id
		GROUP BY c.week_number, c.week_label
		ORDER BY c.week_number
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*models.WeekStats
	for rows.Next() {
		s := &models.WeekStats{}
		if err := rows.Scan(&s.WeekNumber, &s.WeekLabel, &s.TotalCustomers, &s.Visited, &s.Sales, &s.FollowUps, &s.TotalSales); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func scanCustomer(row pgx.Row, c *models.Customer) error {
	return row.Scan(
		&c.ID, &c.Name, &c.Address, &c.AccountNumber,
		&c.WeekNumber, &c.WeekLabel, &c.DayOfWeek,
		&c.Date, &c.Location, &c.StopNumber,
	)
}
