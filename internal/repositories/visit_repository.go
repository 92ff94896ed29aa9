package repositories

import (
	"context"

	"route-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VisitRepository struct {
	DB *pgxpool.Pool
}

func NewVisitRepository(db *pgxpool.Pool) *VisitRepository {
	return &VisitRepository{DB: db}
}

const visitColumns = `
	id, customer_id, status, visited_at, COALESCE(notes, ''), sales_amount,
	follow_up_required, follow_up_date, COALESCE(follow_up_notes, ''),
	created_at, updated_at
`

func (r *VisitRepository) Create(ctx context.Context, visit *models.Visit) error {
	query := `
		INSERT INTO visits (customer_id, status, visited_at, notes, sales_amount,
			follow_up_required, follow_up_date, follow_up_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRow(ctx, query,
		visit.CustomerID,
		visit.Status,
		visit.VisitedAt,
		visit.Notes,
		visit.SalesAmount,
		visit.FollowUpRequired,
		visit.FollowUpDate,
		visit.FollowUpNotes,
	).Scan(&visit.ID, &visit.CreatedAt, &visit.UpdatedAt)
}

func (r *VisitRepository) Update(ctx context.Context, visit *models.Visit) error {
	query := `
		UPDATE visits
		SET status = $1, visited_at = $2, notes = $3, sales_amount = $4,
			follow_up_required = $5, follow_up_date = $6, follow_up_notes = $7
		WHERE id = $8
		RETURNING updated_at
	`

	return r.DB.QueryRow(ctx, query,
		visit.Status,
		visit.VisitedAt,
		visit.Notes,
		visit.SalesAmount,
		visit.FollowUpRequired,
		visit.FollowUpDate,
		visit.FollowUpNotes,
		visit.ID,
	).Scan(&visit.UpdatedAt)
}

func (r *VisitRepository) Get(ctx context.Context, id int) (*models.Visit, error) {
	v := &models.Visit{}
	row := r.DB.QueryRow(ctx, `SELECT `+visitColumns+` FROM visits WHERE id = $1`, id)
	if err := scanVisit(row, v); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

func (r *VisitRepository) ListByCustomer(ctx context.Context, customerID int) ([]*models.Visit, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+visitColumns+` FROM visits WHERE customer_id = $1 ORDER BY updated_at DESC`,
		customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visits []*models.Visit
	for rows.Next() {
		v := &models.Visit{}
		if err := scanVisit(rows, v); err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// List returns every visit, newest first.
func (r *VisitRepository) List(ctx context.Context) ([]*models.Visit, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+visitColumns+` FROM visits ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visits []*models.Visit
	for rows.Next() {
		v := &models.Visit{}
		if err := scanVisit(rows, v); err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

func (r *VisitRepository) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.DB.Exec(ctx, "DELETE FROM visits WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Latest returns the most recently updated visit for a customer, or nil.
func (r *VisitRepository) Latest(ctx context.Context, customerID int) (*models.Visit, error) {
	v := &models.Visit{}
	row := r.DB.QueryRow(ctx,
		`SELECT `+visitColumns+` FROM visits WHERE customer_id = $1 ORDER BY updated_at DESC LIMIT 1`,
		customerID)
	if err := scanVisit(row, v); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

func (r *VisitRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.DB.QueryRow(ctx, "SELECT COUNT(*) FROM visits").Scan(&total)
	return total, err
}

func scanVisit(row pgx.Row, v *models.Visit) error {
	return row.Scan(
		&v.ID, &v.CustomerID, &v.Status, &v.VisitedAt, &v.Notes, &v.SalesAmount,
		&v.FollowUpRequired, &v.FollowUpDate, &v.FollowUpNotes,
		&v.CreatedAt, &v.UpdatedAt,
	)
}
