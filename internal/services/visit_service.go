package services

import (
	"context"
	"errors"
	"time"

	"route-backend/internal/models"
	"route-backend/internal/repositories"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrVisitNotFound    = errors.New("visit not found")
	ErrInvalidStatus    = errors.New("invalid visit status")
	ErrNegativeAmount   = errors.New("sales amount cannot be negative")
)

type VisitService struct {
	VisitRepo    *repositories.VisitRepository
	CustomerRepo *repositories.CustomerRepository
}

func NewVisitService(visitRepo *repositories.VisitRepository, customerRepo *repositories.CustomerRepository) *VisitService {
	return &VisitService{VisitRepo: visitRepo, CustomerRepo: customerRepo}
}

func (s *VisitService) CreateVisit(ctx context.Context, customerID int, req *models.CreateVisitRequest) (*models.Visit, error) {
	customer, err := s.CustomerRepo.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	status := req.Status
	if status == "" {
		status = models.StatusNotVisited
	}
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	if req.SalesAmount < 0 {
		return nil, ErrNegativeAmount
	}

	visit := &models.Visit{
		CustomerID:       customerID,
		Status:           status,
		VisitedAt:        req.VisitedAt,
		Notes:            req.Notes,
		SalesAmount:      req.SalesAmount,
		FollowUpRequired: req.FollowUpRequired,
		FollowUpDate:     req.FollowUpDate,
		FollowUpNotes:    req.FollowUpNotes,
	}
	stampVisitedAt(visit, nil, time.Now())

	if err := s.VisitRepo.Create(ctx, visit); err != nil {
		return nil, err
	}
	return visit, nil
}

func (s *VisitService) UpdateVisit(ctx context.Context, id int, req *models.UpdateVisitRequest) (*models.Visit, error) {
	visit, err := s.VisitRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if visit == nil {
		return nil, ErrVisitNotFound
	}

	if err := applyVisitUpdate(visit, req, time.Now()); err != nil {
		return nil, err
	}

	if err := s.VisitRepo.Update(ctx, visit); err != nil {
		return nil, err
	}
	return visit, nil
}

func (s *VisitService) ListByCustomer(ctx context.Context, customerID int) ([]*models.Visit, error) {
	return s.VisitRepo.ListByCustomer(ctx, customerID)
}

func (s *VisitService) ListAll(ctx context.Context) ([]*models.Visit, error) {
	return s.VisitRepo.List(ctx)
}

func (s *VisitService) DeleteVisit(ctx context.Context, id int) error {
	deleted, err := s.VisitRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrVisitNotFound
	}
	return nil
}

// applyVisitUpdate merges a partial update into the visit. Nil request
// fields leave the stored value alone.
func applyVisitUpdate(visit *models.Visit, req *models.UpdateVisitRequest, now time.Time) error {
	previousVisitedAt := visit.VisitedAt

	if req.Status != nil {
		if !models.ValidStatus(*req.Status) {
			return ErrInvalidStatus
		}
		visit.Status = *req.Status
	}
	if req.VisitedAt != nil {
		visit.VisitedAt = req.VisitedAt
	}
	if req.Notes != nil {
		visit.Notes = *req.Notes
	}
	if req.SalesAmount != nil {
		if *req.SalesAmount < 0 {
			return ErrNegativeAmount
		}
		visit.SalesAmount = *req.SalesAmount
	}
	if req.FollowUpRequired != nil {
		visit.FollowUpRequired = *req.FollowUpRequired
	}
	if req.FollowUpDate != nil {
		visit.FollowUpDate = req.FollowUpDate
	}
	if req.FollowUpNotes != nil {
		visit.FollowUpNotes = *req.FollowUpNotes
	}

	if req.VisitedAt == nil {
		visit.VisitedAt = previousVisitedAt
		stampVisitedAt(visit, previousVisitedAt, now)
	}
	return nil
}

// stampVisitedAt sets visited-at the first time the status moves away from
// not_visited. An already-set timestamp is never overwritten here; only an
// explicit caller-supplied value changes it.
func stampVisitedAt(visit *models.Visit, previous *time.Time, now time.Time) {
	if visit.Status != models.StatusNotVisited && previous == nil && visit.VisitedAt == nil {
		visit.VisitedAt = &now
	}
}
