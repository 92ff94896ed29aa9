package services

import (
	"context"

	"route-backend/internal/models"
	"route-backend/internal/repositories"
)

type CustomerService struct {
	CustomerRepo *repositories.CustomerRepository
	VisitRepo    *repositories.VisitRepository
}

func NewCustomerService(customerRepo *repositories.CustomerRepository, visitRepo *repositories.VisitRepository) *CustomerService {
	return &CustomerService{CustomerRepo: customerRepo, VisitRepo: visitRepo}
}

// List returns customers matching the filters, each with its latest visit
// attached for the dashboard views.
func (s *CustomerService) List(ctx context.Context, weekNumber int, dayOfWeek, accountNumber string) ([]*models.CustomerWithVisit, error) {
	customers, err := s.CustomerRepo.List(ctx, weekNumber, dayOfWeek, accountNumber)
	if err != nil {
		return nil, err
	}

	result := make([]*models.CustomerWithVisit, 0, len(customers))
	for _, c := range customers {
		latest, err := s.VisitRepo.Latest(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, &models.CustomerWithVisit{Customer: *c, LatestVisit: latest})
	}
	return result, nil
}

func (s *CustomerService) Get(ctx context.Context, id int) (*models.CustomerWithVisit, error) {
	customer, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	latest, err := s.VisitRepo.Latest(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.CustomerWithVisit{Customer: *customer, LatestVisit: latest}, nil
}

// Delete removes a customer and, via cascade, its visit records.
func (s *CustomerService) Delete(ctx context.Context, id int) error {
	deleted, err := s.CustomerRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCustomerNotFound
	}
	return nil
}

func (s *CustomerService) WeekStats(ctx context.Context) ([]*models.WeekStats, error) {
	return s.CustomerRepo.WeekStats(ctx)
}
