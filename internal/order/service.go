package order

import "errors"

// Service provides the read side for orders.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) ListByUser(userID int) ([]Order, error) {
	if userID <= 0 {
		return nil, errors.New("invalid user")
	}
	return s.repo.ListByUser(userID)
}

// GetForUser loads one order and hides other users' orders behind the same
// not-found error.
func (s *Service) GetForUser(userID, orderID int) (Order, error) {
	ord, err := s.repo.GetByID(orderID)
	if err != nil {
		return Order{}, err
	}
	if ord.UserID != userID {
		return Order{}, ErrNotFound
	}
	return ord, nil
}
