package cart

import (
	"time"
)

// Service orchestrates cart operations. Stock checks here are advisory, the
// checkout transaction re-validates against live stock before committing.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// LoadSnapshot returns the user's cart joined with current price and stock,
// most recently added first. An empty cart yields an empty slice, not an
// error: callers treat it as "nothing to checkout".
func (s *Service) LoadSnapshot(userID int) ([]Line, error) {
	if userID <= 0 {
		return nil, ErrLineNotFound
	}
	return s.repo.LoadSnapshot(userID)
}

func (s *Service) Add(userID, productID, qty int) ([]Line, error) {
	if userID <= 0 || productID <= 0 || qty <= 0 {
		return nil, ErrLineNotFound
	}
	now := time.Now().UTC().Format(time.RFC3339)
	return s.repo.Add(userID, productID, qty, now)
}

// UpdateQuantity sets a line to an exact quantity. Zero or negative removes
// the line; a quantity above the live stock is rejected with the available
// count so the user can adjust.
func (s *Service) UpdateQuantity(userID, cartID, qty int) ([]Line, error) {
	if qty <= 0 {
		if err := s.repo.Remove(userID, cartID); err != nil {
			return nil, err
		}
		return s.repo.LoadSnapshot(userID)
	}

	lines, err := s.repo.LoadSnapshot(userID)
	if err != nil {
		return nil, err
	}
	found := false
	for _, l := range lines {
		if l.CartID == cartID {
			found = true
			if qty > l.Stock {
				return nil, &StockError{Available: l.Stock}
			}
			break
		}
	}
	if !found {
		return nil, ErrLineNotFound
	}

	if err := s.repo.UpdateQuantity(userID, cartID, qty); err != nil {
		return nil, err
	}
	return s.repo.LoadSnapshot(userID)
}

func (s *Service) Remove(userID, cartID int) ([]Line, error) {
	if err := s.repo.Remove(userID, cartID); err != nil {
		return nil, err
	}
	return s.repo.LoadSnapshot(userID)
}

func (s *Service) Clear(userID int) error {
	return s.repo.Clear(userID)
}

// Total sums the cart for the pre-checkout summary view.
func (s *Service) Total(userID int) (float64, error) {
	lines, err := s.repo.LoadSnapshot(userID)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total, nil
}
