package product

type Service struct {
	repo Repository
}

// ServiceInterface lets other packages depend on the product service
// without importing the concrete type.
type ServiceInterface interface {
	List() ([]Product, error)
	GetByID(id int) (Product, error)
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() ([]Product, error) {
	return s.repo.List()
}

func (s *Service) GetByID(id int) (Product, error) {
	return s.repo.GetByID(id)
}
