package services

import (
	"context"

	"github.com/CyberKyoujin/rosenblum-website-sub000/internal/client/models"
)

type OrderAPI interface {
	CreateOrder(ctx context.Context, form models.OrderForm) (*models.Order, error)
	Orders(ctx context.Context, p models.ListParams) (*models.Page[models.Order], error)
}

// OrderService is the customer side of orders.
//
// Contract:
//   - Create: submit the form with its documents, then reload the list.
//   - List: the signed-in customer's orders.
type OrderService interface {
	Create(ctx context.Context, form models.OrderForm) (*models.Order, []models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
}

type orderService struct {
	api OrderAPI
}

func NewOrderService(api OrderAPI) OrderService {
	return &orderService{api: api}
}

// Create returns the new order and the refreshed list. A failure of the
// reload is reported with the created order still set.
func (s *orderService) Create(ctx context.Context, form models.OrderForm) (*models.Order, []models.Order, error) {
	if form.Name == "" || form.Email == "" {
		return nil, nil, ErrOrderIncomplete
	}
	order, err := s.api.CreateOrder(ctx, form)
	if err != nil {
		return nil, nil, normalized(err)
	}
	orders, err := s.List(ctx)
	return order, orders, err
}

func (s *orderService) List(ctx context.Context) ([]models.Order, error) {
	page, err := s.api.Orders(ctx, models.ListParams{})
	if err != nil {
		return nil, normalized(err)
	}
	return page.Results, nil
}
