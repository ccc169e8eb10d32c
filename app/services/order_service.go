package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/bloomcart/bloomcart/app/export"
	"github.com/bloomcart/bloomcart/app/models"
	"github.com/bloomcart/bloomcart/app/repositories"
	"github.com/bloomcart/bloomcart/pkg/event"
	"github.com/bloomcart/bloomcart/pkg/metrics"
	"github.com/bloomcart/bloomcart/pkg/validate"
)

// EventOrderPlaced is fired after an order is committed. The payload is
// the persisted models.Order.
const EventOrderPlaced = "order.placed"

// ItemInput is one selected flower with its requested quantity.
type ItemInput struct {
	FlowerID uint `json:"flower_id"`
	Quantity int  `json:"quantity"`
}

// PlaceOrderInput is the checkout form payload.
type PlaceOrderInput struct {
	Recipient string      `json:"recipient" validate:"required,max=100"`
	Address   string      `json:"address" validate:"required,max=200"`
	Message   string      `json:"message" validate:"nullable,max=500"`
	Items     []ItemInput `json:"items"`
}

// OwnedOrder pairs an order with its 1-based display number within the
// owner's history. The number is derived, never persisted.
type OwnedOrder struct {
	Number int
	Order  models.Order
}

// OrderService owns the order lifecycle: a single transition from
// nothing to placed, then read-only projections.
type OrderService struct {
	orders  *repositories.OrderRepository
	flowers *repositories.FlowerRepository
}

func NewOrderService() *OrderService {
	return &OrderService{
		orders:  repositories.NewOrderRepository(),
		flowers: repositories.NewFlowerRepository(),
	}
}

// Place validates and persists a purchase request for userID. The caller
// must already be authenticated; the route guard guarantees that, this
// method only ties the rows to the owner. Order and items are written in
// one transaction.
func (s *OrderService) Place(userID uint, in PlaceOrderInput) (models.Order, error) {
	if userID == 0 {
		return models.Order{}, ErrForbidden
	}

	errs := validate.Struct(&in)
	if len(in.Items) == 0 {
		errs["items"] = "Select at least one flower."
	}
	if len(errs) > 0 {
		return models.Order{}, NewValidationError(errs)
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	for i, item := range in.Items {
		if item.Quantity < 1 {
			return models.Order{}, FieldError("items", "Each selected flower needs a quantity of at least 1.")
		}

		flower, err := s.flowers.FindByID(item.FlowerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Order{}, FieldError("items", fmt.Sprintf("Unknown flower id %d.", item.FlowerID))
			}
			return models.Order{}, fmt.Errorf("order: flower lookup: %w", err)
		}

		items = append(items, models.OrderItem{
			FlowerID:   flower.ID,
			FlowerName: flower.Name,
			Quantity:   item.Quantity,
			Position:   i + 1,
		})
	}

	order := models.Order{
		Recipient: strings.TrimSpace(in.Recipient),
		Address:   strings.TrimSpace(in.Address),
		Message:   strings.TrimSpace(in.Message),
		UserID:    userID,
		Items:     items,
	}
	if err := s.orders.Create(&order); err != nil {
		return models.Order{}, fmt.Errorf("order: create: %w", err)
	}

	metrics.OrdersPlaced.Inc()
	event.Fire(EventOrderPlaced, order)

	return order, nil
}

// ListByOwner returns userID's orders in creation order with their
// display numbers.
func (s *OrderService) ListByOwner(userID uint) ([]OwnedOrder, error) {
	orders, err := s.orders.ByOwner(userID)
	if err != nil {
		return nil, fmt.Errorf("order: list: %w", err)
	}

	owned := make([]OwnedOrder, len(orders))
	for i, order := range orders {
		owned[i] = OwnedOrder{Number: i + 1, Order: order}
	}
	return owned, nil
}

// Document loads an order for export, enforcing ownership. Unknown ids
// return ErrNotFound; an owner mismatch returns ErrForbidden with no
// order data attached.
func (s *OrderService) Document(orderID, userID uint) (export.Document, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return export.Document{}, ErrNotFound
		}
		return export.Document{}, fmt.Errorf("order: lookup: %w", err)
	}

	if order.UserID != userID {
		return export.Document{}, ErrForbidden
	}

	number, err := s.displayNumber(userID, orderID)
	if err != nil {
		return export.Document{}, err
	}

	return export.Document{
		Number:    number,
		OrderID:   order.ID,
		Recipient: order.Recipient,
		Address:   order.Address,
		Selection: order.Selection(),
		Message:   order.Message,
	}, nil
}

func (s *OrderService) displayNumber(userID, orderID uint) (int, error) {
	owned, err := s.ListByOwner(userID)
	if err != nil {
		return 0, err
	}
	for _, o := range owned {
		if o.Order.ID == orderID {
			return o.Number, nil
		}
	}
	return 0, ErrNotFound
}
