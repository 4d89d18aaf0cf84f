package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/liadelivery/backend/internal/domain"
)

// OrderServiceConfig holds configuration for order submission
type OrderServiceConfig struct {
	CodStore           string
	DryRun             bool
	EnableDebugLogging bool
}

// OrderRequest carries everything needed to submit a validated order.
type OrderRequest struct {
	OrderID      string
	CustomerName string
	Phone        string
	DeliveryType string
	Items        []domain.ValidatedItem
	DeliveryFee  float64
	Discount     float64
}

// OrderService converts validated items into the POS payload and submits it.
type OrderService struct {
	pos    domain.POSClient
	config OrderServiceConfig
}

// NewOrderService creates a new order submission service
func NewOrderService(pos domain.POSClient, config OrderServiceConfig) *OrderService {
	return &OrderService{pos: pos, config: config}
}

// Submit builds the POS order payload from validated items and sends it. In
// dry-run mode the payload is built and logged but never leaves the process.
func (s *OrderService) Submit(ctx context.Context, req OrderRequest) (*domain.POSOrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, domain.ErrInvalidOrder
	}

	order := s.buildOrder(req)

	if s.config.DryRun {
		log.Printf("[ORDER] dry run: order %s with %d item(s), total %.2f",
			order.OrderID, len(order.Items), order.Total)
		return &domain.POSOrderResponse{OrderID: order.OrderID, Status: "dry_run"}, nil
	}

	resp, err := s.pos.SendOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("submitting order %s: %w", order.OrderID, err)
	}

	if s.config.EnableDebugLogging {
		log.Printf("[ORDER] submitted %s: status=%s", order.OrderID, resp.Status)
	}
	return resp, nil
}

// Cancel cancels a previously submitted order at the POS.
func (s *OrderService) Cancel(ctx context.Context, orderID string) error {
	if err := s.pos.CancelOrder(ctx, s.config.CodStore, orderID); err != nil {
		return fmt.Errorf("cancelling order %s: %w", orderID, err)
	}
	return nil
}

func (s *OrderService) buildOrder(req OrderRequest) *domain.POSOrder {
	items := make([]domain.POSOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		additions := make([]domain.POSOrderAddition, 0, len(item.Additions))
		for _, add := range item.Additions {
			additions = append(additions, domain.POSOrderAddition{
				PDV:         add.PDV,
				Description: add.DisplayName,
				Quantity:    float64(add.Quantity),
				UnitPrice:   add.UnitPrice,
			})
		}
		items = append(items, domain.POSOrderItem{
			PDV:         item.PDV,
			Description: item.DisplayName,
			Quantity:    float64(item.Quantity),
			UnitPrice:   item.UnitPrice,
			Note:        item.Observations,
			Additions:   additions,
		})
	}

	return &domain.POSOrder{
		OrderID:      req.OrderID,
		CodStore:     s.config.CodStore,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		DeliveryType: req.DeliveryType,
		Items:        items,
		DeliveryFee:  req.DeliveryFee,
		Discount:     req.Discount,
		Total:        OrderTotal(req.Items, req.DeliveryFee, req.Discount),
	}
}

// OrderTotal computes the order total: per item, unit price times quantity
// plus each addition's price times its quantity times the item quantity,
// plus the delivery fee, minus the discount.
func OrderTotal(items []domain.ValidatedItem, deliveryFee, discount float64) float64 {
	total := 0.0
	for _, item := range items {
		qty := float64(item.Quantity)
		itemTotal := item.UnitPrice * qty
		for _, add := range item.Additions {
			itemTotal += add.UnitPrice * float64(add.Quantity) * qty
		}
		total += itemTotal
	}
	return total + deliveryFee - discount
}
