package trade

import (
	"context"
	"fmt"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/trade"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// TierRecomputer refreshes the tier of a customer from its order totals
type TierRecomputer interface {
	RecomputeTier(ctx context.Context, customerID int64) error
}

// OrderService handles order operations and keeps customer tiers in step
// with order totals
type OrderService struct {
	orderRepo    trade.OrderRepository
	customerRepo partner.CustomerRepository
	tiers        TierRecomputer
	logger       *zap.Logger
	metrics      *telemetry.BusinessMetrics
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	customerRepo partner.CustomerRepository,
	tiers TierRecomputer,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		tiers:        tiers,
		logger:       logger,
	}
}

// SetBusinessMetrics enables counting of created orders.
func (s *OrderService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// Create creates an order and recomputes the tier of its customer
func (s *OrderService) Create(ctx context.Context, req OrderRequest) (*OrderResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, shared.NotFoundAs(err, "Customer", req.CustomerID)
	}

	order, err := trade.NewOrder(req.details())
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	if err := s.tiers.RecomputeTier(ctx, order.CustomerID); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated(ctx)
	}
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("customer_id", order.CustomerID),
		zap.String("total_amount", order.TotalAmount.String()))

	response := ToOrderResponse(order, customer.Name)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, id int64) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	names, err := partner.LoadNameIndex(ctx, s.customerRepo, []int64{order.CustomerID})
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(order, names.Name(order.CustomerID))
	return &response, nil
}

// List retrieves orders with their customer names
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := buildFilter(filter.Search, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
	if filter.CustomerID > 0 {
		domainFilter.Filters["customer_id"] = filter.CustomerID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	names, err := s.customerNames(ctx, orders)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i], names.Name(orders[i].CustomerID))
	}
	return responses, total, nil
}

// Update replaces an order. Both the previous and the current customer get
// their tier recomputed when the order moves between customers.
func (s *OrderService) Update(ctx context.Context, id int64, req OrderRequest) error {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	previousCustomerID := order.CustomerID
	if req.CustomerID != previousCustomerID {
		if _, err := s.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
			return shared.NotFoundAs(err, "Customer", req.CustomerID)
		}
	}

	if err := order.Update(req.details()); err != nil {
		return err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return err
	}

	if err := s.tiers.RecomputeTier(ctx, order.CustomerID); err != nil {
		return err
	}
	if previousCustomerID != order.CustomerID {
		if err := s.tiers.RecomputeTier(ctx, previousCustomerID); err != nil {
			return err
		}
	}

	s.logger.Info("Order updated",
		zap.Int64("order_id", order.ID),
		zap.Int64("customer_id", order.CustomerID))
	return nil
}

// Delete deletes an order and recomputes the tier of the customer it belonged to
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	customerID := order.CustomerID

	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.tiers.RecomputeTier(ctx, customerID); err != nil {
		return err
	}

	s.logger.Info("Order deleted",
		zap.Int64("order_id", id),
		zap.Int64("customer_id", customerID))
	return nil
}

// Dropdown returns every order labelled "DH001-Customer name"
func (s *OrderService) Dropdown(ctx context.Context) ([]DropdownItem, error) {
	orders, err := s.orderRepo.FindAll(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}

	names, err := s.customerNames(ctx, orders)
	if err != nil {
		return nil, err
	}

	items := make([]DropdownItem, len(orders))
	for i := range orders {
		items[i] = DropdownItem{
			ID:    orders[i].ID,
			Label: fmt.Sprintf("%s-%s", orders[i].Code(), names.Name(orders[i].CustomerID)),
		}
	}
	return items, nil
}

func (s *OrderService) customerNames(ctx context.Context, orders []trade.Order) (partner.NameIndex, error) {
	ids := make([]int64, len(orders))
	for i := range orders {
		ids[i] = orders[i].CustomerID
	}
	return partner.LoadNameIndex(ctx, s.customerRepo, ids)
}
