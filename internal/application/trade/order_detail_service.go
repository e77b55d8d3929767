package trade

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/trade"
)

// LineItemService handles the product lines of orders
type LineItemService struct {
	lineItemRepo trade.OrderLineItemRepository
	orderRepo    trade.OrderRepository
}

// NewLineItemService creates a new LineItemService
func NewLineItemService(lineItemRepo trade.OrderLineItemRepository, orderRepo trade.OrderRepository) *LineItemService {
	return &LineItemService{
		lineItemRepo: lineItemRepo,
		orderRepo:    orderRepo,
	}
}

// Create adds a line item to an existing order
func (s *LineItemService) Create(ctx context.Context, req LineItemRequest) (*LineItemResponse, error) {
	if err := ensureOrder(ctx, s.orderRepo, req.OrderID); err != nil {
		return nil, err
	}

	item, err := trade.NewOrderLineItem(req.details())
	if err != nil {
		return nil, err
	}
	if err := s.lineItemRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	response := ToLineItemResponse(item)
	return &response, nil
}

// GetByID retrieves a line item by ID
func (s *LineItemService) GetByID(ctx context.Context, id int64) (*LineItemResponse, error) {
	item, err := s.lineItemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToLineItemResponse(item)
	return &response, nil
}

// List retrieves line items, optionally of one order
func (s *LineItemService) List(ctx context.Context, filter OrderChildFilter) ([]LineItemResponse, int64, error) {
	domainFilter := filter.domainFilter()

	items, err := s.lineItemRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.lineItemRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]LineItemResponse, len(items))
	for i := range items {
		responses[i] = ToLineItemResponse(&items[i])
	}
	return responses, total, nil
}

// Update replaces a line item
func (s *LineItemService) Update(ctx context.Context, id int64, req LineItemRequest) error {
	item, err := s.lineItemRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if req.OrderID != item.OrderID {
		if err := ensureOrder(ctx, s.orderRepo, req.OrderID); err != nil {
			return err
		}
	}

	if err := item.Update(req.details()); err != nil {
		return err
	}
	return s.lineItemRepo.Save(ctx, item)
}

// Delete deletes a line item
func (s *LineItemService) Delete(ctx context.Context, id int64) error {
	return s.lineItemRepo.Delete(ctx, id)
}

// StatusEventService handles the status history of orders
type StatusEventService struct {
	eventRepo trade.OrderStatusEventRepository
	orderRepo trade.OrderRepository
}

// NewStatusEventService creates a new StatusEventService
func NewStatusEventService(eventRepo trade.OrderStatusEventRepository, orderRepo trade.OrderRepository) *StatusEventService {
	return &StatusEventService{
		eventRepo: eventRepo,
		orderRepo: orderRepo,
	}
}

// Create appends a status event to an existing order
func (s *StatusEventService) Create(ctx context.Context, req StatusEventRequest) (*StatusEventResponse, error) {
	if err := ensureOrder(ctx, s.orderRepo, req.OrderID); err != nil {
		return nil, err
	}

	event, err := trade.NewOrderStatusEvent(req.details())
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, err
	}

	response := ToStatusEventResponse(event)
	return &response, nil
}

// GetByID retrieves a status event by ID
func (s *StatusEventService) GetByID(ctx context.Context, id int64) (*StatusEventResponse, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToStatusEventResponse(event)
	return &response, nil
}

// List retrieves status events, optionally of one order
func (s *StatusEventService) List(ctx context.Context, filter OrderChildFilter) ([]StatusEventResponse, int64, error) {
	domainFilter := filter.domainFilter()

	events, err := s.eventRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.eventRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]StatusEventResponse, len(events))
	for i := range events {
		responses[i] = ToStatusEventResponse(&events[i])
	}
	return responses, total, nil
}

// Update replaces a status event
func (s *StatusEventService) Update(ctx context.Context, id int64, req StatusEventRequest) error {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if req.OrderID != event.OrderID {
		if err := ensureOrder(ctx, s.orderRepo, req.OrderID); err != nil {
			return err
		}
	}

	if err := event.Update(req.details()); err != nil {
		return err
	}
	return s.eventRepo.Save(ctx, event)
}

// Delete deletes a status event
func (s *StatusEventService) Delete(ctx context.Context, id int64) error {
	return s.eventRepo.Delete(ctx, id)
}

func ensureOrder(ctx context.Context, orderRepo trade.OrderRepository, orderID int64) error {
	if _, err := orderRepo.FindByID(ctx, orderID); err != nil {
		return shared.NotFoundAs(err, "Order", orderID)
	}
	return nil
}
