package application

import (
	"fmt"
	"sync"

	"github.com/abdidvp/flooring/internal/domain"
	"github.com/shopspring/decimal"
)

// OrderKey addresses one order.
type OrderKey struct {
	Date        domain.OrderDate
	OrderNumber int
}

// AddOrderRequest carries the caller-supplied fields of a new order.
type AddOrderRequest struct {
	Date         domain.OrderDate
	CustomerName string
	State        string
	ProductType  string
	Area         decimal.Decimal
}

// EditOrderRequest carries the optional field changes for one order.
type EditOrderRequest struct {
	OrderKey
	Edits domain.OrderEdits
}

// OrderService sequences every repository mutation with the matching audit
// call. A repository failure skips the audit step. An audit failure is
// returned as-is and the in-memory mutation stands.
//
// A per-date lock is held from the repository call through the audit call,
// so mutations of one date reach the file in the order memory saw them.
type OrderService struct {
	repo  domain.OrderRepository
	audit domain.AuditLog

	mu    sync.Mutex
	dates map[domain.OrderDate]*sync.Mutex
}

// NewOrderService creates a new OrderService with all required dependencies.
func NewOrderService(repo domain.OrderRepository, audit domain.AuditLog) *OrderService {
	return &OrderService{
		repo:  repo,
		audit: audit,
		dates: make(map[domain.OrderDate]*sync.Mutex),
	}
}

// lock acquires the mutex for date and returns its release.
func (s *OrderService) lock(date domain.OrderDate) func() {
	s.mu.Lock()
	m, ok := s.dates[date]
	if !ok {
		m = &sync.Mutex{}
		s.dates[date] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// ListOrders returns the date's orders in insertion order.
func (s *OrderService) ListOrders(date domain.OrderDate) []domain.Order {
	return s.repo.ListOrders(date)
}

func (s *OrderService) GetOrder(key OrderKey) (domain.Order, error) {
	return s.repo.GetOrder(key.Date, key.OrderNumber)
}

// AddOrder creates, prices and records a new order.
func (s *OrderService) AddOrder(req AddOrderRequest) (domain.Order, error) {
	defer s.lock(req.Date)()

	order, err := s.repo.AddOrder(req.Date, req.CustomerName, req.State, req.ProductType, req.Area)
	if err != nil {
		return domain.Order{}, fmt.Errorf("adding order: %w", err)
	}
	if err := s.audit.RecordAdd(req.Date, order); err != nil {
		return order, fmt.Errorf("recording order %d: %w", order.OrderNumber, err)
	}
	return order, nil
}

// EditAnOrder applies the edits, reprices the order and rewrites its audit line.
func (s *OrderService) EditAnOrder(req EditOrderRequest) (domain.Order, error) {
	defer s.lock(req.Date)()

	order, err := s.repo.EditAnOrder(req.Date, req.OrderNumber, req.Edits)
	if err != nil {
		return domain.Order{}, fmt.Errorf("editing order %d: %w", req.OrderNumber, err)
	}
	if err := s.audit.RecordEdit(req.Date, order); err != nil {
		return order, fmt.Errorf("recording edit of order %d: %w", order.OrderNumber, err)
	}
	return order, nil
}

// RemoveOrder deletes an order and drops its audit line.
func (s *OrderService) RemoveOrder(key OrderKey) (domain.Order, error) {
	defer s.lock(key.Date)()

	order, err := s.repo.RemoveOrder(key.Date, key.OrderNumber)
	if err != nil {
		return domain.Order{}, fmt.Errorf("removing order %d: %w", key.OrderNumber, err)
	}
	if err := s.audit.RecordRemove(key.Date, key.OrderNumber); err != nil {
		return order, fmt.Errorf("recording removal of order %d: %w", key.OrderNumber, err)
	}
	return order, nil
}

// ExportAll rebuilds the export snapshot from the audit files alone.
func (s *OrderService) ExportAll() error {
	if err := s.audit.Export(); err != nil {
		return fmt.Errorf("exporting orders: %w", err)
	}
	return nil
}

// Restore seeds the repository from the audit files and returns how many
// orders were loaded. Numbering resumes after the persisted high-water mark,
// so numbers of removed orders are not issued again.
func (s *OrderService) Restore() (int, error) {
	buckets, err := s.audit.Load()
	if err != nil {
		return 0, fmt.Errorf("loading audit files: %w", err)
	}
	next, err := s.audit.NextOrderNumber()
	if err != nil {
		return 0, fmt.Errorf("loading order number mark: %w", err)
	}
	if err := s.repo.Restore(buckets, next); err != nil {
		return 0, fmt.Errorf("restoring orders: %w", err)
	}
	n := 0
	for _, orders := range buckets {
		n += len(orders)
	}
	return n, nil
}
