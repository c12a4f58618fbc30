// Package memory holds orders in process memory, bucketed by order date.
package memory

import (
	"fmt"
	"sync"

	"github.com/abdidvp/flooring/internal/domain"
	"github.com/shopspring/decimal"
)

// Store implements domain.OrderRepository. A single mutex covers every
// bucket and the order-number counter, so number assignment and the bucket
// splice happen in one critical section.
type Store struct {
	pricer *domain.Pricer

	mu      sync.RWMutex
	buckets map[domain.OrderDate][]domain.Order
	next    int
}

// New creates an empty store whose first order is number 1.
func New(pricer *domain.Pricer) *Store {
	return &Store{
		pricer:  pricer,
		buckets: make(map[domain.OrderDate][]domain.Order),
		next:    1,
	}
}

// AddOrder prices a new order and appends it to the date's bucket. The
// counter only advances when the order was created.
func (s *Store) AddOrder(date domain.OrderDate, customerName, state, productType string, area decimal.Decimal) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := domain.NewOrder(s.next, customerName, state, productType, area, s.pricer)
	if err != nil {
		return domain.Order{}, err
	}
	s.buckets[date] = append(s.buckets[date], order)
	s.next++
	return order, nil
}

// EditAnOrder applies edits and reprices the order even when only the name
// changed, so the stored costs follow the current reference tables. The
// stored order is replaced only when validation and pricing succeed.
func (s *Store) EditAnOrder(date domain.OrderDate, orderNumber int, edits domain.OrderEdits) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexOf(date, orderNumber)
	if err != nil {
		return domain.Order{}, err
	}

	updated := edits.Apply(s.buckets[date][i])
	if err := updated.Validate(); err != nil {
		return domain.Order{}, err
	}
	if err := updated.Reprice(s.pricer); err != nil {
		return domain.Order{}, err
	}
	s.buckets[date][i] = updated
	return updated, nil
}

// RemoveOrder deletes and returns an order. The bucket stays present even
// when it becomes empty.
func (s *Store) RemoveOrder(date domain.OrderDate, orderNumber int) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexOf(date, orderNumber)
	if err != nil {
		return domain.Order{}, err
	}

	bucket := s.buckets[date]
	removed := bucket[i]
	rest := make([]domain.Order, 0, len(bucket)-1)
	rest = append(rest, bucket[:i]...)
	s.buckets[date] = append(rest, bucket[i+1:]...)
	return removed, nil
}

func (s *Store) GetOrder(date domain.OrderDate, orderNumber int) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, err := s.indexOf(date, orderNumber)
	if err != nil {
		return domain.Order{}, err
	}
	return s.buckets[date][i], nil
}

// ListOrders returns a copy of the date's bucket in insertion order. Unknown
// dates yield an empty slice.
func (s *Store) ListOrders(date domain.OrderDate) []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Order, len(s.buckets[date]))
	copy(out, s.buckets[date])
	return out
}

// HasDate reports whether the date has a bucket, empty or not.
func (s *Store) HasDate(date domain.OrderDate) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.buckets[date]
	return ok
}

// NextOrderNumber is the number the next added order will receive.
func (s *Store) NextOrderNumber() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.next
}

// Restore replaces the date buckets it is given and moves the counter to at
// least next and past the highest restored number. Restored orders are kept
// as persisted, not repriced.
func (s *Store) Restore(buckets map[domain.OrderDate][]domain.Order, next int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int]domain.OrderDate)
	for date, orders := range s.buckets {
		if _, replaced := buckets[date]; replaced {
			continue
		}
		for _, o := range orders {
			seen[o.OrderNumber] = date
		}
	}
	for date, orders := range buckets {
		for _, o := range orders {
			if err := domain.ValidateOrderNumber(o.OrderNumber); err != nil {
				return err
			}
			if prev, dup := seen[o.OrderNumber]; dup {
				return &domain.ValidationError{
					Field:  "order number",
					Reason: fmt.Sprintf("order %d appears on both %s and %s", o.OrderNumber, prev, date),
				}
			}
			seen[o.OrderNumber] = date
		}
	}

	if next > s.next {
		s.next = next
	}
	for date, orders := range buckets {
		restored := make([]domain.Order, len(orders))
		copy(restored, orders)
		s.buckets[date] = restored
		for _, o := range orders {
			if o.OrderNumber >= s.next {
				s.next = o.OrderNumber + 1
			}
		}
	}
	return nil
}

func (s *Store) indexOf(date domain.OrderDate, orderNumber int) (int, error) {
	bucket, ok := s.buckets[date]
	if !ok {
		return -1, domain.OrderNotFound(date, orderNumber)
	}
	for i, o := range bucket {
		if o.OrderNumber == orderNumber {
			return i, nil
		}
	}
	return -1, domain.OrderNotFound(date, orderNumber)
}
