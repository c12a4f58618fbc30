package application

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/flooring/internal/adapters/outbound/audit"
	"github.com/abdidvp/flooring/internal/adapters/outbound/memory"
	"github.com/abdidvp/flooring/internal/adapters/outbound/reference"
	"github.com/abdidvp/flooring/internal/domain"
)

var (
	june1 = domain.NewOrderDate(2030, time.June, 1)
	june2 = domain.NewOrderDate(2030, time.June, 2)
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testPricer() *domain.Pricer {
	taxes := reference.NewTaxTable(
		reference.StateTax{Abbreviation: "FL", Name: "Florida", Rate: dec("0.06")},
		reference.StateTax{Abbreviation: "TX", Name: "Texas", Rate: dec("0.0445")},
	)
	products := reference.NewCatalog(
		domain.ProductPricing{ProductType: "Tile", CostPerArea: dec("3.00"), LaborCostPerArea: dec("2.00")},
		domain.ProductPricing{ProductType: "Wood", CostPerArea: dec("5.15"), LaborCostPerArea: dec("4.75")},
	)
	return domain.NewPricer(taxes, products)
}

func newOrderService(t *testing.T) (*OrderService, *audit.FileLog) {
	t.Helper()
	root := t.TempDir()
	log := audit.New(filepath.Join(root, "Orders"), filepath.Join(root, "Backup", "DataExport.txt"))
	return NewOrderService(memory.New(testPricer()), log), log
}

// assertInSync checks that re-parsing the date's file reproduces the
// repository bucket field for field.
func assertInSync(t *testing.T, svc *OrderService, log *audit.FileLog, date domain.OrderDate) {
	t.Helper()
	onDisk, err := log.ReadDate(date)
	require.NoError(t, err)
	assert.Equal(t, encodeAll(svc.ListOrders(date)), encodeAll(onDisk))
}

func encodeAll(orders []domain.Order) []string {
	lines := make([]string, 0, len(orders))
	for _, o := range orders {
		lines = append(lines, audit.EncodeOrder(o))
	}
	return lines
}

type failingAudit struct {
	domain.AuditLog
	calls int
}

var errDiskGone = errors.New("disk gone")

func (f *failingAudit) RecordAdd(domain.OrderDate, domain.Order) error {
	f.calls++
	return &domain.IOFailure{Op: "append", Path: "Orders", Err: errDiskGone}
}

func (f *failingAudit) RecordEdit(domain.OrderDate, domain.Order) error {
	f.calls++
	return &domain.IOFailure{Op: "edit", Path: "Orders", Err: errDiskGone}
}

func (f *failingAudit) RecordRemove(domain.OrderDate, int) error {
	f.calls++
	return &domain.IOFailure{Op: "remove", Path: "Orders", Err: errDiskGone}
}

func TestOrderService_AddOrderWritesAuditLine(t *testing.T) {
	svc, log := newOrderService(t)

	o, err := svc.AddOrder(AddOrderRequest{Date: june1, CustomerName: "John Doe", State: "FL", ProductType: "Tile", Area: dec("100")})
	require.NoError(t, err)
	assert.Equal(t, 1, o.OrderNumber)
	assert.Equal(t, "530.00", o.Total.StringFixed(2))

	data, err := os.ReadFile(log.Path(june1))
	require.NoError(t, err)
	assert.Equal(t, "1,John Doe,FL,0.06,Tile,100.00,3.00,2.00,300.00,200.00,30.00,530.00\n", string(data))
}

func TestOrderService_RemoveFirstOfTwo(t *testing.T) {
	svc, log := newOrderService(t)
	first, err := svc.AddOrder(AddOrderRequest{Date: june1, CustomerName: "A", State: "FL", ProductType: "Tile", Area: dec("100")})
	require.NoError(t, err)
	second, err := svc.AddOrder(AddOrderRequest{Date: june1, CustomerName: "B", State: "TX", ProductType: "Wood", Area: dec("150")})
	require.NoError(t, err)

	removed, err := svc.RemoveOrder(OrderKey{Date: june1, OrderNumber: first.OrderNumber})
	require.NoError(t, err)
	assert.Equal(t, first, removed)

	assert.Equal(t, []domain.Order{second}, svc.ListOrders(june1))
	data, err := os.ReadFile(log.Path(june1))
	require.NoError(t, err)
	assert.Equal(t, audit.EncodeOrder(second)+"\n", string(data))
}

func TestOrderService_EditStateOnly(t *testing.T) {
	svc, log := newOrderService(t)
	before, err := svc.AddOrder(AddOrderRequest{Date: june1, CustomerName: "John Doe", State: "FL", ProductType: "Wood", Area: dec("250")})
	require.NoError(t, err)

	state := "TX"
	after, err := svc.EditAnOrder(EditOrderRequest{
		OrderKey: OrderKey{Date: june1, OrderNumber: before.OrderNumber},
		Edits:    domain.OrderEdits{State: &state},
	})
	require.NoError(t, err)

	assert.Equal(t, before.CustomerName, after.CustomerName)
	assert.True(t, before.MaterialCost.Equal(after.MaterialCost))
	assert.True(t, before.LaborCost.Equal(after.LaborCost))
	assert.Equal(t, "110.14", after.Tax.StringFixed(2))
	assertInSync(t, svc, log, june1)
}

func TestOrderService_UnknownProductCreatesNothing(t *testing.T) {
	svc, log := newOrderService(t)

	_, err := svc.AddOrder(AddOrderRequest{Date: june1, CustomerName: "John Doe", State: "FL", ProductType: "Marble", Area: dec("100")})
	var pe *domain.PricingError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, domain.KindProduct, pe.Kind())

	assert.Empty(t, svc.ListOrders(june1))
	_, statErr := os.Stat(log.Path(june1))
	assert.True(t, os.IsNotExist(statErr))
}

func TestOrderService_RemoveMissingSkipsAudit(t *testing.T) {
	fake := &failingAudit{}
	svc := NewOrderService(memory.New(testPricer()), fake)

	_, err := svc.RemoveOrder(OrderKey{Date: june1, OrderNumber: 5})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, fake.calls)
}

func TestOrderService_RepositoryFailureSkipsAudit(t *testing.T) {
	fake := &failingAudit{}
	svc := NewOrderService(memory.New(testPricer()), fake)

	_, err := svc.AddOrder(AddOrderRequest{Date: june1, CustomerName: "A", State: "ZZ", ProductType: "Tile", Area: dec("100")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.EditAnOrder(EditOrderRequest{OrderKey: OrderKey{Date: june1, OrderNumber: 1}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, fake.calls)
}

func TestOrderService_AuditFailureKeepsMutation(t *testing.T) {
	fake := &failingAudit{}
	repo := memory.New(testPricer())
	svc := NewOrderService(repo, fake)

	o, err := svc.AddOrder(AddOrderRequest{Date: june1, CustomerName: "A", State: "FL", ProductType: "Tile", Area: dec("100")})
	assert.ErrorIs(t, err, domain.ErrIOFailure)
	assert.ErrorIs(t, err, errDiskGone)
	assert.Equal(t, 1, o.OrderNumber)
	assert.Equal(t, []domain.Order{o}, svc.ListOrders(june1))

	name := "B"
	edited, err := svc.EditAnOrder(EditOrderRequest{
		OrderKey: OrderKey{Date: june1, OrderNumber: o.OrderNumber},
		Edits:    domain.OrderEdits{CustomerName: &name},
	})
	assert.ErrorIs(t, err, domain.ErrIOFailure)
	got, getErr := svc.GetOrder(OrderKey{Date: june1, OrderNumber: o.OrderNumber})
	require.NoError(t, getErr)
	assert.Equal(t, edited, got)

	_, err = svc.RemoveOrder(OrderKey{Date: june1, OrderNumber: o.OrderNumber})
	assert.ErrorIs(t, err, domain.ErrIOFailure)
	assert.Empty(t, svc.ListOrders(june1))
	assert.Equal(t, 3, fake.calls)
}

func TestOrderService_RepositoryAndAuditAgree(t *testing.T) {
	svc, log := newOrderService(t)

	add := func(date domain.OrderDate, name, state, product, area string) domain.Order {
		o, err := svc.AddOrder(AddOrderRequest{Date: date, CustomerName: name, State: state, ProductType: product, Area: dec(area)})
		require.NoError(t, err)
		return o
	}
	a := add(june1, "A", "FL", "Tile", "100")
	b := add(june2, "B", "TX", "Wood", "180.75")
	c := add(june1, "C", "TX", "Tile", "230")
	d := add(june1, "D", "FL", "Wood", "410.1")

	area := dec("333.33")
	_, err := svc.EditAnOrder(EditOrderRequest{OrderKey: OrderKey{Date: june1, OrderNumber: c.OrderNumber}, Edits: domain.OrderEdits{Area: &area}})
	require.NoError(t, err)
	_, err = svc.RemoveOrder(OrderKey{Date: june1, OrderNumber: a.OrderNumber})
	require.NoError(t, err)
	product := "Tile"
	_, err = svc.EditAnOrder(EditOrderRequest{OrderKey: OrderKey{Date: june2, OrderNumber: b.OrderNumber}, Edits: domain.OrderEdits{ProductType: &product}})
	require.NoError(t, err)
	_, err = svc.RemoveOrder(OrderKey{Date: june1, OrderNumber: d.OrderNumber})
	require.NoError(t, err)

	assertInSync(t, svc, log, june1)
	assertInSync(t, svc, log, june2)
	assert.Len(t, svc.ListOrders(june1), 1)
}

func TestOrderService_ExportRoundTrip(t *testing.T) {
	svc, log := newOrderService(t)
	var added []domain.Order
	for _, date := range []domain.OrderDate{june2, june1, june2} {
		o, err := svc.AddOrder(AddOrderRequest{Date: date, CustomerName: "Customer", State: "TX", ProductType: "Wood", Area: dec("125.5")})
		require.NoError(t, err)
		added = append(added, o)
	}

	require.NoError(t, svc.ExportAll())

	data, err := os.ReadFile(log.ExportPath())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, audit.EncodeOrder(added[1])+",06-01-2030", lines[0])
	assert.Equal(t, audit.EncodeOrder(added[0])+",06-02-2030", lines[1])
	assert.Equal(t, audit.EncodeOrder(added[2])+",06-02-2030", lines[2])
}

func TestOrderService_Restore(t *testing.T) {
	root := t.TempDir()
	newLog := func() *audit.FileLog {
		return audit.New(filepath.Join(root, "Orders"), filepath.Join(root, "Backup", "DataExport.txt"))
	}

	first := NewOrderService(memory.New(testPricer()), newLog())
	for _, name := range []string{"A", "B", "C"} {
		_, err := first.AddOrder(AddOrderRequest{Date: june1, CustomerName: name, State: "FL", ProductType: "Tile", Area: dec("100")})
		require.NoError(t, err)
	}
	_, err := first.RemoveOrder(OrderKey{Date: june1, OrderNumber: 3})
	require.NoError(t, err)

	second := NewOrderService(memory.New(testPricer()), newLog())
	n, err := second.Restore()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, encodeAll(first.ListOrders(june1)), encodeAll(second.ListOrders(june1)))

	// Number 3 was removed before the restart and stays retired.
	o, err := second.AddOrder(AddOrderRequest{Date: june2, CustomerName: "D", State: "FL", ProductType: "Tile", Area: dec("100")})
	require.NoError(t, err)
	assert.Equal(t, 4, o.OrderNumber)
}

// slowAudit stalls the edit that renames an order to "First" until the
// test has started a competing edit.
type slowAudit struct {
	*audit.FileLog
	started chan struct{}
}

func (a *slowAudit) RecordEdit(date domain.OrderDate, order domain.Order) error {
	if order.CustomerName == "First" {
		close(a.started)
		time.Sleep(50 * time.Millisecond)
	}
	return a.FileLog.RecordEdit(date, order)
}

func TestOrderService_ConcurrentEditsReachFileInMemoryOrder(t *testing.T) {
	root := t.TempDir()
	log := audit.New(filepath.Join(root, "Orders"), filepath.Join(root, "Backup", "DataExport.txt"))
	slow := &slowAudit{FileLog: log, started: make(chan struct{})}
	svc := NewOrderService(memory.New(testPricer()), slow)

	o, err := svc.AddOrder(AddOrderRequest{Date: june1, CustomerName: "A", State: "FL", ProductType: "Tile", Area: dec("100")})
	require.NoError(t, err)
	key := OrderKey{Date: june1, OrderNumber: o.OrderNumber}

	rename := func(name string) error {
		_, err := svc.EditAnOrder(EditOrderRequest{OrderKey: key, Edits: domain.OrderEdits{CustomerName: &name}})
		return err
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, rename("First"))
	}()
	<-slow.started
	require.NoError(t, rename("Second"))
	wg.Wait()

	got, err := svc.GetOrder(key)
	require.NoError(t, err)
	assert.Equal(t, "Second", got.CustomerName)
	assertInSync(t, svc, log, june1)
}
