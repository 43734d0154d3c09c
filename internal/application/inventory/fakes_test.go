package inventory_test

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

// callLog registra el orden de las llamadas al backend.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(c string) {
	l.mu.Lock()
	l.calls = append(l.calls, c)
	l.mu.Unlock()
}

func (l *callLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.calls...)
}

func (l *callLog) count(c string) int {
	n := 0
	for _, x := range l.all() {
		if x == c {
			n++
		}
	}
	return n
}

type fakeInventoryRepo struct {
	log       *callLog
	rows      map[string]*entity.InventoryRow // key producto|almacén
	insertErr error
	below     []entity.LowStockItem
	// concurrent se crea justo después de un GetForUpdate sin fila, como otra transacción.
	concurrent *entity.InventoryRow
}

func key(p, s string) string { return p + "|" + s }

func (r *fakeInventoryRepo) GetForUpdate(_ context.Context, productID, storeID string) (*entity.InventoryRow, error) {
	r.log.add("inventory.get")
	if row, ok := r.rows[key(productID, storeID)]; ok {
		cp := *row
		return &cp, nil
	}
	if r.concurrent != nil {
		r.rows[key(r.concurrent.ProductID, r.concurrent.StoreID)] = r.concurrent
		r.concurrent = nil
	}
	return nil, nil
}

func (r *fakeInventoryRepo) Upsert(_ context.Context, row *entity.InventoryRow) error {
	r.log.add("inventory.insert")
	if r.insertErr != nil {
		return r.insertErr
	}
	if existing, ok := r.rows[key(row.ProductID, row.StoreID)]; ok {
		existing.Quantity = existing.Quantity.Add(row.Quantity)
		row.ID = existing.ID
		row.Quantity = existing.Quantity
		return nil
	}
	cp := *row
	r.rows[key(row.ProductID, row.StoreID)] = &cp
	return nil
}

func (r *fakeInventoryRepo) UpdateQuantity(_ context.Context, id string, qty decimal.Decimal) error {
	r.log.add("inventory.update")
	for _, row := range r.rows {
		if row.ID == id {
			row.Quantity = qty
			return nil
		}
	}
	return errors.New("fila no encontrada")
}

func (r *fakeInventoryRepo) DeleteByProduct(_ context.Context, productID string) (int64, error) {
	r.log.add("inventory.delete")
	return 0, nil
}

func (r *fakeInventoryRepo) ListBelowMinimum(_ context.Context, _ string) ([]entity.LowStockItem, error) {
	r.log.add("inventory.below")
	return r.below, nil
}

type fakeMovementRepo struct {
	log       *callLog
	created   []*entity.Movement
	createErr error
}

func (r *fakeMovementRepo) Create(_ context.Context, m *entity.Movement) error {
	r.log.add("movement.create")
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, m)
	return nil
}

func (r *fakeMovementRepo) List(_ context.Context, _ string, limit, offset int) ([]*entity.Movement, int, error) {
	r.log.add("movement.list")
	end := offset + limit
	if end > len(r.created) {
		end = len(r.created)
	}
	if offset > end {
		offset = end
	}
	return r.created[offset:end], len(r.created), nil
}

type fakeProductRepo struct {
	log      *callLog
	products map[string]*entity.Product
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.log.add("product.create")
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.log.add("product.get")
	return r.products[id], nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.log.add("product.update")
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	r.log.add("product.delete")
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, _ repository.ProductFilter) ([]*entity.ProductListItem, error) {
	r.log.add("product.list")
	return nil, nil
}

type fakeStoreRepo struct {
	log    *callLog
	stores map[string]*entity.Store
}

func (r *fakeStoreRepo) List(_ context.Context) ([]*entity.Store, error) {
	r.log.add("store.list")
	return nil, nil
}

func (r *fakeStoreRepo) GetByID(_ context.Context, id string) (*entity.Store, error) {
	r.log.add("store.get")
	return r.stores[id], nil
}

// fakeTxRunner ejecuta fn con los repos falsos y registra commit/rollback.
type fakeTxRunner struct {
	log      *callLog
	inv      *fakeInventoryRepo
	mov      *fakeMovementRepo
	products *fakeProductRepo
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	invRepo repository.InventoryRepository,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	r.log.add("tx.begin")
	if err := fn(r.inv, r.mov, r.products); err != nil {
		r.log.add("tx.rollback")
		return err
	}
	r.log.add("tx.commit")
	return nil
}

type backend struct {
	log      *callLog
	inv      *fakeInventoryRepo
	mov      *fakeMovementRepo
	products *fakeProductRepo
	stores   *fakeStoreRepo
	tx       *fakeTxRunner
}

const (
	productID = "11111111-1111-1111-1111-111111111111"
	storeID   = "22222222-2222-2222-2222-222222222222"
	userID    = "33333333-3333-3333-3333-333333333333"
)

func newBackend() *backend {
	log := &callLog{}
	b := &backend{
		log:      log,
		inv:      &fakeInventoryRepo{log: log, rows: map[string]*entity.InventoryRow{}},
		mov:      &fakeMovementRepo{log: log},
		products: &fakeProductRepo{log: log, products: map[string]*entity.Product{productID: {ID: productID, Name: "Arroz 1kg"}}},
		stores:   &fakeStoreRepo{log: log, stores: map[string]*entity.Store{storeID: {ID: storeID, Name: "Centro"}}},
	}
	b.tx = &fakeTxRunner{log: log, inv: b.inv, mov: b.mov, products: b.products}
	return b
}
