package usecase_test

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

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

// ─── productos / inventario ───────────────────────────────────────────────────

type fakeProductRepo struct {
	log      *callLog
	products map[string]*entity.Product
	items    []*entity.ProductListItem
	filters  []repository.ProductFilter
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.log.add("product.create")
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.log.add("product.get")
	if p, ok := r.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.log.add("product.update")
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	r.log.add("product.delete")
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.ProductListItem, error) {
	r.log.add("product.list")
	r.filters = append(r.filters, f)
	out := make([]*entity.ProductListItem, len(r.items))
	copy(out, r.items)
	return out, nil
}

type fakeInventoryRepo struct {
	log  *callLog
	rows []*entity.InventoryRow
}

func (r *fakeInventoryRepo) GetForUpdate(_ context.Context, productID, storeID string) (*entity.InventoryRow, error) {
	r.log.add("inventory.get")
	for _, row := range r.rows {
		if row.ProductID == productID && row.StoreID == storeID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeInventoryRepo) Upsert(_ context.Context, row *entity.InventoryRow) error {
	r.log.add("inventory.insert")
	r.rows = append(r.rows, row)
	return nil
}

func (r *fakeInventoryRepo) UpdateQuantity(_ context.Context, _ string, _ decimal.Decimal) error {
	r.log.add("inventory.update")
	return nil
}

func (r *fakeInventoryRepo) DeleteByProduct(_ context.Context, productID string) (int64, error) {
	r.log.add("inventory.delete")
	kept := r.rows[:0]
	var n int64
	for _, row := range r.rows {
		if row.ProductID == productID {
			n++
			continue
		}
		kept = append(kept, row)
	}
	r.rows = kept
	return n, nil
}

func (r *fakeInventoryRepo) ListBelowMinimum(_ context.Context, _ string) ([]entity.LowStockItem, error) {
	return nil, nil
}

type fakeMovementRepo struct {
	log     *callLog
	created []*entity.Movement
}

func (r *fakeMovementRepo) Create(_ context.Context, m *entity.Movement) error {
	r.log.add("movement.create")
	r.created = append(r.created, m)
	return nil
}

func (r *fakeMovementRepo) List(_ context.Context, _ string, _, _ int) ([]*entity.Movement, int, error) {
	return r.created, len(r.created), nil
}

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

type productBackend struct {
	log      *callLog
	products *fakeProductRepo
	inv      *fakeInventoryRepo
	mov      *fakeMovementRepo
	tx       *fakeTxRunner
}

func newProductBackend() *productBackend {
	log := &callLog{}
	b := &productBackend{
		log:      log,
		products: &fakeProductRepo{log: log, products: map[string]*entity.Product{}},
		inv:      &fakeInventoryRepo{log: log},
		mov:      &fakeMovementRepo{log: log},
	}
	b.tx = &fakeTxRunner{log: log, inv: b.inv, mov: b.mov, products: b.products}
	return b
}

// ─── roles / usuarios ─────────────────────────────────────────────────────────

type fakeRoleRepo struct {
	log       *callLog
	rows      []entity.RoleAssignment
	createErr error
}

func sameStore(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *fakeRoleRepo) Find(_ context.Context, userID, role string, storeID *string) (*entity.RoleAssignment, error) {
	r.log.add("role.find")
	for _, a := range r.rows {
		if a.UserID == userID && a.Role == role && sameStore(a.StoreID, storeID) {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRoleRepo) Create(_ context.Context, a *entity.RoleAssignment) error {
	r.log.add("role.create")
	if r.createErr != nil {
		return r.createErr
	}
	r.rows = append(r.rows, *a)
	return nil
}

func (r *fakeRoleRepo) GetByID(_ context.Context, id string) (*entity.RoleAssignment, error) {
	r.log.add("role.get")
	for _, a := range r.rows {
		if a.ID == id {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRoleRepo) Delete(_ context.Context, id string) error {
	r.log.add("role.delete")
	kept := r.rows[:0]
	for _, a := range r.rows {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeRoleRepo) ListByUser(_ context.Context, userID string) ([]entity.RoleAssignment, error) {
	r.log.add("role.list_user")
	var out []entity.RoleAssignment
	for _, a := range r.rows {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeRoleRepo) ListAll(_ context.Context) ([]entity.RoleAssignment, error) {
	r.log.add("role.list_all")
	return r.rows, nil
}

type fakeUserRepo struct {
	users []*entity.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.users = append(r.users, u)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]*entity.User, error) {
	return r.users, nil
}

type fakeUpdates struct {
	mu    sync.Mutex
	users []string
}

func (f *fakeUpdates) NotifyUserUpdated(_ context.Context, userID string) {
	f.mu.Lock()
	f.users = append(f.users, userID)
	f.mu.Unlock()
}
