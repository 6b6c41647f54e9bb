// Package memory implementa el backend "modo demo": los mismos puertos de
// persistencia que PostgreSQL pero en memoria, sin servicios externos. Se
// selecciona explícitamente con STORAGE_DRIVER=memory en la configuración;
// nunca por estado ambiente.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Pintureria-api/internal/domain"
	"github.com/jhoicas/Pintureria-api/internal/domain/entity"
	"github.com/jhoicas/Pintureria-api/internal/domain/repository"
)

// Store almacén en memoria protegido por mutex. El libro de movimientos es
// un slice append-only con contador seq propio, igual que el BIGSERIAL de
// PostgreSQL. Los puertos de repositorio se obtienen con Movements(),
// Transactions(), Products() y Users(), todos vistas sobre el mismo almacén.
type Store struct {
	mu           sync.RWMutex
	txMu         sync.Mutex // serializa transacciones (ver TxRunner)
	movements    []entity.StockMovement
	transactions map[string]entity.StockTransaction
	products     map[string]entity.Product
	users        map[string]entity.User
	seq          int64
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		transactions: make(map[string]entity.StockTransaction),
		products:     make(map[string]entity.Product),
		users:        make(map[string]entity.User),
	}
}

// Movements vista StockMovementRepository del almacén.
func (s *Store) Movements() repository.StockMovementRepository { return &movementRepo{s} }

// Transactions vista TransactionRepository del almacén.
func (s *Store) Transactions() repository.TransactionRepository { return &transactionRepo{s} }

// Products vista ProductRepository del almacén.
func (s *Store) Products() repository.ProductRepository { return &productRepo{s} }

// Users vista UserRepository del almacén.
func (s *Store) Users() repository.UserRepository { return &userRepo{s} }

// ── StockMovementRepository ───────────────────────────────────────────────────

type movementRepo struct{ s *Store }

var _ repository.StockMovementRepository = (*movementRepo)(nil)

// Create añade un movimiento al libro y le asigna seq. Única escritura: el
// libro no se edita ni se borra.
func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	s.seq++
	m.Seq = s.seq
	s.movements = append(s.movements, *m)
	return nil
}

func (r *movementRepo) Latest(_ context.Context, productID string) (*entity.StockMovement, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	var last *entity.StockMovement
	for i := range s.movements {
		m := &s.movements[i]
		if m.ProductID != productID {
			continue
		}
		if last == nil || m.CreatedAt.After(last.CreatedAt) ||
			(m.CreatedAt.Equal(last.CreatedAt) && m.Seq > last.Seq) {
			last = m
		}
	}
	if last == nil {
		return nil, nil
	}
	cp := *last
	return &cp, nil
}

func (r *movementRepo) ListByProduct(_ context.Context, productID string) ([]entity.StockMovement, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterSorted(func(m entity.StockMovement) bool { return m.ProductID == productID }), nil
}

func (r *movementRepo) ListByTransaction(_ context.Context, transactionID string) ([]entity.StockMovement, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterSorted(func(m entity.StockMovement) bool { return m.TransactionID == transactionID }), nil
}

func (r *movementRepo) ProductIDs(_ context.Context) ([]string, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	var ids []string
	for _, m := range s.movements {
		if _, ok := seen[m.ProductID]; !ok {
			seen[m.ProductID] = struct{}{}
			ids = append(ids, m.ProductID)
		}
	}
	return ids, nil
}

func (s *Store) filterSorted(keep func(entity.StockMovement) bool) []entity.StockMovement {
	var out []entity.StockMovement
	for _, m := range s.movements {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}

// ── TransactionRepository ─────────────────────────────────────────────────────

type transactionRepo struct{ s *Store }

var _ repository.TransactionRepository = (*transactionRepo)(nil)

func (r *transactionRepo) Create(_ context.Context, t *entity.StockTransaction) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	s.transactions[t.ID] = *t
	return nil
}

func (r *transactionRepo) GetByID(_ context.Context, id string) (*entity.StockTransaction, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.transactions[id]; ok {
		cp := t
		return &cp, nil
	}
	return nil, nil
}

func (r *transactionRepo) List(_ context.Context, limit, offset int) ([]entity.StockTransaction, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]entity.StockTransaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, limit, offset), nil
}

// ── ProductRepository ─────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

var _ repository.ProductRepository = (*productRepo)(nil)

func (r *productRepo) Create(_ context.Context, product *entity.Product) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	for _, p := range s.products {
		if strings.EqualFold(p.SKU, product.SKU) {
			return domain.ErrDuplicate
		}
	}
	s.products[product.ID] = *product
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.products[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (r *productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if strings.EqualFold(p.SKU, sku) {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *productRepo) List(_ context.Context, limit, offset int) ([]entity.Product, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paginate(s.sortedProducts(func(entity.Product) bool { return true }), limit, offset), nil
}

func (r *productRepo) ListActive(_ context.Context) ([]entity.Product, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedProducts(func(p entity.Product) bool { return p.Active }), nil
}

func (r *productRepo) Update(_ context.Context, product *entity.Product) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[product.ID]; !ok {
		return domain.ErrNotFound
	}
	s.products[product.ID] = *product
	return nil
}

func (s *Store) sortedProducts(keep func(entity.Product) bool) []entity.Product {
	var out []entity.Product
	for _, p := range s.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ── UserRepository ────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

var _ repository.UserRepository = (*userRepo)(nil)

func (r *userRepo) Create(_ context.Context, user *entity.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		cp := u
		return &cp, nil
	}
	return nil, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
