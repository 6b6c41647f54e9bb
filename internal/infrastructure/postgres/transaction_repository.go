package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pintureria-api/internal/domain/entity"
	"github.com/jhoicas/Pintureria-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación de TransactionRepository sobre PostgreSQL
// (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste la transacción.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.StockTransaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_transactions (id, type, reference, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`
	createdBy := (*string)(nil)
	if t.CreatedBy != "" {
		createdBy = &t.CreatedBy
	}
	_, err := r.q.Exec(ctx, query, t.ID, t.Type, t.Reference, t.Notes, t.CreatedAt, createdBy)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// GetByID obtiene una transacción por ID. Devuelve nil si no existe.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.StockTransaction, error) {
	query := `
		SELECT id, type, reference, notes, created_at, created_by
		FROM stock_transactions WHERE id = $1`
	var t entity.StockTransaction
	var createdBy *string
	err := r.q.QueryRow(ctx, query, id).Scan(&t.ID, &t.Type, &t.Reference, &t.Notes, &t.CreatedAt, &createdBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if createdBy != nil {
		t.CreatedBy = *createdBy
	}
	return &t, nil
}

// List lista transacciones de la más reciente a la más antigua.
func (r *TransactionRepo) List(ctx context.Context, limit, offset int) ([]entity.StockTransaction, error) {
	query := `
		SELECT id, type, reference, notes, created_at, created_by
		FROM stock_transactions
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []entity.StockTransaction
	for rows.Next() {
		var t entity.StockTransaction
		var createdBy *string
		if err := rows.Scan(&t.ID, &t.Type, &t.Reference, &t.Notes, &t.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if createdBy != nil {
			t.CreatedBy = *createdBy
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
