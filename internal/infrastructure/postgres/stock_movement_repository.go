package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pintureria-api/internal/domain/entity"
	"github.com/jhoicas/Pintureria-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = "id, product_id, transaction_id, type, quantity_before, quantity_change, quantity_after, created_at, seq"

// StockMovementRepo implementación del libro de stock sobre PostgreSQL
// (usable con pool o tx). El libro es append-only: este tipo solo emite
// INSERT y SELECT; no existe ningún UPDATE ni DELETE sobre stock_movements.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create añade un movimiento al libro. seq lo asigna la BD (BIGSERIAL) y
// queda en m.Seq; desempata movimientos con el mismo created_at.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO stock_movements (id, product_id, transaction_id, type, quantity_before, quantity_change, quantity_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.ProductID, m.TransactionID, m.Type,
		m.QuantityBefore, m.QuantityChange, m.QuantityAfter, m.CreatedAt,
	).Scan(&m.Seq)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// Latest devuelve el movimiento más reciente del producto o nil si no hay historial.
func (r *StockMovementRepo) Latest(ctx context.Context, productID string) (*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE product_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT 1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest movement: %w", err)
	}
	return m, nil
}

// ListByProduct devuelve el historial completo del producto en orden cronológico.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string) ([]entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE product_id = $1
		ORDER BY created_at ASC, seq ASC`
	return r.list(ctx, query, productID)
}

// ListByTransaction devuelve los movimientos generados por una transacción.
func (r *StockMovementRepo) ListByTransaction(ctx context.Context, transactionID string) ([]entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements WHERE transaction_id = $1
		ORDER BY created_at ASC, seq ASC`
	return r.list(ctx, query, transactionID)
}

// ProductIDs devuelve los productos con al menos un movimiento.
func (r *StockMovementRepo) ProductIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT DISTINCT product_id FROM stock_movements`)
	if err != nil {
		return nil, fmt.Errorf("list product ids: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *StockMovementRepo) list(ctx context.Context, query string, args ...any) ([]entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.TransactionID, &m.Type,
			&m.QuantityBefore, &m.QuantityChange, &m.QuantityAfter, &m.CreatedAt, &m.Seq); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(&m.ID, &m.ProductID, &m.TransactionID, &m.Type,
		&m.QuantityBefore, &m.QuantityChange, &m.QuantityAfter, &m.CreatedAt, &m.Seq)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
