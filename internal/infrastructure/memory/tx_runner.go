package memory

import (
	"context"

	"github.com/jhoicas/Pintureria-api/internal/application/inventory"
	"github.com/jhoicas/Pintureria-api/internal/domain/entity"
	"github.com/jhoicas/Pintureria-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner versión en memoria del runner transaccional: toma una instantánea
// del almacén antes de ejecutar el callback y la restaura si este falla, de
// modo que una transacción nunca queda aplicada a medias. Las transacciones
// se serializan entre sí con txMu (equivalente demo del aislamiento de la BD).
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con los repos del almacén; si fn devuelve error, restaura la
// instantánea previa (rollback).
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	txRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
) error) error {
	s := r.store
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(s.Movements(), s.Transactions(), s.Products()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// snapshot copia el estado mutable por una transacción (libro, transacciones y seq).
func (s *Store) snapshot() storeSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	movs := make([]entity.StockMovement, len(s.movements))
	copy(movs, s.movements)
	txs := make(map[string]entity.StockTransaction, len(s.transactions))
	for k, v := range s.transactions {
		txs[k] = v
	}
	return storeSnapshot{movements: movs, transactions: txs, seq: s.seq}
}

func (s *Store) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movements = snap.movements
	s.transactions = snap.transactions
	s.seq = snap.seq
}

type storeSnapshot struct {
	movements    []entity.StockMovement
	transactions map[string]entity.StockTransaction
	seq          int64
}
