package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pintureria-api/internal/domain"
	"github.com/jhoicas/Pintureria-api/internal/domain/entity"
	"github.com/jhoicas/Pintureria-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Libro de movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementRepo_AsignaSeqYOrdena(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := store.Movements()

	// Tres movimientos con el mismo CreatedAt: el orden lo decide seq.
	ts := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i, change := range []int64{10, -3, 5} {
		m := &entity.StockMovement{
			ProductID:      "prod-1",
			TransactionID:  "tx-1",
			Type:           entity.MovementTypeADJUST,
			QuantityChange: change,
			CreatedAt:      ts,
		}
		require.NoError(t, repo.Create(ctx, m))
		assert.Equal(t, int64(i+1), m.Seq, "seq debe ser consecutivo")
		assert.NotEmpty(t, m.ID, "Create debe asignar ID si viene vacío")
	}

	list, err := repo.ListByProduct(ctx, "prod-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Seq, list[i].Seq,
			"con CreatedAt iguales el listado debe venir en orden de inserción")
	}
}

func TestMovementRepo_LatestRespetaSeqComoDesempate(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := store.Movements()

	ts := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &entity.StockMovement{
		ProductID: "prod-1", Type: entity.MovementTypeIN,
		QuantityAfter: 10, CreatedAt: ts,
	}))
	require.NoError(t, repo.Create(ctx, &entity.StockMovement{
		ProductID: "prod-1", Type: entity.MovementTypeOUT,
		QuantityAfter: 7, CreatedAt: ts,
	}))

	last, err := repo.Latest(ctx, "prod-1")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, int64(7), last.QuantityAfter,
		"con CreatedAt iguales gana el seq mayor")
}

func TestMovementRepo_LatestSinHistorial(t *testing.T) {
	store := NewStore()
	last, err := store.Movements().Latest(context.Background(), "no-existe")
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestMovementRepo_ProductIDsSinDuplicados(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := store.Movements()

	for _, pid := range []string{"a", "b", "a", "c", "b"} {
		require.NoError(t, repo.Create(ctx, &entity.StockMovement{
			ProductID: pid, Type: entity.MovementTypeIN,
		}))
	}
	ids, err := repo.ProductIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, ids)
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner: rollback por instantánea
// ──────────────────────────────────────────────────────────────────────────────

func TestTxRunner_RollbackRestauraLibroYSeq(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	runner := NewTxRunner(store)

	// Estado previo: un movimiento confirmado.
	require.NoError(t, store.Movements().Create(ctx, &entity.StockMovement{
		ProductID: "prod-1", Type: entity.MovementTypeIN,
		QuantityChange: 10, QuantityAfter: 10,
	}))

	boom := errors.New("boom")
	err := runner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		txRepo repository.TransactionRepository,
		_ repository.ProductRepository,
	) error {
		require.NoError(t, txRepo.Create(ctx, &entity.StockTransaction{ID: "tx-fallida"}))
		require.NoError(t, movRepo.Create(ctx, &entity.StockMovement{
			ProductID: "prod-1", Type: entity.MovementTypeOUT,
			QuantityBefore: 10, QuantityChange: -4, QuantityAfter: 6,
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	// El libro vuelve al estado previo.
	list, err := store.Movements().ListByProduct(ctx, "prod-1")
	require.NoError(t, err)
	assert.Len(t, list, 1, "el movimiento de la tx fallida no debe quedar en el libro")

	tx, err := store.Transactions().GetByID(ctx, "tx-fallida")
	require.NoError(t, err)
	assert.Nil(t, tx, "la transacción fallida no debe quedar registrada")

	// El seq también se restaura: el siguiente movimiento no deja huecos.
	m := &entity.StockMovement{ProductID: "prod-1", Type: entity.MovementTypeIN}
	require.NoError(t, store.Movements().Create(ctx, m))
	assert.Equal(t, int64(2), m.Seq)
}

func TestTxRunner_CommitDejaCambios(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	runner := NewTxRunner(store)

	err := runner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		txRepo repository.TransactionRepository,
		_ repository.ProductRepository,
	) error {
		if err := txRepo.Create(ctx, &entity.StockTransaction{ID: "tx-ok", Type: entity.MovementTypeIN}); err != nil {
			return err
		}
		return movRepo.Create(ctx, &entity.StockMovement{
			ProductID: "prod-1", TransactionID: "tx-ok",
			Type: entity.MovementTypeIN, QuantityChange: 5, QuantityAfter: 5,
		})
	})
	require.NoError(t, err)

	list, err := store.Movements().ListByTransaction(ctx, "tx-ok")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos y usuarios
// ──────────────────────────────────────────────────────────────────────────────

func TestProductRepo_SKUDuplicado(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := store.Products()

	require.NoError(t, repo.Create(ctx, &entity.Product{SKU: "PIN-BLA-4L", Name: "Látex blanco 4L"}))
	err := repo.Create(ctx, &entity.Product{SKU: "pin-bla-4l", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "el SKU es único sin distinguir mayúsculas")
}

func TestProductRepo_ListActiveFiltra(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := store.Products()

	require.NoError(t, repo.Create(ctx, &entity.Product{SKU: "A", Name: "Activo", Active: true}))
	require.NoError(t, repo.Create(ctx, &entity.Product{SKU: "B", Name: "Inactivo", Active: false}))

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "A", active[0].SKU)
}

func TestUserRepo_EmailDuplicado(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := store.Users()

	require.NoError(t, repo.Create(ctx, &entity.User{Email: "ana@pintureria.local"}))
	err := repo.Create(ctx, &entity.User{Email: "ANA@pintureria.local"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}
