package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pintureria-api/internal/application/inventory"
	"github.com/jhoicas/Pintureria-api/internal/domain"
	"github.com/jhoicas/Pintureria-api/internal/domain/entity"
	"github.com/jhoicas/Pintureria-api/internal/domain/ledger"
	"github.com/jhoicas/Pintureria-api/internal/infrastructure/memory"
)

// newFixture arma el caso de uso sobre el backend en memoria con un producto
// de pinturería ya cargado.
func newFixture(t *testing.T) (*inventory.CreateTransactionUseCase, *inventory.StockQueryUseCase, *memory.Store, string) {
	t.Helper()
	store := memory.NewStore()
	product := &entity.Product{
		SKU:         "PIN-BLA-4L",
		Name:        "Látex Interior Blanco 4L",
		Color:       "Blanco",
		Finish:      "mate",
		UnitMeasure: "galón",
		Price:       decimal.NewFromInt(42),
		Cost:        decimal.NewFromInt(25),
		MinStock:    5,
		Active:      true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, store.Products().Create(context.Background(), product))

	createUC := inventory.NewCreateTransactionUseCase(memory.NewTxRunner(store), nil)
	queryUC := inventory.NewStockQueryUseCase(store.Movements(), store.Products())
	return createUC, queryUC, store, product.ID
}

// TestCreateTransaction_FlujoCompleto reproduce el ciclo de vida típico:
// producto sin historial → entrada de 20 → salida de 8 → salida de 15 que
// debe rechazarse con shortfall 3, sin persistir nada.
func TestCreateTransaction_FlujoCompleto(t *testing.T) {
	createUC, queryUC, _, productID := newFixture(t)
	ctx := context.Background()

	// Sin movimientos el stock derivado es 0.
	stock, err := queryUC.CurrentStock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stock)

	// Entrada de 20 unidades.
	res, err := createUC.Execute(ctx, inventory.CreateTransactionInput{
		Type:      entity.MovementTypeIN,
		Reference: "FC-0001",
		Items:     []ledger.LineItem{{ProductID: productID, Quantity: 20}},
	})
	require.NoError(t, err)
	require.True(t, res.Validation.Valid)
	require.NotNil(t, res.Transaction)
	require.Len(t, res.Movements, 1)
	assert.Equal(t, int64(0), res.Movements[0].QuantityBefore)
	assert.Equal(t, int64(20), res.Movements[0].QuantityAfter)

	stock, err = queryUC.CurrentStock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), stock)

	// Salida de 8: pasa validación y encadena 20 → 12.
	res, err = createUC.Execute(ctx, inventory.CreateTransactionInput{
		Type:  entity.MovementTypeOUT,
		Items: []ledger.LineItem{{ProductID: productID, Quantity: 8}},
	})
	require.NoError(t, err)
	require.True(t, res.Validation.Valid)
	require.Len(t, res.Movements, 1)
	assert.Equal(t, int64(20), res.Movements[0].QuantityBefore)
	assert.Equal(t, int64(-8), res.Movements[0].QuantityChange)
	assert.Equal(t, int64(12), res.Movements[0].QuantityAfter)

	// Salida de 15 con 12 disponibles: shortfall exacto de 3 y rollback.
	res, err = createUC.Execute(ctx, inventory.CreateTransactionInput{
		Type:  entity.MovementTypeOUT,
		Items: []ledger.LineItem{{ProductID: productID, Quantity: 15}},
	})
	require.NoError(t, err, "la falta de stock es resultado estructurado, no error")
	assert.False(t, res.Validation.Valid)
	require.Len(t, res.Validation.Errors, 1)
	assert.Equal(t, int64(12), res.Validation.Errors[0].CurrentStock)
	assert.Equal(t, int64(15), res.Validation.Errors[0].RequestedQuantity)
	assert.Equal(t, int64(3), res.Validation.Errors[0].Shortfall)
	assert.Nil(t, res.Transaction)

	// Nada quedó aplicado a medias.
	stock, err = queryUC.CurrentStock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), stock)

	report, err := queryUC.VerifyIntegrity(ctx, productID)
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Equal(t, 2, report.TotalMovements)
	assert.Equal(t, int64(12), report.FinalBalance)
}

// TestCreateTransaction_RenglonesRepetidosAcumulan verifica que dos renglones
// del mismo producto dentro de una transacción encadenan entre sí.
func TestCreateTransaction_RenglonesRepetidosAcumulan(t *testing.T) {
	createUC, queryUC, _, productID := newFixture(t)
	ctx := context.Background()

	_, err := createUC.Execute(ctx, inventory.CreateTransactionInput{
		Type:  entity.MovementTypeIN,
		Items: []ledger.LineItem{{ProductID: productID, Quantity: 10}},
	})
	require.NoError(t, err)

	res, err := createUC.Execute(ctx, inventory.CreateTransactionInput{
		Type: entity.MovementTypeOUT,
		Items: []ledger.LineItem{
			{ProductID: productID, Quantity: 3},
			{ProductID: productID, Quantity: 4},
		},
	})
	require.NoError(t, err)
	require.True(t, res.Validation.Valid)
	require.Len(t, res.Movements, 2)
	assert.Equal(t, int64(10), res.Movements[0].QuantityBefore)
	assert.Equal(t, int64(7), res.Movements[0].QuantityAfter)
	assert.Equal(t, int64(7), res.Movements[1].QuantityBefore)
	assert.Equal(t, int64(3), res.Movements[1].QuantityAfter)

	stock, err := queryUC.CurrentStock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stock)

	report, err := queryUC.VerifyIntegrity(ctx, productID)
	require.NoError(t, err)
	assert.True(t, report.Valid, "los movimientos intra-transacción encadenan sin huecos")
}

// TestCreateTransaction_AjusteNegativoConConteo el conteo físico manda: un
// ADJUST con allow_negative puede dejar el stock bajo cero.
func TestCreateTransaction_AjusteNegativoConConteo(t *testing.T) {
	createUC, queryUC, _, productID := newFixture(t)
	ctx := context.Background()

	_, err := createUC.Execute(ctx, inventory.CreateTransactionInput{
		Type:  entity.MovementTypeIN,
		Items: []ledger.LineItem{{ProductID: productID, Quantity: 2}},
	})
	require.NoError(t, err)

	res, err := createUC.Execute(ctx, inventory.CreateTransactionInput{
		Type:          entity.MovementTypeADJUST,
		Reference:     "CONTEO-2024-07",
		Items:         []ledger.LineItem{{ProductID: productID, Quantity: -5}},
		AllowNegative: true,
	})
	require.NoError(t, err)
	require.True(t, res.Validation.Valid)

	stock, err := queryUC.CurrentStock(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(-3), stock)
}

// TestCreateTransaction_ErroresDeLlamante tipo desconocido y producto
// inexistente son errores, no resultados.
func TestCreateTransaction_ErroresDeLlamante(t *testing.T) {
	createUC, _, _, productID := newFixture(t)
	ctx := context.Background()

	_, err := createUC.Execute(ctx, inventory.CreateTransactionInput{
		Type:  "TRANSFER",
		Items: []ledger.LineItem{{ProductID: productID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownMovementType)

	_, err = createUC.Execute(ctx, inventory.CreateTransactionInput{
		Type:  entity.MovementTypeIN,
		Items: []ledger.LineItem{{ProductID: "no-existe", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = createUC.Execute(ctx, inventory.CreateTransactionInput{
		Type: entity.MovementTypeIN,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestCreateTransaction_RollbackNoDejaRastro una validación fallida no debe
// dejar ni la transacción ni movimientos en el backend.
func TestCreateTransaction_RollbackNoDejaRastro(t *testing.T) {
	createUC, _, store, productID := newFixture(t)
	ctx := context.Background()

	res, err := createUC.Execute(ctx, inventory.CreateTransactionInput{
		Type:  entity.MovementTypeOUT,
		Items: []ledger.LineItem{{ProductID: productID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.False(t, res.Validation.Valid)

	txs, err := store.Transactions().List(ctx, 100, 0)
	require.NoError(t, err)
	assert.Empty(t, txs)

	ids, err := store.Movements().ProductIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

// TestStockCard_KardexConSaldos el kardex refleja saldos corridos verificados.
func TestStockCard_KardexConSaldos(t *testing.T) {
	createUC, queryUC, _, productID := newFixture(t)
	ctx := context.Background()

	for _, step := range []struct {
		movType string
		qty     int64
	}{
		{entity.MovementTypeIN, 20},
		{entity.MovementTypeOUT, 8},
		{entity.MovementTypeRETURNIN, 2},
	} {
		_, err := createUC.Execute(ctx, inventory.CreateTransactionInput{
			Type:  step.movType,
			Items: []ledger.LineItem{{ProductID: productID, Quantity: step.qty}},
		})
		require.NoError(t, err)
	}

	card, err := queryUC.StockCard(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, "PIN-BLA-4L", card.SKU)
	assert.Equal(t, int64(14), card.CurrentStock)
	require.Len(t, card.Entries, 3)

	wantBalances := []int64{20, 12, 14}
	for i, e := range card.Entries {
		assert.Equal(t, wantBalances[i], e.RunningBalance)
		assert.True(t, e.Verified)
	}
}

// TestAdjustmentSuggestion_SobreBackend clasificación de ajuste de punta a punta.
func TestAdjustmentSuggestion_SobreBackend(t *testing.T) {
	createUC, queryUC, _, productID := newFixture(t)
	ctx := context.Background()

	_, err := createUC.Execute(ctx, inventory.CreateTransactionInput{
		Type:  entity.MovementTypeIN,
		Items: []ledger.LineItem{{ProductID: productID, Quantity: 9}},
	})
	require.NoError(t, err)

	s, err := queryUC.AdjustmentSuggestion(ctx, productID, 9)
	require.NoError(t, err)
	assert.Equal(t, ledger.AdjustmentNoChange, s.AdjustmentType)
	assert.Zero(t, s.AdjustmentQuantity)

	s, err = queryUC.AdjustmentSuggestion(ctx, productID, 4)
	require.NoError(t, err)
	assert.Equal(t, ledger.AdjustmentDecrease, s.AdjustmentType)
	assert.Equal(t, int64(5), s.AdjustmentQuantity)
}
