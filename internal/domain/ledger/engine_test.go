package ledger_test

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pintureria-api/internal/domain"
	"github.com/jhoicas/Pintureria-api/internal/domain/entity"
	"github.com/jhoicas/Pintureria-api/internal/domain/ledger"
)

// ──────────────────────────────────────────────────────────────────────────────
// fakeReader: libro de movimientos en memoria para ejercitar el motor sin
// backend. Los movimientos se agregan ya consistentes (o deliberadamente
// inconsistentes, para los tests de integridad).
// ──────────────────────────────────────────────────────────────────────────────

type fakeReader struct {
	movements []entity.StockMovement
}

func (f *fakeReader) Latest(_ context.Context, productID string) (*entity.StockMovement, error) {
	var last *entity.StockMovement
	for i := range f.movements {
		m := &f.movements[i]
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

func (f *fakeReader) ListByProduct(_ context.Context, productID string) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, m := range f.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

// append agrega un movimiento consistente con el último saldo del producto.
func (f *fakeReader) append(productID, movType string, change int64, at time.Time) entity.StockMovement {
	var before int64
	last, _ := f.Latest(context.Background(), productID)
	if last != nil {
		before = last.QuantityAfter
	}
	m := entity.StockMovement{
		ID:             fmt.Sprintf("%s-m%d", productID, len(f.movements)+1),
		ProductID:      productID,
		TransactionID:  "tx-test",
		Type:           movType,
		QuantityBefore: before,
		QuantityChange: change,
		QuantityAfter:  before + change,
		CreatedAt:      at,
		Seq:            int64(len(f.movements) + 1),
	}
	f.movements = append(f.movements, m)
	return m
}

// ──────────────────────────────────────────────────────────────────────────────
// Normalización de signo (QuantityChange)
// ──────────────────────────────────────────────────────────────────────────────

func TestQuantityChange_NormalizacionDeSigno(t *testing.T) {
	cases := []struct {
		name     string
		movType  string
		quantity int64
		want     int64
	}{
		{"IN positivo", entity.MovementTypeIN, 10, 10},
		{"IN negativo se normaliza", entity.MovementTypeIN, -10, 10},
		{"RETURN_IN negativo se normaliza", entity.MovementTypeRETURNIN, -4, 4},
		{"OUT positivo debita", entity.MovementTypeOUT, 7, -7},
		{"OUT negativo debita igual", entity.MovementTypeOUT, -7, -7},
		{"RETURN_OUT debita", entity.MovementTypeRETURNOUT, 3, -3},
		{"ADJUST respeta signo positivo", entity.MovementTypeADJUST, 5, 5},
		{"ADJUST respeta signo negativo", entity.MovementTypeADJUST, -5, -5},
		{"ADJUST cero", entity.MovementTypeADJUST, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ledger.QuantityChange(tc.movType, tc.quantity)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestQuantityChange_TipoDesconocido(t *testing.T) {
	_, err := ledger.QuantityChange("TRANSFER", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownMovementType,
		"un tipo no reconocido es bug del llamante y debe fallar rápido")
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock actual derivado
// ──────────────────────────────────────────────────────────────────────────────

func TestCurrentStock_SinHistorialEsCero(t *testing.T) {
	eng := ledger.NewEngine(&fakeReader{})
	stock, err := eng.CurrentStock(context.Background(), "producto-inexistente")
	require.NoError(t, err)
	assert.Equal(t, int64(0), stock)
}

func TestCurrentStock_DevuelveUltimoQuantityAfter(t *testing.T) {
	reader := &fakeReader{}
	base := time.Now()
	reader.append("p1", entity.MovementTypeIN, 20, base)
	reader.append("p1", entity.MovementTypeOUT, -8, base.Add(time.Minute))

	eng := ledger.NewEngine(reader)
	stock, err := eng.CurrentStock(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(12), stock)
}

func TestCurrentStockLevels_TodasLasClavesPresentes(t *testing.T) {
	reader := &fakeReader{}
	base := time.Now()
	reader.append("p1", entity.MovementTypeIN, 15, base)
	reader.append("p2", entity.MovementTypeIN, 30, base)
	reader.append("p2", entity.MovementTypeOUT, -10, base.Add(time.Second))

	eng := ledger.NewEngine(reader)
	levels, err := eng.CurrentStockLevels(context.Background(), []string{"p1", "p2", "p3"})
	require.NoError(t, err)

	// p3 no tiene movimientos pero debe aparecer con 0: el batch nunca
	// descarta productos del resultado.
	assert.Equal(t, map[string]int64{"p1": 15, "p2": 20, "p3": 0}, levels)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de disponibilidad
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateAvailability_LimiteExacto(t *testing.T) {
	reader := &fakeReader{}
	reader.append("p1", entity.MovementTypeIN, 10, time.Now())
	eng := ledger.NewEngine(reader)
	ctx := context.Background()

	// Pedir exactamente el stock disponible es válido.
	res, err := eng.ValidateAvailability(ctx, []ledger.LineItem{{ProductID: "p1", Quantity: 10}}, entity.MovementTypeOUT, false)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)

	// Pedir una unidad más falla con shortfall exacto de 1.
	res, err = eng.ValidateAvailability(ctx, []ledger.LineItem{{ProductID: "p1", Quantity: 11}}, entity.MovementTypeOUT, false)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, int64(10), res.Errors[0].CurrentStock)
	assert.Equal(t, int64(11), res.Errors[0].RequestedQuantity)
	assert.Equal(t, int64(1), res.Errors[0].Shortfall)
}

func TestValidateAvailability_CreditosNuncaFallan(t *testing.T) {
	eng := ledger.NewEngine(&fakeReader{})
	ctx := context.Background()

	for _, movType := range []string{entity.MovementTypeIN, entity.MovementTypeRETURNIN} {
		res, err := eng.ValidateAvailability(ctx, []ledger.LineItem{{ProductID: "nuevo", Quantity: 999}}, movType, false)
		require.NoError(t, err)
		assert.True(t, res.Valid, "crédito %s no debe fallar nunca", movType)
	}

	// ADJUST con cantidad no negativa también es crédito.
	res, err := eng.ValidateAvailability(ctx, []ledger.LineItem{{ProductID: "nuevo", Quantity: 50}}, entity.MovementTypeADJUST, false)
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestValidateAvailability_ReportaTodosLosRenglones(t *testing.T) {
	reader := &fakeReader{}
	base := time.Now()
	reader.append("p1", entity.MovementTypeIN, 5, base)
	reader.append("p2", entity.MovementTypeIN, 3, base)
	eng := ledger.NewEngine(reader)

	res, err := eng.ValidateAvailability(context.Background(), []ledger.LineItem{
		{ProductID: "p1", Quantity: 8},
		{ProductID: "p2", Quantity: 4},
	}, entity.MovementTypeOUT, false)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Len(t, res.Errors, 2, "deben reportarse todos los renglones fallidos, no solo el primero")
}

func TestValidateAvailability_ProductoRepetidoAcumula(t *testing.T) {
	reader := &fakeReader{}
	reader.append("p1", entity.MovementTypeIN, 10, time.Now())
	eng := ledger.NewEngine(reader)

	// 6 + 6 = 12 > 10: cada renglón en soledad pasaría, el lote no.
	res, err := eng.ValidateAvailability(context.Background(), []ledger.LineItem{
		{ProductID: "p1", Quantity: 6},
		{ProductID: "p1", Quantity: 6},
	}, entity.MovementTypeOUT, false)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, int64(4), res.Errors[0].CurrentStock, "el segundo renglón ve lo que dejó el primero")
	assert.Equal(t, int64(2), res.Errors[0].Shortfall)
}

func TestValidateAvailability_AllowNegativeSoloParaAdjust(t *testing.T) {
	reader := &fakeReader{}
	reader.append("p1", entity.MovementTypeIN, 2, time.Now())
	eng := ledger.NewEngine(reader)
	ctx := context.Background()

	// ADJUST negativo con allowNegative puede dejar stock negativo: el
	// conteo físico es autoritativo.
	res, err := eng.ValidateAvailability(ctx, []ledger.LineItem{{ProductID: "p1", Quantity: -9}}, entity.MovementTypeADJUST, true)
	require.NoError(t, err)
	assert.True(t, res.Valid)

	// OUT jamás honra allowNegative.
	res, err = eng.ValidateAvailability(ctx, []ledger.LineItem{{ProductID: "p1", Quantity: 9}}, entity.MovementTypeOUT, true)
	require.NoError(t, err)
	assert.False(t, res.Valid)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cálculo de movimientos por transacción
// ──────────────────────────────────────────────────────────────────────────────

func TestCalculateMovements_AntesYDespuesEncadenados(t *testing.T) {
	reader := &fakeReader{}
	reader.append("p1", entity.MovementTypeIN, 20, time.Now())
	eng := ledger.NewEngine(reader)

	drafts, err := eng.CalculateMovements(context.Background(), []ledger.LineItem{
		{ProductID: "p1", Quantity: 8},
	}, entity.MovementTypeOUT, "tx-1")
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	d := drafts[0]
	assert.Equal(t, "tx-1", d.TransactionID)
	assert.Equal(t, int64(20), d.QuantityBefore)
	assert.Equal(t, int64(-8), d.QuantityChange)
	assert.Equal(t, int64(12), d.QuantityAfter)
}

func TestCalculateMovements_ProductoRepetidoAcumula(t *testing.T) {
	reader := &fakeReader{}
	reader.append("p1", entity.MovementTypeIN, 10, time.Now())
	eng := ledger.NewEngine(reader)

	drafts, err := eng.CalculateMovements(context.Background(), []ledger.LineItem{
		{ProductID: "p1", Quantity: 3},
		{ProductID: "p1", Quantity: 4},
	}, entity.MovementTypeOUT, "tx-2")
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	// El segundo renglón parte del saldo que dejó el primero, no del stock
	// persistido: acumulación intra-transacción explícita.
	assert.Equal(t, int64(10), drafts[0].QuantityBefore)
	assert.Equal(t, int64(7), drafts[0].QuantityAfter)
	assert.Equal(t, int64(7), drafts[1].QuantityBefore)
	assert.Equal(t, int64(3), drafts[1].QuantityAfter)
}

// ──────────────────────────────────────────────────────────────────────────────
// Saldos corridos
// ──────────────────────────────────────────────────────────────────────────────

func TestRunningBalances_EstableAnteDesorden(t *testing.T) {
	reader := &fakeReader{}
	base := time.Now()
	changes := []int64{20, -8, 5, -3, 10, -15, 2}
	for i, c := range changes {
		movType := entity.MovementTypeIN
		if c < 0 {
			movType = entity.MovementTypeOUT
		}
		reader.append("p1", movType, c, base.Add(time.Duration(i)*time.Minute))
	}
	original, err := reader.ListByProduct(context.Background(), "p1")
	require.NoError(t, err)

	ordered := ledger.RunningBalances(original)

	// Barajar y recalcular: mismo resultado entrada por entrada (por ID).
	shuffled := make([]entity.StockMovement, len(original))
	copy(shuffled, original)
	rand.New(rand.NewSource(42)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	reshuffled := ledger.RunningBalances(shuffled)

	require.Len(t, reshuffled, len(ordered))
	for i := range ordered {
		assert.Equal(t, ordered[i].Movement.ID, reshuffled[i].Movement.ID)
		assert.Equal(t, ordered[i].RunningBalance, reshuffled[i].RunningBalance)
		assert.True(t, reshuffled[i].Verified, "historial consistente: todo saldo corrido coincide")
	}
}

func TestRunningBalances_EmpataPorSeq(t *testing.T) {
	// Dos movimientos con el mismo CreatedAt: desempata Seq (orden de inserción).
	at := time.Now()
	movs := []entity.StockMovement{
		{ID: "b", ProductID: "p1", QuantityBefore: 5, QuantityChange: -2, QuantityAfter: 3, CreatedAt: at, Seq: 2},
		{ID: "a", ProductID: "p1", QuantityBefore: 0, QuantityChange: 5, QuantityAfter: 5, CreatedAt: at, Seq: 1},
	}
	entries := ledger.RunningBalances(movs)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Movement.ID)
	assert.Equal(t, "b", entries[1].Movement.ID)
	assert.True(t, entries[0].Verified)
	assert.True(t, entries[1].Verified)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajuste contra conteo físico
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustment_Clasificacion(t *testing.T) {
	reader := &fakeReader{}
	reader.append("p1", entity.MovementTypeIN, 10, time.Now())
	eng := ledger.NewEngine(reader)
	ctx := context.Background()

	cases := []struct {
		name     string
		actual   int64
		wantType string
		wantQty  int64
		wantDiff int64
	}{
		{"conteo igual", 10, ledger.AdjustmentNoChange, 0, 0},
		{"sobra stock físico", 14, ledger.AdjustmentIncrease, 4, 4},
		{"falta stock físico", 6, ledger.AdjustmentDecrease, 4, -4},
		{"conteo en cero", 0, ledger.AdjustmentDecrease, 10, -10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := eng.Adjustment(ctx, "p1", tc.actual)
			require.NoError(t, err)
			assert.Equal(t, int64(10), s.CurrentStock)
			assert.Equal(t, tc.actual, s.ActualStock)
			assert.Equal(t, tc.wantDiff, s.Difference)
			assert.Equal(t, tc.wantType, s.AdjustmentType)
			assert.Equal(t, tc.wantQty, s.AdjustmentQuantity)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Auditoría de integridad
// ──────────────────────────────────────────────────────────────────────────────

func TestVerifyIntegrity_HistorialConsistente(t *testing.T) {
	reader := &fakeReader{}
	base := time.Now()
	reader.append("p1", entity.MovementTypeIN, 20, base)
	reader.append("p1", entity.MovementTypeOUT, -8, base.Add(time.Minute))
	reader.append("p1", entity.MovementTypeADJUST, 3, base.Add(2*time.Minute))

	eng := ledger.NewEngine(reader)
	report, err := eng.VerifyIntegrity(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Equal(t, 3, report.TotalMovements)
	assert.Equal(t, int64(15), report.FinalBalance)
	assert.Empty(t, report.Errors)
}

func TestVerifyIntegrity_SinMovimientos(t *testing.T) {
	eng := ledger.NewEngine(&fakeReader{})
	report, err := eng.VerifyIntegrity(context.Background(), "vacio")
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Zero(t, report.TotalMovements)
	assert.Zero(t, report.FinalBalance)
	assert.NotEmpty(t, report.Message)
}

func TestVerifyIntegrity_DetectaBalanceMismatch(t *testing.T) {
	reader := &fakeReader{}
	base := time.Now()
	reader.append("p1", entity.MovementTypeIN, 20, base)
	m := reader.append("p1", entity.MovementTypeOUT, -5, base.Add(time.Minute))
	reader.append("p1", entity.MovementTypeIN, 10, base.Add(2*time.Minute))

	// Corromper el QuantityBefore del segundo movimiento (simula una fila
	// escrita fuera del flujo atómico). El tercero encadena con el
	// QuantityAfter registrado, así que el error no cascadea.
	for i := range reader.movements {
		if reader.movements[i].ID == m.ID {
			reader.movements[i].QuantityBefore = 99
			reader.movements[i].QuantityAfter = 94
		}
	}

	eng := ledger.NewEngine(reader)
	report, err := eng.VerifyIntegrity(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, report.Valid)
	require.Len(t, report.Errors, 2, "un BALANCE_MISMATCH en la fila corrupta y uno en la siguiente que ya no encadena")

	first := report.Errors[0]
	assert.Equal(t, ledger.IssueBalanceMismatch, first.Issue)
	assert.Equal(t, int64(20), first.Expected)
	assert.Equal(t, int64(99), first.Actual)

	// FinalBalance sigue siendo el QuantityAfter real de la última fila.
	assert.Equal(t, int64(25), report.FinalBalance)
}

func TestVerifyIntegrity_UnSoloMismatchSinCascada(t *testing.T) {
	reader := &fakeReader{}
	base := time.Now()
	reader.append("p1", entity.MovementTypeIN, 20, base)
	m := reader.append("p1", entity.MovementTypeOUT, -5, base.Add(time.Minute))
	reader.append("p1", entity.MovementTypeIN, 10, base.Add(2*time.Minute))

	// Solo QuantityBefore y QuantityChange quedan mal; QuantityAfter se
	// conserva, así la aritmética propia de la fila sigue cerrando y la fila
	// siguiente sigue encadenando: debe reportarse UN único mismatch.
	for i := range reader.movements {
		if reader.movements[i].ID == m.ID {
			reader.movements[i].QuantityBefore = 25
			reader.movements[i].QuantityChange = -10
		}
	}

	eng := ledger.NewEngine(reader)
	report, err := eng.VerifyIntegrity(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, report.Valid)
	require.Len(t, report.Errors, 1, "exactamente un BALANCE_MISMATCH en la entrada corrupta")
	assert.Equal(t, ledger.IssueBalanceMismatch, report.Errors[0].Issue)
	assert.Equal(t, 1, report.Errors[0].Index)
	assert.Equal(t, int64(25), report.Errors[0].Actual)
	assert.Equal(t, int64(25), report.FinalBalance, "FinalBalance es el QuantityAfter real de la última fila")
}

func TestVerifyIntegrity_DetectaCalculationError(t *testing.T) {
	reader := &fakeReader{}
	base := time.Now()
	reader.append("p1", entity.MovementTypeIN, 20, base)
	m := reader.append("p1", entity.MovementTypeOUT, -5, base.Add(time.Minute))

	// after ≠ before + change en la propia fila.
	for i := range reader.movements {
		if reader.movements[i].ID == m.ID {
			reader.movements[i].QuantityAfter = 16
		}
	}

	eng := ledger.NewEngine(reader)
	report, err := eng.VerifyIntegrity(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, ledger.IssueCalculationError, report.Errors[0].Issue)
	assert.Equal(t, int64(15), report.Errors[0].Expected)
	assert.Equal(t, int64(16), report.Errors[0].Actual)
}
