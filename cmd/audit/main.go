// audit recorre el libro de stock completo y verifica la integridad del
// historial de cada producto con movimientos: encadenamiento de saldos y
// aritmética por movimiento. Solo diagnóstico: nunca modifica datos.
//
// Uso: go run ./cmd/audit
// Sale con código 1 si encuentra alguna inconsistencia.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/Pintureria-api/internal/application/inventory"
	"github.com/jhoicas/Pintureria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Pintureria-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	query := inventory.NewStockQueryUseCase(
		postgres.NewStockMovementRepository(pool),
		postgres.NewProductRepository(pool),
	)

	reports, err := query.AuditAll(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "auditoría: %v\n", err)
		os.Exit(1)
	}

	inconsistent := 0
	for _, r := range reports {
		if r.Valid {
			fmt.Printf("OK   %-36s  movimientos=%d  saldo=%d\n", r.ProductID, r.TotalMovements, r.FinalBalance)
			continue
		}
		inconsistent++
		fmt.Printf("FAIL %-36s  movimientos=%d  saldo=%d\n", r.ProductID, r.TotalMovements, r.FinalBalance)
		for _, issue := range r.Errors {
			fmt.Printf("     [%d] %s movimiento=%s esperado=%d actual=%d\n",
				issue.Index, issue.Issue, issue.MovementID, issue.Expected, issue.Actual)
		}
	}

	fmt.Printf("\nproductos auditados: %d, inconsistentes: %d\n", len(reports), inconsistent)
	if inconsistent > 0 {
		os.Exit(1)
	}
}
