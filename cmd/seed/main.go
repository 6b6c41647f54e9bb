// seed puebla la base con un catálogo de pinturas de demostración, un
// usuario admin y una transacción IN inicial, dejando el libro de stock con
// historial real (nunca escribe saldos a mano).
//
// Uso: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pintureria-api/internal/application/auth"
	"github.com/jhoicas/Pintureria-api/internal/application/dto"
	"github.com/jhoicas/Pintureria-api/internal/application/inventory"
	"github.com/jhoicas/Pintureria-api/internal/application/usecase"
	"github.com/jhoicas/Pintureria-api/internal/domain/entity"
	"github.com/jhoicas/Pintureria-api/internal/domain/ledger"
	"github.com/jhoicas/Pintureria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Pintureria-api/pkg/config"
)

type seedProduct struct {
	sku     string
	name    string
	color   string
	finish  string
	price   string
	cost    string
	minimum int64
	initial int64
}

var catalogue = []seedProduct{
	{"PIN-BLA-1L", "Látex interior blanco 1L", "blanco", "mate", "8500", "5200", 10, 40},
	{"PIN-BLA-4L", "Látex interior blanco 4L", "blanco", "mate", "29900", "19500", 5, 25},
	{"PIN-NEG-1L", "Esmalte sintético negro 1L", "negro", "brillante", "11200", "7300", 8, 18},
	{"PIN-AZU-4L", "Látex exterior azul 4L", "azul", "satinado", "33400", "22100", 4, 12},
	{"PIN-ROJ-1L", "Esmalte sintético rojo 1L", "rojo", "brillante", "11200", "7300", 6, 15},
	{"BAR-TRA-1L", "Barniz marino transparente 1L", "transparente", "brillante", "14800", "9600", 5, 10},
}

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

	movRepo := postgres.NewStockMovementRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	productUC := usecase.NewProductUseCase(productRepo, movRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	createTransactionUC := inventory.NewCreateTransactionUseCase(postgres.NewTxRunner(pool), nil)

	admin, err := authUC.RegisterUser(ctx, dto.RegisterRequest{
		Email:    "admin@pintureria.local",
		Password: "cambiame-ya",
		Name:     "Administrador",
		Role:     entity.RoleAdmin,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "crear admin: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("usuario admin creado: %s\n", admin.Email)

	var items []ledger.LineItem
	for _, p := range catalogue {
		created, err := productUC.Create(ctx, dto.CreateProductRequest{
			SKU:         p.sku,
			Name:        p.name,
			Color:       p.color,
			Finish:      p.finish,
			UnitMeasure: "lata",
			Price:       decimal.RequireFromString(p.price),
			Cost:        decimal.RequireFromString(p.cost),
			MinStock:    p.minimum,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "crear producto %s: %v\n", p.sku, err)
			os.Exit(1)
		}
		fmt.Printf("producto creado: %-12s %s\n", created.SKU, created.Name)
		items = append(items, ledger.LineItem{ProductID: created.ID, Quantity: p.initial})
	}

	result, err := createTransactionUC.Execute(ctx, inventory.CreateTransactionInput{
		Type:      entity.MovementTypeIN,
		Reference: "SEED-001",
		Notes:     "carga inicial de demostración",
		UserID:    admin.ID,
		Items:     items,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "transacción inicial: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("transacción inicial %s registrada con %d movimientos\n",
		result.Transaction.ID, len(result.Movements))
}
