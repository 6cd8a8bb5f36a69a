package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/rs/zerolog"

	"uniresto-dining/internal/config"
	"uniresto-dining/internal/domain"
	"uniresto-dining/internal/domain/model"
	pg "uniresto-dining/internal/infra/db/postgres"
	"uniresto-dining/internal/usecase"
)

func main() {
	// ---- Config ----
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	nop := zerolog.Nop()
	menuUC := usecase.NewMenuUseCase(pg.NewMenuRepo(pool), &nop)
	accountUC := usecase.NewAccountUseCase(pg.NewAccountRepo(pool), &nop)

	// Bootstrap admin account; re-running the seed must be harmless.
	admin, err := accountUC.Register(ctx, "Dining Admin", "admin@uniresto.example", model.RoleAdmin)
	switch {
	case err == nil:
		fmt.Printf("seeded admin account (id=%s)\n", admin.ID)
	case errors.Is(err, domain.ErrAlreadyExists):
		fmt.Println("admin account already present. No changes.")
	default:
		log.Fatalf("seed admin: %v", err)
	}

	// If menus already exist, do nothing.
	existing, err := menuUC.ListAll(ctx)
	if err != nil {
		log.Fatalf("list menus: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("%d menus already present. No changes.\n", len(existing))
		return
	}

	// Seed a sample service week starting next Monday.
	start := nextMonday(time.Now())
	seed := []struct {
		Meal  model.MealType
		Price float64
		Desc  string
		Cap   int
	}{
		{model.MealTypeLunch, 3.30, "Couscous royale", 180},
		{model.MealTypeLunch, 3.30, "Gratin dauphinois et salade", 180},
		{model.MealTypeLunch, 3.30, "Curry de légumes", 150},
		{model.MealTypeDinner, 3.30, "Pâtes bolognaise", 120},
		{model.MealTypeDinner, 3.30, "Soupe et tartine du soir", 100},
	}

	for i, s := range seed {
		day := start.AddDate(0, 0, i%5)
		m, err := menuUC.Publish(ctx, usecase.PublishMenuParams{
			ServiceDate: day,
			MealType:    s.Meal,
			Price:       s.Price,
			Description: s.Desc,
			Capacity:    s.Cap,
		})
		if err != nil {
			log.Fatalf("publish menu %q: %v", s.Desc, err)
		}
		fmt.Printf("seeded: %s %s %q (id=%s, capacity=%d)\n",
			m.ServiceDate.Format("2006-01-02"), m.MealType, m.Description, m.ID, m.Capacity)
	}

	fmt.Println("✅ Seeding complete.")
}

func nextMonday(now time.Time) time.Time {
	d := now
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
