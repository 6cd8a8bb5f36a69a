package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"uniresto-dining/internal/config"
	"uniresto-dining/internal/domain"
	"uniresto-dining/internal/domain/model"
	pg "uniresto-dining/internal/infra/db/postgres"
	"uniresto-dining/internal/usecase"
)

// Walks one ticket through its whole life against a real database:
// book, look it up at the counter, take payment, serve the meal, then
// show that the code cannot be used twice.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer pool.Close()

	nop := zerolog.Nop()
	menuRepo := pg.NewMenuRepo(pool)
	bookingRepo := pg.NewBookingRepo(pool)
	accountRepo := pg.NewAccountRepo(pool)

	menuUC := usecase.NewMenuUseCase(menuRepo, &nop)
	bookingUC := usecase.NewBookingUseCase(bookingRepo, menuRepo, pg.NewTxManager(pool), &nop)
	redemptionUC := usecase.NewRedemptionUseCase(bookingUC, accountRepo, menuRepo, nil, &nop)

	menu, err := menuUC.Publish(ctx, usecase.PublishMenuParams{
		ServiceDate: time.Now().AddDate(0, 0, 1),
		MealType:    model.MealTypeLunch,
		Price:       3.30,
		Description: "Demo: tajine de poulet",
		Capacity:    10,
	})
	if err != nil {
		log.Fatalf("publish menu error: %v", err)
	}
	log.Printf("published menu %s (%s)", menu.ID, menu.Description)

	studentID := uuid.NewString()
	booking, err := bookingUC.Create(ctx, studentID, menu.ID, model.PaymentMethodOnsite)
	if err != nil {
		log.Fatalf("create booking error: %v", err)
	}
	log.Printf("booked: id=%s code=%s status=%s", booking.ID, booking.Code, booking.Status)

	view, err := redemptionUC.Resolve(ctx, booking.Code)
	if err != nil {
		log.Fatalf("resolve error: %v", err)
	}
	log.Printf("counter sees: menu=%q actions=%v", view.MenuLabel, view.Actions)

	paid, err := redemptionUC.MarkPaid(ctx, booking.Code)
	if err != nil {
		log.Fatalf("mark paid error: %v", err)
	}
	log.Printf("paid: status=%s", paid.Status)

	served, err := redemptionUC.Redeem(ctx, booking.Code)
	if err != nil {
		log.Fatalf("redeem error: %v", err)
	}
	log.Printf("served: status=%s redeemed_at=%s", served.Status, served.RedeemedAt.Format(time.RFC3339))

	// The same code a second time must bounce.
	if _, err := redemptionUC.Redeem(ctx, booking.Code); errors.Is(err, domain.ErrAlreadyRedeemed) {
		log.Printf("second redeem rejected as expected: %v", err)
	} else {
		log.Fatalf("second redeem: got %v, want already-redeemed rejection", err)
	}
}
