package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"uniresto-dining/internal/domain"
	"uniresto-dining/internal/domain/model"
)

func TestSuggestionUseCase_SuggestMenu(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gen := &stubTextGen{reply: "  Tajine de légumes: slow-cooked vegetables with couscous.  "}
	uc := NewSuggestionUseCase(gen, testLogger())

	text, err := uc.SuggestMenu(ctx, "autumn vegetables")
	if err != nil {
		t.Fatalf("SuggestMenu: %v", err)
	}
	if text != strings.TrimSpace(gen.reply) {
		t.Fatalf("SuggestMenu = %q, want trimmed reply", text)
	}
	if len(gen.prompts) != 1 || !strings.Contains(gen.prompts[0], "autumn vegetables") {
		t.Fatalf("prompt did not carry the theme: %v", gen.prompts)
	}

	if _, err := uc.SuggestMenu(ctx, "   "); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("blank theme = %v, want ErrInvalidArgument", err)
	}
}

func TestSuggestionUseCase_GeneratorErrorPassesThrough(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	genErr := errors.New("provider unavailable")
	uc := NewSuggestionUseCase(&stubTextGen{err: genErr}, testLogger())

	if _, err := uc.SuggestMenu(ctx, "anything"); !errors.Is(err, genErr) {
		t.Fatalf("SuggestMenu error = %v, want pass-through", err)
	}
	if _, err := uc.SummarizeStats(ctx, 3, nil); !errors.Is(err, genErr) {
		t.Fatalf("SummarizeStats error = %v, want pass-through", err)
	}
}

func TestSuggestionUseCase_SummarizeStats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gen := &stubTextGen{reply: "Bookings are healthy."}
	uc := NewSuggestionUseCase(gen, testLogger())

	byStatus := map[model.BookingStatus]int{
		model.BookingStatusPending:   2,
		model.BookingStatusPaid:      5,
		model.BookingStatusValidated: 7,
	}
	text, err := uc.SummarizeStats(ctx, 14, byStatus)
	if err != nil {
		t.Fatalf("SummarizeStats: %v", err)
	}
	if text != "Bookings are healthy." {
		t.Fatalf("SummarizeStats = %q", text)
	}
	prompt := gen.prompts[0]
	for _, want := range []string{"14", "2 awaiting payment", "5 paid", "7 redeemed"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt %q missing %q", prompt, want)
		}
	}
}
