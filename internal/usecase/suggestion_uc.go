package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"uniresto-dining/internal/domain"
	"uniresto-dining/internal/domain/model"
	"uniresto-dining/internal/domain/ports/adapter"
	"uniresto-dining/internal/infra/logging"
)

// Compile-time check
var _ SuggestionUseCase = (*suggestionUC)(nil)

// SuggestionUseCase produces generative text for the presentation layer: a
// menu description for a theme, and a short summary of booking stats. It is
// presentation glue: failures and cancellations here never touch booking
// state, and callers may run it asynchronously.
type SuggestionUseCase interface {
	SuggestMenu(ctx context.Context, theme string) (string, error)
	SummarizeStats(ctx context.Context, total int, byStatus map[model.BookingStatus]int) (string, error)
}

type suggestionUC struct {
	gen adapter.TextGenerator
	log *zerolog.Logger
}

func NewSuggestionUseCase(gen adapter.TextGenerator, logger *zerolog.Logger) *suggestionUC {
	return &suggestionUC{gen: gen, log: logger}
}

func (u *suggestionUC) SuggestMenu(ctx context.Context, theme string) (string, error) {
	defer logging.TraceDuration(u.log, "SuggestionUC.SuggestMenu")()

	theme = strings.TrimSpace(theme)
	if theme == "" {
		return "", domain.ErrInvalidArgument
	}
	prompt := fmt.Sprintf(
		"Suggest a single university cafeteria meal for the theme %q. "+
			"Answer with one short title followed by a one-sentence description.", theme)
	text, err := u.gen.Generate(ctx, prompt)
	if err != nil {
		u.log.Warn().Err(err).Str("provider", u.gen.Name()).Msg("menu suggestion failed")
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (u *suggestionUC) SummarizeStats(ctx context.Context, total int, byStatus map[model.BookingStatus]int) (string, error) {
	defer logging.TraceDuration(u.log, "SuggestionUC.SummarizeStats")()

	prompt := fmt.Sprintf(
		"In two sentences, summarize these dining reservation numbers for an administrator: "+
			"%d total bookings, %d awaiting payment, %d paid, %d redeemed.",
		total,
		byStatus[model.BookingStatusPending],
		byStatus[model.BookingStatusPaid],
		byStatus[model.BookingStatusValidated])
	text, err := u.gen.Generate(ctx, prompt)
	if err != nil {
		u.log.Warn().Err(err).Str("provider", u.gen.Name()).Msg("stats summary failed")
		return "", err
	}
	return strings.TrimSpace(text), nil
}
