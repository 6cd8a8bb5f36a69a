package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"uniresto-dining/internal/infra/logging"
	"uniresto-dining/internal/infra/redis"
	"uniresto-dining/internal/usecase"
)

const (
	lookupRateLimit  = 30
	lookupRateWindow = time.Minute
)

type Server struct {
	menuUC       usecase.MenuUseCase
	bookingUC    usecase.BookingUseCase
	redemptionUC usecase.RedemptionUseCase
	accountUC    usecase.AccountUseCase
	statsUC      usecase.StatsUseCase
	suggestUC    usecase.SuggestionUseCase

	auth    *AuthManager
	apiKey  string
	limiter *redis.RateLimiter // may be nil
	log     *zerolog.Logger
}

func NewServer(
	menuUC usecase.MenuUseCase,
	bookingUC usecase.BookingUseCase,
	redemptionUC usecase.RedemptionUseCase,
	accountUC usecase.AccountUseCase,
	statsUC usecase.StatsUseCase,
	suggestUC usecase.SuggestionUseCase,
	auth *AuthManager,
	apiKey string,
	limiter *redis.RateLimiter,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		menuUC:       menuUC,
		bookingUC:    bookingUC,
		redemptionUC: redemptionUC,
		accountUC:    accountUC,
		statsUC:      statsUC,
		suggestUC:    suggestUC,
		auth:         auth,
		apiKey:       apiKey,
		limiter:      limiter,
		log:          logger,
	}
}

// Router wires the full HTTP surface. Student-facing routes are open; the
// counter and administration routes sit behind the staff session.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.traceContext)
	r.Use(s.requestLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/session", sessionHandler(s.auth, s.apiKey, s.log))
		r.Delete("/auth/session", logoutHandler(s.auth))

		r.Get("/menus", menusListHandler(s.menuUC, false))
		r.Post("/bookings", bookingCreateHandler(s.bookingUC))
		r.Get("/students/{id}/bookings", studentBookingsHandler(s.bookingUC))

		// Staff-side routes
		r.Group(func(r chi.Router) {
			r.Use(s.requireRole("staff", "admin"))

			r.With(s.rateLimitLookup).Get("/tickets/{code}", ticketResolveHandler(s.redemptionUC))
			r.Post("/tickets/{code}/pay", ticketPayHandler(s.redemptionUC))
			r.Post("/tickets/{code}/redeem", ticketRedeemHandler(s.redemptionUC))
		})

		// Administration routes
		r.Group(func(r chi.Router) {
			r.Use(s.requireRole("admin"))

			r.Get("/menus/all", menusListHandler(s.menuUC, true))
			r.Post("/menus", menuCreateHandler(s.menuUC))
			r.Put("/menus/{id}", menuUpdateHandler(s.menuUC))
			r.Post("/menus/{id}/active", menuSetActiveHandler(s.menuUC))
			r.Delete("/menus/{id}", menuDeleteHandler(s.menuUC))

			r.Post("/accounts", accountCreateHandler(s.accountUC))
			r.Delete("/accounts/{id}", accountDeleteHandler(s.accountUC))
			r.Get("/staff", staffListHandler(s.accountUC))

			r.Get("/stats", statsHandler(s.statsUC))
			r.Post("/suggest", suggestHandler(s.suggestUC))
			r.Post("/stats/summary", statsSummaryHandler(s.statsUC, s.suggestUC))
		})
	})

	return r
}

// traceContext copies the chi request id into the logging context so every
// line emitted for this request carries it.
func (s *Server) traceContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithTraceID(r.Context(), middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.With(r.Context(), s.log).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http_request")
	})
}

// requireRole parses the staff session and admits the listed roles.
func (s *Server) requireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := s.auth.ParseFromRequest(r)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					ctx := logging.WithAccountID(r.Context(), claims.Subject)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}

// rateLimitLookup throttles code lookups per source address to slow down
// code guessing. Without redis the limiter is absent and lookups pass.
func (s *Server) rateLimitLookup(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil {
			ok, err := s.limiter.Allow(r.Context(), redis.TicketLookupKey(r.RemoteAddr), lookupRateLimit, lookupRateWindow)
			if err == nil && !ok {
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
