package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"uniresto-dining/internal/domain"
	"uniresto-dining/internal/domain/model"
	"uniresto-dining/internal/infra/logging"
	"uniresto-dining/internal/usecase"
)

const dateLayout = "2006-01-02"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeDomainError maps domain sentinels onto HTTP statuses. Lifecycle
// rejections are conflicts: the request was well-formed, the booking just is
// not in the state the action needs.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidMenuReference):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrDuplicateBooking),
		errors.Is(err, domain.ErrMenuSoldOut),
		errors.Is(err, domain.ErrNotPaid),
		errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, domain.ErrAlreadyRedeemed),
		errors.Is(err, domain.ErrStaleStatus),
		errors.Is(err, domain.ErrCodeTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrLockBusy):
		http.Error(w, err.Error(), http.StatusLocked)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// ===== Sessions =====

type sessionRequest struct {
	APIKey string `json:"api_key"`
	Role   string `json:"role"`
}

// sessionHandler exchanges the shared API key for a staff or admin session
// cookie.
func sessionHandler(auth *AuthManager, apiKey string, log *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if apiKey == "" {
			log.Error().Msg("staff API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		var req sessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.APIKey != apiKey {
			log.Warn().Str("api_key", logging.Redact(req.APIKey)).Msg("session minting rejected")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if req.Role != "staff" && req.Role != "admin" {
			http.Error(w, "Invalid role", http.StatusBadRequest)
			return
		}

		token, err := auth.Mint(w, req.Role)
		if err != nil {
			http.Error(w, "Failed to mint session", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": token, "role": req.Role})
	}
}

// logoutHandler drops the session cookie. Token holders simply stop sending
// the bearer header; there is no server-side session state to revoke.
func logoutHandler(auth *AuthManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth.Clear(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ===== Menus =====

type menuRequest struct {
	ServiceDate string  `json:"service_date"` // YYYY-MM-DD
	MealType    string  `json:"meal_type"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	Capacity    int     `json:"capacity"`
}

func (req *menuRequest) toParams() (usecase.PublishMenuParams, error) {
	day, err := time.Parse(dateLayout, req.ServiceDate)
	if err != nil {
		return usecase.PublishMenuParams{}, domain.ErrInvalidArgument
	}
	return usecase.PublishMenuParams{
		ServiceDate: day,
		MealType:    model.MealType(req.MealType),
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Capacity:    req.Capacity,
	}, nil
}

func menusListHandler(menuUC usecase.MenuUseCase, all bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			menus []*model.MenuEntry
			err   error
		)
		if all {
			menus, err = menuUC.ListAll(r.Context())
		} else {
			menus, err = menuUC.ListActive(r.Context())
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.MenuEntry `json:"data"`
		}{Data: menus})
	}
}

func menuCreateHandler(menuUC usecase.MenuUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req menuRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		params, err := req.toParams()
		if err != nil {
			writeDomainError(w, err)
			return
		}
		m, err := menuUC.Publish(r.Context(), params)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

func menuUpdateHandler(menuUC usecase.MenuUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req menuRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		params, err := req.toParams()
		if err != nil {
			writeDomainError(w, err)
			return
		}
		m, err := menuUC.Update(r.Context(), chi.URLParam(r, "id"), params)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func menuSetActiveHandler(menuUC usecase.MenuUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Active bool `json:"active"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := menuUC.SetActive(r.Context(), chi.URLParam(r, "id"), req.Active); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func menuDeleteHandler(menuUC usecase.MenuUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := menuUC.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ===== Bookings =====

type bookingCreateRequest struct {
	StudentID     string `json:"student_id"`
	MenuID        string `json:"menu_id"`
	PaymentMethod string `json:"payment_method"`
}

func bookingCreateHandler(bookingUC usecase.BookingUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookingCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		b, err := bookingUC.Create(r.Context(), req.StudentID, req.MenuID, model.PaymentMethod(req.PaymentMethod))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, b)
	}
}

func studentBookingsHandler(bookingUC usecase.BookingUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookings, err := bookingUC.ListForStudent(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Booking `json:"data"`
		}{Data: bookings})
	}
}

// ===== Tickets =====

func ticketResolveHandler(redemptionUC usecase.RedemptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := redemptionUC.Resolve(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if view == nil {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func ticketPayHandler(redemptionUC usecase.RedemptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := redemptionUC.MarkPaid(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

func ticketRedeemHandler(redemptionUC usecase.RedemptionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := redemptionUC.Redeem(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

// ===== Accounts =====

type accountCreateRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func accountCreateHandler(accountUC usecase.AccountUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req accountCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		acc, err := accountUC.Register(r.Context(), req.FullName, req.Email, model.Role(req.Role))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, acc)
	}
}

func accountDeleteHandler(accountUC usecase.AccountUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := accountUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func staffListHandler(accountUC usecase.AccountUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staff, err := accountUC.ListStaff(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Data []*model.Account `json:"data"`
		}{Data: staff})
	}
}

// ===== Stats =====

func statsHandler(statsUC usecase.StatsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		accounts, byStatus, err := statsUC.Totals(ctx)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		revenue, err := statsUC.RevenueByDay(ctx)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		response := struct {
			TotalAccounts    int                         `json:"total_accounts"`
			BookingsByStatus map[model.BookingStatus]int `json:"bookings_by_status"`
			RevenueByDay     []usecase.DailyRevenue      `json:"revenue_by_day"`
		}{
			TotalAccounts:    accounts,
			BookingsByStatus: byStatus,
			RevenueByDay:     revenue,
		}
		writeJSON(w, http.StatusOK, response)
	}
}

// ===== Suggestions =====

type suggestRequest struct {
	Theme string `json:"theme"`
}

func suggestHandler(suggestUC usecase.SuggestionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req suggestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		text, err := suggestUC.SuggestMenu(r.Context(), req.Theme)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"suggestion": text})
	}
}

func statsSummaryHandler(statsUC usecase.StatsUseCase, suggestUC usecase.SuggestionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		_, byStatus, err := statsUC.Totals(ctx)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		total := 0
		for _, n := range byStatus {
			total += n
		}
		text, err := suggestUC.SummarizeStats(ctx, total, byStatus)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"summary": text})
	}
}
