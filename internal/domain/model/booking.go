package model

import (
	"strings"
	"time"

	"uniresto-dining/internal/domain"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusPaid      BookingStatus = "PAID"
	BookingStatusValidated BookingStatus = "VALIDATED"
)

type PaymentMethod string

const (
	PaymentMethodOnline PaymentMethod = "online"
	PaymentMethodOnsite PaymentMethod = "onsite"
)

// ValidPaymentMethod reports whether m is a supported payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentMethodOnline || m == PaymentMethodOnsite
}

// Action is a lifecycle event a staff member (or the student, for online
// payment) can apply to a booking.
type Action string

const (
	ActionMarkPaid Action = "mark_paid"
	ActionRedeem   Action = "redeem"
)

// transitions is the authoritative state machine definition. Legal next
// actions shown at the counter are derived from this table, never listed
// separately.
var transitions = map[BookingStatus]map[Action]BookingStatus{
	BookingStatusPending: {ActionMarkPaid: BookingStatusPaid},
	BookingStatusPaid:    {ActionRedeem: BookingStatusValidated},
}

// NextStatus returns the status reached by applying action in from, or the
// domain error explaining why the transition is rejected.
func NextStatus(from BookingStatus, action Action) (BookingStatus, error) {
	if to, ok := transitions[from][action]; ok {
		return to, nil
	}
	switch from {
	case BookingStatusValidated:
		return "", domain.ErrAlreadyRedeemed
	case BookingStatusPaid:
		// only redeem is legal here, so the rejected action was mark_paid
		return "", domain.ErrAlreadyPaid
	case BookingStatusPending:
		return "", domain.ErrNotPaid
	}
	return "", domain.ErrInvalidArgument
}

// LegalActions returns the actions permitted in the given status, in a
// stable order. VALIDATED is terminal and yields none.
func LegalActions(status BookingStatus) []Action {
	order := []Action{ActionMarkPaid, ActionRedeem}
	var out []Action
	for _, a := range order {
		if _, ok := transitions[status][a]; ok {
			out = append(out, a)
		}
	}
	return out
}

// NormalizeCode upper-cases a typed ticket code for comparison. Codes are
// stored normalized and matched case-insensitively.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Booking is one student's reservation of one menu entry, tracked through
// payment and redemption. Bookings are never deleted; they remain as
// auditable history even after the menu entry or account they reference is
// gone.
type Booking struct {
	ID            string        `json:"id"`
	StudentID     string        `json:"student_id"`
	MenuID        string        `json:"menu_id"`
	ServiceDate   time.Time     `json:"service_date"` // copied from the menu entry at creation
	PaymentMethod PaymentMethod `json:"payment_method"`
	Code          string        `json:"code"` // immutable, unique, upper-case
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	RedeemedAt    *time.Time    `json:"redeemed_at,omitempty"`
}

func NewBooking(id, studentID string, menu *MenuEntry, method PaymentMethod, code string) (*Booking, error) {
	if id == "" || studentID == "" || code == "" || menu == nil {
		return nil, domain.ErrInvalidArgument
	}
	if !ValidPaymentMethod(method) {
		return nil, domain.ErrInvalidArgument
	}
	return &Booking{
		ID:            id,
		StudentID:     studentID,
		MenuID:        menu.ID,
		ServiceDate:   menu.ServiceDate,
		PaymentMethod: method,
		Code:          NormalizeCode(code),
		Status:        BookingStatusPending,
		CreatedAt:     time.Now(),
	}, nil
}
