package model

import (
	"time"

	"uniresto-dining/internal/domain"

	"github.com/google/uuid"
)

type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
)

// ValidMealType reports whether t is one of the three served meals.
func ValidMealType(t MealType) bool {
	switch t {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner:
		return true
	}
	return false
}

// MenuEntry is a published meal offering for a given service date.
// Bookings keep a non-owning reference to it: deleting an entry never
// touches the bookings that were created against it.
type MenuEntry struct {
	ID          string    `json:"id"`
	ServiceDate time.Time `json:"service_date"`
	MealType    MealType  `json:"meal_type"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	Capacity    int       `json:"capacity"` // 0 means unlimited
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewMenuEntry creates an active entry. Price must be non-negative and the
// meal type one of the fixed enumeration.
func NewMenuEntry(serviceDate time.Time, mealType MealType, price float64, description, imageURL string, capacity int) (*MenuEntry, error) {
	if price < 0 || description == "" || serviceDate.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	if !ValidMealType(mealType) {
		return nil, domain.ErrInvalidArgument
	}
	if capacity < 0 {
		capacity = 0
	}
	return &MenuEntry{
		ID:          uuid.NewString(),
		ServiceDate: serviceDate,
		MealType:    mealType,
		Price:       price,
		Description: description,
		ImageURL:    imageURL,
		Capacity:    capacity,
		Active:      true,
		CreatedAt:   time.Now(),
	}, nil
}
