package web

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"

	"uniresto-dining/internal/domain"
	"uniresto-dining/internal/domain/model"
	"uniresto-dining/internal/domain/ports/repository"
)

// --- Mock Repositories (Ports) ---

type mockMenuRepo struct {
	repository.MenuRepository // Embed interface for forward compatibility
	mu                        sync.Mutex
	menus                     []*model.MenuEntry
}

func (m *mockMenuRepo) Save(ctx context.Context, tx repository.Tx, entry *model.MenuEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.menus {
		if existing.ID == entry.ID {
			cp := *entry
			m.menus[i] = &cp
			return nil
		}
	}
	cp := *entry
	m.menus = append(m.menus, &cp)
	return nil
}

func (m *mockMenuRepo) LockEntry(ctx context.Context, tx repository.Tx, id string) error {
	return nil
}

func (m *mockMenuRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.MenuEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range m.menus {
		if entry.ID == id {
			cp := *entry
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockMenuRepo) SetActive(ctx context.Context, tx repository.Tx, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range m.menus {
		if entry.ID == id {
			entry.Active = active
			return nil
		}
	}
	return nil
}

func (m *mockMenuRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, entry := range m.menus {
		if entry.ID == id {
			m.menus = append(m.menus[:i], m.menus[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockMenuRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.MenuEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.MenuEntry
	for _, entry := range m.menus {
		if entry.Active {
			cp := *entry
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockMenuRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.MenuEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.MenuEntry, 0, len(m.menus))
	for _, entry := range m.menus {
		cp := *entry
		out = append(out, &cp)
	}
	return out, nil
}

type mockBookingRepo struct {
	repository.BookingRepository
	mu       sync.Mutex
	bookings []*model.Booking
}

func (m *mockBookingRepo) Create(ctx context.Context, tx repository.Tx, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.bookings {
		if existing.Code == b.Code {
			return domain.ErrCodeTaken
		}
		if existing.StudentID == b.StudentID && existing.MenuID == b.MenuID {
			return domain.ErrDuplicateBooking
		}
	}
	cp := *b
	m.bookings = append(m.bookings, &cp)
	return nil
}

func (m *mockBookingRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockBookingRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.Code == code {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockBookingRepo) ListByStudent(ctx context.Context, tx repository.Tx, studentID string) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.bookings {
		if b.StudentID == studentID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockBookingRepo) ExistsForStudentAndMenu(ctx context.Context, tx repository.Tx, studentID, menuID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.StudentID == studentID && b.MenuID == menuID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, from, to model.BookingStatus, redeemedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.ID == id {
			if b.Status != from {
				return domain.ErrStaleStatus
			}
			b.Status = to
			if redeemedAt != nil {
				b.RedeemedAt = redeemedAt
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockBookingRepo) CountByMenu(ctx context.Context, tx repository.Tx, menuID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		if b.MenuID == menuID {
			n++
		}
	}
	return n, nil
}

func (m *mockBookingRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.BookingStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[model.BookingStatus]int)
	for _, b := range m.bookings {
		counts[b.Status]++
	}
	return counts, nil
}

func (m *mockBookingRepo) SumPaidByDate(ctx context.Context, tx repository.Tx) (map[string]float64, error) {
	return map[string]float64{}, nil
}

type mockAccountRepo struct {
	repository.AccountRepository
	mu       sync.Mutex
	accounts []*model.Account
}

func (m *mockAccountRepo) Save(ctx context.Context, tx repository.Tx, a *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.Email == a.Email && existing.ID != a.ID {
			return domain.ErrAlreadyExists
		}
	}
	cp := *a
	m.accounts = append(m.accounts, &cp)
	return nil
}

func (m *mockAccountRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockAccountRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockAccountRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.accounts {
		if a.ID == id {
			m.accounts = append(m.accounts[:i], m.accounts[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockAccountRepo) ListByRole(ctx context.Context, tx repository.Tx, role model.Role) ([]*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Account
	for _, a := range m.accounts {
		if a.Role == role {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockAccountRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts), nil
}

// mockTxManager runs the callback with no transaction handle.
type mockTxManager struct{}

func (mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

// stubTextGen returns a canned reply.
type stubTextGen struct {
	reply string
	err   error
}

func (s *stubTextGen) Generate(ctx context.Context, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubTextGen) Name() string { return "stub" }
