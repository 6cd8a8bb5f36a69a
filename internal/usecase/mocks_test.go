// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"uniresto-dining/internal/domain"
	"uniresto-dining/internal/domain/model"
	"uniresto-dining/internal/domain/ports/repository"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memMenuRepo is a small in-memory implementation used by unit tests.
type memMenuRepo struct {
	mu    sync.RWMutex
	store map[string]*model.MenuEntry
	order []string // insertion order
}

func newMemMenuRepo() *memMenuRepo {
	return &memMenuRepo{store: make(map[string]*model.MenuEntry)}
}

func (m *memMenuRepo) Save(ctx context.Context, tx repository.Tx, entry *model.MenuEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[entry.ID]; !ok {
		m.order = append(m.order, entry.ID)
	}
	cp := *entry
	m.store[entry.ID] = &cp
	return nil
}

func (m *memMenuRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.MenuEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *entry
	return &cp, nil
}

// LockEntry is a no-op: memTxManager already serializes whole transactions.
func (m *memMenuRepo) LockEntry(ctx context.Context, tx repository.Tx, id string) error {
	return nil
}

func (m *memMenuRepo) SetActive(ctx context.Context, tx repository.Tx, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.store[id]; ok {
		entry.Active = active
	}
	return nil
}

func (m *memMenuRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memMenuRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.MenuEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.MenuEntry
	for _, id := range m.order {
		if entry := m.store[id]; entry != nil && entry.Active {
			cp := *entry
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memMenuRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.MenuEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.MenuEntry
	for _, id := range m.order {
		if entry := m.store[id]; entry != nil {
			cp := *entry
			out = append(out, &cp)
		}
	}
	return out, nil
}

// memBookingRepo provides in-memory bookings for tests. It enforces the same
// uniqueness rules as the Postgres schema and performs UpdateStatus as a
// compare-and-set under the lock.
type memBookingRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Booking
	order []string // creation order

	menus *memMenuRepo // for SumPaidByDate price lookups
}

func newMemBookingRepo(menus *memMenuRepo) *memBookingRepo {
	return &memBookingRepo{store: make(map[string]*model.Booking), menus: menus}
}

func (m *memBookingRepo) Create(ctx context.Context, tx repository.Tx, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.store {
		if existing.Code == b.Code {
			return domain.ErrCodeTaken
		}
		if existing.StudentID == b.StudentID && existing.MenuID == b.MenuID {
			return domain.ErrDuplicateBooking
		}
	}
	cp := *b
	m.store[b.ID] = &cp
	m.order = append(m.order, b.ID)
	return nil
}

func (m *memBookingRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBookingRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.store {
		if b.Code == code {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memBookingRepo) ListByStudent(ctx context.Context, tx repository.Tx, studentID string) ([]*model.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Booking
	for _, id := range m.order {
		if b := m.store[id]; b != nil && b.StudentID == studentID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memBookingRepo) ExistsForStudentAndMenu(ctx context.Context, tx repository.Tx, studentID, menuID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.store {
		if b.StudentID == studentID && b.MenuID == menuID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memBookingRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, from, to model.BookingStatus, redeemedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	if b.Status != from {
		return domain.ErrStaleStatus
	}
	b.Status = to
	if redeemedAt != nil {
		b.RedeemedAt = redeemedAt
	}
	return nil
}

func (m *memBookingRepo) CountByMenu(ctx context.Context, tx repository.Tx, menuID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, b := range m.store {
		if b.MenuID == menuID {
			n++
		}
	}
	return n, nil
}

func (m *memBookingRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.BookingStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[model.BookingStatus]int)
	for _, b := range m.store {
		counts[b.Status]++
	}
	return counts, nil
}

func (m *memBookingRepo) SumPaidByDate(ctx context.Context, tx repository.Tx) (map[string]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sums := make(map[string]float64)
	for _, b := range m.store {
		if b.Status != model.BookingStatusPaid && b.Status != model.BookingStatusValidated {
			continue
		}
		menu, err := m.menus.FindByID(ctx, tx, b.MenuID)
		if err != nil {
			continue // deleted menu: price unknown
		}
		sums[b.ServiceDate.Format("2006-01-02")] += menu.Price
	}
	return sums, nil
}

// memAccountRepo provides in-memory accounts for tests.
type memAccountRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Account
	order []string
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{store: make(map[string]*model.Account)}
}

func (m *memAccountRepo) Save(ctx context.Context, tx repository.Tx, a *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.store {
		if existing.Email == a.Email && existing.ID != a.ID {
			return domain.ErrAlreadyExists
		}
	}
	if _, ok := m.store[a.ID]; !ok {
		m.order = append(m.order, a.ID)
	}
	cp := *a
	m.store[a.ID] = &cp
	return nil
}

func (m *memAccountRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAccountRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.store {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memAccountRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memAccountRepo) ListByRole(ctx context.Context, tx repository.Tx, role model.Role) ([]*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Account
	for _, id := range m.order {
		if a := m.store[id]; a != nil && a.Role == role {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memAccountRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

// memTxManager satisfies TransactionManager without a database: the callback
// runs with no transaction handle, and a mutex gives transactions the
// one-at-a-time behavior the real manager gets from row and advisory locks.
type memTxManager struct {
	mu sync.Mutex
}

func (m *memTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, repository.NoTX)
}

// memLocker is a single-process Locker for tests.
type memLocker struct {
	mu   sync.Mutex
	held map[string]string
}

func newMemLocker() *memLocker {
	return &memLocker{held: make(map[string]string)}
}

func (l *memLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[key]; busy {
		return "", domain.ErrLockBusy
	}
	token := key + "-token"
	l.held[key] = token
	return token, nil
}

func (l *memLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == token {
		delete(l.held, key)
	}
	return nil
}

// stubTextGen returns a fixed reply, or an error when set.
type stubTextGen struct {
	reply string
	err   error

	mu      sync.Mutex
	prompts []string
}

func (s *stubTextGen) Generate(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubTextGen) Name() string { return "stub" }
