package billing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/billing"
	"github.com/insurance/backend/internal/domain/shared"
	"github.com/insurance/backend/internal/domain/shared/valueobject"
)

// In-memory repositories backing the service tests. SaveWithLock enforces
// the same version arithmetic as the real store: the caller's aggregate must
// be exactly one version ahead of the stored row.

type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]billing.BillingAccount
	// conflictsLeft forces SaveWithLock to fail this many times
	conflictsLeft int
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: make(map[uuid.UUID]billing.BillingAccount)}
}

func (r *memAccountRepo) FindByID(_ context.Context, id uuid.UUID) (*billing.BillingAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[id]; ok {
		found := a
		return &found, nil
	}
	return nil, nil
}

func (r *memAccountRepo) FindByAccountNumber(_ context.Context, accountNumber string) (*billing.BillingAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.AccountNumber == accountNumber {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memAccountRepo) FindByContract(_ context.Context, contractID uuid.UUID) (*billing.BillingAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.ContractID == contractID {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memAccountRepo) FindAll(_ context.Context, _ shared.Filter) ([]billing.BillingAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]billing.BillingAccount, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (r *memAccountRepo) Save(_ context.Context, account *billing.BillingAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[account.ID] = *account
	return nil
}

func (r *memAccountRepo) SaveWithLock(_ context.Context, account *billing.BillingAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return shared.ErrConcurrencyConflict
	}
	stored, ok := r.accounts[account.ID]
	if !ok || stored.Version != account.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.accounts[account.ID] = *account
	return nil
}

func (r *memAccountRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.accounts)), nil
}

type memInstallmentRepo struct {
	mu           sync.Mutex
	installments map[uuid.UUID]billing.Installment
}

func newMemInstallmentRepo() *memInstallmentRepo {
	return &memInstallmentRepo{installments: make(map[uuid.UUID]billing.Installment)}
}

func (r *memInstallmentRepo) FindByID(_ context.Context, id uuid.UUID) (*billing.Installment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.installments[id]; ok {
		found := i
		return &found, nil
	}
	return nil, nil
}

func (r *memInstallmentRepo) FindByAccount(_ context.Context, accountID uuid.UUID, _ billing.InstallmentFilter) ([]billing.Installment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []billing.Installment
	for _, i := range r.installments {
		if i.AccountID == accountID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *memInstallmentRepo) FindByEndorsement(_ context.Context, endorsementID uuid.UUID) ([]billing.Installment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []billing.Installment
	for _, i := range r.installments {
		if i.EndorsementID != nil && *i.EndorsementID == endorsementID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *memInstallmentRepo) FindOverdue(_ context.Context, asOf valueobject.Date) ([]billing.Installment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []billing.Installment
	for _, i := range r.installments {
		if i.IsOverdue(asOf) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *memInstallmentRepo) Save(_ context.Context, installment *billing.Installment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.installments[installment.ID] = *installment
	return nil
}

func (r *memInstallmentRepo) SaveWithLock(_ context.Context, installment *billing.Installment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.installments[installment.ID]
	if !ok || stored.Version != installment.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.installments[installment.ID] = *installment
	return nil
}

type memInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]billing.Invoice
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{invoices: make(map[uuid.UUID]billing.Invoice)}
}

func (r *memInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*billing.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.invoices[id]; ok {
		found := inv
		return &found, nil
	}
	return nil, nil
}

func (r *memInvoiceRepo) FindByInvoiceNumber(_ context.Context, invoiceNumber string) (*billing.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invoices {
		if inv.InvoiceNumber == invoiceNumber {
			found := inv
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memInvoiceRepo) FindByAccount(_ context.Context, accountID uuid.UUID, _ billing.InvoiceFilter) ([]billing.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []billing.Invoice
	for _, inv := range r.invoices {
		if inv.AccountID == accountID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *memInvoiceRepo) FindDueForOverdueSweep(_ context.Context, cutoff valueobject.Date) ([]billing.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []billing.Invoice
	for _, inv := range r.invoices {
		if inv.Status.CanMarkOverdue() && valueobject.DateOf(inv.CreatedAt).BeforeOrEqual(cutoff) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *memInvoiceRepo) Save(_ context.Context, invoice *billing.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[invoice.ID] = *invoice
	return nil
}

func (r *memInvoiceRepo) SaveWithLock(_ context.Context, invoice *billing.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.invoices[invoice.ID]
	if !ok || stored.Version != invoice.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.invoices[invoice.ID] = *invoice
	return nil
}

type memLinkRepo struct {
	mu    sync.Mutex
	links []billing.InvoiceInstallmentLink
}

func newMemLinkRepo() *memLinkRepo {
	return &memLinkRepo{}
}

func (r *memLinkRepo) FindByInvoice(_ context.Context, invoiceID uuid.UUID) ([]billing.InvoiceInstallmentLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []billing.InvoiceInstallmentLink
	for _, l := range r.links {
		if l.InvoiceID == invoiceID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memLinkRepo) FindByInstallment(_ context.Context, installmentID uuid.UUID) (*billing.InvoiceInstallmentLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.links {
		if l.InstallmentID == installmentID {
			found := l
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memLinkRepo) Save(_ context.Context, link *billing.InvoiceInstallmentLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.links {
		if l.InstallmentID == link.InstallmentID {
			return shared.ErrConstraintViolation
		}
	}
	r.links = append(r.links, *link)
	return nil
}

type memPaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]billing.Payment
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{payments: make(map[uuid.UUID]billing.Payment)}
}

func (r *memPaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*billing.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.payments[id]; ok {
		found := p
		return &found, nil
	}
	return nil, nil
}

func (r *memPaymentRepo) FindByAccount(_ context.Context, accountID uuid.UUID, _ billing.PaymentFilter) ([]billing.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []billing.Payment
	for _, p := range r.payments {
		if p.AccountID == accountID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPaymentRepo) FindByInvoice(_ context.Context, invoiceID uuid.UUID) ([]billing.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []billing.Payment
	for _, p := range r.payments {
		if p.InvoiceID != nil && *p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPaymentRepo) Save(_ context.Context, payment *billing.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[payment.ID] = *payment
	return nil
}

func (r *memPaymentRepo) SaveWithLock(_ context.Context, payment *billing.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.payments[payment.ID]
	if !ok || stored.Version != payment.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.payments[payment.ID] = *payment
	return nil
}

// memIdempotencyStore is a map-backed idempotency store for tests
type memIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newMemIdempotencyStore() *memIdempotencyStore {
	return &memIdempotencyStore{keys: make(map[string]bool)}
}

func (s *memIdempotencyStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *memIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key], nil
}

func (s *memIdempotencyStore) Close() error { return nil }

// capturingPublisher records published events
type capturingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *capturingPublisher) Events() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]shared.DomainEvent(nil), p.events...)
}

// testFixture wires a full in-memory billing service stack
type testFixture struct {
	accountRepo     *memAccountRepo
	installmentRepo *memInstallmentRepo
	invoiceRepo     *memInvoiceRepo
	linkRepo        *memLinkRepo
	paymentRepo     *memPaymentRepo
	scope           *NoOpTransactionScope
	publisher       *capturingPublisher
	clock           shared.FixedClock
}

func newTestFixture() *testFixture {
	f := &testFixture{
		accountRepo:     newMemAccountRepo(),
		installmentRepo: newMemInstallmentRepo(),
		invoiceRepo:     newMemInvoiceRepo(),
		linkRepo:        newMemLinkRepo(),
		paymentRepo:     newMemPaymentRepo(),
		publisher:       &capturingPublisher{},
		clock:           shared.NewFixedClock(fixedNow),
	}
	f.scope = NewNoOpTransactionScope(f.accountRepo, f.installmentRepo, f.invoiceRepo, f.linkRepo, f.paymentRepo)
	return f
}
