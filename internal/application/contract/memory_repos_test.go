package contract

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/insurance/backend/internal/domain/contract"
	"github.com/insurance/backend/internal/domain/shared"
)

var fixedNow = time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

type memMasterContractRepo struct {
	mu      sync.Mutex
	masters map[uuid.UUID]contract.MasterContract
}

func newMemMasterContractRepo() *memMasterContractRepo {
	return &memMasterContractRepo{masters: make(map[uuid.UUID]contract.MasterContract)}
}

func (r *memMasterContractRepo) FindByID(_ context.Context, id uuid.UUID) (*contract.MasterContract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.masters[id]; ok {
		found := m
		return &found, nil
	}
	return nil, nil
}

func (r *memMasterContractRepo) FindByNumber(_ context.Context, number string) (*contract.MasterContract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.masters {
		if m.MasterContractNumber == number {
			found := m
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memMasterContractRepo) FindAll(_ context.Context, _ shared.Filter) ([]contract.MasterContract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]contract.MasterContract, 0, len(r.masters))
	for _, m := range r.masters {
		out = append(out, m)
	}
	return out, nil
}

func (r *memMasterContractRepo) Save(_ context.Context, m *contract.MasterContract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.masters[m.ID] = *m
	return nil
}

func (r *memMasterContractRepo) SaveWithLock(_ context.Context, m *contract.MasterContract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.masters[m.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != m.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.masters[m.ID] = *m
	return nil
}

func (r *memMasterContractRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.masters)), nil
}

type memContractRepo struct {
	mu        sync.Mutex
	contracts map[uuid.UUID]contract.Contract
}

func newMemContractRepo() *memContractRepo {
	return &memContractRepo{contracts: make(map[uuid.UUID]contract.Contract)}
}

func (r *memContractRepo) FindByID(_ context.Context, id uuid.UUID) (*contract.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.contracts[id]; ok {
		found := c
		return &found, nil
	}
	return nil, nil
}

func (r *memContractRepo) FindByNumber(_ context.Context, number string) (*contract.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.contracts {
		if c.ContractNumber == number {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memContractRepo) FindByMasterContract(_ context.Context, masterContractID uuid.UUID, _ contract.ContractFilter) ([]contract.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []contract.Contract
	for _, c := range r.contracts {
		if c.MasterContractID == masterContractID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memContractRepo) Save(_ context.Context, c *contract.Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contracts[c.ID] = *c
	return nil
}

func (r *memContractRepo) SaveWithLock(_ context.Context, c *contract.Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.contracts[c.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != c.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.contracts[c.ID] = *c
	return nil
}

type memEndorsementRepo struct {
	mu           sync.Mutex
	endorsements map[uuid.UUID]contract.Endorsement
}

func newMemEndorsementRepo() *memEndorsementRepo {
	return &memEndorsementRepo{endorsements: make(map[uuid.UUID]contract.Endorsement)}
}

func (r *memEndorsementRepo) FindByID(_ context.Context, id uuid.UUID) (*contract.Endorsement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.endorsements[id]; ok {
		found := e
		return &found, nil
	}
	return nil, nil
}

func (r *memEndorsementRepo) FindByNumber(_ context.Context, number string) (*contract.Endorsement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.endorsements {
		if e.EndorsementNumber == number {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memEndorsementRepo) FindByContract(_ context.Context, contractID uuid.UUID, _ contract.EndorsementFilter) ([]contract.Endorsement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []contract.Endorsement
	for _, e := range r.endorsements {
		if e.ContractID == contractID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEndorsementRepo) Save(_ context.Context, e *contract.Endorsement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endorsements[e.ID] = *e
	return nil
}

func (r *memEndorsementRepo) SaveWithLock(_ context.Context, e *contract.Endorsement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.endorsements[e.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != e.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.endorsements[e.ID] = *e
	return nil
}

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
	out := make([]shared.DomainEvent, len(p.events))
	copy(out, p.events)
	return out
}

type testFixture struct {
	masterRepo      *memMasterContractRepo
	contractRepo    *memContractRepo
	endorsementRepo *memEndorsementRepo
	publisher       *capturingPublisher
	clock           shared.Clock
}

func newTestFixture() *testFixture {
	return &testFixture{
		masterRepo:      newMemMasterContractRepo(),
		contractRepo:    newMemContractRepo(),
		endorsementRepo: newMemEndorsementRepo(),
		publisher:       &capturingPublisher{},
		clock:           shared.NewFixedClock(fixedNow),
	}
}
