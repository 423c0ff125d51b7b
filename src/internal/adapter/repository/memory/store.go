package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/api-sage/invest-ledger/src/internal/domain"
)

type state struct {
	accounts     map[string]domain.Account
	packs        map[string]domain.InvestmentPack
	investments  map[string]domain.Investment
	transactions map[string]domain.Transaction
	commissions  map[string]domain.ReferralCommission
	kyc          map[string]domain.KYCVerification
	milestones   []domain.ReferralMilestone
	order        map[string]int64
	seq          int64
}

func newState() *state {
	return &state{
		accounts:     map[string]domain.Account{},
		packs:        map[string]domain.InvestmentPack{},
		investments:  map[string]domain.Investment{},
		transactions: map[string]domain.Transaction{},
		commissions:  map[string]domain.ReferralCommission{},
		kyc:          map[string]domain.KYCVerification{},
		milestones:   domain.DefaultReferralMilestones(),
		order:        map[string]int64{},
	}
}

func (s *state) clone() *state {
	out := &state{
		accounts:     make(map[string]domain.Account, len(s.accounts)),
		packs:        make(map[string]domain.InvestmentPack, len(s.packs)),
		investments:  make(map[string]domain.Investment, len(s.investments)),
		transactions: make(map[string]domain.Transaction, len(s.transactions)),
		commissions:  make(map[string]domain.ReferralCommission, len(s.commissions)),
		kyc:          make(map[string]domain.KYCVerification, len(s.kyc)),
		milestones:   append([]domain.ReferralMilestone(nil), s.milestones...),
		order:        make(map[string]int64, len(s.order)),
		seq:          s.seq,
	}
	for k, v := range s.accounts {
		out.accounts[k] = v
	}
	for k, v := range s.packs {
		out.packs[k] = v
	}
	for k, v := range s.investments {
		out.investments[k] = v
	}
	for k, v := range s.transactions {
		out.transactions[k] = v
	}
	for k, v := range s.commissions {
		out.commissions[k] = v
	}
	for k, v := range s.kyc {
		out.kyc[k] = v
	}
	for k, v := range s.order {
		out.order[k] = v
	}
	return out
}

// nextID allocates an id and remembers insertion order for newest-first listings.
func (s *state) nextID() string {
	id := uuid.NewString()
	s.seq++
	s.order[id] = s.seq
	return id
}

func (s *state) newestFirst(ids []string) {
	sort.Slice(ids, func(i, j int) bool { return s.order[ids[i]] > s.order[ids[j]] })
}

// Store keeps everything in process memory. Units of work run one at a time
// against a private copy that replaces the committed state only on success.
type Store struct {
	writer    sync.Mutex
	mu        sync.RWMutex
	committed *state
	now       func() time.Time
}

func NewStore() *Store {
	return &Store{committed: newState(), now: time.Now}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	s.writer.Lock()
	defer s.writer.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	working := s.committed.clone()
	s.mu.RUnlock()

	if err := fn(ctx, &repositories{store: s, tx: working}); err != nil {
		return err
	}

	s.mu.Lock()
	s.committed = working
	s.mu.Unlock()
	return nil
}

func (s *Store) Accounts() domain.AccountRepository {
	return &AccountRepository{repositories{store: s}}
}

func (s *Store) Packs() domain.InvestmentPackRepository {
	return &InvestmentPackRepository{repositories{store: s}}
}

func (s *Store) Investments() domain.InvestmentRepository {
	return &InvestmentRepository{repositories{store: s}}
}

func (s *Store) Transactions() domain.TransactionRepository {
	return &TransactionRepository{repositories{store: s}}
}

func (s *Store) Commissions() domain.ReferralCommissionRepository {
	return &ReferralCommissionRepository{repositories{store: s}}
}

func (s *Store) KYC() domain.KYCRepository {
	return &KYCRepository{repositories{store: s}}
}

func (s *Store) Milestones() domain.ReferralMilestoneRepository {
	return &ReferralMilestoneRepository{repositories{store: s}}
}

func (s *Store) Stats() domain.StatsRepository {
	return &StatsRepository{repositories{store: s}}
}

// repositories binds repository calls either to a unit of work (tx set) or to
// the committed state.
type repositories struct {
	store *Store
	tx    *state
}

func (r *repositories) Accounts() domain.AccountRepository {
	return &AccountRepository{*r}
}

func (r *repositories) Packs() domain.InvestmentPackRepository {
	return &InvestmentPackRepository{*r}
}

func (r *repositories) Investments() domain.InvestmentRepository {
	return &InvestmentRepository{*r}
}

func (r *repositories) Transactions() domain.TransactionRepository {
	return &TransactionRepository{*r}
}

func (r *repositories) Commissions() domain.ReferralCommissionRepository {
	return &ReferralCommissionRepository{*r}
}

func (r *repositories) KYC() domain.KYCRepository {
	return &KYCRepository{*r}
}

func (r *repositories) Milestones() domain.ReferralMilestoneRepository {
	return &ReferralMilestoneRepository{*r}
}

func (r *repositories) Stats() domain.StatsRepository {
	return &StatsRepository{*r}
}

func (r repositories) read(fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return fn(r.store.committed)
}

// write runs fn inside the caller's unit of work, or in a unit of its own.
func (r repositories) write(ctx context.Context, fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	return r.store.WithinTx(ctx, func(_ context.Context, repos domain.Repositories) error {
		return fn(repos.(*repositories).tx)
	})
}

func (r repositories) now() time.Time {
	return r.store.now().UTC()
}
