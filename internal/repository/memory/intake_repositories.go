package memory

import (
	"context"
	"sort"
	"sync"

	"loan-assist-be/internal/entity"
	"loan-assist-be/internal/repository/contract"
	"loan-assist-be/internal/repository/specification"
	"loan-assist-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// In-memory implementations of the repository contracts. They back the
// service tests and the database-less development mode. Specifications
// are interpreted by type switch; unknown specifications are ignored.

type LoanSessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*entity.LoanSession
}

func NewLoanSessionRepository() *LoanSessionRepository {
	return &LoanSessionRepository{sessions: make(map[uuid.UUID]*entity.LoanSession)}
}

func (r *LoanSessionRepository) CreateIfAbsent(ctx context.Context, session *entity.LoanSession) (*entity.LoanSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[session.Id]; ok {
		return existing.Clone(), nil
	}
	r.sessions[session.Id] = session.Clone()
	return session.Clone(), nil
}

func (r *LoanSessionRepository) Update(ctx context.Context, session *entity.LoanSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.Id] = session.Clone()
	return nil
}

func (r *LoanSessionRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LoanSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			if s, found := r.sessions[byId.ID]; found {
				return s.Clone(), nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *LoanSessionRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LoanSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.LoanSession
	for _, s := range r.sessions {
		if matchSessionSpecs(s, specs) {
			out = append(out, s.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *LoanSessionRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

func matchSessionSpecs(s *entity.LoanSession, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.ByID:
			if s.Id != v.ID {
				return false
			}
		case specification.ByStage:
			if s.Stage != v.Stage {
				return false
			}
		}
	}
	return true
}

type ChatTurnRepository struct {
	mu    sync.RWMutex
	turns map[uuid.UUID][]*entity.ChatTurn
}

func NewChatTurnRepository() *ChatTurnRepository {
	return &ChatTurnRepository{turns: make(map[uuid.UUID][]*entity.ChatTurn)}
}

func (r *ChatTurnRepository) Create(ctx context.Context, turn *entity.ChatTurn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if turn.Id == uuid.Nil {
		turn.Id = uuid.New()
	}
	t := *turn
	r.turns[turn.LoanSessionId] = append(r.turns[turn.LoanSessionId], &t)
	return nil
}

func (r *ChatTurnRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTurn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.ChatTurn
	for _, spec := range specs {
		if bySession, ok := spec.(specification.ByLoanSessionID); ok {
			for _, t := range r.turns[bySession.LoanSessionID] {
				c := *t
				out = append(out, &c)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *ChatTurnRepository) MaxSeq(ctx context.Context, sessionId uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	max := 0
	for _, t := range r.turns[sessionId] {
		if t.Seq > max {
			max = t.Seq
		}
	}
	return max, nil
}

type AuditEntryRepository struct {
	mu      sync.RWMutex
	entries []*entity.AuditEntry
}

func NewAuditEntryRepository() *AuditEntryRepository {
	return &AuditEntryRepository{}
}

func (r *AuditEntryRepository) Create(ctx context.Context, entry *entity.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.Id == uuid.Nil {
		entry.Id = uuid.New()
	}
	e := *entry
	r.entries = append(r.entries, &e)
	return nil
}

func (r *AuditEntryRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.AuditEntry
	for _, e := range r.entries {
		if matchAuditSpecs(e, specs) {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

func matchAuditSpecs(e *entity.AuditEntry, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.ByLoanSessionID:
			if e.LoanSessionId != v.LoanSessionID {
				return false
			}
		case specification.ByEventType:
			if e.EventType != v.EventType {
				return false
			}
		}
	}
	return true
}

// UnitOfWork bundles the in-memory repositories behind the same factory
// interface the gorm-backed stack uses.
type UnitOfWork struct {
	sessions *LoanSessionRepository
	turns    *ChatTurnRepository
	audits   *AuditEntryRepository
}

type RepositoryFactory struct {
	uow *UnitOfWork
}

func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{
		uow: &UnitOfWork{
			sessions: NewLoanSessionRepository(),
			turns:    NewChatTurnRepository(),
			audits:   NewAuditEntryRepository(),
		},
	}
}

func (f *RepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func (u *UnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *UnitOfWork) Commit() error                   { return nil }
func (u *UnitOfWork) Rollback() error                 { return nil }

func (u *UnitOfWork) LoanSessionRepository() contract.LoanSessionRepository {
	return u.sessions
}

func (u *UnitOfWork) ChatTurnRepository() contract.ChatTurnRepository {
	return u.turns
}

func (u *UnitOfWork) AuditEntryRepository() contract.AuditEntryRepository {
	return u.audits
}
