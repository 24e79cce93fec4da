package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"fintech-assistant-be/internal/entity"
	"fintech-assistant-be/internal/repository/contract"
	"fintech-assistant-be/internal/repository/specification"
	"fintech-assistant-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// In-memory doubles for the repository layer. They interpret the small set of
// specifications the services actually use, which keeps the service tests
// free of a database.

var errFake = errors.New("storage failure")

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type fakeStore struct {
	sessions  map[uuid.UUID]*entity.Session
	messages  []*entity.ChatMessage
	users     map[uuid.UUID]*entity.User
	nextMsgId int64

	failMessageCreate bool
	failSessionDelete bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions: make(map[uuid.UUID]*entity.Session),
		users:    make(map[uuid.UUID]*entity.User),
	}
}

type fakeFactory struct{ store *fakeStore }

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

func newFakeFactory() (*fakeFactory, *fakeStore) {
	store := newFakeStore()
	return &fakeFactory{store: store}, store
}

type fakeUow struct{ store *fakeStore }

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository {
	return &fakeUserRepo{store: u.store}
}

func (u *fakeUow) SessionRepository() contract.SessionRepository {
	return &fakeSessionRepo{store: u.store}
}

func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository {
	return &fakeChatMessageRepo{store: u.store}
}

func (u *fakeUow) FaqEmbeddingRepository() contract.FaqEmbeddingRepository {
	panic("not used in service tests")
}

// --- sessions ---

type fakeSessionRepo struct{ store *fakeStore }

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	copied := *session
	r.store.sessions[session.Id] = &copied
	return nil
}

func (r *fakeSessionRepo) Touch(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	session, ok := r.store.sessions[id]
	if !ok {
		return false, nil
	}
	session.LastActivity = at
	return true, nil
}

func (r *fakeSessionRepo) LinkToUser(ctx context.Context, id uuid.UUID, userId uuid.UUID) (bool, error) {
	session, ok := r.store.sessions[id]
	if !ok || !session.IsAnonymous {
		return false, nil
	}
	owner := userId
	session.UserId = &owner
	session.IsAnonymous = false
	return true, nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.store.failSessionDelete {
		return errFake
	}
	delete(r.store.sessions, id)
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	matches := r.filter(specs)
	if len(matches) == 0 {
		return nil, nil
	}
	copied := *matches[0]
	return &copied, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	matches := r.filter(specs)
	result := make([]*entity.Session, 0, len(matches))
	for _, s := range matches {
		copied := *s
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.filter(specs))), nil
}

func (r *fakeSessionRepo) filter(specs []specification.Specification) []*entity.Session {
	var result []*entity.Session
	for _, s := range r.store.sessions {
		result = append(result, s)
	}

	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			result = keepSessions(result, func(s *entity.Session) bool { return s.Id == sp.ID })
		case specification.OwnedBy:
			result = keepSessions(result, func(s *entity.Session) bool {
				return s.UserId != nil && *s.UserId == sp.UserID
			})
		case specification.OrderBy:
			sort.SliceStable(result, func(i, j int) bool {
				a, b := result[i].LastActivity, result[j].LastActivity
				if sp.Desc {
					return a.After(b)
				}
				return a.Before(b)
			})
		case specification.Limit:
			if len(result) > sp.Limit {
				result = result[:sp.Limit]
			}
		}
	}
	return result
}

func keepSessions(in []*entity.Session, pred func(*entity.Session) bool) []*entity.Session {
	var out []*entity.Session
	for _, s := range in {
		if pred(s) {
			out = append(out, s)
		}
	}
	return out
}

// --- chat messages ---

type fakeChatMessageRepo struct{ store *fakeStore }

func (r *fakeChatMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	if r.store.failMessageCreate {
		return errFake
	}
	r.store.nextMsgId++
	copied := *message
	copied.Id = r.store.nextMsgId
	r.store.messages = append(r.store.messages, &copied)
	message.Id = copied.Id
	return nil
}

func (r *fakeChatMessageRepo) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	var kept []*entity.ChatMessage
	for _, m := range r.store.messages {
		if m.SessionId != sessionId {
			kept = append(kept, m)
		}
	}
	r.store.messages = kept
	return nil
}

func (r *fakeChatMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	matches := r.filter(specs)
	if len(matches) == 0 {
		return nil, nil
	}
	copied := *matches[0]
	return &copied, nil
}

func (r *fakeChatMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	matches := r.filter(specs)
	result := make([]*entity.ChatMessage, 0, len(matches))
	for _, m := range matches {
		copied := *m
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeChatMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.filter(specs))), nil
}

func (r *fakeChatMessageRepo) filter(specs []specification.Specification) []*entity.ChatMessage {
	result := make([]*entity.ChatMessage, len(r.store.messages))
	copy(result, r.store.messages)

	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.BySessionID:
			result = keepMessages(result, func(m *entity.ChatMessage) bool { return m.SessionId == sp.SessionID })
		case specification.ByRole:
			result = keepMessages(result, func(m *entity.ChatMessage) bool { return m.Role == sp.Role })
		case specification.ChronologicalOrder:
			sort.SliceStable(result, func(i, j int) bool {
				if result[i].CreatedAt.Equal(result[j].CreatedAt) {
					return result[i].Id < result[j].Id
				}
				return result[i].CreatedAt.Before(result[j].CreatedAt)
			})
		case specification.Limit:
			if len(result) > sp.Limit {
				result = result[:sp.Limit]
			}
		}
	}
	return result
}

func keepMessages(in []*entity.ChatMessage, pred func(*entity.ChatMessage) bool) []*entity.ChatMessage {
	var out []*entity.ChatMessage
	for _, m := range in {
		if pred(m) {
			out = append(out, m)
		}
	}
	return out
}

// --- users ---

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	copied := *user
	r.store.users[user.Id] = &copied
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, u := range r.store.users {
		if userMatches(u, specs) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var n int64
	for _, u := range r.store.users {
		if userMatches(u, specs) {
			n++
		}
	}
	return n, nil
}

func userMatches(u *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if u.Id != sp.ID {
				return false
			}
		case specification.FilterBy:
			if sp.Field == "email" && u.Email != sp.Value {
				return false
			}
		}
	}
	return true
}
