package usecases

import (
	"context"
	"errors"
	"sync"

	"botpage/internal/entities"
)

// In-memory fakes for the store and provider ports.

type fakeAccountStore struct {
	mu          sync.Mutex
	users       []*entities.User
	tenants     []*entities.Tenant
	takenSlugs    map[string]bool
	failCreates   int
	slugConflicts int
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{takenSlugs: make(map[string]bool)}
}

func (s *fakeAccountStore) CreateAccount(ctx context.Context, user *entities.User, tenant *entities.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failCreates > 0 {
		s.failCreates--
		return errors.New("store unavailable")
	}
	if s.slugConflicts > 0 {
		s.slugConflicts--
		return entities.ErrSlugTaken
	}
	if s.takenSlugs[tenant.Slug] {
		return entities.ErrSlugTaken
	}

	user.ID = int64(len(s.users) + 1)
	s.users = append(s.users, user)
	tenant.ID = int64(len(s.tenants) + 1)
	tenant.UserID = user.ID
	s.tenants = append(s.tenants, tenant)
	s.takenSlugs[tenant.Slug] = true
	return nil
}

func (s *fakeAccountStore) GetOwnerByEmail(ctx context.Context, email string) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.users) - 1; i >= 0; i-- {
		if s.users[i].Email == email && s.users[i].PasswordHash != "" {
			return s.users[i], nil
		}
	}
	return nil, nil
}

type fakeTenantStore struct {
	tenants map[string]*entities.Tenant
}

func newFakeTenantStore(tenants ...*entities.Tenant) *fakeTenantStore {
	s := &fakeTenantStore{tenants: make(map[string]*entities.Tenant)}
	for _, t := range tenants {
		s.tenants[t.Slug] = t
	}
	return s
}

func (s *fakeTenantStore) GetBySlug(ctx context.Context, slug string) (*entities.Tenant, error) {
	t, ok := s.tenants[slug]
	if !ok || t.Status != entities.StatusActive {
		return nil, nil
	}
	return t, nil
}

func (s *fakeTenantStore) GetByID(ctx context.Context, id int64) (*entities.Tenant, error) {
	for _, t := range s.tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (s *fakeTenantStore) ListByOwner(ctx context.Context, userID int64) ([]entities.Tenant, error) {
	var out []entities.Tenant
	for _, t := range s.tenants {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

type fakeConversationStore struct {
	mu         sync.Mutex
	leads      []*entities.Lead
	sessions   []*entities.Session
	messages   []entities.Message
	failAppend bool
}

func (s *fakeConversationStore) CreateLead(ctx context.Context, lead *entities.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lead.ID = int64(len(s.leads) + 1)
	s.leads = append(s.leads, lead)
	return nil
}

func (s *fakeConversationStore) CreateSession(ctx context.Context, session *entities.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.ID = int64(len(s.sessions) + 1)
	s.sessions = append(s.sessions, session)
	return nil
}

func (s *fakeConversationStore) GetSession(ctx context.Context, sessionID string, clientID int64) (*entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.SessionID == sessionID && sess.ClientID == clientID {
			return sess, nil
		}
	}
	return nil, nil
}

func (s *fakeConversationStore) GetSessionByToken(ctx context.Context, sessionID string) (*entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.SessionID == sessionID {
			return sess, nil
		}
	}
	return nil, nil
}

func (s *fakeConversationStore) ListMessages(ctx context.Context, sessionID string, limit int) ([]entities.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.Message
	for _, m := range s.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (s *fakeConversationStore) AppendMessages(ctx context.Context, messages []entities.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAppend {
		return errors.New("store unavailable")
	}
	s.messages = append(s.messages, messages...)
	return nil
}

func (s *fakeConversationStore) ListLeads(ctx context.Context, clientID int64) ([]entities.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.Lead
	for _, l := range s.leads {
		if l.ClientID == clientID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (s *fakeConversationStore) ListSessions(ctx context.Context, clientID int64) ([]entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.Session
	for _, sess := range s.sessions {
		if sess.ClientID == clientID {
			out = append(out, *sess)
		}
	}
	return out, nil
}

type fakeProvider struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	lastKey string
	lastLen int
	lastFAQ string
}

func (p *fakeProvider) Reply(ctx context.Context, apiKey string, history []entities.Message, faq, triageRules string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.lastKey = apiKey
	p.lastLen = len(history)
	p.lastFAQ = faq
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

type fakeNotifier struct {
	notified chan *entities.Lead
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{notified: make(chan *entities.Lead, 1)}
}

func (n *fakeNotifier) NotifyLead(ctx context.Context, tenant *entities.Tenant, lead *entities.Lead) error {
	n.notified <- lead
	return nil
}

type fakeLogoStore struct {
	err      error
	lastName string
	lastData []byte
}

func (s *fakeLogoStore) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.lastName = fileName
	s.lastData = data
	return "https://cdn.example.com/logos/" + fileName, nil
}
