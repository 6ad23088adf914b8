// Package apptest provides in-memory fakes for the application ports, shared
// by the use-case test suites. All fakes are safe for concurrent use.
package apptest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/taskhive/taskhive/internal/application/ports"
	"github.com/taskhive/taskhive/internal/domain"
)

// Users is an in-memory ports.UserRepository.
type Users struct {
	mu       sync.Mutex
	byID     map[domain.UserID]*domain.User
	profiles map[domain.UserID]*domain.Profile
}

func NewUsers() *Users {
	return &Users{
		byID:     make(map[domain.UserID]*domain.User),
		profiles: make(map[domain.UserID]*domain.Profile),
	}
}

func (f *Users) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := *user
	f.byID[user.ID] = &u
	return nil
}

func (f *Users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (f *Users) GetByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (f *Users) GetProfile(_ context.Context, id domain.UserID) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return nil, nil
	}
	out := *p
	return &out, nil
}

func (f *Users) UpdateWithProfile(_ context.Context, user *domain.User, profile *domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := *user
	f.byID[user.ID] = &u
	if profile != nil {
		p := *profile
		f.profiles[user.ID] = &p
	}
	return nil
}

func (f *Users) UpdatePassword(_ context.Context, id domain.UserID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

// Tokens is an in-memory ports.TokenStore. Delete reports rows affected under
// a single mutex, so concurrent rotation tests observe the same winner-takes-
// the-row semantics as the SQL implementation.
type Tokens struct {
	mu   sync.Mutex
	rows map[string]ports.RefreshTokenRecord
}

func NewTokens() *Tokens {
	return &Tokens{rows: make(map[string]ports.RefreshTokenRecord)}
}

// Store rejects a duplicate token value the way the SQL table's primary key
// does.
func (f *Tokens) Store(_ context.Context, token string, userID domain.UserID, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[token]; ok {
		return errors.New("refresh token already stored")
	}
	f.rows[token] = ports.RefreshTokenRecord{Token: token, UserID: userID, ExpiresAt: expiresAt}
	return nil
}

func (f *Tokens) Get(_ context.Context, token string) (*ports.RefreshTokenRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.rows[token]
	if !ok {
		return nil, nil
	}
	out := rec
	return &out, nil
}

func (f *Tokens) Delete(_ context.Context, token string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[token]; !ok {
		return 0, nil
	}
	delete(f.rows, token)
	return 1, nil
}

func (f *Tokens) DeleteAllForUser(_ context.Context, userID domain.UserID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for tok, rec := range f.rows {
		if rec.UserID == userID {
			delete(f.rows, tok)
		}
	}
	return nil
}

// Count returns the number of stored rows.
func (f *Tokens) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

// Expire rewinds a stored row's expiry so it reads as already expired.
func (f *Tokens) Expire(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.rows[token]; ok {
		rec.ExpiresAt = time.Now().Add(-time.Minute)
		f.rows[token] = rec
	}
}

type memberKey struct {
	project domain.ProjectID
	user    domain.UserID
}

// Members is an in-memory ports.MembershipRepository.
type Members struct {
	mu   sync.Mutex
	rows map[memberKey]domain.Membership
}

func NewMembers() *Members {
	return &Members{rows: make(map[memberKey]domain.Membership)}
}

func (f *Members) Add(_ context.Context, m *domain.Membership) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[memberKey{m.ProjectID, m.UserID}] = *m
	return nil
}

func (f *Members) Get(_ context.Context, projectID domain.ProjectID, userID domain.UserID) (*domain.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.rows[memberKey{projectID, userID}]
	if !ok {
		return nil, nil
	}
	out := m
	return &out, nil
}

func (f *Members) ListByProject(_ context.Context, projectID domain.ProjectID) ([]domain.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Membership
	for k, m := range f.rows {
		if k.project == projectID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID.String() < out[j].UserID.String() })
	return out, nil
}

func (f *Members) ListProjectIDsForUser(_ context.Context, userID domain.UserID) ([]domain.ProjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ProjectID
	for k := range f.rows {
		if k.user == userID {
			out = append(out, k.project)
		}
	}
	return out, nil
}

func (f *Members) UpdateRole(_ context.Context, projectID domain.ProjectID, userID domain.UserID, role domain.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := memberKey{projectID, userID}
	if m, ok := f.rows[key]; ok {
		m.Role = role
		f.rows[key] = m
	}
	return nil
}

func (f *Members) Remove(_ context.Context, projectID domain.ProjectID, userID domain.UserID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, memberKey{projectID, userID})
	return nil
}

// Projects is an in-memory ports.ProjectRepository backed by a Members fake,
// so Create inserts the owner membership the way the SQL transaction does.
type Projects struct {
	mu      sync.Mutex
	rows    map[domain.ProjectID]domain.Project
	members *Members
}

func NewProjects(members *Members) *Projects {
	return &Projects{rows: make(map[domain.ProjectID]domain.Project), members: members}
}

func (f *Projects) Create(ctx context.Context, project *domain.Project, owner *domain.Membership) error {
	f.mu.Lock()
	f.rows[project.ID] = *project
	f.mu.Unlock()
	return f.members.Add(ctx, owner)
}

func (f *Projects) GetByID(_ context.Context, id domain.ProjectID) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	out := p
	return &out, nil
}

func (f *Projects) ListForUser(ctx context.Context, userID domain.UserID, filter ports.ProjectFilter) ([]domain.Project, error) {
	ids, _ := f.members.ListProjectIDsForUser(ctx, userID)
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Project
	for _, id := range ids {
		p, ok := f.rows[id]
		if !ok {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		switch filter.Type {
		case "owned":
			if p.OwnerID != userID {
				continue
			}
		case "shared":
			if p.OwnerID == userID {
				continue
			}
		case "archived":
			if p.Status != domain.ProjectArchived {
				continue
			}
		default:
			if filter.Status == "" && p.Status == domain.ProjectArchived {
				continue
			}
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *Projects) Update(_ context.Context, project *domain.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[project.ID] = *project
	return nil
}

func (f *Projects) Delete(_ context.Context, id domain.ProjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

// Tasks is an in-memory ports.TaskRepository.
type Tasks struct {
	mu   sync.Mutex
	rows map[domain.TaskID]domain.Task
}

func NewTasks() *Tasks {
	return &Tasks{rows: make(map[domain.TaskID]domain.Task)}
}

func (f *Tasks) Create(_ context.Context, task *domain.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[task.ID] = *task
	return nil
}

func (f *Tasks) GetByID(_ context.Context, id domain.TaskID) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	out := t
	return &out, nil
}

func (f *Tasks) Update(_ context.Context, task *domain.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[task.ID] = *task
	return nil
}

func (f *Tasks) Delete(_ context.Context, id domain.TaskID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

func (f *Tasks) ListForProjects(_ context.Context, projectIDs []domain.ProjectID) ([]domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[domain.ProjectID]bool, len(projectIDs))
	for _, id := range projectIDs {
		want[id] = true
	}
	var out []domain.Task
	for _, t := range f.rows {
		if want[t.ProjectID] {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

// Comments is an in-memory ports.CommentRepository.
type Comments struct {
	mu   sync.Mutex
	rows []domain.Comment
}

func NewComments() *Comments {
	return &Comments{}
}

func (f *Comments) Create(_ context.Context, comment *domain.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, *comment)
	return nil
}

func (f *Comments) ListByTask(_ context.Context, taskID domain.TaskID) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Comment
	for _, c := range f.rows {
		if c.TaskID == taskID {
			out = append(out, c)
		}
	}
	return out, nil
}

// Activities is both an in-memory ports.ActivityRepository and a synchronous
// ports.ActivityRecorder, so tests observe recorded entries immediately.
type Activities struct {
	mu   sync.Mutex
	rows []domain.ActivityEntry
}

func NewActivities() *Activities {
	return &Activities{}
}

func (f *Activities) Record(ctx context.Context, entry *domain.ActivityEntry) error {
	return f.Insert(ctx, entry)
}

func (f *Activities) Insert(_ context.Context, entry *domain.ActivityEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, *entry)
	return nil
}

func (f *Activities) ListByProject(_ context.Context, projectID domain.ProjectID, limit int) ([]domain.ActivityEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ActivityEntry
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if f.rows[i].ProjectID == projectID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *Activities) ListRecentForUser(_ context.Context, userID domain.UserID, limit int) ([]domain.ActivityEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ActivityEntry
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if f.rows[i].UserID == userID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

// Actions returns the recorded action names in insertion order.
func (f *Activities) Actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.rows))
	for _, e := range f.rows {
		out = append(out, e.Action)
	}
	return out
}

// Hasher is a transparent ports.PasswordHasher for tests.
type Hasher struct{}

func (Hasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (Hasher) Verify(password, hash string) bool { return hash == "hashed:"+password }

var (
	_ ports.UserRepository       = (*Users)(nil)
	_ ports.TokenStore           = (*Tokens)(nil)
	_ ports.MembershipRepository = (*Members)(nil)
	_ ports.ProjectRepository    = (*Projects)(nil)
	_ ports.TaskRepository       = (*Tasks)(nil)
	_ ports.CommentRepository    = (*Comments)(nil)
	_ ports.ActivityRepository   = (*Activities)(nil)
	_ ports.ActivityRecorder     = (*Activities)(nil)
	_ ports.PasswordHasher       = (Hasher{})
)
