package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ideawall/ideawall/internal/core/domain"
	"github.com/ideawall/ideawall/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories shared by the service tests. They mirror the
// contracts of the real Mongo repositories, including the uniqueness
// constraints on pending requests and follow edges.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newStubUserRepo(usernames ...string) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*domain.User)}
	for _, name := range usernames {
		r.users[name] = &domain.User{ID: name, Username: name, Role: domain.RoleMember}
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = user.Username
	}
	r.users[copy.Username] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Search(_ context.Context, q string) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(q)) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]domain.User, error) {
	return r.Search(context.Background(), "")
}

func (r *stubUserRepo) Update(_ context.Context, username string, update ports.UserUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[username]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, username)
	return nil
}

// ---------------------------------------------------------------------------

type stubFollowRepo struct {
	mu       sync.Mutex
	requests map[string]*domain.FollowRequest // key: from|to
	edges    map[string]domain.FollowEdge     // key: follower|followed
	nextID   int
}

func newStubFollowRepo() *stubFollowRepo {
	return &stubFollowRepo{
		requests: make(map[string]*domain.FollowRequest),
		edges:    make(map[string]domain.FollowEdge),
	}
}

func pairKey(a, b string) string { return a + "|" + b }

func cloneRequest(r *domain.FollowRequest) *domain.FollowRequest {
	clone := *r
	return &clone
}

func (r *stubFollowRepo) InsertRequest(_ context.Context, req *domain.FollowRequest) (*domain.FollowRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey(req.From, req.To)
	if existing, ok := r.requests[key]; ok && existing.Status == domain.StatusPending {
		return nil, domain.ErrDuplicateRequest
	}
	r.nextID++
	copy := cloneRequest(req)
	copy.ID = "req-" + strconv.Itoa(r.nextID)
	r.requests[key] = cloneRequest(copy)
	return copy, nil
}

func (r *stubFollowRepo) FindRequest(_ context.Context, from, to string) (*domain.FollowRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[pairKey(from, to)]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	return cloneRequest(req), nil
}

func (r *stubFollowRepo) ListRequests(_ context.Context, to string, status domain.RequestStatus) ([]domain.FollowRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.FollowRequest
	for _, req := range r.requests {
		if req.To != to {
			continue
		}
		if status != "" && req.Status != status {
			continue
		}
		out = append(out, *req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// settle mirrors the pending-filtered update plus edge insert the Mongo repo
// runs in one transaction.
func (r *stubFollowRepo) settle(from, to string, status domain.RequestStatus) (*domain.FollowRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[pairKey(from, to)]
	if !ok || req.Status != domain.StatusPending {
		return nil, domain.ErrRequestNotFound
	}
	req.Status = status
	req.UpdatedAt = time.Now().UTC()
	if status == domain.StatusAccepted {
		key := pairKey(from, to)
		if _, exists := r.edges[key]; exists {
			return nil, domain.ErrEdgeExists
		}
		r.edges[key] = domain.FollowEdge{Follower: from, Followed: to, CreatedAt: time.Now().UTC()}
	}
	return cloneRequest(req), nil
}

func (r *stubFollowRepo) Accept(_ context.Context, from, to string) (*domain.FollowRequest, error) {
	return r.settle(from, to, domain.StatusAccepted)
}

func (r *stubFollowRepo) Reject(_ context.Context, from, to string) (*domain.FollowRequest, error) {
	return r.settle(from, to, domain.StatusRejected)
}

func (r *stubFollowRepo) Followers(_ context.Context, owner string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []string{}
	for _, e := range r.edges {
		if e.Followed == owner {
			out = append(out, e.Follower)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *stubFollowRepo) Followed(_ context.Context, owner string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []string{}
	for _, e := range r.edges {
		if e.Follower == owner {
			out = append(out, e.Followed)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *stubFollowRepo) HasEdge(_ context.Context, follower, followed string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.edges[pairKey(follower, followed)]
	return ok, nil
}

func (r *stubFollowRepo) DeleteEdge(_ context.Context, follower, followed string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.edges, pairKey(follower, followed))
	return nil
}

func (r *stubFollowRepo) DeleteAllForUser(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, req := range r.requests {
		if req.From == username || req.To == username {
			delete(r.requests, key)
		}
	}
	for key, e := range r.edges {
		if e.Follower == username || e.Followed == username {
			delete(r.edges, key)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------

type stubIdeaRepo struct {
	mu     sync.Mutex
	ideas  map[string]*domain.Idea
	nextID int
}

func newStubIdeaRepo() *stubIdeaRepo {
	return &stubIdeaRepo{ideas: make(map[string]*domain.Idea)}
}

func cloneIdea(i *domain.Idea) *domain.Idea {
	clone := *i
	return &clone
}

func (r *stubIdeaRepo) Insert(_ context.Context, idea *domain.Idea) (*domain.Idea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	copy := cloneIdea(idea)
	copy.ID = "idea-" + strconv.Itoa(r.nextID)
	r.ideas[copy.ID] = cloneIdea(copy)
	return copy, nil
}

func (r *stubIdeaRepo) Update(_ context.Context, author, id string, update ports.IdeaUpdate) (*domain.Idea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idea, ok := r.ideas[id]
	if !ok || idea.Author != author {
		return nil, domain.ErrIdeaNotFound
	}
	if update.Text != nil {
		idea.Text = *update.Text
	}
	if update.Visibility != nil {
		idea.Visibility = *update.Visibility
	}
	return cloneIdea(idea), nil
}

func (r *stubIdeaRepo) Delete(_ context.Context, author, id string) (*domain.Idea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idea, ok := r.ideas[id]
	if !ok || idea.Author != author {
		return nil, domain.ErrIdeaNotFound
	}
	delete(r.ideas, id)
	return cloneIdea(idea), nil
}

func sortIdeasDesc(out []domain.Idea) {
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
}

func (r *stubIdeaRepo) ListByAuthor(_ context.Context, author string, visibilities []domain.Visibility) ([]domain.Idea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Idea{}
	for _, idea := range r.ideas {
		if idea.Author != author {
			continue
		}
		if visibilities != nil {
			match := false
			for _, v := range visibilities {
				if idea.Visibility == v {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, *idea)
	}
	sortIdeasDesc(out)
	return out, nil
}

// GlobalFeed applies the same union the real Mongo $or query evaluates; each
// idea is inspected once, so the result can never contain duplicates.
func (r *stubIdeaRepo) GlobalFeed(_ context.Context, viewer string, followed []string) ([]domain.Idea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	followedSet := make(map[string]struct{}, len(followed))
	for _, f := range followed {
		followedSet[f] = struct{}{}
	}
	out := []domain.Idea{}
	for _, idea := range r.ideas {
		_, follows := followedSet[idea.Author]
		switch {
		case idea.Visibility == domain.VisibilityPublic:
		case idea.Author == viewer:
		case follows && idea.Visibility == domain.VisibilityProtected:
		default:
			continue
		}
		out = append(out, *idea)
	}
	sortIdeasDesc(out)
	return out, nil
}

func (r *stubIdeaRepo) DeleteAllByAuthor(_ context.Context, author string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, idea := range r.ideas {
		if idea.Author == author {
			delete(r.ideas, id)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------

// stubPairLock serializes like the Redis SETNX lock.
type stubPairLock struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func newStubPairLock() *stubPairLock {
	return &stubPairLock{held: make(map[string]struct{})}
}

func (l *stubPairLock) Acquire(_ context.Context, from, to string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := pairKey(from, to)
	if _, ok := l.held[key]; ok {
		return false, nil
	}
	l.held[key] = struct{}{}
	return true, nil
}

func (l *stubPairLock) Release(_ context.Context, from, to string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, pairKey(from, to))
	return nil
}

// ---------------------------------------------------------------------------

type stubEmitter struct {
	mu     sync.Mutex
	events []ports.RelationEventInput
}

func (e *stubEmitter) Enqueue(event ports.RelationEventInput) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func (e *stubEmitter) actions() []domain.RelationAction {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.RelationAction, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.Action)
	}
	return out
}
