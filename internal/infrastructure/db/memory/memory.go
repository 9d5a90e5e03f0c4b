// Package memory is an in-process storage backend. It enforces the same
// uniqueness rules as the Mongo indexes and is used for local runs
// (STORE_BACKEND=memory) and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/quillhub/blog/internal/core/domain"
	"github.com/quillhub/blog/internal/core/ports"
)

// Store holds every collection behind a single lock.
type Store struct {
	mu            sync.RWMutex
	users         map[string]*domain.User
	posts         map[string]*domain.Post
	subscriptions map[string]*domain.Subscription
	notifications []*domain.Notification
	sessions      map[string]session
	announced     map[string]struct{}
	now           func() time.Time
}

type session struct {
	userID  string
	expires time.Time
}

func NewStore() *Store {
	return &Store{
		users:         make(map[string]*domain.User),
		posts:         make(map[string]*domain.Post),
		subscriptions: make(map[string]*domain.Subscription),
		sessions:      make(map[string]session),
		announced:     make(map[string]struct{}),
		now:           time.Now,
	}
}

func (s *Store) Users() *UserRepository                 { return &UserRepository{s} }
func (s *Store) Posts() *PostRepository                 { return &PostRepository{s} }
func (s *Store) Subscriptions() *SubscriptionRepository { return &SubscriptionRepository{s} }
func (s *Store) Notifications() *NotificationRepository { return &NotificationRepository{s} }
func (s *Store) Sessions() *SessionStore                { return &SessionStore{s} }
func (s *Store) Dedup() *DedupChecker                   { return &DedupChecker{s} }

func newID() string {
	return primitive.NewObjectID().Hex()
}

func page[T any](items []T, p ports.Page) []T {
	if p.Skip() < 0 || p.Skip() >= int64(len(items)) {
		return []T{}
	}
	skip := int(p.Skip())
	end := skip + p.Limit
	if p.Limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

// ── Users ─────────────────────────────────────────────────────────────────────

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	clone := *user
	clone.ID = newID()
	r.s.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) List(_ context.Context, p ports.Page) ([]*domain.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		clone := *u
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	return page(all, p), int64(len(all)), nil
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	clone := *user
	r.s.users[user.ID] = &clone
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	return nil
}

// ── Posts ─────────────────────────────────────────────────────────────────────

type PostRepository struct{ s *Store }

func clonePost(p *domain.Post) *domain.Post {
	clone := *p
	if p.Published != nil {
		ts := *p.Published
		clone.Published = &ts
	}
	return &clone
}

func (r *PostRepository) Create(_ context.Context, p *domain.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.posts {
		if existing.Slug == p.Slug {
			return domain.ErrDuplicateSlug
		}
	}
	p.ID = newID()
	r.s.posts[p.ID] = clonePost(p)
	return nil
}

func (r *PostRepository) FindByID(_ context.Context, id string) (*domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return clonePost(p), nil
}

func (r *PostRepository) FindBySlug(_ context.Context, slug string) (*domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.posts {
		if p.Slug == slug {
			return clonePost(p), nil
		}
	}
	return nil, domain.ErrPostNotFound
}

func (r *PostRepository) SlugsWithPrefix(_ context.Context, base string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []string
	for _, p := range r.s.posts {
		if strings.HasPrefix(p.Slug, base) {
			out = append(out, p.Slug)
		}
	}
	return out, nil
}

func (r *PostRepository) List(_ context.Context, f ports.ListPostsFilter) ([]*domain.Post, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var owners map[string]struct{}
	if f.OwnerIDs != nil {
		owners = make(map[string]struct{}, len(f.OwnerIDs))
		for _, id := range f.OwnerIDs {
			owners[id] = struct{}{}
		}
	}

	var matched []*domain.Post
	for _, p := range r.s.posts {
		if owners != nil {
			if _, ok := owners[p.Owner]; !ok {
				continue
			}
		}
		if !p.VisibleTo(f.ViewerID) {
			continue
		}
		matched = append(matched, clonePost(p))
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Created.Equal(matched[j].Created) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].Created.After(matched[j].Created)
	})
	return page(matched, f.Page), int64(len(matched)), nil
}

func (r *PostRepository) Update(_ context.Context, p *domain.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[p.ID]; !ok {
		return domain.ErrPostNotFound
	}
	r.s.posts[p.ID] = clonePost(p)
	return nil
}

func (r *PostRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.s.posts, id)
	return nil
}

func (r *PostRepository) DeleteByOwner(_ context.Context, ownerID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, p := range r.s.posts {
		if p.Owner == ownerID {
			delete(r.s.posts, id)
			n++
		}
	}
	return n, nil
}

// ── Subscriptions ─────────────────────────────────────────────────────────────

type SubscriptionRepository struct{ s *Store }

func (r *SubscriptionRepository) Create(_ context.Context, sub *domain.Subscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.subscriptions {
		if existing.Owner == sub.Owner && existing.Target == sub.Target {
			return domain.ErrSubscriptionExists
		}
	}
	sub.ID = newID()
	clone := *sub
	r.s.subscriptions[sub.ID] = &clone
	return nil
}

func (r *SubscriptionRepository) FindByID(_ context.Context, id string) (*domain.Subscription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sub, ok := r.s.subscriptions[id]
	if !ok {
		return nil, domain.ErrSubscriptionNotFound
	}
	clone := *sub
	return &clone, nil
}

func (r *SubscriptionRepository) listWhere(match func(*domain.Subscription) bool) []*domain.Subscription {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domain.Subscription{}
	for _, sub := range r.s.subscriptions {
		if match(sub) {
			clone := *sub
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.Before(out[j].Created) })
	return out
}

func (r *SubscriptionRepository) ListByOwner(_ context.Context, ownerID string) ([]*domain.Subscription, error) {
	return r.listWhere(func(s *domain.Subscription) bool { return s.Owner == ownerID }), nil
}

func (r *SubscriptionRepository) ListByTarget(_ context.Context, targetID string) ([]*domain.Subscription, error) {
	return r.listWhere(func(s *domain.Subscription) bool { return s.Target == targetID }), nil
}

func (r *SubscriptionRepository) Update(_ context.Context, sub *domain.Subscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.subscriptions[sub.ID]; !ok {
		return domain.ErrSubscriptionNotFound
	}
	for id, existing := range r.s.subscriptions {
		if id != sub.ID && existing.Owner == sub.Owner && existing.Target == sub.Target {
			return domain.ErrSubscriptionExists
		}
	}
	clone := *sub
	r.s.subscriptions[sub.ID] = &clone
	return nil
}

func (r *SubscriptionRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.subscriptions[id]; !ok {
		return domain.ErrSubscriptionNotFound
	}
	delete(r.s.subscriptions, id)
	return nil
}

func (r *SubscriptionRepository) DeleteByUser(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, sub := range r.s.subscriptions {
		if sub.Owner == userID || sub.Target == userID {
			delete(r.s.subscriptions, id)
			n++
		}
	}
	return n, nil
}

// ── Notifications ─────────────────────────────────────────────────────────────

type NotificationRepository struct{ s *Store }

func (r *NotificationRepository) InsertMany(_ context.Context, notifications []*domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, n := range notifications {
		n.ID = newID()
		clone := *n
		r.s.notifications = append(r.s.notifications, &clone)
	}
	return nil
}

func (r *NotificationRepository) ListByRecipient(_ context.Context, recipientID string, limit int) ([]*domain.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domain.Notification{}
	for i := len(r.s.notifications) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if n := r.s.notifications[i]; n.Recipient == recipientID {
			clone := *n
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *NotificationRepository) DeleteByUser(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	kept := r.s.notifications[:0]
	var n int64
	for _, item := range r.s.notifications {
		if item.Recipient == userID || item.Author == userID {
			n++
			continue
		}
		kept = append(kept, item)
	}
	r.s.notifications = kept
	return n, nil
}

// ── Sessions & dedup ──────────────────────────────────────────────────────────

type SessionStore struct{ s *Store }

func (r *SessionStore) Create(_ context.Context, sessionID, userID string, ttl time.Duration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.sessions[sessionID] = session{userID: userID, expires: r.s.now().Add(ttl)}
	return nil
}

func (r *SessionStore) Lookup(_ context.Context, sessionID string) (string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sess, ok := r.s.sessions[sessionID]
	if !ok || !r.s.now().Before(sess.expires) {
		return "", domain.ErrSessionNotFound
	}
	return sess.userID, nil
}

func (r *SessionStore) Revoke(_ context.Context, sessionID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.sessions, sessionID)
	return nil
}

type DedupChecker struct{ s *Store }

func (d *DedupChecker) IsDuplicate(_ context.Context, postID string) (bool, error) {
	d.s.mu.RLock()
	defer d.s.mu.RUnlock()

	_, ok := d.s.announced[postID]
	return ok, nil
}

func (d *DedupChecker) Mark(_ context.Context, postID string) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	d.s.announced[postID] = struct{}{}
	return nil
}
