package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/quillhub/blog/internal/core/domain"
	"github.com/quillhub/blog/internal/core/ports"
	"github.com/quillhub/blog/internal/infrastructure/db/memory"
)

type userFixture struct {
	store *memory.Store
	auth  *AuthService
	users *UserService
	posts *PostService
	subs  *SubscriptionService
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	store := memory.NewStore()
	log := zerolog.Nop()
	return &userFixture{
		store: store,
		auth:  NewAuthService(store.Users(), store.Sessions(), testSecret, 0, log),
		users: NewUserService(store.Users(), store.Posts(), store.Subscriptions(), store.Notifications(), log),
		posts: NewPostService(store.Posts(), store.Subscriptions(), nil, log),
		subs:  NewSubscriptionService(store.Subscriptions(), store.Users(), log),
	}
}

func TestUserList_OrderedAndPaged(t *testing.T) {
	f := newUserFixture(t)
	for _, name := range []string{"carol", "alice", "bob"} {
		mustRegister(t, f.auth, name, "pw")
	}

	res, err := f.users.List(context.Background(), ports.Page{Number: 1, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 3 || res.TotalPages != 2 {
		t.Errorf("unexpected page info %+v", res.PageInfo)
	}
	if len(res.Items) != 2 || res.Items[0].Username != "alice" || res.Items[1].Username != "bob" {
		t.Errorf("unexpected first page: %+v", res.Items)
	}

	res, err = f.users.List(context.Background(), ports.Page{Number: 2, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].Username != "carol" {
		t.Errorf("unexpected second page: %+v", res.Items)
	}
}

func TestUserUpdate_ChangesPassword(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	user := mustRegister(t, f.auth, "alice", "old")

	if _, err := f.users.Update(ctx, user, ports.UpdateUserInput{Password: strPtr("new")}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := f.auth.Login(ctx, "alice", "old"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("old password should be rejected, got %v", err)
	}
	if _, err := f.auth.Login(ctx, "alice", "new"); err != nil {
		t.Errorf("new password should work, got %v", err)
	}

	if _, err := f.users.Update(ctx, user, ports.UpdateUserInput{Password: strPtr("")}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestUserRemove_Cascades(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	alice := mustRegister(t, f.auth, "alice", "pw")
	bob := mustRegister(t, f.auth, "bob", "pw")

	alicePost, err := f.posts.Create(ctx, ports.CreatePostInput{Title: "by alice", Body: "b", OwnerID: alice.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	bobPost, err := f.posts.Create(ctx, ports.CreatePostInput{Title: "by bob", Body: "b", OwnerID: bob.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.subs.Create(ctx, alice.ID, "bob"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if _, err := f.subs.Create(ctx, bob.ID, "alice"); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := f.store.Notifications().InsertMany(ctx, []*domain.Notification{
		{Recipient: bob.ID, Author: alice.ID, PostID: alicePost.ID},
		{Recipient: alice.ID, Author: bob.ID, PostID: bobPost.ID},
	}); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if err := f.users.Remove(ctx, alice); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if _, err := f.users.Get(ctx, alice.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := f.posts.Get(ctx, alicePost.ID); !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("alice's post should be gone, got %v", err)
	}
	if _, err := f.posts.Get(ctx, bobPost.ID); err != nil {
		t.Errorf("bob's post must survive, got %v", err)
	}
	if subs, _ := f.subs.ListByOwner(ctx, bob.ID); len(subs) != 0 {
		t.Errorf("subscriptions targeting alice should be gone, got %d", len(subs))
	}
	if inbox, _ := f.store.Notifications().ListByRecipient(ctx, bob.ID, 0); len(inbox) != 0 {
		t.Errorf("notifications about alice should be gone, got %d", len(inbox))
	}
	if _, err := f.auth.Login(ctx, "alice", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("removed user must not log in, got %v", err)
	}
}

func TestUserUpdate_PasswordTooLong(t *testing.T) {
	f := newUserFixture(t)
	user := mustRegister(t, f.auth, "alice", "pw")
	before := user.PasswordHash

	long := strings.Repeat("é", 40) // 80 bytes
	_, err := f.users.Update(context.Background(), user, ports.UpdateUserInput{Password: &long})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if user.PasswordHash != before {
		t.Error("rejected update must keep the old hash")
	}
}
