package service

import (
	"context"
	"errors"
	"testing"

	"github.com/quillhub/blog/internal/core/domain"
)

func TestSubscriptionCreate(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	alice := mustRegister(t, f.auth, "alice", "pw")
	bob := mustRegister(t, f.auth, "bob", "pw")

	sub, err := f.subs.Create(ctx, alice.ID, "bob")
	if err != nil {
		t.Fatalf("create by username: %v", err)
	}
	if sub.ID == "" || sub.Owner != alice.ID || sub.Target != bob.ID {
		t.Errorf("unexpected subscription %+v", sub)
	}

	if _, err := f.subs.Create(ctx, alice.ID, bob.ID); !errors.Is(err, domain.ErrSubscriptionExists) {
		t.Errorf("duplicate by ID: expected ErrSubscriptionExists, got %v", err)
	}
	if _, err := f.subs.Create(ctx, alice.ID, "alice"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("self subscription: expected ErrValidation, got %v", err)
	}
	if _, err := f.subs.Create(ctx, alice.ID, " "); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty target: expected ErrValidation, got %v", err)
	}
	if _, err := f.subs.Create(ctx, alice.ID, "nobody"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("unknown target: expected ErrUserNotFound, got %v", err)
	}
	if _, err := f.subs.Create(ctx, "", "bob"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("no owner: expected ErrUnauthenticated, got %v", err)
	}
}

func TestSubscriptionUpdateAndRemove(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	alice := mustRegister(t, f.auth, "alice", "pw")
	mustRegister(t, f.auth, "bob", "pw")
	carol := mustRegister(t, f.auth, "carol", "pw")

	toBob, err := f.subs.Create(ctx, alice.ID, "bob")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	toCarol, err := f.subs.Create(ctx, alice.ID, "carol")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.subs.Update(ctx, toBob, "carol"); !errors.Is(err, domain.ErrSubscriptionExists) {
		t.Errorf("retarget onto existing pair: expected ErrSubscriptionExists, got %v", err)
	}

	if err := f.subs.Remove(ctx, toCarol); err != nil {
		t.Fatalf("remove: %v", err)
	}
	updated, err := f.subs.Update(ctx, toBob, "carol")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Target != carol.ID {
		t.Errorf("expected target %s, got %s", carol.ID, updated.Target)
	}

	stored, err := f.subs.Get(ctx, toBob.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Target != carol.ID {
		t.Errorf("update not persisted: %+v", stored)
	}

	subs, err := f.subs.ListByOwner(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 1 {
		t.Errorf("expected 1 subscription, got %d", len(subs))
	}

	if _, err := f.subs.Get(ctx, toCarol.ID); !errors.Is(err, domain.ErrSubscriptionNotFound) {
		t.Errorf("expected ErrSubscriptionNotFound, got %v", err)
	}
}
