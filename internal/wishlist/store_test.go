package wishlist

import (
	"context"
	"errors"
	"testing"

	"github.com/innovativehub/storefront/internal/storage"
	"github.com/innovativehub/storefront/pkg/enums"
	"github.com/innovativehub/storefront/pkg/logger"
	"github.com/innovativehub/storefront/pkg/types"
)

type stubRemote struct {
	items     []types.Product
	getErr    error
	addErr    error
	removeErr error
	adds      []string
	removes   []string
}

func (s *stubRemote) GetWishlist(ctx context.Context) ([]types.Product, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return append([]types.Product(nil), s.items...), nil
}

func (s *stubRemote) AddToWishlist(ctx context.Context, productID string) error {
	s.adds = append(s.adds, productID)
	return s.addErr
}

func (s *stubRemote) RemoveFromWishlist(ctx context.Context, productID string) error {
	s.removes = append(s.removes, productID)
	return s.removeErr
}

func newGuestStore(t *testing.T) (*Store, *storage.ListSlot[types.Product]) {
	t.Helper()
	slot := storage.NewListSlot[types.Product](storage.NewMemoryKV(), storage.SlotGuestWishlist, logger.Nop())
	store := NewStore(NewGuestBackend(slot), logger.Nop(), nil)
	store.Load(context.Background())
	return store, slot
}

func TestGuestAddIsIdempotentAndPersists(t *testing.T) {
	store, slot := newGuestStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := store.Add(ctx, types.Product{ID: "p1"}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if snap := store.Snapshot(); snap.TotalItems != 1 {
		t.Fatalf("expected 1 item, got %d", snap.TotalItems)
	}
	if got := slot.Load(ctx); len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("expected slot to hold p1, got %+v", got)
	}

	store.Remove(ctx, "p1")
	if store.Contains("p1") || len(slot.Load(ctx)) != 0 {
		t.Fatalf("expected p1 removed from store and slot")
	}
}

func TestRemoteAddAppliesOnlyOnSuccess(t *testing.T) {
	remote := &stubRemote{addErr: errors.New("down")}
	store := NewStore(NewRemoteBackend(remote), logger.Nop(), nil)
	ctx := context.Background()
	store.Load(ctx)

	if err := store.Add(ctx, types.Product{ID: "p1"}); err == nil {
		t.Fatalf("expected add error")
	}
	if store.Contains("p1") {
		t.Fatalf("failed remote add must not change local state")
	}

	remote.addErr = nil
	if err := store.Add(ctx, types.Product{ID: "p1"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !store.Contains("p1") {
		t.Fatalf("expected p1 after successful add")
	}
	if err := store.Add(ctx, types.Product{ID: "p1"}); err != nil {
		t.Fatalf("repeat add: %v", err)
	}
	if len(remote.adds) != 2 {
		t.Fatalf("duplicate add must not reach the server, got %v", remote.adds)
	}
}

func TestRemoteRemoveIsForgiving(t *testing.T) {
	remote := &stubRemote{items: []types.Product{{ID: "p1"}, {ID: "p2"}}, removeErr: errors.New("down")}
	store := NewStore(NewRemoteBackend(remote), logger.Nop(), nil)
	ctx := context.Background()
	store.Load(ctx)

	store.Remove(ctx, "p1")
	if store.Contains("p1") {
		t.Fatalf("local remove must happen despite remote failure")
	}
	if len(remote.removes) != 1 || remote.removes[0] != "p1" {
		t.Fatalf("expected remote remove call, got %v", remote.removes)
	}
	if store.Snapshot().TotalItems != 1 {
		t.Fatalf("expected 1 item left")
	}
}

// gatedBackend holds Load until release is closed.
type gatedBackend struct {
	Backend
	entered chan struct{}
	release chan struct{}
}

func (g *gatedBackend) Load(ctx context.Context) ([]types.Product, error) {
	close(g.entered)
	<-g.release
	return g.Backend.Load(ctx)
}

func TestGuestRemovePersistsAcrossReload(t *testing.T) {
	store, slot := newGuestStore(t)
	ctx := context.Background()
	_ = store.Add(ctx, types.Product{ID: "p1"})
	_ = store.Add(ctx, types.Product{ID: "p2"})

	store.Remove(ctx, "p1")

	reloaded := NewStore(NewGuestBackend(slot), logger.Nop(), nil)
	reloaded.Load(ctx)
	items := reloaded.Items()
	if len(items) != 1 || items[0].ID != "p2" {
		t.Fatalf("expected only p2 after reload, got %+v", items)
	}
}

func TestRemoteLoadFailureKeepsCurrentItems(t *testing.T) {
	store, _ := newGuestStore(t)
	ctx := context.Background()
	_ = store.Add(ctx, types.Product{ID: "p1"})

	store.SwitchMode(ctx, NewRemoteBackend(&stubRemote{getErr: errors.New("network down")}))

	snap := store.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].ID != "p1" || snap.Status != StatusReady {
		t.Fatalf("expected items kept after failed load, got %+v", snap)
	}
	if snap.Mode != enums.SessionModeAuthenticated {
		t.Fatalf("expected mode switch even when load fails, got %s", snap.Mode)
	}
}

func TestSwitchModeReloadsFromNewBackend(t *testing.T) {
	store, _ := newGuestStore(t)
	ctx := context.Background()
	_ = store.Add(ctx, types.Product{ID: "guest-only"})

	gated := &gatedBackend{
		Backend: NewRemoteBackend(&stubRemote{items: []types.Product{{ID: "s1"}, {ID: "s2"}}}),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		store.SwitchMode(ctx, gated)
	}()

	<-gated.entered
	if snap := store.Snapshot(); snap.Status != StatusLoading || snap.Mode != enums.SessionModeAuthenticated {
		t.Fatalf("expected loading in authenticated mode, got %+v", snap)
	}
	close(gated.release)
	<-done

	snap := store.Snapshot()
	if snap.Status != StatusReady || snap.TotalItems != 2 || store.Contains("guest-only") {
		t.Fatalf("expected server wishlist after switch, got %+v", snap)
	}
}

func TestMigrateGuest(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewListSlot[types.Product](storage.NewMemoryKV(), storage.SlotGuestWishlist, logger.Nop())
	_ = slot.Save(ctx, []types.Product{{ID: "a"}, {ID: "b"}})

	remote := &stubRemote{}
	moved, err := MigrateGuest(ctx, slot, remote, nil)
	if err != nil || moved != 2 {
		t.Fatalf("unexpected result moved=%d err=%v", moved, err)
	}
	if len(slot.Load(ctx)) != 0 {
		t.Fatalf("expected guest wishlist emptied")
	}

	_ = slot.Save(ctx, []types.Product{{ID: "c"}})
	remote.addErr = errors.New("down")
	if _, err := MigrateGuest(ctx, slot, remote, nil); err == nil {
		t.Fatalf("expected error when the server rejects")
	}
	if got := slot.Load(ctx); len(got) != 1 {
		t.Fatalf("failed entries must stay in the guest slot, got %+v", got)
	}
}
