package badgerstore_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/opsuite/bfa-go/internal/domain"
	"github.com/opsuite/bfa-go/internal/infra/badgerstore"
)

func openTestStore(t *testing.T) *badgerstore.Store {
	t.Helper()
	store, err := badgerstore.Open(badgerstore.Config{InMemory: true}, zap.NewNop())
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func testEnvelope() *domain.StateEnvelope {
	return &domain.StateEnvelope{
		Version: domain.StateVersion,
		SavedAt: time.Now().UTC().Truncate(time.Second),
		State: domain.PersistedState{
			Profile: &domain.Profile{
				ID:                   "b7f9c2e1-0000-4000-8000-000000000001",
				BusinessName:         "Cantina Central",
				SelectedCapabilities: []domain.CapabilityID{domain.CapPhysicalProducts},
			},
			ActiveFeatures: []domain.FeatureID{"production_bom_management"},
		},
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	want := testEnvelope()
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil {
		t.Fatal("expected envelope, got nil")
	}
	if got.Version != want.Version {
		t.Errorf("expected version %d, got %d", want.Version, got.Version)
	}
	if got.State.Profile == nil || got.State.Profile.ID != want.State.Profile.ID {
		t.Errorf("profile did not round-trip: %+v", got.State.Profile)
	}
	if len(got.State.ActiveFeatures) != 1 || got.State.ActiveFeatures[0] != "production_bom_management" {
		t.Errorf("features did not round-trip: %v", got.State.ActiveFeatures)
	}
}

func TestLoad_AbsentStateYieldsNil(t *testing.T) {
	store := openTestStore(t)

	env, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("expected no error for absent state, got %v", err)
	}
	if env != nil {
		t.Errorf("expected nil envelope, got %+v", env)
	}
}

func TestSave_Overwrites(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := testEnvelope()
	if err := store.Save(ctx, first); err != nil {
		t.Fatal(err)
	}

	second := testEnvelope()
	second.State.Profile.BusinessName = "Studio Nord"
	if err := store.Save(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.State.Profile.BusinessName != "Studio Nord" {
		t.Errorf("expected latest save to win, got %q", got.State.Profile.BusinessName)
	}
}

func TestClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testEnvelope()); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	env, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if env != nil {
		t.Errorf("expected nil after clear, got %+v", env)
	}

	// Clearing absent state stays error-free.
	if err := store.Clear(ctx); err != nil {
		t.Errorf("second clear: %v", err)
	}
}

func TestOpen_DiskBacked(t *testing.T) {
	dir := t.TempDir()
	logger := zap.NewNop()

	store, err := badgerstore.Open(badgerstore.Config{Path: dir}, logger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()
	if err := store.Save(ctx, testEnvelope()); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	// State survives a reopen.
	store, err = badgerstore.Open(badgerstore.Config{Path: dir}, logger)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()

	env, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if env == nil || env.State.Profile == nil {
		t.Fatal("expected state to survive reopen")
	}
}

func TestContextCancellation(t *testing.T) {
	store := openTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Save(ctx, testEnvelope()); err == nil {
		t.Error("expected error from cancelled context on Save")
	}
	if _, err := store.Load(ctx); err == nil {
		t.Error("expected error from cancelled context on Load")
	}
}
