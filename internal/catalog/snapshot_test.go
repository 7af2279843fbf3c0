package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"toolfinder-backend/internal/shared/storage/object"
	"toolfinder-backend/internal/shared/storage/object/local"
)

func TestSnapshotExportImport(t *testing.T) {
	ctx := context.Background()
	store := local.New(t.TempDir())
	src := NewMemoryRepo()
	if _, err := Seed(ctx, src, DemoCatalog()); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	key, n, err := ExportSnapshot(ctx, src, store, "weekly", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ExportSnapshot: %v", err)
	}
	if key != "snapshots/weekly.json" || n != len(DemoCatalog()) {
		t.Fatalf("unexpected export result %s %d", key, n)
	}

	dst := NewMemoryRepo()
	imported, err := ImportSnapshot(ctx, dst, store, "weekly.json")
	if err != nil {
		t.Fatalf("ImportSnapshot: %v", err)
	}
	if imported != n {
		t.Fatalf("expected %d imported, got %d", n, imported)
	}
	got, err := dst.Get(ctx, "webstorm")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Pricing.StartingPrice == nil || *got.Pricing.StartingPrice != 69 {
		t.Fatalf("pricing not preserved: %+v", got.Pricing)
	}

	names, err := ListSnapshots(ctx, store)
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(names) != 1 || names[0] != "weekly" {
		t.Fatalf("unexpected snapshot names %v", names)
	}
}

func TestReadSnapshotErrors(t *testing.T) {
	ctx := context.Background()
	store := local.New(t.TempDir())

	if _, err := ReadSnapshot(ctx, store, "absent"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := ReadSnapshot(ctx, store, "../etc"); err == nil {
		t.Fatalf("expected traversal name to be rejected")
	}

	if _, err := store.Put(ctx, "snapshots/old.json", "application/json", strings.NewReader(`{"version":0,"tools":[]}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := ReadSnapshot(ctx, store, "old"); err == nil || !strings.Contains(err.Error(), "unsupported version") {
		t.Fatalf("expected version error, got %v", err)
	}
}
