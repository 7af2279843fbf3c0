package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"toolfinder-backend/internal/shared/storage/object"
	"toolfinder-backend/internal/shared/util"
)

const (
	snapshotPrefix  = "snapshots"
	snapshotVersion = 1
)

// Snapshot is the portable JSON form of a catalog.
type Snapshot struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
	Tools      []Tool    `json:"tools"`
}

// SnapshotKey maps a snapshot name to its object key.
func SnapshotKey(name string) (string, error) {
	clean, err := util.SafeName(name)
	if err != nil {
		return "", fmt.Errorf("snapshot name: %w", err)
	}
	if !strings.HasSuffix(clean, ".json") {
		clean += ".json"
	}
	return snapshotPrefix + "/" + clean, nil
}

// ExportSnapshot writes every tool in repo to store under name.
func ExportSnapshot(ctx context.Context, repo Repo, store object.Store, name string, now time.Time) (string, int, error) {
	key, err := SnapshotKey(name)
	if err != nil {
		return "", 0, err
	}
	tools, err := repo.List(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("list tools: %w", err)
	}
	payload, err := json.MarshalIndent(Snapshot{Version: snapshotVersion, ExportedAt: now.UTC(), Tools: tools}, "", "  ")
	if err != nil {
		return "", 0, err
	}
	if _, err := store.Put(ctx, key, "application/json", bytes.NewReader(payload)); err != nil {
		return "", 0, fmt.Errorf("store snapshot: %w", err)
	}
	return key, len(tools), nil
}

// ReadSnapshot loads a snapshot without touching any repo.
func ReadSnapshot(ctx context.Context, store object.Store, name string) (Snapshot, error) {
	key, err := SnapshotKey(name)
	if err != nil {
		return Snapshot{}, err
	}
	rc, err := store.Open(ctx, key)
	if err != nil {
		return Snapshot{}, err
	}
	defer rc.Close()

	var snap Snapshot
	if err := json.NewDecoder(rc).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	if snap.Version != snapshotVersion {
		return Snapshot{}, fmt.Errorf("snapshot %s has unsupported version %d", key, snap.Version)
	}
	return snap, nil
}

// ImportSnapshot upserts the tools of a stored snapshot into repo.
func ImportSnapshot(ctx context.Context, repo Repo, store object.Store, name string) (int, error) {
	snap, err := ReadSnapshot(ctx, store, name)
	if err != nil {
		return 0, err
	}
	return Seed(ctx, repo, snap.Tools)
}

// ListSnapshots returns the names of stored snapshots.
func ListSnapshots(ctx context.Context, store object.Store) ([]string, error) {
	keys, err := store.List(ctx, snapshotPrefix)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, strings.TrimSuffix(strings.TrimPrefix(k, snapshotPrefix+"/"), ".json"))
	}
	return names, nil
}
