package toolrank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"toolfinder-backend/internal/catalog"
	"toolfinder-backend/internal/recommendations/engine"
)

// catalogFile is the YAML catalog layout. JSON snapshots are accepted as well.
type catalogFile struct {
	Tools []engine.ToolRecord `yaml:"tools"`
}

// profileFile describes who is asking, in YAML.
type profileFile struct {
	Query        string                       `yaml:"query"`
	Profile      *engine.UserProfile          `yaml:"profile"`
	Behavior     engine.UserBehavior          `yaml:"behavior"`
	CurrentTools []string                     `yaml:"currentTools"`
	Context      engine.RecommendationContext `yaml:"context"`
}

func loadCatalogFile(path string) ([]engine.ToolRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var snap catalog.Snapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			return nil, fmt.Errorf("decode catalog %s: %w", path, err)
		}
		return snap.Tools, nil
	}
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return f.Tools, nil
}

func writeCatalogFile(path string, tools []engine.ToolRecord) error {
	raw, err := yaml.Marshal(catalogFile{Tools: tools})
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, raw, 0o644)
}

func loadProfileFile(path string) (profileFile, error) {
	var f profileFile
	if strings.TrimSpace(path) == "" {
		return f, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("read profile: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return profileFile{}, fmt.Errorf("decode profile %s: %w", path, err)
	}
	return f, nil
}
