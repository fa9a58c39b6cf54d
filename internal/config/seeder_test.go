package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalogIsConsistent(t *testing.T) {
	catalog := defaultCatalog()

	codes := make(map[string]bool, len(catalog.Permissions))
	for _, p := range catalog.Permissions {
		if codes[p.Code] {
			t.Fatalf("duplicate permission code: %s", p.Code)
		}
		codes[p.Code] = true
	}

	roleNames := make(map[string]bool, len(catalog.Roles))
	for _, r := range catalog.Roles {
		roleNames[r.Name] = true
		for _, code := range r.Permissions {
			if !codes[code] {
				t.Fatalf("role %s grants undeclared permission %s", r.Name, code)
			}
		}
	}

	for _, required := range []string{"administrador", "consultor", "encargado_relevamiento"} {
		if !roleNames[required] {
			t.Fatalf("built-in catalog must declare role %s", required)
		}
	}

	// The bootstrap admin account depends on the administrador role holding
	// every permission.
	for _, r := range catalog.Roles {
		if r.Name == "administrador" && len(r.Permissions) != len(catalog.Permissions) {
			t.Fatalf("administrador must hold all %d permissions, has %d", len(catalog.Permissions), len(r.Permissions))
		}
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	override := SeedCatalog{
		Permissions: []SeedPermission{{Code: "custom.view", Name: "Custom", Module: "custom"}},
		Roles:       []SeedRole{{Name: "administrador", Permissions: []string{"custom.view"}}},
	}
	raw, err := json.Marshal(override)
	if err != nil {
		t.Fatalf("marshal override: %v", err)
	}

	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	seeder := NewSeeder(nil, &Config{Seed: SeedConfig{File: path}})
	catalog, err := seeder.loadCatalog()
	if err != nil {
		t.Fatalf("loadCatalog: %v", err)
	}
	if len(catalog.Permissions) != 1 || catalog.Permissions[0].Code != "custom.view" {
		t.Fatalf("override not honored: %+v", catalog)
	}

	seeder = NewSeeder(nil, &Config{Seed: SeedConfig{File: filepath.Join(t.TempDir(), "missing.json")}})
	if _, err := seeder.loadCatalog(); err == nil {
		t.Fatalf("missing seed file must fail loudly")
	}
}

func TestLoadCatalogDefault(t *testing.T) {
	seeder := NewSeeder(nil, &Config{})
	catalog, err := seeder.loadCatalog()
	if err != nil {
		t.Fatalf("loadCatalog: %v", err)
	}
	if len(catalog.Permissions) == 0 || len(catalog.Roles) == 0 {
		t.Fatalf("built-in catalog must not be empty")
	}
}
