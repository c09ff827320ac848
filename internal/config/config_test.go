package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPTIMA_DB_HOST", "")
	cfg := Load()
	if cfg.Database.Enabled() {
		t.Fatalf("expected an empty OPTIMA_DB_HOST to leave the database disabled")
	}
	if cfg.Engine.Algorithm != "random_descent" {
		t.Fatalf("expected the default algorithm to be random_descent, got %q", cfg.Engine.Algorithm)
	}
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("OPTIMA_DB_HOST", "db.internal")
	t.Setenv("OPTIMA_ALGORITHM", "tabu")
	t.Setenv("OPTIMA_MAX_STEPS", "42")

	cfg := Load()
	if !cfg.Database.Enabled() {
		t.Fatalf("expected a non-empty OPTIMA_DB_HOST to enable the database")
	}
	if cfg.Engine.Algorithm != "tabu" {
		t.Fatalf("expected OPTIMA_ALGORITHM override, got %q", cfg.Engine.Algorithm)
	}
	if cfg.Engine.MaxSteps != 42 {
		t.Fatalf("expected OPTIMA_MAX_STEPS override, got %d", cfg.Engine.MaxSteps)
	}
}
