package platform

import (
	"strings"
	"testing"
)

func TestMigrationsArePaired(t *testing.T) {
	names, err := Migrations()
	if err != nil {
		t.Fatalf("Migrations: %v", err)
	}
	if len(names) == 0 {
		t.Fatal("expected embedded migrations")
	}

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, n := range names {
		switch {
		case strings.HasSuffix(n, ".up.sql"):
			ups[strings.TrimSuffix(n, ".up.sql")] = true
		case strings.HasSuffix(n, ".down.sql"):
			downs[strings.TrimSuffix(n, ".down.sql")] = true
		default:
			t.Errorf("unexpected migration file %s", n)
		}
	}
	for base := range ups {
		if !downs[base] {
			t.Errorf("migration %s has no down file", base)
		}
	}
}

func TestAuditMigrationCreatesTable(t *testing.T) {
	data, err := migrationsFS.ReadFile("migrations/0001_screening_decisions.up.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	sql := string(data)
	for _, want := range []string{"screening_decisions", "fingerprint", "flagged_fields", "outcome"} {
		if !strings.Contains(sql, want) {
			t.Errorf("migration missing %q", want)
		}
	}
	// Answers are never stored.
	for _, banned := range []string{"motivation", "med_1", "answer"} {
		if strings.Contains(sql, banned) {
			t.Errorf("migration must not store %q", banned)
		}
	}
}
