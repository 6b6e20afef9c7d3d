package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestShipmentsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_shipments_table.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no shipments migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS shipments",
		"CHECK (status IN ('pending', 'in_transit', 'out_for_delivery', 'delivered', 'failed', 'cancelled'))",
		"CHECK (weight > 0)",
		"CHECK (price >= 0)",
		"FOREIGN KEY (driver_id) REFERENCES drivers(id) ON DELETE SET NULL",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_shipments_tracking_number",
		"CREATE INDEX IF NOT EXISTS idx_shipments_created_at",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestDriverDocumentsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_driver_documents_table.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no driver documents migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS driver_documents",
		"CHECK (status IN ('pending', 'verified', 'rejected'))",
		"FOREIGN KEY (driver_id) REFERENCES drivers(id) ON DELETE CASCADE",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_driver_documents_driver",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
