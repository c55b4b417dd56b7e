package sqlite

import (
	"path/filepath"
	"testing"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	if info.DriverName != DriverName() || info.DriverType != DriverType() {
		t.Errorf("GetInfo() = %+v, inconsistent with DriverName/DriverType", info)
	}
	if info.IsCGO != (DriverType() == "cgo") {
		t.Errorf("IsCGO = %v for driver type %s", info.IsCGO, DriverType())
	}
	if info.Package == "" {
		t.Error("Package should not be empty")
	}
}

func TestOpenRoundTrip(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE keys (name TEXT PRIMARY KEY, idx INTEGER)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO keys (name, idx) VALUES (?, ?)`, "Bb", 1); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var idx int
	if err := db.QueryRow(`SELECT idx FROM keys WHERE name = ?`, "Bb").Scan(&idx); err != nil {
		t.Fatalf("select: %v", err)
	}
	if idx != 1 {
		t.Errorf("idx = %d, want 1", idx)
	}
}
