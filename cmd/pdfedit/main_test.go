package main

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/Ethan1812/pdf-edit-online/dbopen"
	"github.com/Ethan1812/pdf-edit-online/kit"
	"github.com/Ethan1812/pdf-edit-online/observability"
)

// dbopen relies on the binary blank-importing the sqlite driver. Opening a
// database from this package proves the driver is registered.
func TestObservabilityDatabaseOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "obs.db")
	db, err := dbopen.Open(path, dbopen.WithMkdirAll())
	if err != nil {
		t.Fatalf("dbopen.Open: %v", err)
	}
	defer db.Close()

	if err := observability.Init(db); err != nil {
		t.Fatalf("observability.Init: %v", err)
	}
}

func TestAssemblyEventsRecorded(t *testing.T) {
	db := dbopen.OpenMemory(t)
	if err := observability.Init(db); err != nil {
		t.Fatalf("observability.Init: %v", err)
	}
	a := &assemblyEvents{events: observability.NewEventLogger(db)}

	ctx := kit.WithRequestID(context.Background(), "req_abc123")
	ctx = kit.WithTransport(ctx, "mcp")
	a.AssemblyCompleted(ctx, "merge", 3, 1, nil)

	var entityID, details string
	var success bool
	row := db.QueryRow(`SELECT entity_id, details, success FROM business_event_logs WHERE action = 'merge'`)
	if err := row.Scan(&entityID, &details, &success); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if entityID != "req_abc123" || !success {
		t.Fatalf("entity_id = %q, success = %v", entityID, success)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(details), &fields); err != nil {
		t.Fatalf("details not JSON: %v", err)
	}
	if fields["transport"] != "mcp" {
		t.Fatalf("transport = %v, want mcp", fields["transport"])
	}
	if fields["pages_produced"] != float64(3) || fields["pages_skipped"] != float64(1) {
		t.Fatalf("counts: %v / %v", fields["pages_produced"], fields["pages_skipped"])
	}
}
