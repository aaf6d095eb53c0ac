package fraudstore

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	if opts.DBPath == "" {
		opts.DBPath = filepath.Join(t.TempDir(), "fraud.db")
	}
	s, err := Open(opts)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenSeedsDemoCase(t *testing.T) {
	s := openTestStore(t, Options{})

	c, err := s.GetCaseByUsername(context.Background(), "Samuel")
	if err != nil {
		t.Fatalf("GetCaseByUsername failed: %v", err)
	}
	if c.Merchant != "Amazon" || c.Amount != "$1,250.00" || c.Status != "pending_review" {
		t.Fatalf("seeded case = %+v", c)
	}
	if c.SecurityQuestion == "" || c.SecurityAnswer != "Shiro" {
		t.Fatalf("security fields missing: %+v", c)
	}
}

func TestGetCaseIsCaseInsensitive(t *testing.T) {
	s := openTestStore(t, Options{})

	c, err := s.GetCaseByUsername(context.Background(), "samuel")
	if err != nil {
		t.Fatalf("lowercase lookup failed: %v", err)
	}
	if c.Username != "Samuel" {
		t.Fatalf("username = %q", c.Username)
	}
}

func TestGetCaseNotFound(t *testing.T) {
	s := openTestStore(t, Options{})

	_, err := s.GetCaseByUsername(context.Background(), "nobody")
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestUpdateCaseStatus(t *testing.T) {
	s := openTestStore(t, Options{})
	ctx := context.Background()

	c, err := s.GetCaseByUsername(ctx, "Samuel")
	if err != nil {
		t.Fatalf("GetCaseByUsername failed: %v", err)
	}
	if err := s.UpdateCaseStatus(ctx, c.ID, "confirmed_fraud", "customer denied the charge"); err != nil {
		t.Fatalf("UpdateCaseStatus failed: %v", err)
	}

	c, err = s.GetCaseByUsername(ctx, "Samuel")
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if c.Status != "confirmed_fraud" || c.Notes != "customer denied the charge" {
		t.Fatalf("case after update = %+v", c)
	}

	if err := s.UpdateCaseStatus(ctx, 9999, "confirmed_safe", ""); !IsNotFound(err) {
		t.Fatalf("update of missing case: err = %v, want NotFoundError", err)
	}
}

func TestNoSeedLeavesTableEmpty(t *testing.T) {
	s := openTestStore(t, Options{NoSeed: true})

	if _, err := s.GetCaseByUsername(context.Background(), "Samuel"); !IsNotFound(err) {
		t.Fatalf("expected empty table, got err = %v", err)
	}

	if err := s.InsertCase(context.Background(), Case{Username: "Asha", Status: "pending_review"}); err != nil {
		t.Fatalf("InsertCase failed: %v", err)
	}
	c, err := s.GetCaseByUsername(context.Background(), "asha")
	if err != nil {
		t.Fatalf("lookup after insert failed: %v", err)
	}
	if c.Username != "Asha" {
		t.Fatalf("case = %+v", c)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fraud.db")
	s := openTestStore(t, Options{DBPath: dbPath})
	ctx := context.Background()

	c, err := s.GetCaseByUsername(ctx, "Samuel")
	if err != nil {
		t.Fatalf("GetCaseByUsername failed: %v", err)
	}
	if err := s.UpdateCaseStatus(ctx, c.ID, "confirmed_safe", "verified"); err != nil {
		t.Fatalf("UpdateCaseStatus failed: %v", err)
	}
	s.Close()

	s2 := openTestStore(t, Options{DBPath: dbPath})
	c, err = s2.GetCaseByUsername(ctx, "Samuel")
	if err != nil {
		t.Fatalf("lookup after reopen failed: %v", err)
	}
	// Seeding must not overwrite the existing row.
	if c.Status != "confirmed_safe" {
		t.Fatalf("status after reopen = %q", c.Status)
	}
}
