package services

import (
	"context"
	"errors"
	"testing"

	"fueleu-compliance-service/internal/adapters/repositories"
	"fueleu-compliance-service/internal/domain"
)

func newBankingFixture(t *testing.T) (*BankingService, *repositories.MemoryBankingRepository, *repositories.MemoryComplianceRepository) {
	t.Helper()
	entries := repositories.NewMemoryBankingRepository()
	records := repositories.NewMemoryComplianceRepository()
	return NewBankingService(entries, records), entries, records
}

func storeRecord(t *testing.T, records *repositories.MemoryComplianceRepository, shipID string, year int, cb string) {
	t.Helper()
	_, err := records.Create(context.Background(), domain.ComplianceRecord{
		ShipID:   shipID,
		Year:     year,
		CBGco2eq: dec(t, cb),
	})
	if err != nil {
		t.Fatalf("store record: %v", err)
	}
}

func TestBankSurplus(t *testing.T) {
	svc, entries, records := newBankingFixture(t)
	storeRecord(t, records, "R002", 2024, "263.08")

	entry, err := svc.BankSurplus(context.Background(), "R002", 2024, dec(t, "100"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.ID == 0 {
		t.Fatal("expected entry to receive an id")
	}
	if !entry.AmountGco2eq.Equal(dec(t, "100")) || !entry.AppliedAmount.IsZero() {
		t.Fatalf("entry = amount %s applied %s, want amount 100 applied 0", entry.AmountGco2eq, entry.AppliedAmount)
	}
	if len(entries.Entries) != 1 {
		t.Fatalf("expected 1 stored entry, got %d", len(entries.Entries))
	}
}

func TestBankSurplusUnknownShipYear(t *testing.T) {
	svc, entries, _ := newBankingFixture(t)

	_, err := svc.BankSurplus(context.Background(), "GHOST", 2024, dec(t, "10"))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(entries.Entries) != 0 {
		t.Fatal("no entry should be stored on failure")
	}
}

func TestBankSurplusRejectsNonPositiveBalance(t *testing.T) {
	svc, entries, records := newBankingFixture(t)
	storeRecord(t, records, "R001", 2024, "0")
	storeRecord(t, records, "R003", 2024, "-340.96")

	for _, shipID := range []string{"R001", "R003"} {
		_, err := svc.BankSurplus(context.Background(), shipID, 2024, dec(t, "10"))
		if !errors.Is(err, domain.ErrNoPositiveBalance) {
			t.Errorf("ship %s: expected ErrNoPositiveBalance, got %v", shipID, err)
		}
	}
	if len(entries.Entries) != 0 {
		t.Fatal("no entry should be stored on failure")
	}
}

func TestBankSurplusExceedsBalance(t *testing.T) {
	svc, entries, records := newBankingFixture(t)
	storeRecord(t, records, "R002", 2024, "100")

	_, err := svc.BankSurplus(context.Background(), "R002", 2024, dec(t, "100.01"))
	if !errors.Is(err, domain.ErrExceedsAvailable) {
		t.Fatalf("expected ErrExceedsAvailable, got %v", err)
	}
	if len(entries.Entries) != 0 {
		t.Fatal("no entry should be stored on failure")
	}
}

func TestApplyBankedFIFO(t *testing.T) {
	svc, entries, records := newBankingFixture(t)
	storeRecord(t, records, "R002", 2024, "100")

	ctx := context.Background()
	if _, err := svc.BankSurplus(ctx, "R002", 2024, dec(t, "60")); err != nil {
		t.Fatalf("bank first entry: %v", err)
	}
	if _, err := svc.BankSurplus(ctx, "R002", 2024, dec(t, "40")); err != nil {
		t.Fatalf("bank second entry: %v", err)
	}

	result, err := svc.ApplyBanked(ctx, "R002", dec(t, "80"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.CBBefore.Equal(dec(t, "100")) {
		t.Errorf("cbBefore = %s, want 100", result.CBBefore)
	}
	if !result.Applied.Equal(dec(t, "80")) {
		t.Errorf("applied = %s, want 80", result.Applied)
	}
	if !result.CBAfter.Equal(dec(t, "180")) {
		t.Errorf("cbAfter = %s, want 180", result.CBAfter)
	}

	// The older entry is fully consumed before the newer one is touched.
	if !entries.Entries[0].AppliedAmount.Equal(dec(t, "60")) {
		t.Errorf("first entry applied = %s, want 60", entries.Entries[0].AppliedAmount)
	}
	if !entries.Entries[1].AppliedAmount.Equal(dec(t, "20")) {
		t.Errorf("second entry applied = %s, want 20", entries.Entries[1].AppliedAmount)
	}

	for _, e := range entries.Entries {
		if e.AppliedAmount.IsNegative() || e.AppliedAmount.GreaterThan(e.AmountGco2eq) {
			t.Errorf("entry %d: applied %s out of range [0, %s]", e.ID, e.AppliedAmount, e.AmountGco2eq)
		}
	}

	total, err := svc.TotalAvailable(ctx, "R002")
	if err != nil {
		t.Fatalf("total available: %v", err)
	}
	if !total.Equal(dec(t, "20")) {
		t.Fatalf("total available = %s, want 20", total)
	}
}

func TestApplyBankedExceedsAvailable(t *testing.T) {
	svc, entries, records := newBankingFixture(t)
	storeRecord(t, records, "R002", 2024, "100")

	ctx := context.Background()
	if _, err := svc.BankSurplus(ctx, "R002", 2024, dec(t, "50")); err != nil {
		t.Fatalf("bank entry: %v", err)
	}

	_, err := svc.ApplyBanked(ctx, "R002", dec(t, "50.01"))
	if !errors.Is(err, domain.ErrExceedsAvailable) {
		t.Fatalf("expected ErrExceedsAvailable, got %v", err)
	}
	if !entries.Entries[0].AppliedAmount.IsZero() {
		t.Fatalf("entry mutated on failed application: applied = %s", entries.Entries[0].AppliedAmount)
	}
}

func TestApplyBankedNoRecordForShip(t *testing.T) {
	svc, _, records := newBankingFixture(t)
	storeRecord(t, records, "R002", 2024, "100")

	ctx := context.Background()
	if _, err := svc.BankSurplus(ctx, "R002", 2024, dec(t, "30")); err != nil {
		t.Fatalf("bank entry: %v", err)
	}

	// Wipe the records so the post-application balance lookup finds nothing.
	records.Records = nil

	result, err := svc.ApplyBanked(ctx, "R002", dec(t, "30"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.CBBefore.IsZero() {
		t.Errorf("cbBefore = %s, want 0", result.CBBefore)
	}
	if !result.CBAfter.Equal(dec(t, "30")) {
		t.Errorf("cbAfter = %s, want 30", result.CBAfter)
	}
}

func TestRecords(t *testing.T) {
	svc, _, records := newBankingFixture(t)
	storeRecord(t, records, "R002", 2024, "100")
	storeRecord(t, records, "R002", 2025, "50")

	ctx := context.Background()
	if _, err := svc.BankSurplus(ctx, "R002", 2024, dec(t, "60")); err != nil {
		t.Fatalf("bank entry: %v", err)
	}
	if _, err := svc.BankSurplus(ctx, "R002", 2025, dec(t, "50")); err != nil {
		t.Fatalf("bank entry: %v", err)
	}

	byYear, err := svc.Records(ctx, "R002", 2024)
	if err != nil {
		t.Fatalf("records by year: %v", err)
	}
	if len(byYear) != 1 || byYear[0].Year != 2024 {
		t.Fatalf("records for 2024 = %v, want one 2024 entry", byYear)
	}

	// Deplete the 2024 entry; the available view must drop it.
	if _, err := svc.ApplyBanked(ctx, "R002", dec(t, "60")); err != nil {
		t.Fatalf("apply banked: %v", err)
	}

	available, err := svc.Records(ctx, "R002", 0)
	if err != nil {
		t.Fatalf("available records: %v", err)
	}
	if len(available) != 1 || available[0].Year != 2025 {
		t.Fatalf("available records = %v, want one 2025 entry", available)
	}

	empty, err := svc.Records(ctx, "R002", 2030)
	if err != nil {
		t.Fatalf("records for empty year: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("records for 2030 = %v, want empty", empty)
	}
}

func TestReverseEntryNotImplemented(t *testing.T) {
	svc, _, _ := newBankingFixture(t)

	if err := svc.ReverseEntry(context.Background(), 1); !errors.Is(err, domain.ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}
