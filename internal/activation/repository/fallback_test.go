package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Acme Co", "acme co"},
		{"  Acme   Co  ", "acme co"},
		{"ACME CO", "acme co"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Fatalf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStrictMatchRejectsNearName(t *testing.T) {
	rec := ActivationRecord{
		OrganizationID:   uuid.New(),
		OrganizationName: "Acme Corp",
		ContactEmail:     "ops@acme.example",
	}

	// "Acme Co" is close to "Acme Corp" but not equal; it must be rejected.
	if StrictMatch(rec, OrganizationRef{Name: "Acme Co"}) {
		t.Fatal("near-match name must not pass strict match")
	}
	if !StrictMatch(rec, OrganizationRef{Name: " acme  corp "}) {
		t.Fatal("normalized-equal name must pass strict match")
	}
}

func TestStrictMatchByIDAndEmail(t *testing.T) {
	orgID := uuid.New()
	rec := ActivationRecord{
		OrganizationID:   orgID,
		OrganizationName: "Acme Corp",
		ContactEmail:     "Ops@Acme.example",
	}

	if !StrictMatch(rec, OrganizationRef{ID: &orgID}) {
		t.Fatal("matching id must pass strict match")
	}
	other := uuid.New()
	if StrictMatch(rec, OrganizationRef{ID: &other}) {
		t.Fatal("different id must not pass strict match")
	}
	if !StrictMatch(rec, OrganizationRef{Email: "ops@acme.example"}) {
		t.Fatal("case-insensitive email must pass strict match")
	}
	if StrictMatch(rec, OrganizationRef{Email: "finance@acme.example"}) {
		t.Fatal("different email must not pass strict match")
	}
	if StrictMatch(rec, OrganizationRef{}) {
		t.Fatal("empty ref must not pass strict match")
	}
}

func TestFilterPaymentEntriesDropsForeignEntries(t *testing.T) {
	own := uuid.New()
	foreign := uuid.New()
	rec := ActivationRecord{
		OrganizationID: own,
		Payments: []PaymentEntry{
			{OrganizationID: own, Amount: 100, Currency: "INR", Status: "success"},
			{OrganizationID: foreign, Amount: 999, Currency: "USD", Status: "success"},
			{OrganizationID: own, Amount: 200, Currency: "INR", Status: "success"},
		},
	}

	FilterPaymentEntries(&rec)

	if len(rec.Payments) != 2 {
		t.Fatalf("expected 2 entries after filtering, got %d", len(rec.Payments))
	}
	for _, entry := range rec.Payments {
		if entry.OrganizationID != own {
			t.Fatalf("foreign payment entry leaked: %+v", entry)
		}
	}
}

func TestParseStep(t *testing.T) {
	for _, step := range Steps() {
		parsed, ok := ParseStep(string(step))
		if !ok || parsed != step {
			t.Fatalf("ParseStep(%q) failed", step)
		}
	}
	if _, ok := ParseStep("checkout"); ok {
		t.Fatal("unknown step name must be rejected")
	}
	if _, ok := ParseStep(""); ok {
		t.Fatal("empty step name must be rejected")
	}
}

func TestApplyPatchMergesWithoutFieldLoss(t *testing.T) {
	orgID := uuid.New()
	now := time.Now()

	tier := "Standard"
	step := StepTierSelection
	rec := ApplyPatch(ActivationRecord{OrganizationID: orgID}, RecordPatch{
		WorkflowStep: &step,
		PricingTier:  &tier,
	}, now)

	model := "Aggregator"
	rec = ApplyPatch(rec, RecordPatch{EngagementModel: &model}, now.Add(time.Second))

	if rec.PricingTier == nil || *rec.PricingTier != "Standard" {
		t.Fatalf("first patch's tier was lost: %+v", rec.PricingTier)
	}
	if rec.EngagementModel == nil || *rec.EngagementModel != "Aggregator" {
		t.Fatalf("second patch's engagement model missing: %+v", rec.EngagementModel)
	}
	if rec.WorkflowStep != StepTierSelection {
		t.Fatalf("workflow step clobbered: %s", rec.WorkflowStep)
	}
}

func TestApplyPatchAppendsPayments(t *testing.T) {
	orgID := uuid.New()
	now := time.Now()

	entry := PaymentEntry{OrganizationID: orgID, Amount: 5000, Currency: "INR", Status: "success", RecordedAt: now}
	rec := ApplyPatch(ActivationRecord{OrganizationID: orgID}, RecordPatch{AppendPayment: &entry}, now)
	rec = ApplyPatch(rec, RecordPatch{AppendPayment: &entry}, now)

	if rec.TotalPaymentsMade != 2 {
		t.Fatalf("expected total payments 2, got %d", rec.TotalPaymentsMade)
	}
	if len(rec.Payments) != 2 {
		t.Fatalf("expected 2 payment entries, got %d", len(rec.Payments))
	}
}
