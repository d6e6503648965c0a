package limit

import "testing"

func TestAssembleBuckets(t *testing.T) {
	model := DefaultModel()
	records := []PeerRecord{
		record(65501, "update-me", FamilyInet, 10, count(10)),   // target 14 → update
		record(65502, "in-sync", FamilyInet, 14, count(10)),     // target 14 → ok
		record(65503, "raised", FamilyInet6, 200, count(10)),    // target 14 → exception
		record(65504, "unlisted", FamilyInet, 50, nil),          // skipped
	}
	results, skips, err := Reconcile(records, model)
	if err != nil {
		t.Fatal(err)
	}
	report := Assemble(results, skips)

	if len(report.Changes) != 1 || report.Changes[0].Identity.ASN != 65501 {
		t.Errorf("changes = %+v", report.Changes)
	}
	if len(report.Exceptions) != 1 || report.Exceptions[0].Identity.ASN != 65503 {
		t.Errorf("exceptions = %+v", report.Exceptions)
	}
	if len(report.Skipped) != 1 || report.Skipped[0].Identity.ASN != 65504 {
		t.Errorf("skipped = %+v", report.Skipped)
	}
	// In-sync peers are dropped from the report entirely.
	for _, c := range append(report.Changes, report.Exceptions...) {
		if c.Identity.ASN == 65502 {
			t.Error("ok-classified peer leaked into report")
		}
	}
}

func TestStatementsOnlyForChanges(t *testing.T) {
	model := DefaultModel()
	records := []PeerRecord{
		record(65501, "update-me", FamilyInet, 10, count(10)),
		record(65503, "raised", FamilyInet6, 200, count(10)),
	}
	results, skips, err := Reconcile(records, model)
	if err != nil {
		t.Fatal(err)
	}
	stmts := Assemble(results, skips).Statements()

	if len(stmts) != 1 {
		t.Fatalf("want 1 statement, got %d", len(stmts))
	}
	s := stmts[0]
	if s.Identity.ASN != 65501 || s.Family != FamilyInet {
		t.Errorf("statement = %+v", s)
	}
	if s.TargetMaximum != 14 {
		t.Errorf("TargetMaximum = %d, want 14", s.TargetMaximum)
	}
	if s.TeardownPercent != DefaultTeardownPercent {
		t.Errorf("TeardownPercent = %d, want %d", s.TeardownPercent, DefaultTeardownPercent)
	}
}

func TestStatementRoundTrip(t *testing.T) {
	// Feeding the declared count behind a change back through the model
	// reproduces the statement's target maximum.
	model := DefaultModel()
	records := []PeerRecord{
		record(65501, "a", FamilyInet, 100, count(4000)),
		record(65502, "b", FamilyInet6, 10, count(250)),
	}
	results, skips, err := Reconcile(records, model)
	if err != nil {
		t.Fatal(err)
	}
	report := Assemble(results, skips)
	for i, s := range report.Statements() {
		again, err := model.Derive(report.Changes[i].DeclaredCount)
		if err != nil {
			t.Fatal(err)
		}
		if again.TargetMaximum != s.TargetMaximum {
			t.Errorf("statement %d: re-derived %d != %d", i, again.TargetMaximum, s.TargetMaximum)
		}
	}
}

func TestReportIsEmpty(t *testing.T) {
	if !(&Report{}).IsEmpty() {
		t.Error("empty report should be empty")
	}
	if (&Report{Skipped: []Skip{{}}}).IsEmpty() {
		t.Error("report with skips is not empty")
	}
}
