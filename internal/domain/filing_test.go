package domain

import "testing"

func TestRecordValid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		key  string
		want bool
	}{
		{"K240001", true},
		{"k240001", true},
		{"P990012", true},
		{"", false},
		{"K24001", false},
		{"K2400011", false},
		{"240001K", false},
		{"KK40001", false},
	}

	for _, tc := range cases {
		rec := FilingRecord{Key: tc.key}
		if got := rec.Valid(); got != tc.want {
			t.Fatalf("Valid(%q) = %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestRuleLabel(t *testing.T) {
	t.Parallel()

	pc := WatchRule{Kind: KindProductCode, Value: "ABC"}
	if pc.Label() != "Product code = ABC" {
		t.Fatalf("unexpected label: %s", pc.Label())
	}

	ap := WatchRule{Kind: KindApplicant, Value: "Acme"}
	if ap.Label() != `Applicant contains "Acme"` {
		t.Fatalf("unexpected label: %s", ap.Label())
	}
}

func TestBuildRules(t *testing.T) {
	t.Parallel()

	rules := BuildRules([]string{" ABC ", "", "XYZ"}, []string{"Acme", "  "})
	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(rules))
	}

	// Product codes run before applicants, blanks dropped, values trimmed.
	if rules[0].Kind != KindProductCode || rules[0].Value != "ABC" {
		t.Fatalf("unexpected first rule: %+v", rules[0])
	}
	if rules[1].Value != "XYZ" {
		t.Fatalf("unexpected second rule: %+v", rules[1])
	}
	if rules[2].Kind != KindApplicant || rules[2].Value != "Acme" {
		t.Fatalf("unexpected third rule: %+v", rules[2])
	}
}
