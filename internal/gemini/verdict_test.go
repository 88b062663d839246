package gemini_test

import (
	"testing"

	"pairaudit/internal/gemini"
)

func TestParseVerdictStrictFormat(t *testing.T) {
	text := "MATCH: Yes\nDOMAIN_LS: Steel Manufacturing\nDOMAIN_DBM: Metals\nREASONING: Same website and same address in Ohio."

	verdict := gemini.ParseVerdict(text)
	if !verdict.IsMatch {
		t.Fatal("expected match")
	}
	if verdict.SectorA != "Steel Manufacturing" || verdict.SectorB != "Metals" {
		t.Fatalf("unexpected sectors %q / %q", verdict.SectorA, verdict.SectorB)
	}
	if verdict.Reasoning != "Same website and same address in Ohio." {
		t.Fatalf("unexpected reasoning %q", verdict.Reasoning)
	}
}

func TestParseVerdictMarkerVariants(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"match: yes", true},
		{"MATCH:Yes", true},
		{"Match: True", true},
		{"MATCH: No", false},
		{"match: false", false},
		{"MATCH:   NO", false},
	}
	for _, tc := range cases {
		if got := gemini.ParseVerdict(tc.text).IsMatch; got != tc.want {
			t.Errorf("ParseVerdict(%q).IsMatch = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestParseVerdictPhraseCueFallback(t *testing.T) {
	positive := gemini.ParseVerdict("Based on the shared domain these companies are the same entity.")
	if !positive.IsMatch {
		t.Fatal("expected phrase cue to yield a match")
	}

	negated := gemini.ParseVerdict("These are not the same company even if the names are the same... wait, they are the same sector but not the same firm.")
	if negated.IsMatch {
		t.Fatal("negated phrase must not yield a match")
	}
}

func TestParseVerdictAmbiguousDefaultsToNoMatch(t *testing.T) {
	verdict := gemini.ParseVerdict("I could not find conclusive evidence either way.")
	if verdict.IsMatch {
		t.Fatal("ambiguous reply must default to no match")
	}
}

func TestParseVerdictMissingLabelsFallBack(t *testing.T) {
	raw := "The companies share an address so MATCH: Yes is my answer."
	verdict := gemini.ParseVerdict(raw)
	if verdict.SectorA != gemini.UndeterminedSector || verdict.SectorB != gemini.UndeterminedSector {
		t.Fatalf("expected sector sentinels, got %q / %q", verdict.SectorA, verdict.SectorB)
	}
	if verdict.Reasoning != raw {
		t.Fatalf("expected full raw text as reasoning, got %q", verdict.Reasoning)
	}
}

func TestParseVerdictEmptyLabelValueKeepsSentinel(t *testing.T) {
	verdict := gemini.ParseVerdict("MATCH: No\nDOMAIN_LS:\nDOMAIN_DBM:   \n")
	if verdict.SectorA != gemini.UndeterminedSector || verdict.SectorB != gemini.UndeterminedSector {
		t.Fatalf("expected sentinels for blank labels, got %q / %q", verdict.SectorA, verdict.SectorB)
	}
}

func TestParseVerdictBlankLabelDoesNotBleedNextLine(t *testing.T) {
	verdict := gemini.ParseVerdict("MATCH: Yes\nDOMAIN_LS:\nDOMAIN_DBM: Freight\nREASONING: Shared site.")
	if verdict.SectorA != gemini.UndeterminedSector {
		t.Fatalf("blank label must keep the sentinel, got %q", verdict.SectorA)
	}
	if verdict.SectorB != "Freight" {
		t.Fatalf("expected following label to parse normally, got %q", verdict.SectorB)
	}
}

func TestParseVerdictMultilineReasoning(t *testing.T) {
	text := "MATCH: No\nREASONING: Different addresses.\nDifferent websites.\nNo shared contacts."
	verdict := gemini.ParseVerdict(text)
	if verdict.Reasoning != "Different addresses.\nDifferent websites.\nNo shared contacts." {
		t.Fatalf("expected multiline reasoning block, got %q", verdict.Reasoning)
	}
}
