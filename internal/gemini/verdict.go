package gemini

import (
	"regexp"
	"strings"
)

// UndeterminedSector is substituted when the reply carries no sector label.
const UndeterminedSector = "Undetermined"

// Citation is a grounding source the oracle claims supports its verdict.
type Citation struct {
	Title string
	URI   string
}

// Verdict is the decoded result of one oracle call.
type Verdict struct {
	IsMatch   bool
	SectorA   string
	SectorB   string
	Reasoning string
	Citations []Citation
}

var (
	matchMarkerRe = regexp.MustCompile(`(?i)MATCH:\s*(yes|no|true|false)`)
	// Label whitespace stays on the current line so a blank label keeps the
	// sentinel instead of swallowing the next line.
	sectorARe   = regexp.MustCompile(`(?im)^[ \t]*DOMAIN_LS:[ \t]*(.*)$`)
	sectorBRe   = regexp.MustCompile(`(?im)^[ \t]*DOMAIN_DBM:[ \t]*(.*)$`)
	reasoningRe = regexp.MustCompile(`(?is)REASONING:\s*(.*)`)
)

// ParseVerdict extracts a verdict from free-form reply text. The strict
// marker wins; otherwise phrase cues are scanned; otherwise the verdict
// defaults to no match. Ambiguity must stay biased toward false negatives.
func ParseVerdict(text string) Verdict {
	verdict := Verdict{
		SectorA:   UndeterminedSector,
		SectorB:   UndeterminedSector,
		Reasoning: strings.TrimSpace(text),
	}

	if m := matchMarkerRe.FindStringSubmatch(text); m != nil {
		value := strings.ToLower(m[1])
		verdict.IsMatch = value == "yes" || value == "true"
	} else {
		lower := strings.ToLower(text)
		if strings.Contains(lower, "are the same") && !strings.Contains(lower, "not the same") {
			verdict.IsMatch = true
		}
	}

	if m := sectorARe.FindStringSubmatch(text); m != nil {
		if sector := strings.TrimSpace(m[1]); sector != "" {
			verdict.SectorA = sector
		}
	}
	if m := sectorBRe.FindStringSubmatch(text); m != nil {
		if sector := strings.TrimSpace(m[1]); sector != "" {
			verdict.SectorB = sector
		}
	}
	if m := reasoningRe.FindStringSubmatch(text); m != nil {
		if reasoning := strings.TrimSpace(m[1]); reasoning != "" {
			verdict.Reasoning = reasoning
		}
	}

	return verdict
}
