package gemini

import (
	"fmt"
	"strings"

	"pairaudit/internal/ingest"
)

// Columns already represented by the identity strings or the review flag are
// excluded from the context lines sent to the model.
var redundantColumns = []string{
	"lssuppliername",
	"dbmsuppliername",
	"lsname",
	"dbmname",
	"needsforreview",
}

// ContextLines renders metadata columns as ordered "key: value" strings,
// skipping empty values and columns redundant with the identity fields.
func ContextLines(metadata ingest.Row) []string {
	var lines []string
	for _, name := range metadata.Names() {
		value := strings.TrimSpace(metadata.Get(name))
		if value == "" {
			continue
		}
		if redundantColumn(name) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", name, value))
	}
	return lines
}

func redundantColumn(name string) bool {
	squashed := squashName(name)
	if squashed == "" {
		return true
	}
	for _, known := range redundantColumns {
		if squashed == known || strings.Contains(squashed, known) || strings.Contains(known, squashed) {
			return true
		}
	}
	return false
}

func squashName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func buildPrompt(supplierA, supplierB string, contextLines []string) string {
	var b strings.Builder
	b.WriteString("TASK: Determine if these two companies are actually the same one.\n\n")
	b.WriteString("COMPANIES TO CHECK:\n")
	fmt.Fprintf(&b, "1. Name A (LS): %q\n", supplierA)
	fmt.Fprintf(&b, "2. Name B (DBM): %q\n", supplierB)
	if len(contextLines) > 0 {
		fmt.Fprintf(&b, "EXTRA CLUES (Address/Email/Other): %s\n", strings.Join(contextLines, ", "))
	}
	b.WriteString("\nINSTRUCTIONS:\n")
	b.WriteString("1. USE GOOGLE SEARCH: Find their official identities, addresses, and emails.\n")
	b.WriteString("2. KEY EVIDENCE: If they have the same website, same building address, or same email, THEY ARE THE SAME.\n")
	b.WriteString("3. SIMPLE REASONING: Explain your finding in a very simple way.\n")
	b.WriteString("4. DEFINITIVE VERDICT: You MUST end with \"MATCH: Yes\" or \"MATCH: No\".\n")
	b.WriteString("\nOUTPUT FORMAT (STRICT):\n")
	b.WriteString("MATCH: [Yes/No]\n")
	b.WriteString("DOMAIN_LS: [Simple Industry]\n")
	b.WriteString("DOMAIN_DBM: [Simple Industry]\n")
	b.WriteString("REASONING: [Explanation using the specific clues found]\n")
	return b.String()
}
