package ingest

import (
	"strings"

	"golang.org/x/text/cases"
)

var fold = cases.Fold()

// Row is an ordered set of named string fields. The schema is not fixed in
// advance; column order follows the source header.
type Row struct {
	names  []string
	values map[string]string
}

// NewRow builds a row from parallel header and value slices. Missing values
// are filled with empty strings; surplus values are dropped.
func NewRow(headers, values []string) Row {
	names := make([]string, len(headers))
	copy(names, headers)
	fields := make(map[string]string, len(headers))
	for i, name := range headers {
		if i < len(values) {
			fields[name] = values[i]
		} else {
			fields[name] = ""
		}
	}
	return Row{names: names, values: fields}
}

// RowFromPairs builds a row from ordered key/value pairs. Used by non-CSV
// sources that produce rows directly.
func RowFromPairs(pairs ...[2]string) Row {
	names := make([]string, 0, len(pairs))
	fields := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		names = append(names, pair[0])
		fields[pair[0]] = pair[1]
	}
	return Row{names: names, values: fields}
}

// Names returns the column names in source order.
func (r Row) Names() []string {
	cp := make([]string, len(r.names))
	copy(cp, r.names)
	return cp
}

// Get returns the raw value stored under an exact column name.
func (r Row) Get(name string) string {
	return r.values[name]
}

// Len returns the number of columns.
func (r Row) Len() int {
	return len(r.names)
}

// Lookup resolves a semantic column by trying name variants in priority
// order. Pass one requires a case-folded, whitespace-trimmed exact header
// match. Pass two accepts fuzzy containment: both header and variant are
// lowercased and stripped of non-alphanumerics, and either may contain the
// other. Empty values never match, even when the header does.
func (r Row) Lookup(variants ...string) (string, bool) {
	for _, variant := range variants {
		want := fold.String(strings.TrimSpace(variant))
		for _, name := range r.names {
			if fold.String(strings.TrimSpace(name)) != want {
				continue
			}
			if value := strings.TrimSpace(r.values[name]); value != "" {
				return value, true
			}
		}
	}

	for _, variant := range variants {
		want := squash(variant)
		if want == "" {
			continue
		}
		for _, name := range r.names {
			have := squash(name)
			if have == "" {
				continue
			}
			if !strings.Contains(have, want) && !strings.Contains(want, have) {
				continue
			}
			if value := strings.TrimSpace(r.values[name]); value != "" {
				return value, true
			}
		}
	}

	return "", false
}

// squash lowercases and strips every non-alphanumeric rune.
func squash(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
