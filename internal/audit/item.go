package audit

import (
	"fmt"
	"strings"

	"pairaudit/internal/gemini"
	"pairaudit/internal/ingest"
)

// Status represents the lifecycle of a work item.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// IsTerminal reports whether a status is final for the batch.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Reason classifies why an item ended in error, so consumers can tell a
// user-initiated stop apart from an oracle failure.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonOracleFailure Reason = "oracle_failure"
	ReasonStopped       Reason = "stopped"
)

// StopMessage is the error message set on items forced out by a stop.
const StopMessage = "stopped by user"

// Item is one supplier pair plus its current processing state and results.
// Items are mutated by whole-value replacement only.
type Item struct {
	ID        string
	SupplierA string
	SupplierB string
	Metadata  ingest.Row

	Status       Status
	IsMatch      bool
	SectorA      string
	SectorB      string
	Reasoning    string
	Citations    []gemini.Citation
	ErrorMessage string
	ErrorReason  Reason
}

// Header variants accepted for the two identity columns, in priority order.
var (
	supplierAVariants = []string{"ls supplier name", "ls name", "supplier ls", "ls"}
	supplierBVariants = []string{"dbm supplier name", "dbm name", "supplier dbm", "dbm"}
)

// NewItems builds one pending item per input row, in input order. Identity
// columns are resolved through the tolerant header lookup; rows that yield no
// value get the fallback label so identities are never empty.
func NewItems(rows []ingest.Row, fallback string) []Item {
	if strings.TrimSpace(fallback) == "" {
		fallback = "Unknown Supplier"
	}
	items := make([]Item, 0, len(rows))
	for i, row := range rows {
		supplierA, ok := row.Lookup(supplierAVariants...)
		if !ok {
			supplierA = fallback
		}
		supplierB, ok := row.Lookup(supplierBVariants...)
		if !ok {
			supplierB = fallback
		}
		items = append(items, Item{
			ID:        fmt.Sprintf("ID-%d", i+1),
			SupplierA: supplierA,
			SupplierB: supplierB,
			Metadata:  row,
			Status:    StatusPending,
		})
	}
	return items
}
