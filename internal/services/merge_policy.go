package services

import (
	"github.com/tropicaldog17/folio/internal/models"
)

// MergePolicy says how an entry field is folded into an existing holding.
type MergePolicy int

const (
	// KeepExisting never touches the holding's value.
	KeepExisting MergePolicy = iota
	// OverwriteIfPresent replaces the holding's value when the entry carries one.
	OverwriteIfPresent
	// OverwriteAlways replaces the holding's value unconditionally.
	OverwriteAlways
)

func (p MergePolicy) String() string {
	switch p {
	case KeepExisting:
		return "keep-existing"
	case OverwriteIfPresent:
		return "overwrite-if-present"
	case OverwriteAlways:
		return "overwrite-always"
	default:
		return "unknown"
	}
}

// mergedEntry is an entry with its derived values resolved, so merge rules
// read plain fields.
type mergedEntry struct {
	*models.HoldingEntry
	country string
}

// fieldRule binds a metadata field to its policy. present reports whether the
// entry carries a value; apply copies it onto the holding.
type fieldRule struct {
	Field   string
	Policy  MergePolicy
	present func(e *mergedEntry) bool
	apply   func(h *models.Holding, e *mergedEntry)
}

// metadataMergePolicies is the merge table used when an entry consolidates
// into an existing holding.
var metadataMergePolicies = []fieldRule{
	{
		Field:   "name",
		Policy:  KeepExisting,
		present: func(e *mergedEntry) bool { return e.Name != "" },
		apply:   func(h *models.Holding, e *mergedEntry) { h.Name = e.Name },
	},
	{
		Field:   "platform",
		Policy:  OverwriteIfPresent,
		present: func(e *mergedEntry) bool { return e.Platform != "" },
		apply:   func(h *models.Holding, e *mergedEntry) { h.Platform = e.Platform },
	},
	{
		Field:   "notes",
		Policy:  OverwriteIfPresent,
		present: func(e *mergedEntry) bool { return e.Notes != "" },
		apply:   func(h *models.Holding, e *mergedEntry) { h.Notes = e.Notes },
	},
	{
		Field:   "sector",
		Policy:  OverwriteIfPresent,
		present: func(e *mergedEntry) bool { return e.Sector != "" },
		apply:   func(h *models.Holding, e *mergedEntry) { h.Sector = e.Sector },
	},
	{
		Field:   "country",
		Policy:  OverwriteIfPresent,
		present: func(e *mergedEntry) bool { return e.country != "" },
		apply:   func(h *models.Holding, e *mergedEntry) { h.Country = e.country },
	},
	{
		Field:   "account",
		Policy:  OverwriteIfPresent,
		present: func(e *mergedEntry) bool { return e.Account != "" },
		apply:   func(h *models.Holding, e *mergedEntry) { h.Account = e.Account },
	},
	{
		Field:   "current_price",
		Policy:  OverwriteAlways,
		present: func(e *mergedEntry) bool { return true },
		apply:   func(h *models.Holding, e *mergedEntry) { h.CurrentPrice = e.QuotedPrice() },
	},
	{
		Field:   "is_manual",
		Policy:  KeepExisting,
		present: func(e *mergedEntry) bool { return true },
		apply:   func(h *models.Holding, e *mergedEntry) { h.IsManual = e.IsManual },
	},
}

// mergeMetadata folds the entry's metadata into h according to rules.
func mergeMetadata(h *models.Holding, e *mergedEntry, rules []fieldRule) {
	for _, r := range rules {
		switch r.Policy {
		case OverwriteAlways:
			r.apply(h, e)
		case OverwriteIfPresent:
			if r.present(e) {
				r.apply(h, e)
			}
		}
	}
}
