// Package changes tracks which fields of an aggregate were modified, so
// repositories can write only those columns.
package changes

import "sort"

// Tracker records dirty field names.
type Tracker struct {
	dirtyFields map[string]bool
}

// New creates an empty Tracker.
func New() *Tracker {
	return &Tracker{
		dirtyFields: make(map[string]bool),
	}
}

// MarkDirty marks a field as dirty (modified).
func (t *Tracker) MarkDirty(field string) {
	t.dirtyFields[field] = true
}

// Dirty checks if a field has been modified.
func (t *Tracker) Dirty(field string) bool {
	return t.dirtyFields[field]
}

// HasChanges returns true if any field has been modified.
func (t *Tracker) HasChanges() bool {
	return len(t.dirtyFields) > 0
}

// DirtyFields returns the modified fields in sorted order.
func (t *Tracker) DirtyFields() []string {
	fields := make([]string, 0, len(t.dirtyFields))
	for f := range t.dirtyFields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
