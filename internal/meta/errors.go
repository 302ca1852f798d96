package meta

import "errors"

var (
	// ErrHierarchy is returned when a child would not be strictly deeper than
	// its parent, or when a section is attached twice.
	ErrHierarchy = errors.New("section hierarchy violation")

	// ErrDuplicateID is returned by AssignIDs when two sections declare the
	// same explicit id.
	ErrDuplicateID = errors.New("duplicate section id")

	// ErrSectionNotFound is returned by lookups that match nothing.
	ErrSectionNotFound = errors.New("section not found")

	// ErrChapterNotAttached is returned by operations that need the owning
	// chapter of a section that was never attached to one.
	ErrChapterNotAttached = errors.New("section is not attached to a chapter")
)
