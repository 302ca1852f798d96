package meta

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// idKey is the data key that reserves an explicit section id.
const idKey = "id"

// fallbackSlug is used for titles with no letters or digits at all.
const fallbackSlug = "section"

// Catalog is the set of ids already claimed, in claim order.
type Catalog struct {
	seen  map[string]struct{}
	order []string
}

// NewCatalog returns a catalog holding ids.
func NewCatalog(ids ...string) Catalog {
	c := Catalog{seen: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		c.add(id)
	}
	return c
}

// Has reports whether id is taken.
func (c Catalog) Has(id string) bool {
	_, ok := c.seen[id]
	return ok
}

// Len returns the number of claimed ids.
func (c Catalog) Len() int {
	return len(c.order)
}

// IDs returns the claimed ids in claim order.
func (c Catalog) IDs() []string {
	return slices.Clone(c.order)
}

// Clone returns an independent copy.
func (c Catalog) Clone() Catalog {
	return NewCatalog(c.order...)
}

func (c *Catalog) add(id string) {
	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}
	if _, ok := c.seen[id]; ok {
		return
	}
	c.seen[id] = struct{}{}
	c.order = append(c.order, id)
}

// claim records and returns slug, or the first of slug-2, slug-3, ... that
// is still free.
func (c *Catalog) claim(slug string) string {
	result := slug
	for n := 2; c.Has(result); n++ {
		result = slug + "-" + strconv.Itoa(n)
	}
	c.add(result)
	return result
}

// Slugify derives a lowercase, hyphen-separated id from a title. Letters,
// digits and underscores are kept; every run of other characters becomes a
// single '-' between kept characters.
func Slugify(title string) string {
	var b strings.Builder
	accum := false
	for _, r := range title {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			accum = true
			continue
		}
		if accum {
			accum = false
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return strings.Trim(b.String(), " -")
}

// AssignIDs gives every section of m a unique id and returns the catalog
// extended with them. The input catalog is not modified.
//
// Explicit ids (an already set ID, or data["id"]) are reserved first, across
// the whole index; a repeated explicit id fails with ErrDuplicateID before
// any section is changed. Chapter roots without a title then take the
// chapter name, and every remaining section gets a slug of its title.
func AssignIDs(m *Meta, used Catalog) (Catalog, error) {
	next := used.Clone()

	type reservation struct {
		section *Section
		id      string
	}
	var reserved []reservation
	for s := range m.Sections() {
		id, ok := explicitID(s)
		if !ok {
			continue
		}
		if next.Has(id) {
			return used, fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
		next.add(id)
		reserved = append(reserved, reservation{section: s, id: id})
	}
	for _, r := range reserved {
		r.section.ID = r.id
		delete(r.section.Data, idKey)
	}

	for _, c := range m.chapters {
		if main := c.Main(); main.Title == "" {
			main.Title = c.Name
		}
	}

	for s := range m.Sections() {
		if s.ID != "" {
			continue
		}
		slug := Slugify(s.Title)
		if slug == "" {
			slug = fallbackSlug
		}
		s.ID = next.claim(slug)
	}
	return next, nil
}

func explicitID(s *Section) (string, bool) {
	if s.ID != "" {
		return s.ID, true
	}
	v, ok := s.Data[idKey]
	if !ok || v == nil {
		return "", false
	}
	id, isString := v.(string)
	if !isString {
		id = fmt.Sprint(v)
	}
	if id == "" {
		return "", false
	}
	return id, true
}
