package listing

import "fmt"

// Kind selects which post attribute a Filter compares.
type Kind int

const (
	// None matches every post.
	None Kind = iota
	// ByGroup matches posts filed under one group.
	ByGroup
	// ByAuthor matches posts written by one user.
	ByAuthor
)

func (k Kind) String() string {
	switch k {
	case ByGroup:
		return "group"
	case ByAuthor:
		return "author"
	default:
		return "all"
	}
}

// Filter is a single equality predicate over a post.
type Filter struct {
	Kind Kind
	ID   uint
}

// All returns the filter that matches every post.
func All() Filter { return Filter{} }

// ForGroup matches posts in the group with the given id.
func ForGroup(id uint) Filter { return Filter{Kind: ByGroup, ID: id} }

// ForAuthor matches posts written by the user with the given id.
func ForAuthor(id uint) Filter { return Filter{Kind: ByAuthor, ID: id} }

// IsZero reports whether f matches everything.
func (f Filter) IsZero() bool {
	return f.Kind == None
}

// Matches reports whether r satisfies f.
func (f Filter) Matches(r Record) bool {
	switch f.Kind {
	case ByGroup:
		id, ok := r.GroupKey()
		return ok && id == f.ID
	case ByAuthor:
		return r.AuthorKey() == f.ID
	default:
		return true
	}
}

func (f Filter) String() string {
	if f.IsZero() {
		return f.Kind.String()
	}
	return fmt.Sprintf("%s:%d", f.Kind, f.ID)
}
