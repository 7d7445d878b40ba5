package theory

import (
	"fmt"
	"strconv"
	"strings"
)

// Reference names a specific object slot: a theory plus a position within
// it. It supports walking back k slots, measuring the distance between two
// references, and a textual encoding relative to a "current" anchor.
type Reference struct {
	Theory   *Theory
	Position int
}

// NoDistance is the sentinel Distance returns when two references do not
// share a theory and therefore have no meaningful positive distance.
const NoDistance = -1

// NewReference creates a reference to the object at position in t.
func NewReference(t *Theory, position int) Reference {
	return Reference{Theory: t, Position: position}
}

// IsValid reports whether the reference names an existing slot.
func (r Reference) IsValid() bool {
	return r.Theory != nil && r.Position >= 0 && r.Position < r.Theory.Len()
}

// Resolve returns the object the reference names, or nil if invalid.
func (r Reference) Resolve() Object {
	if r.Theory == nil {
		return nil
	}

	return r.Theory.At(r.Position)
}

// Sub walks back k positions within the same theory. Chaining Sub calls
// composes additively, since this is plain integer subtraction.
func (r Reference) Sub(k int) Reference {
	return Reference{Theory: r.Theory, Position: r.Position - k}
}

// Distance returns the positive number of slots separating r from other
// when both reference the same theory (other being the earlier one), or
// NoDistance if they reference different theories.
func (r Reference) Distance(other Reference) int {
	if r.Theory != other.Theory {
		return NoDistance
	}

	d := r.Position - other.Position
	if d < 0 {
		d = -d
	}

	return d
}

// anchorKind classifies which of this/parent/parent^n/name a reference's
// base is relative to a "current" statement.
type anchorKind int

const (
	anchorThis anchorKind = iota
	anchorParent
	anchorName
)

// Encode produces the most compact textual form of r relative to
// current, the theory and position of the statement the reference is
// being printed from: a bare name when the target object has one,
// otherwise the closest of this/parent^n with a trailing "~k" backward
// offset.
func Encode(r Reference, current Reference) string {
	obj := r.Resolve()
	if obj != nil && obj.ObjectName() != "" {
		return obj.ObjectName()
	}

	base, anchorPos, ok := closestAnchor(r.Theory, current)
	if !ok {
		// No bounded walk up current's ancestor chain reaches r.Theory;
		// fall back to anchoring on "this" with the offset from the
		// current statement's own theory.
		base = "this"
		anchorPos = current.Position
	}

	k := anchorPos - r.Position
	if k == 0 {
		return base
	}

	return fmt.Sprintf("%s~%d", base, k)
}

// closestAnchor finds the shortest this/parent/parent^n path from
// current's theory to target, returning the anchor's textual base and the
// position in target that the anchor designates (current's own position
// for "this", and the parent-object index for every "parent^n").
func closestAnchor(target *Theory, current Reference) (string, int, bool) {
	if target == current.Theory {
		return "this", current.Position, true
	}

	n := 1

	for cur := current.Theory; cur != nil; cur, n = cur.Parent(), n+1 {
		if cur.Parent() == target {
			base := "parent"
			if n > 1 {
				base = fmt.Sprintf("parent^%d", n)
			}

			return base, cur.ParentObject(), true
		}
	}

	return "", 0, false
}

// Decode parses a reference string (the "base" or "base~k" grammar of
// §6.2) relative to current, resolving a bare name via lexical lookup
// starting at current.Theory.
func Decode(s string, current Reference) (Reference, error) {
	base, offset, err := splitOffset(s)
	if err != nil {
		return Reference{}, err
	}

	switch {
	case base == "this":
		return Reference{Theory: current.Theory, Position: current.Position - offset}, nil

	case base == "parent":
		p := current.Theory.Parent()
		if p == nil {
			return Reference{}, fmt.Errorf("reference %q: theory has no parent", s)
		}

		return Reference{Theory: p, Position: current.Theory.ParentObject() - offset}, nil

	case strings.HasPrefix(base, "parent^"):
		n, err := strconv.Atoi(strings.TrimPrefix(base, "parent^"))
		if err != nil || n < 2 {
			return Reference{}, fmt.Errorf("reference %q: malformed ancestor depth", s)
		}

		anchorTheory := current.Theory
		anchorPos := current.Position

		for i := 0; i < n; i++ {
			if anchorTheory == nil {
				return Reference{}, fmt.Errorf("reference %q: ancestor chain too short", s)
			}

			anchorPos = anchorTheory.ParentObject()
			anchorTheory = anchorTheory.Parent()
		}

		if anchorTheory == nil {
			return Reference{}, fmt.Errorf("reference %q: ancestor chain too short", s)
		}

		return Reference{Theory: anchorTheory, Position: anchorPos - offset}, nil

	default:
		owner, idx := current.Theory.Get(base)
		if owner == nil {
			return Reference{}, fmt.Errorf("reference %q: name not found", s)
		}

		return Reference{Theory: owner, Position: idx - offset}, nil
	}
}

func splitOffset(s string) (base string, offset int, err error) {
	if i := strings.IndexByte(s, '~'); i >= 0 {
		base = s[:i]

		offset, err = strconv.Atoi(s[i+1:])
		if err != nil || offset < 0 {
			return "", 0, fmt.Errorf("reference %q: malformed offset", s)
		}

		return base, offset, nil
	}

	return s, 0, nil
}
