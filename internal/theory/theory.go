// Package theory implements the ordered, name-indexed, lexically scoped
// object container that holds a parsed document's nodes, statements, and
// rules, plus relative References between them.
package theory

import (
	"github.com/go-proof/logic/internal/errors"
)

// Object is anything a Theory can hold. ast.Node and rules.Statement (and
// rules.Rule) satisfy this implicitly — theory never imports either
// package, so there is no import cycle between "things a theory can
// contain" and "the theory that contains them".
type Object interface {
	// ObjectName returns the object's name, or "" if it is anonymous.
	ObjectName() string
}

// Theory is an ordered sequence of owned objects together with a name
// index, optionally nested inside a parent theory.
type Theory struct {
	objects []Object
	index   map[string]int

	parent       *Theory
	parentObject int // index into parent.objects, or -1 if this is a root theory
}

// NewTheory creates a root theory with no parent.
func NewTheory() *Theory {
	return &Theory{
		index:        make(map[string]int),
		parentObject: -1,
	}
}

// NewSubTheory creates a theory nested inside parent, anchored at
// parentObject — the index of the object in parent that contains this
// sub-theory (e.g. a long proof's inline sub-theory anchored at the
// lemma's own slot).
func NewSubTheory(parent *Theory, parentObject int) *Theory {
	return &Theory{
		index:        make(map[string]int),
		parent:       parent,
		parentObject: parentObject,
	}
}

// Parent returns the enclosing theory, or nil for a root theory.
func (t *Theory) Parent() *Theory { return t.parent }

// ParentObject returns the index, in the parent theory, of the object
// that owns this sub-theory. Only meaningful when Parent() is non-nil.
func (t *Theory) ParentObject() int { return t.parentObject }

// Add appends obj to the theory. If obj is named (ObjectName() != ""),
// the name must not already be present in this theory; anonymous objects
// are always accepted and never indexed.
func (t *Theory) Add(obj Object) (int, error) {
	name := obj.ObjectName()

	if name != "" {
		if _, exists := t.index[name]; exists {
			return -1, errors.NewDuplicateName(name)
		}
	}

	idx := len(t.objects)
	t.objects = append(t.objects, obj)

	if name != "" {
		t.index[name] = idx
	}

	return idx, nil
}

// Len returns the number of objects directly owned by this theory.
func (t *Theory) Len() int { return len(t.objects) }

// At returns the object at index i, or nil if i is out of range.
func (t *Theory) At(i int) Object {
	if i < 0 || i >= len(t.objects) {
		return nil
	}

	return t.objects[i]
}

// All returns the theory's objects in insertion order. Callers must not
// mutate the returned slice.
func (t *Theory) All() []Object {
	return t.objects
}

// Get resolves name lexically: this theory first, then its parent,
// recursively. It returns the owning theory and the object's index
// within it, or (nil, -1) if name is not found anywhere in the chain.
func (t *Theory) Get(name string) (*Theory, int) {
	for cur := t; cur != nil; cur = cur.parent {
		if idx, ok := cur.index[name]; ok {
			return cur, idx
		}
	}

	return nil, -1
}

// Ancestor walks n parent links up from t (n == 1 returns t.Parent()). It
// returns nil if the chain is shorter than n.
func (t *Theory) Ancestor(n int) *Theory {
	cur := t

	for i := 0; i < n; i++ {
		if cur == nil {
			return nil
		}

		cur = cur.parent
	}

	return cur
}
