// Package verify implements the theory verifier: a single pass over a
// theory's objects, checking that every statement carrying a proof
// satisfies it.
package verify

import (
	"fmt"

	"github.com/go-proof/logic/internal/rules"
	"github.com/go-proof/logic/internal/theory"
)

// Failure records one statement whose proof did not justify its claim.
type Failure struct {
	Index     int
	Name      string
	Statement *rules.Statement
	Err       error // set only if the proof itself errored, e.g. UnsupportedReduction
}

func (f Failure) String() string {
	name := f.Name
	if name == "" {
		name = fmt.Sprintf("<anonymous #%d>", f.Index)
	}

	if f.Err != nil {
		return fmt.Sprintf("%s: %v", name, f.Err)
	}

	return fmt.Sprintf("%s: proof does not justify its statement", name)
}

// Options controls how Verify walks a theory.
type Options struct {
	// AbortOnFailure stops the pass at the first failing statement instead
	// of collecting every failure in the theory.
	AbortOnFailure bool
}

// Verify walks t in insertion order. Objects without a proof (axioms, and
// anything that is not a rules.Statement at all) pass through
// unconditionally. It returns true iff every proof-carrying statement's
// proof succeeded; the returned failures slice is empty in that case.
//
// Verification does not recurse into nested theories on its own — a long
// proof's inline sub-theory is verified as part of evaluating that proof
// (see rules.LongProof), not by this walk descending into it automatically.
func Verify(t *theory.Theory, opts Options) (bool, []Failure) {
	var failures []Failure

	for i := 0; i < t.Len(); i++ {
		stmt, ok := t.At(i).(*rules.Statement)
		if !ok || stmt.IsAxiom() {
			continue
		}

		ok2, err := stmt.Proves()
		if err != nil {
			failures = append(failures, Failure{Index: i, Name: stmt.Name(), Statement: stmt, Err: err})
			if opts.AbortOnFailure {
				return false, failures
			}

			continue
		}

		if !ok2 {
			failures = append(failures, Failure{Index: i, Name: stmt.Name(), Statement: stmt})
			if opts.AbortOnFailure {
				return false, failures
			}
		}
	}

	return len(failures) == 0, failures
}
