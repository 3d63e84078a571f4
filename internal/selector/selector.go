// Package selector picks the subset of courses a sync run operates on.
// All functions are pure: they map an already-fetched course list plus the
// user's choice to a subset, so any front end (flags, prompt, config) can
// drive them.
package selector

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tkoivula/canvas-go/internal/canvas"
)

// ErrNoCurrentTerm is returned by CurrentTerm when no term's interval
// contains the given instant. Callers fall back to explicit term selection
// rather than failing the run.
var ErrNoCurrentTerm = errors.New("selector: no term contains the current date")

// ErrEmptySelection is returned when a selection resolves to zero courses.
var ErrEmptySelection = errors.New("selector: selection matches no courses")

// SelectionError reports unusable user input (non-numeric or out-of-range
// index tokens). It is fatal to the run.
type SelectionError struct {
	Token  string
	Reason string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("selector: invalid selection %q: %s", e.Token, e.Reason)
}

// All returns the input unchanged.
func All(courses []canvas.Course) []canvas.Course {
	return courses
}

// ByIndex projects courses at the 1-based positions named by tokens.
// Tokens that are not positive integers or fall outside the list are a
// hard error, not silently dropped: a typo should never silently shrink
// what gets synced.
func ByIndex(courses []canvas.Course, tokens []string) ([]canvas.Course, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptySelection
	}

	selected := make([]canvas.Course, 0, len(tokens))

	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}

		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, &SelectionError{Token: tok, Reason: "not a number"}
		}

		if n < 1 || n > len(courses) {
			return nil, &SelectionError{
				Token:  tok,
				Reason: fmt.Sprintf("out of range 1..%d", len(courses)),
			}
		}

		selected = append(selected, courses[n-1])
	}

	if len(selected) == 0 {
		return nil, ErrEmptySelection
	}

	return selected, nil
}

// ByTerm returns the courses whose term name matches any of the given
// names.
func ByTerm(courses []canvas.Course, names []string) ([]canvas.Course, error) {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	var selected []canvas.Course

	for _, c := range courses {
		if wanted[c.Term.Name] {
			selected = append(selected, c)
		}
	}

	if len(selected) == 0 {
		return nil, ErrEmptySelection
	}

	return selected, nil
}

// CurrentTerm returns the courses in the term whose [start, end] interval
// contains now. When no term matches, ErrNoCurrentTerm tells the caller to
// ask for an explicit term instead.
func CurrentTerm(courses []canvas.Course, now time.Time) ([]canvas.Course, error) {
	var current string

	for _, c := range courses {
		if c.Term.Contains(now) {
			current = c.Term.Name
			break
		}
	}

	if current == "" {
		return nil, ErrNoCurrentTerm
	}

	return ByTerm(courses, []string{current})
}

// TermNames returns the distinct term names across courses, sorted, for
// display in error messages and listings.
func TermNames(courses []canvas.Course) []string {
	seen := make(map[string]bool)

	var names []string

	for _, c := range courses {
		if c.Term.Name == "" || seen[c.Term.Name] {
			continue
		}

		seen[c.Term.Name] = true
		names = append(names, c.Term.Name)
	}

	sort.Strings(names)

	return names
}

// Published filters out unpublished courses. Returns the kept courses and
// the number dropped, so the caller can report the skip count.
func Published(courses []canvas.Course) ([]canvas.Course, int) {
	kept := make([]canvas.Course, 0, len(courses))
	dropped := 0

	for _, c := range courses {
		if c.WorkflowState == "unpublished" {
			dropped++
			continue
		}

		kept = append(kept, c)
	}

	return kept, dropped
}
