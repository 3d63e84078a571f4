package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkoivula/canvas-go/internal/canvas"
	"github.com/tkoivula/canvas-go/internal/selector"
)

func resetSelectionFlags(t *testing.T) {
	t.Helper()

	t.Cleanup(func() {
		flagSelectAll = false
		flagSelectCourses = nil
		flagSelectTerms = nil
		flagCurrentTerm = false
	})

	flagSelectAll = false
	flagSelectCourses = nil
	flagSelectTerms = nil
	flagCurrentTerm = false
}

func selectionCourses() []canvas.Course {
	return []canvas.Course{
		{ID: 1, Name: "CS101", Term: canvas.Term{Name: "Fall 2025"}},
		{ID: 2, Name: "Ma 2b", Term: canvas.Term{Name: "Winter 2026"}},
		{ID: 3, Name: "Ph 1", Term: canvas.Term{Name: "Fall 2025"}},
	}
}

func TestApplySelectionDefaultIsAll(t *testing.T) {
	resetSelectionFlags(t)

	got, err := applySelection(selectionCourses())
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestApplySelectionByIndex(t *testing.T) {
	resetSelectionFlags(t)

	flagSelectCourses = []string{"1", "3"}

	got, err := applySelection(selectionCourses())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
}

func TestApplySelectionByIndexOutOfRange(t *testing.T) {
	resetSelectionFlags(t)

	flagSelectCourses = []string{"5"}

	_, err := applySelection(selectionCourses())
	require.Error(t, err)

	var selErr *selector.SelectionError
	assert.ErrorAs(t, err, &selErr)
}

func TestApplySelectionByTerm(t *testing.T) {
	resetSelectionFlags(t)

	flagSelectTerms = []string{"Winter 2026"}

	got, err := applySelection(selectionCourses())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestApplySelectionCurrentTermNoMatch(t *testing.T) {
	resetSelectionFlags(t)

	flagCurrentTerm = true

	// No term has bounds, so auto-detection cannot match; the error must
	// point at explicit selection and name the available terms.
	_, err := applySelection(selectionCourses())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--term")
	assert.Contains(t, err.Error(), "Fall 2025")
}

func TestApplySelectionCurrentTermMatch(t *testing.T) {
	resetSelectionFlags(t)

	flagCurrentTerm = true

	now := time.Now().UTC()
	courses := selectionCourses()
	courses[1].Term.Start = now.Add(-24 * time.Hour)
	courses[1].Term.End = now.Add(24 * time.Hour)

	got, err := applySelection(courses)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Winter 2026", got[0].Term.Name)
}

func TestApplySelectionExclusiveFlags(t *testing.T) {
	resetSelectionFlags(t)

	flagSelectAll = true
	flagCurrentTerm = true

	_, err := applySelection(selectionCourses())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pick one")
}
