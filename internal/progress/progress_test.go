package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisabledBarPrintsPlainLines(t *testing.T) {
	var buf bytes.Buffer

	// A bytes.Buffer is not a terminal, so the bar auto-disables and
	// status lines print plainly.
	b := New(Options{Max: 3, Description: "Courses", Writer: &buf})

	b.Logf("Downloaded: %s", "CS101/Week 1/notes.pdf")
	b.Add(1)
	b.Finish()

	assert.Equal(t, "Downloaded: CS101/Week 1/notes.pdf\n", buf.String())
}

func TestExplicitlyDisabled(t *testing.T) {
	var buf bytes.Buffer

	b := New(Options{Max: 1, Disabled: true, Writer: &buf})

	b.Logf("line")
	assert.Equal(t, "line\n", buf.String())
}

func TestQuietSuppressesStatusLines(t *testing.T) {
	var buf bytes.Buffer

	b := New(Options{Max: 2, Quiet: true, Writer: &buf})

	b.Logf("Downloaded: %s", "CS101/Week 1/notes.pdf")
	b.Logf("Skipping (exists): %s", "CS101/Week 1/notes.pdf")
	b.Add(1)
	b.Finish()

	assert.Empty(t, buf.String())
}
