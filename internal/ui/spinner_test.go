package ui

import (
	"bytes"
	"testing"

	"github.com/imgajeed76/datagrid/internal/ui/styles"
	"github.com/stretchr/testify/assert"
)

func TestSpinnerStatic(t *testing.T) {
	styles.SetNoColor(true)
	t.Cleanup(func() { styles.SetNoColor(false) })

	var buf bytes.Buffer
	s := NewSpinner("Loading people.csv")
	s.out = &buf
	s.animate = false

	s.Start()
	s.Success("Loaded 3 rows")
	s.Stop()

	assert.Equal(t, "Loading people.csv...\n+ Loaded 3 rows\n", buf.String())
}
