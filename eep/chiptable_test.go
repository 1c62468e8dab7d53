package eep

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadChipTableOverlayReplacesAndAppends(t *testing.T) {
	doc := `
chips:
  - family: "5416"
    pci_device_id: 35   # 0x0023, overrides the built-in AR5416 entry's name
    display_name: "AR5416-custom"
  - family: "9999"
    pci_device_id: 4096 # 0x1000, new entry not in the built-in table
    display_name: "Experimental"
`
	active, err := LoadChipTableOverlay(strings.NewReader(doc))
	require.NoError(t, err)

	c, ok := ChipByPCIID(active, 0x0023)
	require.True(t, ok)
	require.Equal(t, "AR5416-custom", c.DisplayName)

	c, ok = ChipByPCIID(active, 0x1000)
	require.True(t, ok)
	require.Equal(t, "Experimental", c.DisplayName)

	// Built-in table itself is untouched.
	builtin := DefaultChipTable()
	c, ok = ChipByPCIID(builtin, 0x0023)
	require.True(t, ok)
	require.Equal(t, "AR5416", c.DisplayName)
}

func TestLoadChipTableOverlayMalformed(t *testing.T) {
	_, err := LoadChipTableOverlay(strings.NewReader("not: [valid yaml"))
	require.Error(t, err)
}

func TestChipByNameNotFound(t *testing.T) {
	_, ok := ChipByName(DefaultChipTable(), "nonexistent")
	require.False(t, ok)
}
