package eep

import (
	"io"

	"gopkg.in/yaml.v3"
)

// chipTableDoc is the on-disk YAML shape for an overlay chip-identity
// table, matching the teacher's tocalls.yaml overlay pattern in
// src/deviceid.go (a small typed slice loaded with yaml.v3).
type chipTableDoc struct {
	Chips []struct {
		Family      string `yaml:"family"`
		PCIDeviceID uint16 `yaml:"pci_device_id"`
		DisplayName string `yaml:"display_name"`
	} `yaml:"chips"`
}

// LoadChipTableOverlay reads a YAML chip-identity table and returns it
// merged on top of DefaultChipTable(): entries with a PCI ID matching a
// built-in entry replace it, new entries are appended. The built-in table
// itself is never mutated (§9 "no hot-swap of maps at runtime" — this
// produces a fresh table each call, it doesn't patch the package-level
// one in place).
func LoadChipTableOverlay(r io.Reader) ([]ChipIdentity, error) {
	var doc chipTableDoc
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, wrapErr(KindInvalidArgument, err, "parsing chip table overlay")
	}

	active := DefaultChipTable()
	for _, c := range doc.Chips {
		entry := ChipIdentity{Family: Family(c.Family), PCIDeviceID: c.PCIDeviceID, DisplayName: c.DisplayName}
		replaced := false
		for i := range active {
			if active[i].PCIDeviceID == entry.PCIDeviceID {
				active[i] = entry
				replaced = true
				break
			}
		}
		if !replaced {
			active = append(active, entry)
		}
	}
	return active, nil
}
