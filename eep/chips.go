package eep

// chipTable is the static (name -> family) / (pci-id -> family) table
// (§3 "Chip identity"). ChipTable overlays a caller-supplied YAML table on
// top of this at load time (see chiptable.go); the built-in table below is
// never mutated, honoring §9's "no hot-swap of maps at runtime" reading of
// Non-goals (an overlay replaces the active table wholesale, it doesn't
// patch this one).
var chipTable = []ChipIdentity{
	{Family: Family5211, PCIDeviceID: 0x0012, DisplayName: "AR5211"},
	{Family: Family5211, PCIDeviceID: 0x0013, DisplayName: "AR5212"},
	{Family: Family5416, PCIDeviceID: 0x0023, DisplayName: "AR5416"},
	{Family: Family5416, PCIDeviceID: 0x0024, DisplayName: "AR5418"},
	{Family: Family9285, PCIDeviceID: 0x002B, DisplayName: "AR9285"},
	{Family: Family9287, PCIDeviceID: 0x002E, DisplayName: "AR9287"},
	{Family: Family9300, PCIDeviceID: 0x0030, DisplayName: "AR9380"},
	{Family: Family9300, PCIDeviceID: 0x0032, DisplayName: "AR9485"},
	{Family: Family9300, PCIDeviceID: 0x0033, DisplayName: "AR9462"},
	{Family: Family9880, PCIDeviceID: 0x0042, DisplayName: "QCA9880"},
	{Family: Family9880, PCIDeviceID: 0x0056, DisplayName: "QCA9890"},
	{Family6174, 0x0041, "QCA6174"},
	{Family: Family9888, PCIDeviceID: 0x0046, DisplayName: "QCA9888"},
}

// ChipByPCIID looks up a chip identity by its PCI device ID against the
// active table (built-in, or overlaid — see chiptable.go).
func ChipByPCIID(active []ChipIdentity, id uint16) (ChipIdentity, bool) {
	for _, c := range active {
		if c.PCIDeviceID == id {
			return c, true
		}
	}
	return ChipIdentity{}, false
}

// ChipByName looks up a chip identity by display name against the active
// table.
func ChipByName(active []ChipIdentity, name string) (ChipIdentity, bool) {
	for _, c := range active {
		if c.DisplayName == name {
			return c, true
		}
	}
	return ChipIdentity{}, false
}

// DefaultChipTable returns a copy of the built-in table; callers overlay
// onto a copy, never the package-level original.
func DefaultChipTable() []ChipIdentity {
	return append([]ChipIdentity(nil), chipTable...)
}
