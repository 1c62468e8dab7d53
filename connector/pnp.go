package connector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jochenvg/go-udev"

	"github.com/atheepmgr/atheepmgr/eep"
)

// PNPDevice describes one enumerated PCI wireless NIC candidate: its sysfs
// device path (for locating the matching BAR resource file) and the
// chip identity resolved against the active table, if any.
type PNPDevice struct {
	SysPath     string
	VendorID    uint16
	DeviceID    uint16
	Chip        eep.ChipIdentity
	Recognised  bool
}

// atherosVendorID is the PCI vendor ID shared by Atheros/Qualcomm Atheros
// wireless silicon; PNP enumeration filters to this vendor before
// consulting the chip table, so an unrelated PCI device never gets probed
// as a calibration-data source.
const atherosVendorID = 0x168c

// EnumeratePNP walks udev's pci subsystem for Atheros-vendor devices (the
// PCI device class is not checked) and resolves each against active, implementing the plug-and-play
// autodetection capability (§6 "caps: ... PNP"). Devices whose PCI ID isn't
// in active are still returned, with Recognised=false, so a caller can log
// "present but unsupported" rather than silently skipping them.
func EnumeratePNP(active []eep.ChipIdentity) ([]PNPDevice, error) {
	u := udev.Udev{}
	enum := u.NewEnumerateFromChroot("/")
	if err := enum.AddMatchSubsystem("pci"); err != nil {
		return nil, fmt.Errorf("matching pci subsystem: %w", err)
	}
	devices, err := enum.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerating pci devices: %w", err)
	}

	var out []PNPDevice
	for _, d := range devices {
		vendor, err := parseHexProp(d.PropertyValue("PCI_SUBSYS_ID"), d.PropertyValue("PCI_ID"))
		if err != nil {
			continue
		}
		if vendor.vendorID != atherosVendorID {
			continue
		}
		chip, ok := eep.ChipByPCIID(active, vendor.deviceID)
		out = append(out, PNPDevice{
			SysPath:    d.Syspath(),
			VendorID:   vendor.vendorID,
			DeviceID:   vendor.deviceID,
			Chip:       chip,
			Recognised: ok,
		})
	}
	return out, nil
}

type pciIDPair struct {
	vendorID, deviceID uint16
}

// parseHexProp decodes udev's "PCI_ID" property, formatted as
// "VVVV:DDDD" in hex. The unused subsysID parameter keeps the call site
// symmetrical with a future subsystem-ID disambiguation pass.
func parseHexProp(_ string, pciID string) (pciIDPair, error) {
	parts := strings.SplitN(pciID, ":", 2)
	if len(parts) != 2 {
		return pciIDPair{}, fmt.Errorf("malformed PCI_ID %q", pciID)
	}
	vendor, err := strconv.ParseUint(parts[0], 16, 16)
	if err != nil {
		return pciIDPair{}, fmt.Errorf("parsing vendor id in %q: %w", pciID, err)
	}
	device, err := strconv.ParseUint(parts[1], 16, 16)
	if err != nil {
		return pciIDPair{}, fmt.Errorf("parsing device id in %q: %w", pciID, err)
	}
	return pciIDPair{vendorID: uint16(vendor), deviceID: uint16(device)}, nil
}
