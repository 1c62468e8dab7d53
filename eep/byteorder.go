package eep

import "unsafe"

// MagicLE is the expected calibration-image magic word, little-endian,
// after any source-level byteswap has been applied (§6).
const MagicLE = 0xA55A

// MagicBE is the byteswapped form; seeing this at the magic offset means the
// source needs swap negotiated before structural parsing proceeds.
const MagicBE = 0x5AA5

// hostIsBE is captured once at package init, mirroring the teacher's
// process-wide `host_is_be` flag (§4.1) but computed rather than hand-set,
// and never mutated afterward.
var hostIsBE = func() bool {
	var x uint16 = 1
	b := (*[2]byte)(unsafe.Pointer(&x))
	return b[0] == 0
}()

// HostIsBigEndian reports the host's native byte order.
func HostIsBigEndian() bool { return hostIsBE }

// swapU16 reverses the two octets of a 16-bit word.
func swapU16(w uint16) uint16 {
	return (w >> 8) | (w << 8)
}

// swapU32 reverses the four octets of a 32-bit word, octet-wise (not
// word-swap): byte 0<->3, 1<->2.
func swapU32(w uint32) uint32 {
	return ((w & 0x000000FF) << 24) |
		((w & 0x0000FF00) << 8) |
		((w & 0x00FF0000) >> 8) |
		((w & 0xFF000000) >> 24)
}

// le16 packs two little-endian octets into a word, matching the "parsers
// always interpret words as little-endian after swap adjustment" rule of
// §4.1.
func le16(lo, hi byte) uint16 {
	return uint16(lo) | uint16(hi)<<8
}

// splitLE16 is the inverse of le16.
func splitLE16(w uint16) (lo, hi byte) {
	return byte(w), byte(w >> 8)
}

// DetectResult records what the endianness auto-detector decided and why,
// for logging/testing — the teacher's equivalent is the verbose `-d` trace
// around modem parameter resolution in src/demod.go.
type DetectResult struct {
	SwapRequired bool
	Reason       string
}

// DetectEndianness implements the two-probe algorithm of spec.md §4.1. It
// is invoked before structural parsing for the 5416/9285/9287/9300
// families. rawMagic is the word read at the family's magic offset without
// any swap applied; opCapFlags/eepMisc are the raw (unswapped) composite
// byte pair; artBuild is the raw (unswapped) 32-bit ART build-number word.
func DetectEndianness(rawMagic uint16, opCapFlags, eepMisc byte, artBuild uint32) DetectResult {
	if rawMagic == MagicLE {
		return DetectResult{SwapRequired: false, Reason: "magic matches LE directly"}
	}
	if rawMagic != MagicBE {
		// Magic doesn't match either polarity: fall through to the
		// secondary probe anyway, preferring LE on total ambiguity as
		// spec.md directs, but note the anomaly for the caller/log.
		return detectBySecondaryProbe(opCapFlags, eepMisc, artBuild, "magic mismatched both polarities")
	}
	return detectBySecondaryProbe(opCapFlags, eepMisc, artBuild, "magic byteswapped")
}

// eepMisc bit: big-endian storage flag (bit 0 of the misc byte, per the
// original eep_common.c AR5416_EEPMISC_BIG_ENDIAN convention).
const eepMiscBigEndianBit = 0x01

// opCapFlags bit: 5 GHz allowed (bit 0, per AR5416_OPFLAGS_11A).
const opFlags5GHzBit = 0x01

func detectBySecondaryProbe(opCapFlags, eepMisc byte, artBuild uint32, reason string) DetectResult {
	fiveGHz := opCapFlags&opFlags5GHzBit != 0
	bigEndian := eepMisc&eepMiscBigEndianBit != 0

	if fiveGHz == bigEndian {
		// (a): both set or both clear -> magic alone decides, i.e. the
		// byteswap candidate from the magic probe stands.
		return DetectResult{SwapRequired: reason == "magic byteswapped", Reason: reason + "; opflags/misc agree, magic decides"}
	}

	// (b): disambiguate via the build-number pattern 0xMMmmrr00. A
	// reading counts as plausible when its top octet is zero and its
	// second octet is non-zero; the third octet is not checked.
	mm := byte(artBuild >> 24)
	rr := byte(artBuild >> 16)
	lo16 := uint16(artBuild)
	_ = lo16
	swappedBuild := swapU32(artBuild)
	mmS := byte(swappedBuild >> 24)
	rrS := byte(swappedBuild >> 16)

	plausibleDirect := mm == 0 && rr != 0
	plausibleSwapped := mmS == 0 && rrS != 0

	switch {
	case plausibleDirect && !plausibleSwapped:
		return DetectResult{SwapRequired: false, Reason: reason + "; build-number pattern resolves to direct"}
	case plausibleSwapped && !plausibleDirect:
		return DetectResult{SwapRequired: true, Reason: reason + "; build-number pattern resolves to swapped"}
	default:
		// Still ambiguous: prefer little-endian.
		return DetectResult{SwapRequired: false, Reason: reason + "; still ambiguous, preferring little-endian"}
	}
}
