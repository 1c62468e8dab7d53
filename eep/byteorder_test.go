package eep

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectEndiannessDirectMagic(t *testing.T) {
	det := DetectEndianness(MagicLE, 0x00, 0x00, 0)
	require.False(t, det.SwapRequired)
}

func TestDetectEndiannessOpflagsMiscAgree(t *testing.T) {
	// magic byteswapped, opflags/misc agree (both 5GHz-allowed and
	// big-endian bits set) -> magic decides, swap required.
	det := DetectEndianness(MagicBE, opFlags5GHzBit, eepMiscBigEndianBit, 0)
	require.True(t, det.SwapRequired)

	// both clear -> magic still decides.
	det = DetectEndianness(MagicBE, 0x00, 0x00, 0)
	require.True(t, det.SwapRequired)
}

func TestDetectEndiannessBuildNumberDisambiguation(t *testing.T) {
	// opflags/misc disagree: fiveGHz set, bigEndian clear.
	opFlags := byte(opFlags5GHzBit)
	eepMisc := byte(0x00)

	// A build word whose direct interpretation is plausible (top octet
	// zero, second octet non-zero) and whose byteswapped interpretation
	// is not.
	direct := uint32(0x00120000) // top octet 0x00, second octet 0x12
	det := DetectEndianness(MagicBE, opFlags, eepMisc, direct)
	require.False(t, det.SwapRequired)

	swapped := swapU32(direct)
	det = DetectEndianness(MagicBE, opFlags, eepMisc, swapped)
	require.True(t, det.SwapRequired)
}

func TestSwapRoundTrip(t *testing.T) {
	require.Equal(t, uint16(0x1234), swapU16(swapU16(0x1234)))
	require.Equal(t, uint32(0x11223344), swapU32(swapU32(0x11223344)))
}

func TestLE16RoundTrip(t *testing.T) {
	lo, hi := splitLE16(0xABCD)
	require.Equal(t, uint16(0xABCD), le16(lo, hi))
}
