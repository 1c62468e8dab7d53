package eep

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyChecksum(t *testing.T) {
	words := []uint16{0x1234, 0x5678, 0x9ABC}

	// Construct a buffer whose fold is exactly ChecksumGood by appending
	// one slot computed the same way RecomputeChecksum derives it.
	buf := append([]uint16(nil), words...)
	buf = append(buf, 0)
	RecomputeChecksum(buf, len(buf)-1)
	require.True(t, VerifyChecksum(buf))
}

func TestRecomputeChecksumIdempotent(t *testing.T) {
	buf := []uint16{0x0001, 0x0002, 0x0003, 0x0004, 0xDEAD}
	RecomputeChecksum(buf, 4)
	require.True(t, VerifyChecksum(buf))

	// Recomputing again after mutating an unrelated word keeps the fold
	// at ChecksumGood.
	buf[0] = 0xBEEF
	RecomputeChecksum(buf, 4)
	require.True(t, VerifyChecksum(buf))
}

func TestClampChecksumRange(t *testing.T) {
	words := make([]uint16, 16)
	got := clampChecksumRange(words, 0, 1000, 16)
	require.Len(t, got, 16)

	got = clampChecksumRange(words, 4, 4, 16)
	require.Len(t, got, 4)
}
