package eep

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildValid9300Blob constructs a BLOCK record that patches the ar5416-
// derived base-header region (offset 0, w5416BaseWords words) of the
// default template onto custom values, then frames it as a single BLOCK
// record at one of the candidate block-chain addresses (§8 scenario S2:
// "patch-over-template produces the expected merged image", applied to
// base-header fields this time instead of an arbitrary patch window).
func buildValid9300Blob(t *testing.T) []byte {
	t.Helper()
	headerWords := make([]uint16, w5416BaseWords)
	headerWords[w5416Magic] = MagicLE
	headerWords[w5416Version] = uint16(3<<12 | 0)
	headerWords[w5416Length] = uint16(out9300Size / 2)
	headerWords[w5416RegDmn0] = 0x0010
	headerWords[w5416RegDmn1] = 0x0020
	headerWords[w5416MACWord0] = le16(0x10, 0x20)
	headerWords[w5416MACWord1] = le16(0x30, 0x40)
	headerWords[w5416MACWord2] = le16(0x50, 0x60)
	headerWords[w5416OpEepMisc] = le16(0x01, 0x00)
	headerBytes := wordsToBytesLE(headerWords)
	require.LessOrEqual(t, len(headerBytes), 255)

	payload := append([]byte{0, byte(len(headerBytes))}, headerBytes...)
	h := RecordHeader{Comp: RecordBlock, Ref: 1, Len: len(payload)}
	raw := encodeRecordHeader(h)
	rawRec := []byte{byte(raw), byte(raw >> 8), byte(raw >> 16), byte(raw >> 24)}
	rawRec = append(rawRec, payload...)
	sum := sum16(payload)
	rawRec = append(rawRec, byte(sum), byte(sum>>8))

	buf := make([]byte, 0x0200+len(rawRec)+8)
	copy(buf[0x0200:], rawRec)
	return buf
}

func TestLoad9300FromBlob(t *testing.T) {
	buf := buildValid9300Blob(t)
	parser, ok := ParserFor(Family9300)
	require.True(t, ok)

	rec, err := parser.LoadBlob(context.Background(), buf)
	require.NoError(t, err)
	require.Equal(t, Family9300, rec.Family)
	require.Equal(t, RegDomainPair{0x0010, 0x0020}, rec.Base.RegDomain)
	require.Len(t, rec.Modal, 2)

	require.NoError(t, parser.Check(rec))
}

func TestUpdate9300MAC(t *testing.T) {
	buf := buildValid9300Blob(t)
	parser, _ := ParserFor(Family9300)
	rec, err := parser.LoadBlob(context.Background(), buf)
	require.NoError(t, err)

	newMAC := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	require.NoError(t, parser.Update(rec, ParamMAC, newMAC))
	require.Equal(t, [6]byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}, rec.Base.MACAddress)
	require.NoError(t, parser.Check(rec))
}
