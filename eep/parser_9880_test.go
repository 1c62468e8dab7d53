package eep

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildOTPContainer frames one CALDATA stream (a BLOCK record patching the
// default template's base header) inside the begin/end marker convention
// §4.5 describes, preceded by the OTP magic word (§8 scenario S3: "OTP
// framing discovers exactly the CALDATA stream and ignores the rest").
func buildOTPContainer(t *testing.T) []byte {
	t.Helper()

	headerWords := make([]uint16, w5416BaseWords)
	headerWords[w5416Magic] = MagicLE
	headerWords[w5416Version] = uint16(1 << 12)
	headerWords[w5416RegDmn0] = 0x0030
	headerWords[w5416RegDmn1] = 0x0040
	headerBytes := wordsToBytesLE(headerWords)

	payload := append([]byte{0, byte(len(headerBytes))}, headerBytes...)
	h := RecordHeader{Comp: RecordBlock, Ref: 1, Len: len(payload)}
	raw := encodeRecordHeader(h)
	record := []byte{byte(raw), byte(raw >> 8), byte(raw >> 16), byte(raw >> 24)}
	record = append(record, payload...)
	sum := sum16(payload)
	record = append(record, byte(sum), byte(sum>>8))

	// CALDATA stream body: typ=streamTypeCalData, version=1, then the
	// block-chain record. st.payload (handed to ScanBlockChain) is
	// body[2:], so the record must sit at body offset 0x200+2 for it to
	// land exactly on the 0x0200 candidate address within st.payload.
	body := make([]byte, 0x0202+len(record))
	body[0] = streamTypeCalData
	body[1] = 1
	copy(body[0x0202:], record)

	code := byte(3)
	buf := []byte{0, 0}
	buf = append(buf, byte(otpMagicValue), byte(otpMagicValue>>8))
	buf = append(buf, otpBeginHighNibble|code)
	buf = append(buf, body...)
	buf = append(buf, otpEndHighNibble|code, otpEndHighNibble|code)
	return buf
}

func TestLoad9880OTP(t *testing.T) {
	buf := buildOTPContainer(t)
	parser, ok := ParserFor(Family9880)
	require.True(t, ok)
	require.NotNil(t, parser.LoadOTP)

	src := NewByteBuffer(buf)
	rec, err := parser.LoadOTP(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, Family9880, rec.Family)
	require.Equal(t, RegDomainPair{0x0030, 0x0040}, rec.Base.RegDomain)
	// OTP has no stored checksum; load9880OTP recomputes one so Check
	// passes on the result (§4.5).
	require.True(t, VerifyChecksum(clampChecksumRange(rec.Raw, 0, size9880/2, size9880/2)))
}

func TestWalkOTPStreamsReturnsUnknownType(t *testing.T) {
	buf := []byte{0, 0, byte(otpMagicValue), byte(otpMagicValue >> 8)}
	code := byte(1)
	buf = append(buf, otpBeginHighNibble|code)
	buf = append(buf, 9 /* unknown type */, 1, 0xAA, 0xBB)
	buf = append(buf, otpEndHighNibble|code, otpEndHighNibble|code)

	streams, err := walkOTPStreams(buf)
	require.NoError(t, err)
	require.Len(t, streams, 1)
	require.Equal(t, byte(9), streams[0].typ)
}

func TestWalkOTPStreamsBadMagic(t *testing.T) {
	buf := []byte{0, 0, 0x00, 0x00, 0xB0}
	_, err := walkOTPStreams(buf)
	require.Error(t, err)
}
