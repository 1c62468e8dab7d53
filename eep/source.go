package eep

import "context"

// Caps is the capability bitmask a connector advertises (§6).
type Caps uint8

const (
	// CapHW marks hardware register access available.
	CapHW Caps = 1 << iota
	// CapPNP marks plug-and-play chip autodetection available.
	CapPNP
)

// Has reports whether all of want is set in c.
func (c Caps) Has(want Caps) bool { return c&want == want }

// RegisterSource is the optional hardware register access contract (§6).
// Connectors that cannot reach hardware registers simply don't implement
// it; callers type-assert before use.
type RegisterSource interface {
	ReadRegister(ctx context.Context, addr uint32) (uint32, error)
	WriteRegister(ctx context.Context, addr uint32, val uint32) error
}

// WordSource is the EEPROM word-I/O contract (§6, §3 "ordered sequence of
// 16-bit words").
type WordSource interface {
	ReadWord(ctx context.Context, wordOffset uint32) (uint16, error)
	WriteWord(ctx context.Context, wordOffset uint32, val uint16) error
}

// OTPSource is the OTP byte-I/O contract (§6).
type OTPSource interface {
	ReadOTP(ctx context.Context, byteOffset uint32) (byte, error)
	EnableOTP(ctx context.Context, enable bool) error
}

// BlobSource is the raw-dump contract (§6).
type BlobSource interface {
	ReadBlob(ctx context.Context, buf []byte) (int, error)
	BlobSize(ctx context.Context) (int, error)
}

// Source aggregates whatever a connector provides plus its capability
// bitmask. Any of the optional interfaces may be absent; the loader probes
// with type assertions (§4.7, §9 "Dynamic parser dispatch" applied to
// sources as well).
type Source interface {
	Caps() Caps
	// Endianness reports the per-source io_swap flag (§4.1). Connectors
	// that don't know their wire order yet (pre-detection) return false;
	// the loader's endianness detector may call SetSwap to toggle it.
	Endianness() bool
	SetSwap(swap bool)
}

// BaseSource is an embeddable helper implementing the Source plumbing so
// concrete connectors only need to add their I/O methods.
type BaseSource struct {
	caps Caps
	swap bool
}

// NewBaseSource constructs a BaseSource advertising the given capabilities.
func NewBaseSource(caps Caps) BaseSource { return BaseSource{caps: caps} }

func (b *BaseSource) Caps() Caps         { return b.caps }
func (b *BaseSource) Endianness() bool   { return b.swap }
func (b *BaseSource) SetSwap(swap bool)  { b.swap = swap }

// WordBuffer is an in-memory WordSource (and WordReader) over a []uint16,
// standing in for a real EEPROM connector in tests (connector back-ends
// are an external collaborator per spec.md §1, but a reference in-memory
// source is needed to exercise the loader and parsers without one).
type WordBuffer struct {
	BaseSource
	Words  []uint16
	cursor uint32
}

// NewWordBuffer wraps words, applying swap to every word if swap is true
// (modeling a source whose io_swap is already known, e.g. from a prior
// detection pass).
func NewWordBuffer(words []uint16, swap bool) *WordBuffer {
	wb := &WordBuffer{BaseSource: NewBaseSource(CapHW), Words: append([]uint16(nil), words...)}
	wb.SetSwap(swap)
	return wb
}

func (w *WordBuffer) ReadWord(_ context.Context, off uint32) (uint16, error) {
	if int(off) >= len(w.Words) {
		return 0, wrapErr(KindIOError, errIndexRange, "word offset %#x out of range", off)
	}
	v := w.Words[off]
	if w.Endianness() {
		v = swapU16(v)
	}
	return v, nil
}

func (w *WordBuffer) WriteWord(_ context.Context, off uint32, val uint16) error {
	if int(off) >= len(w.Words) {
		return wrapErr(KindIOError, errIndexRange, "word offset %#x out of range", off)
	}
	if w.Endianness() {
		val = swapU16(val)
	}
	w.Words[off] = val
	return nil
}

// NextWord implements WordReader by reading sequentially from the current
// cursor, advancing it monotonically (§4.3 "Both operations advance the
// word cursor monotonically").
func (w *WordBuffer) NextWord() (uint16, error) {
	v, err := w.ReadWord(context.Background(), w.cursor)
	if err != nil {
		return 0, err
	}
	w.cursor++
	return v, nil
}

// Seek repositions the sequential cursor used by NextWord.
func (w *WordBuffer) Seek(off uint32) { w.cursor = off }

// ByteBuffer is an in-memory OTPSource/BlobSource over a []byte.
type ByteBuffer struct {
	BaseSource
	Bytes []byte
}

// NewByteBuffer wraps raw bytes as an OTP/blob connector stand-in.
func NewByteBuffer(b []byte) *ByteBuffer {
	return &ByteBuffer{BaseSource: NewBaseSource(CapHW), Bytes: append([]byte(nil), b...)}
}

func (b *ByteBuffer) ReadOTP(_ context.Context, off uint32) (byte, error) {
	if int(off) >= len(b.Bytes) {
		return 0, wrapErr(KindIOError, errIndexRange, "otp offset %#x out of range", off)
	}
	return b.Bytes[off], nil
}

func (b *ByteBuffer) EnableOTP(_ context.Context, _ bool) error { return nil }

func (b *ByteBuffer) ReadBlob(_ context.Context, buf []byte) (int, error) {
	return copy(buf, b.Bytes), nil
}

func (b *ByteBuffer) BlobSize(_ context.Context) (int, error) { return len(b.Bytes), nil }

var errIndexRange = errOutOfRange{}

type errOutOfRange struct{}

func (errOutOfRange) Error() string { return "index out of range" }
