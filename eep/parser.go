package eep

import "context"

// UpdateParam names an external update parameter (§6 "Update parameters").
type UpdateParam string

const (
	ParamMAC      UpdateParam = "MAC"
	ParamEraseCTL UpdateParam = "ERASE_CTL"
)

// Parser is the uniform operation set every per-family parser exposes
// (§4.5, §9 "Dynamic parser dispatch"). Optional entries (LoadEEPROM,
// LoadOTP, Update) may be nil; callers must check availability before
// invoking, mirroring the teacher's nil-checked function-pointer style
// callback tables (src/dlq.go dispatch, src/demod.go per-modem tables)
// rather than a Go interface with a run-time capability query — nil
// methods are the direct idiomatic translation of "some entries may be
// absent (nullable)".
type Parser struct {
	Family Family

	// LoadBlob parses a raw in-memory dump. Always present — every
	// family supports at least raw/blob load.
	LoadBlob func(ctx context.Context, buf []byte) (*Record, error)

	// LoadEEPROM parses from word-addressed EEPROM I/O. nil if the
	// family has no EEPROM-native form.
	LoadEEPROM func(ctx context.Context, src WordSource) (*Record, error)

	// LoadOTP parses from byte-addressed OTP I/O. nil if the family has
	// no OTP-native form.
	LoadOTP func(ctx context.Context, src OTPSource) (*Record, error)

	// Check re-validates an already-loaded record's integrity (magic,
	// length, checksum).
	Check func(rec *Record) error

	// Update applies an external update parameter in place and
	// recomputes the checksum. nil if the family supports no updates;
	// a parameter the family does not handle returns KindNotSupported
	// (the uncompressed 6174/9880/9888 formats handle MAC only).
	Update func(rec *Record, param UpdateParam, value []byte) error
}

// registry maps family -> parser, populated by each parser_*.go file's
// init(). A map here (rather than a linear scan) is appropriate: unlike
// the handful-of-entries template store, this is a fixed 1:1 dispatch
// table keyed by an enum-like string, looked up once per load — the
// map is the right data structure, not a premature one.
var registry = map[Family]*Parser{}

func register(p *Parser) { registry[p.Family] = p }

// ParserFor returns the registered parser for a family, or (nil, false) if
// none is registered.
func ParserFor(f Family) (*Parser, bool) {
	p, ok := registry[f]
	return p, ok
}

// SupportedFamilies lists every family with a registered parser.
func SupportedFamilies() []Family {
	out := make([]Family, 0, len(registry))
	for f := range registry {
		out = append(out, f)
	}
	return out
}
