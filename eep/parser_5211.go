package eep

import "context"

// The 5211 family (legacy 802.11abg, §4.5 "5211 family"). Grounded on
// original_source/eep_5211.c: AR5211_EEP_ENDLOC_* fields recover the
// image length, AR5211_EEP_EEPMAP selects one of three PD-calibration
// sub-formats, and the MAC slot is stored byte-reversed relative to every
// other family (S6).

const (
	w5211Magic        = 0x000D // magic word offset, per eep_5211.c EEP_READ(AR5211_EEP_MAGIC,...) convention
	w5211ProtectField = 0x003F
	w5211EndlocUp     = 0x00C0
	w5211EndlocLo     = 0x00C1
	w5211Version      = 0x0001
	w5211RegDmn0      = 0x0002
	w5211RegDmn1      = 0x0003
	w5211ChecksumWord = 0x0008
	w5211MACWord0     = 0x001D
	w5211MACWord1     = 0x001E
	w5211MACWord2     = 0x001F
	w5211EepMap       = 0x0004
	w5211CustomStart  = 0x0020
	w5211CustomWords  = 10

	family5211DefaultLenWords = 0x0400
	family5211MaxLenWords     = 0x2000

	// Per-band modal/PD-calibration layout (approximate: eep_5211.c's own
	// struct offsets weren't available in original_source, so these are
	// self-consistent synthetic offsets past the customer-data block
	// rather than literal offsetof() matches, see DESIGN.md).
	w5211ModalBase     = w5211CustomStart + w5211CustomWords // 0x2A
	modalBandWords5211 = 16
	numPiers5211       = 4
)

func init() {
	register(&Parser{
		Family: Family5211,
		LoadBlob: func(ctx context.Context, buf []byte) (*Record, error) {
			return load5211(ctx, bytesToWordsLE(buf))
		},
		LoadEEPROM: func(ctx context.Context, src WordSource) (*Record, error) {
			words, err := readAllWords(ctx, src, family5211MaxLenWords)
			if err != nil {
				return nil, err
			}
			return load5211(ctx, words)
		},
		Check:  func(rec *Record) error { return check5211(rec) },
		Update: update5211,
	})
}

func load5211(ctx context.Context, words []uint16) (*Record, error) {
	log := Logger(ctx)
	if len(words) <= w5211Magic {
		return nil, newErr(KindIntegrity, "buffer too short for 5211 magic")
	}

	if words[w5211Magic] != MagicLE {
		if words[w5211Magic] == MagicBE {
			for i := range words {
				words[i] = swapU16(words[i])
			}
			log.Warn("5211: byteswapped magic detected, toggled io_swap")
		} else {
			return nil, newErr(KindIntegrity, "bad 5211 magic %#04x", words[w5211Magic])
		}
	}

	length := 0
	if int(w5211EndlocUp) < len(words) && int(w5211EndlocLo) < len(words) {
		endlocUp := words[w5211EndlocUp]
		loc := int(endlocUp>>4) & 0xF
		size := int(endlocUp) & 0xF
		_ = size
		length = loc<<16 | int(words[w5211EndlocLo])
	}
	if length == 0 {
		length = family5211DefaultLenWords
	}
	if length > family5211MaxLenWords {
		length = family5211MaxLenWords
	}

	rec := &Record{Family: Family5211, Raw: words}
	ver := words[w5211Version]
	rec.Base.Version = Version{Major: int(ver>>12) & 0xF, Minor: int(ver) & 0xFFF}
	rec.Base.LengthWords = length
	rec.Base.RegDomain = RegDomainPair{words[w5211RegDmn0], words[w5211RegDmn1]}

	// MAC is stored byte-reversed specific to 5211 (§8 scenario S6):
	// each word's bytes are swapped relative to the common layout, and
	// the three words are consumed high-to-low.
	m0lo, m0hi := splitLE16(words[w5211MACWord0])
	m1lo, m1hi := splitLE16(words[w5211MACWord1])
	m2lo, m2hi := splitLE16(words[w5211MACWord2])
	rec.Base.MACAddress = [6]byte{m2hi, m2lo, m1hi, m1lo, m0hi, m0lo}

	eepmap := int(words[w5211EepMap]) & 0x3

	checkWords := clampChecksumRange(words, 0, length, family5211MaxLenWords)
	if !VerifyChecksum(checkWords) {
		return nil, newErr(KindIntegrity, "checksum mismatch for 5211")
	}

	rec.Modal, rec.Piers = decode5211Modal(words, eepmap, rec.Base.Version)
	log.Debug("loaded 5211 record", "eepmap", eepmap, "version", rec.Base.Version, "length", length)
	return rec, nil
}

// sliceWordReader implements WordReader over a fixed slice with a cursor,
// the source the 5211 BitStream reads from; it errors once the cursor runs
// past the end rather than wrapping or panicking.
type sliceWordReader struct {
	words []uint16
	pos   int
}

func (r *sliceWordReader) NextWord() (uint16, error) {
	if r.pos >= len(r.words) {
		return 0, newErr(KindIOError, "5211 bit-stream read past end of buffer")
	}
	w := r.words[r.pos]
	r.pos++
	return w, nil
}

// pdSubFormatReader models §9's "(min_version, field_reader)" guidance for
// the three eepmap sub-formats: 0 and 1 are populated by the original,
// sub-format 2 is reserved/unsupported (see SPEC_FULL.md supplement).
// decode5211Modal selects the reader by eepmap alone; minVersion is
// recorded here but not compared against the EEPROM's version.
type pdSubFormatReader struct {
	minVersion int
	read       func(bs *BitStream, band Band) (ModalHeader, error)
}

var pdSubFormats = map[int]pdSubFormatReader{
	0: {minVersion: 0x30, read: readPDSubFormat0},
	1: {minVersion: 0x40, read: readPDSubFormat1},
}

// decode5211Modal walks each of the three bands' (A/B/G) modal header plus
// PD-calibration piers, driving a BitStream positioned at that band's block
// through the eepmap-selected sub-format reader, then through a run of
// FBIN30/FBIN33-coded pier frequencies (§4.5 "FBIN30 vs FBIN33", minor
// version >= 0x40 selects FBIN33). A short or all-zero image degrades to an
// empty modal header and no piers for that band rather than erroring the
// whole load, since the bit-stream source reports end-of-buffer like any
// other read failure.
func decode5211Modal(words []uint16, eepmap int, ver Version) ([]ModalHeader, []ChainPiers) {
	bands := []Band{"A", "B", "G"}
	out := make([]ModalHeader, 0, len(bands))
	useFBIN33 := ver.Minor >= 0x40
	sub, ok := pdSubFormats[eepmap]

	var chainPiers []Pier
	for bi, b := range bands {
		m := ModalHeader{Band: b}
		if ok {
			reader := &sliceWordReader{words: words, pos: w5211ModalBase + bi*modalBandWords5211}
			bs := NewBitStream(reader)
			if decoded, err := sub.read(bs, b); err == nil {
				m = decoded
				for p := 0; p < numPiers5211; p++ {
					raw, err := bs.TakeHi(8)
					if err != nil || raw == 0 {
						break
					}
					var fbin int
					if useFBIN33 {
						fbin = decodeFBIN33(uint32(raw))
					} else {
						fbin = decodeFBIN30(uint32(raw))
					}
					chainPiers = append(chainPiers, Pier{FreqMHz: fbinToFreq(b, fbin)})
				}
			}
		}
		out = append(out, m)
	}

	var piers []ChainPiers
	if len(chainPiers) > 0 {
		piers = []ChainPiers{{Chain: 0, Piers: chainPiers}}
	}
	return out, piers
}

func readPDSubFormat0(bs *BitStream, band Band) (ModalHeader, error) {
	m := ModalHeader{Band: band}
	settle, err := bs.TakeHi(8)
	if err != nil {
		return m, err
	}
	m.SwitchSettle = uint8(settle)
	return m, nil
}

func readPDSubFormat1(bs *BitStream, band Band) (ModalHeader, error) {
	m := ModalHeader{Band: band}
	settle, err := bs.TakeLo(8)
	if err != nil {
		return m, err
	}
	m.SwitchSettle = uint8(settle)
	xpd, err := bs.TakeLo(1)
	if err != nil {
		return m, err
	}
	m.XPDExternal = xpd != 0
	return m, nil
}

// fbinToFreq converts a compact frequency-bin encoding to MHz (GLOSSARY
// "Fbin"): 2 GHz uses freq = fbin + 2300, 5 GHz uses freq = fbin*5 + 4800.
func fbinToFreq(band Band, fbin int) int {
	if band == Band2GHz || band == "B" || band == "G" {
		return fbin + 2300
	}
	return fbin*5 + 4800
}

// decodeFBIN30 and decodeFBIN33 are the two pier frequency-bin coding
// forms that differ by EEPROM minor version (§4.5 "FBIN30 vs FBIN33").
func decodeFBIN30(raw uint32) int { return int(raw & 0x3F) }
func decodeFBIN33(raw uint32) int { return int(raw & 0x7F) }

func check5211(rec *Record) error {
	length := rec.Base.LengthWords
	if length <= 0 || length > family5211MaxLenWords {
		length = family5211MaxLenWords
	}
	checkWords := clampChecksumRange(rec.Raw, 0, length, family5211MaxLenWords)
	if !VerifyChecksum(checkWords) {
		return newErr(KindIntegrity, "checksum mismatch for 5211")
	}
	return nil
}

func update5211(rec *Record, param UpdateParam, value []byte) error {
	switch param {
	case ParamMAC:
		if len(value) != 6 {
			return newErr(KindInvalidArgument, "MAC must be 6 bytes, got %d", len(value))
		}
		// Byte order inverted for the 5211 family (§6, S6): the wire
		// words store the MAC's bytes in reverse relative to the
		// common layout (see load5211's inverse assembly above).
		copy(rec.Base.MACAddress[:], value)
		rec.Raw[w5211MACWord0] = le16(value[5], value[4])
		rec.Raw[w5211MACWord1] = le16(value[3], value[2])
		rec.Raw[w5211MACWord2] = le16(value[1], value[0])
	case ParamEraseCTL:
		return newErr(KindNotSupported, "ERASE_CTL not implemented for 5211")
	default:
		return newErr(KindNotSupported, "update parameter %s not supported for 5211", param)
	}
	RecomputeChecksum(rec.Raw, w5211ChecksumWord)
	rec.Base.Checksum = rec.Raw[w5211ChecksumWord]
	return nil
}
