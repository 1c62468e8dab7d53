package eep

// Shared byte-level accessors and CTL/frequency-bin decode helpers used by
// the 5416/9300/9880 parsers. Grounded on original_source/eep_common.h
// (FREQ2FBIN/FBIN2FREQ, CTL_EDGE_POWER/CTL_EDGE_FLAGS) and eep_common.c
// (eep_ctldomains/eep_ctlmodes string tables, ar5416_dump_ctl's "ctl>>4 is
// the domain index, ctl&0xF is the mode index, mode[0]=='2' selects the
// 2GHz FBIN2FREQ form" decode).

// ctlModeNames mirrors eep_common.c's eep_ctlmodes table; index is the low
// nibble of a CTL index byte.
var ctlModeNames = [16]string{
	"5GHz OFDM", "2GHz CCK", "2GHz OFDM", "5GHz Turbo",
	"2GHz Turbo", "2GHz HT20", "5GHz HT20", "2GHz HT40",
	"5GHz HT40", "5GHz VHT20", "2GHz VHT20", "5GHz VHT40",
	"2GHz VHT40", "5GHz VHT80", "Unknown (14)", "Unknown (15)",
}

// wordByte reads the byte at absolute byte offset off from a little-endian
// word buffer, returning 0 for any offset beyond the buffer rather than
// panicking: short/synthetic images (all-zero beyond a base header) must
// decode to empty calibration content, not a crash.
func wordByte(words []uint16, off int) byte {
	wi := off / 2
	if wi < 0 || wi >= len(words) {
		return 0
	}
	lo, hi := splitLE16(words[wi])
	if off%2 == 0 {
		return lo
	}
	return hi
}

func wordU16At(words []uint16, off int) uint16 {
	return le16(wordByte(words, off), wordByte(words, off+1))
}

func wordU32At(words []uint16, off int) uint32 {
	lo := wordU16At(words, off)
	hi := wordU16At(words, off+2)
	return uint32(lo) | uint32(hi)<<16
}

func setWordByte(words []uint16, off int, v byte) {
	wi := off / 2
	if wi < 0 || wi >= len(words) {
		return
	}
	lo, hi := splitLE16(words[wi])
	if off%2 == 0 {
		lo = v
	} else {
		hi = v
	}
	words[wi] = le16(lo, hi)
}

// fbinToFreqCommon implements eep_common.h's FBIN2FREQ macro: 2 GHz bins
// are offset directly, 5 GHz bins are scaled by 5 MHz steps from 4800.
func fbinToFreqCommon(is2G bool, fbin byte) int {
	if is2G {
		return int(fbin) + 2300
	}
	return int(fbin)*5 + 4800
}

// pdGainForIndex maps a 2-entry PD-gain array index onto the PDGain bitmask
// (§3 GLOSSARY "PD gain"); only two of the four defined gains are present
// in the 9285-derived and 9880 per-chain cal structures, so the mapping is
// a documented best effort rather than a literal field (see DESIGN.md).
func pdGainForIndex(i int) PDGain {
	if i == 0 {
		return PDGain2x
	}
	return PDGain1x
}

// decodeCTLIndexed decodes a CTL table whose index bytes and edge data share
// one interleaved (bChannel,ctl) pair array per entry, as in
// eep_9285.h's ctlIndex/ctlData (ar5416_cal_ctl_edges pairs). idxBase is the
// byte offset of the index array, dataBase the byte offset of the first
// edge-pair array, stride the byte size of one entry's edge array.
func decodeCTLIndexed(words []uint16, idxBase int, numCTL int, dataBase, numEdges int) []CTLDescriptor {
	var out []CTLDescriptor
	for i := 0; i < numCTL; i++ {
		idx := wordByte(words, idxBase+i)
		if idx == 0 {
			break
		}
		mode := ctlModeNames[idx&0x0F]
		desc := CTLDescriptor{RegDomain: uint16(idx >> 4), Mode: mode}
		is2G := len(mode) > 0 && mode[0] == '2'
		entryBase := dataBase + i*numEdges*2
		for e := 0; e < numEdges; e++ {
			bChan := wordByte(words, entryBase+e*2)
			if bChan == 0 {
				break
			}
			ctl := wordByte(words, entryBase+e*2+1)
			desc.Edges = append(desc.Edges, CTLEdge{FreqMHz: fbinToFreqCommon(is2G, bChan), MaxPowerFlag: ctl})
		}
		out = append(out, desc)
	}
	return out
}

// decodeCTLSplit decodes a CTL table whose frequency bins and data bytes
// live in two separate parallel arrays (as in eep_9880.h's
// ctlFreqBin*/ctlData*), rather than interleaved pairs.
func decodeCTLSplit(words []uint16, idxBase int, numCTL int, freqBase, dataBase, numEdges int) []CTLDescriptor {
	var out []CTLDescriptor
	for i := 0; i < numCTL; i++ {
		idx := wordByte(words, idxBase+i)
		if idx == 0 {
			break
		}
		mode := ctlModeNames[idx&0x0F]
		desc := CTLDescriptor{RegDomain: uint16(idx >> 4), Mode: mode}
		is2G := len(mode) > 0 && mode[0] == '2'
		for e := 0; e < numEdges; e++ {
			freq := wordByte(words, freqBase+i*numEdges+e)
			if freq == 0 {
				break
			}
			data := wordByte(words, dataBase+i*numEdges+e)
			desc.Edges = append(desc.Edges, CTLEdge{FreqMHz: fbinToFreqCommon(is2G, freq), MaxPowerFlag: data})
		}
		out = append(out, desc)
	}
	return out
}
