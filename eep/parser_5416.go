package eep

import (
	"context"
)

// The 5416/9285/9287 family (§4.5 "5416/9285/9287 family") shares one
// fixed-layout C-image, differing only in base word offset and a handful
// of capability bits. Grounded on original_source/eep_5416.c
// (ar5416_eep_init / ar5416_eeprom / ar5416_base_eep_hdr) and
// eep_9287.c/eep_9285.c, which reuse the same base header and differ in
// modal-header size and the open/closed-loop power-control bit.

const (
	base5416WordOffset = 0x0040 // 5416/9285
	base9287WordOffset = 0x0080 // 9287

	family5416MaxWords = 2048 // AR5416-era EEPROM size cap
)

// fam5416WordLayout gives the word offsets (relative to the family's base
// offset) of the base-header fields shared by 5416/9285/9287, following
// ar5416_base_eep_hdr's field order in eep_5416.c.
const (
	w5416Magic       = 0 // AR5416_EEPROM_MAGIC at word 0 of the init block
	w5416Version     = 1 // maj<<12 | min, per eep_5416_get_ver/get_rev
	w5416Length      = 2
	w5416Checksum    = 3
	w5416RegDmn0     = 4
	w5416RegDmn1     = 5
	w5416MACWord0    = 6 // 3 words of MAC, matching macAddr[6] packed LE
	w5416MACWord1    = 7
	w5416MACWord2    = 8
	w5416ChainMasks  = 9  // txChainMask<<8 | rxChainMask
	w5416OpEepMisc   = 10 // eepMisc<<8 | opCapFlags
	w5416DeviceCap   = 11 // deviceType in the low byte; the high byte is not decoded
	w5416PowerOffset = 12 // signed dBm power table offset
	w5416CustomStart = 13 // 10 words = 20 octets of customer data
	w5416CustomWords = 10
	w5416BaseWords   = w5416CustomStart + w5416CustomWords
)

const openLoopBit = 0x01 // device-cap bit selecting open-loop tx power control (9287+)

// The per-band calibration block shared by 5416/9285/9287/9300 (§4.5):
// one ar9285_modal_eep_hdr-shaped region per band, applied symmetrically to
// both the 5 GHz and 2 GHz positions since the single-chain 9285 struct is
// the only complete layout kept in original_source (eep_5416.h itself
// wasn't), so the true multi-chain 5416/9287 layout is approximated rather
// than reproduced byte-for-byte (see DESIGN.md).
const (
	modalBlockWords = 162 // 324 bytes, grounded on eep_9285.h's ar9285_eeprom tail
	modalBlockBytes = modalBlockWords * 2

	mOffAntCtrlChain  = 0  // uint32
	mOffSwitchSettle  = 9  // byte offset within the block
	mOffTxRxAtten     = 10
	mOffRxTxMargin    = 11
	mOffNoiseFloor    = 19
	mOffXpdGain       = 20
	mOffXpd           = 21
	mOffIQCalI        = 22
	mOffIQCalQ        = 23
	mOffXpaBiasLvl    = 27
	mOffTxFrameToXpaOn = 17
	mOffTxEndToXpaOff  = 15

	mOffSpurChans  = 48
	numSpurChans   = 5
	spurChanStride = 4
	noSpurSentinel = 0x3FFF

	mOffCalFreqPier = 68
	numCalPiers     = 3
	mOffCalPierData = 71
	numPDGainsBlock = 2
	numPDIcepts     = 5
	pierDataStride  = numPDGainsBlock * numPDIcepts * 2 // 20 bytes

	mOffTargetCck    = 131
	mOffTarget2G     = 146
	mOffTargetHT20   = 161
	mOffTargetHT40   = 188
	numTargetEntries = 3
	legStride        = 5 // 1 bChannel + 4 rates
	htStride         = 9 // 1 bChannel + 8 rates
	numRatesLeg      = 4
	numRatesHT       = 8

	mOffCtlIndex  = 215
	numCTLEntries = 12
	mOffCtlData   = 227
	numCTLEdges   = 4

	// ctlIndexOff (215) is odd, so it falls mid-word: the boundary word's
	// low byte is the last byte of calTargetPower2GHT40 and must survive
	// an erase (§6 "for 5416 the index spans a half-word boundary and the
	// first/last bytes of the affected words must be preserved").
	ctlBoundaryWord    = mOffCtlIndex / 2 // word 107, low byte preserved
	ctlFirstWholeWord  = ctlBoundaryWord + 1
)

// decodeBand5416Style decodes one band's modal header, calibration piers,
// and target-power tables from the block starting at blockWordBase
// (relative to the words slice), following ar9285_modal_eep_hdr /
// ar9285_cal_data_per_freq / ar5416_cal_target_power_leg/ht field order.
func decodeBand5416Style(words []uint16, blockWordBase int, band Band) (ModalHeader, []Pier, []TargetPowerTable, []CTLDescriptor) {
	abs := blockWordBase * 2
	is2G := band == Band2GHz

	m := ModalHeader{
		Band:             band,
		AntCtrlChain:     []uint32{wordU32At(words, abs+mOffAntCtrlChain)},
		SwitchSettle:     wordByte(words, abs+mOffSwitchSettle),
		TxAttenChain:     []uint8{wordByte(words, abs+mOffTxRxAtten)},
		RxAttenChain:     []uint8{wordByte(words, abs+mOffTxRxAtten)}, // no distinct Rx field in ar9285_modal_eep_hdr
		TxMarginChain:    []uint8{wordByte(words, abs+mOffRxTxMargin)},
		NoiseFloorThresh: []int8{int8(wordByte(words, abs+mOffNoiseFloor))},
		PDGainMask:       PDGain(wordByte(words, abs+mOffXpdGain) & 0x0F),
		XPDExternal:      wordByte(words, abs+mOffXpd)&0x01 != 0,
		IQCalIChain:      []int8{int8(wordByte(words, abs+mOffIQCalI))},
		IQCalQChain:      []int8{int8(wordByte(words, abs+mOffIQCalQ))},
		PABiasChain:      []uint8{wordByte(words, abs+mOffXpaBiasLvl)},
		XPAOnTime:        wordByte(words, abs+mOffTxFrameToXpaOn),
		XPAOffTime:       wordByte(words, abs+mOffTxEndToXpaOff),
	}

	for i := 0; i < numSpurChans; i++ {
		sc := wordU16At(words, abs+mOffSpurChans+i*spurChanStride)
		if sc == 0 || sc == noSpurSentinel {
			break
		}
		m.SpurChans = append(m.SpurChans, int16(sc))
	}

	var piers []Pier
	for i := 0; i < numCalPiers; i++ {
		fbin := wordByte(words, abs+mOffCalFreqPier+i)
		if fbin == 0 {
			break
		}
		p := Pier{FreqMHz: fbinToFreqCommon(is2G, fbin)}
		pdBase := abs + mOffCalPierData + i*pierDataStride
		for g := 0; g < numPDGainsBlock; g++ {
			samples := make([]PDPoint, numPDIcepts)
			for k := 0; k < numPDIcepts; k++ {
				pw := wordByte(words, pdBase+g*numPDIcepts+k)
				vpd := wordByte(words, pdBase+numPDGainsBlock*numPDIcepts+g*numPDIcepts+k)
				samples[k] = PDPoint{Power025dB: int(pw), VPD: int(vpd)}
			}
			p.Gains = append(p.Gains, PDGainSeries{Gain: pdGainForIndex(g), Samples: samples})
		}
		piers = append(piers, p)
	}

	type targetSpec struct {
		group    RateGroup
		off      int
		stride   int
		numRates int
	}
	specs := []targetSpec{
		{RateCCK, mOffTargetCck, legStride, numRatesLeg},
		{RateOFDM, mOffTarget2G, legStride, numRatesLeg},
		{RateHT20, mOffTargetHT20, htStride, numRatesHT},
		{RateHT40, mOffTargetHT40, htStride, numRatesHT},
	}
	var targets []TargetPowerTable
	for _, sp := range specs {
		tbl := TargetPowerTable{Group: sp.group}
		for i := 0; i < numTargetEntries; i++ {
			entryOff := abs + sp.off + i*sp.stride
			bChan := wordByte(words, entryOff)
			if bChan == 0 {
				break
			}
			rates := make([]int, sp.numRates)
			for r := 0; r < sp.numRates; r++ {
				rates[r] = int(wordByte(words, entryOff+1+r))
			}
			tbl.Entries = append(tbl.Entries, TargetPowerEntry{FreqMHz: fbinToFreqCommon(is2G, bChan), PowerHalfdB: rates})
		}
		targets = append(targets, tbl)
	}

	ctl := decodeCTLIndexed(words, abs+mOffCtlIndex, numCTLEntries, abs+mOffCtlData, numCTLEdges)

	return m, piers, targets, ctl
}

// eraseCTLBlock zeroes one band's ctlIndex/ctlData/padding region in place,
// preserving the low byte of the boundary word (§6 half-word-boundary
// note above).
func eraseCTLBlock(words []uint16, blockWordBase int) {
	boundary := blockWordBase + ctlBoundaryWord
	if boundary >= 0 && boundary < len(words) {
		lo, _ := splitLE16(words[boundary])
		words[boundary] = le16(lo, 0)
	}
	for i := blockWordBase + ctlFirstWholeWord; i < blockWordBase+modalBlockWords && i < len(words); i++ {
		words[i] = 0
	}
}

// fam5416Variant distinguishes the three families sharing this layout.
type fam5416Variant struct {
	family     Family
	baseOffset int
}

var (
	variant5416 = fam5416Variant{family: Family5416, baseOffset: base5416WordOffset}
	variant9285 = fam5416Variant{family: Family9285, baseOffset: base5416WordOffset}
	variant9287 = fam5416Variant{family: Family9287, baseOffset: base9287WordOffset}
)

func init() {
	for _, v := range []fam5416Variant{variant5416, variant9285, variant9287} {
		v := v
		register(&Parser{
			Family: v.family,
			LoadBlob: func(ctx context.Context, buf []byte) (*Record, error) {
				words := bytesToWordsLE(buf)
				return load5416(ctx, v, words, false)
			},
			LoadEEPROM: func(ctx context.Context, src WordSource) (*Record, error) {
				words, err := readAllWords(ctx, src, v.baseOffset+family5416MaxWords)
				if err != nil {
					return nil, err
				}
				return load5416(ctx, v, words, true)
			},
			Check: func(rec *Record) error { return check5416(v, rec) },
			Update: func(rec *Record, param UpdateParam, value []byte) error {
				return update5416(v, rec, param, value)
			},
		})
	}
}

// readAllWords sequentially reads n words starting at offset 0, used by
// families that load their entire addressable range into memory before
// parsing fields (matching eep_5416_load_eeprom's "read to the
// intermediate buffer" loop).
func readAllWords(ctx context.Context, src WordSource, n int) ([]uint16, error) {
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		w, err := src.ReadWord(ctx, uint32(i))
		if err != nil {
			return nil, wrapErr(KindIOError, err, "reading word %#x", i)
		}
		out[i] = w
	}
	return out, nil
}

func bytesToWordsLE(buf []byte) []uint16 {
	words := make([]uint16, len(buf)/2)
	for i := range words {
		words[i] = le16(buf[2*i], buf[2*i+1])
	}
	return words
}

func load5416(ctx context.Context, v fam5416Variant, words []uint16, fromHW bool) (*Record, error) {
	log := Logger(ctx)
	base := v.baseOffset

	if base+w5416BaseWords > len(words) {
		return nil, newErr(KindIntegrity, "buffer too short for %s base header", v.family)
	}

	rawMagic := words[base+w5416Magic]
	swap := false
	if fromHW {
		opRaw, _ := splitLE16(words[base+w5416OpEepMisc])
		_, miscRaw := splitLE16(words[base+w5416OpEepMisc])
		buildWord := uint32(words[base+w5416DeviceCap])<<16 | uint32(words[base+w5416PowerOffset])
		det := DetectEndianness(rawMagic, opRaw, miscRaw, buildWord)
		swap = det.SwapRequired
		log.Debug("endianness detection", "family", v.family, "swap", swap, "reason", det.Reason)
		if swap {
			for i := base; i < base+w5416BaseWords && i < len(words); i++ {
				words[i] = swapU16(words[i])
			}
			rawMagic = words[base+w5416Magic]
		}
	}

	if rawMagic != MagicLE {
		return nil, newErr(KindIntegrity, "bad magic %#04x for %s (want %#04x)", rawMagic, v.family, MagicLE)
	}

	rec := &Record{Family: v.family, Raw: words}
	fillBase5416(v, words, &rec.Base)

	length := rec.Base.LengthWords
	if length <= 0 || length > family5416MaxWords {
		length = family5416MaxWords
	}
	checkWords := clampChecksumRange(words, base, length, family5416MaxWords)
	if !VerifyChecksum(checkWords) {
		return nil, newErr(KindIntegrity, "checksum mismatch for %s", v.family)
	}

	var piers []Pier
	for i, b := range []Band{Band5GHz, Band2GHz} {
		blockBase := base + w5416BaseWords + i*modalBlockWords
		m, bandPiers, bandTargets, bandCTL := decodeBand5416Style(words, blockBase, b)
		rec.Modal = append(rec.Modal, m)
		piers = append(piers, bandPiers...)
		rec.Target = append(rec.Target, bandTargets...)
		rec.CTL = append(rec.CTL, bandCTL...)
	}
	rec.Piers = []ChainPiers{{Chain: 0, Piers: piers}}

	log.Debug("loaded record", "family", v.family, "version", rec.Base.Version, "length", rec.Base.LengthWords)
	return rec, nil
}

func fillBase5416(v fam5416Variant, words []uint16, b *BaseHeader) {
	base := v.baseOffset
	ver := words[base+w5416Version]
	b.Version = Version{Major: int(ver>>12) & 0xF, Minor: int(ver) & 0xFFF}
	b.LengthWords = int(words[base+w5416Length])
	b.Checksum = words[base+w5416Checksum]
	b.RegDomain = RegDomainPair{words[base+w5416RegDmn0], words[base+w5416RegDmn1]}

	m0lo, m0hi := splitLE16(words[base+w5416MACWord0])
	m1lo, m1hi := splitLE16(words[base+w5416MACWord1])
	m2lo, m2hi := splitLE16(words[base+w5416MACWord2])
	b.MACAddress = [6]byte{m0lo, m0hi, m1lo, m1hi, m2lo, m2hi}

	b.RxChainMask, b.TxChainMask = splitLE16(words[base+w5416ChainMasks])
	opFlags, eepMisc := splitLE16(words[base+w5416OpEepMisc])
	b.BigEndian = eepMisc&eepMiscBigEndianBit != 0
	b.OpCaps = opCapsFromFlags(opFlags)

	devCapLo, devCapHi := splitLE16(words[base+w5416DeviceCap])
	b.DeviceType = devCapLo
	_ = devCapHi

	b.PowerTableOffset = int(int16(words[base+w5416PowerOffset]))

	for i := 0; i < w5416CustomWords; i++ {
		lo, hi := splitLE16(words[base+w5416CustomStart+i])
		b.CustomerData[2*i] = lo
		b.CustomerData[2*i+1] = hi
	}
}

func opCapsFromFlags(flags byte) OpCaps {
	return OpCaps{
		Allow5GHz:  flags&0x01 != 0,
		Allow2GHz:  flags&0x02 != 0,
		AllowHT20:  flags&0x04 != 0,
		AllowHT40:  flags&0x08 != 0,
		AllowVHT20: flags&0x10 != 0,
		AllowVHT40: flags&0x20 != 0,
		AllowVHT80: flags&0x40 != 0,
	}
}

func check5416(v fam5416Variant, rec *Record) error {
	if rec.Family != v.family {
		return newErr(KindInvalidArgument, "record family %s does not match parser %s", rec.Family, v.family)
	}
	base := v.baseOffset
	length := rec.Base.LengthWords
	if length <= 0 || length > family5416MaxWords {
		length = family5416MaxWords
	}
	checkWords := clampChecksumRange(rec.Raw, base, length, family5416MaxWords)
	if !VerifyChecksum(checkWords) {
		return newErr(KindIntegrity, "checksum mismatch for %s", v.family)
	}
	return nil
}

func update5416(v fam5416Variant, rec *Record, param UpdateParam, value []byte) error {
	base := v.baseOffset
	switch param {
	case ParamMAC:
		if len(value) != 6 {
			return newErr(KindInvalidArgument, "MAC must be 6 bytes, got %d", len(value))
		}
		copy(rec.Base.MACAddress[:], value)
		rec.Raw[base+w5416MACWord0] = le16(value[0], value[1])
		rec.Raw[base+w5416MACWord1] = le16(value[2], value[3])
		rec.Raw[base+w5416MACWord2] = le16(value[4], value[5])
	case ParamEraseCTL:
		for i := 0; i < 2; i++ {
			eraseCTLBlock(rec.Raw, base+w5416BaseWords+i*modalBlockWords)
		}
		rec.CTL = nil
	default:
		return newErr(KindNotSupported, "update parameter %s not supported for %s", param, v.family)
	}
	RecomputeChecksum(rec.Raw[base:], w5416Checksum)
	rec.Base.Checksum = rec.Raw[base+w5416Checksum]
	return nil
}
