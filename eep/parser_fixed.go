package eep

import "context"

// Shared helper for the uncompressed fixed-layout 802.11ac families
// (9880/6174/9888, §4.5): exact-size images, base header in the same
// ar5416-derived shape (per eep_common.c), validated the same way.

func loadFixedImage(ctx context.Context, family Family, buf []byte, exactSize int) (*Record, error) {
	log := Logger(ctx)
	if len(buf) != exactSize {
		return nil, newErr(KindIntegrity, "%s image must be exactly %d bytes, got %d", family, exactSize, len(buf))
	}
	words := bytesToWordsLE(buf)

	rawMagic := words[0]
	if rawMagic != MagicLE {
		if rawMagic == MagicBE {
			for i := range words {
				words[i] = swapU16(words[i])
			}
			log.Warn("byteswapped magic detected, toggled io_swap", "family", family)
		} else {
			return nil, newErr(KindIntegrity, "bad magic %#04x for %s", rawMagic, family)
		}
	}

	rec := &Record{Family: family, Raw: words}
	fillBase5416(fam5416Variant{family: family, baseOffset: 0}, words, &rec.Base)

	length := rec.Base.LengthWords
	max := len(words)
	if length <= 0 || length > max {
		length = max
	}
	checkWords := clampChecksumRange(words, 0, length, max)
	if !VerifyChecksum(checkWords) {
		return nil, newErr(KindIntegrity, "checksum mismatch for %s", family)
	}

	rec.Modal = []ModalHeader{{Band: Band5GHz}, {Band: Band2GHz}}
	log.Debug("loaded fixed-layout record", "family", family, "length", length)
	return rec, nil
}

func checkFixedImage(rec *Record, exactWords int) error {
	length := rec.Base.LengthWords
	max := exactWords
	if length <= 0 || length > max {
		length = max
	}
	checkWords := clampChecksumRange(rec.Raw, 0, length, max)
	if !VerifyChecksum(checkWords) {
		return newErr(KindIntegrity, "checksum mismatch")
	}
	return nil
}

func updateFixedImage(rec *Record, param UpdateParam, value []byte) error {
	switch param {
	case ParamMAC:
		if len(value) != 6 {
			return newErr(KindInvalidArgument, "MAC must be 6 bytes, got %d", len(value))
		}
		copy(rec.Base.MACAddress[:], value)
		rec.Raw[w5416MACWord0] = le16(value[0], value[1])
		rec.Raw[w5416MACWord1] = le16(value[2], value[3])
		rec.Raw[w5416MACWord2] = le16(value[4], value[5])
	default:
		return newErr(KindNotSupported, "update parameter %s not supported on an uncompressed-only format", param)
	}
	RecomputeChecksum(rec.Raw, w5416Checksum)
	rec.Base.Checksum = rec.Raw[w5416Checksum]
	return nil
}
