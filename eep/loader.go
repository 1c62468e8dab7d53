package eep

import "context"

// Action selects what the loader is ultimately being driven towards; only
// its effect on validation matters to the loader (§4.7 "If the requested
// action is 'raw' save, the loader skips structural validation").
type Action int

const (
	ActionNormal Action = iota
	ActionRawSave
)

// LoadResult reports which source kind actually produced the record, for
// logging/diagnostics.
type LoadResult struct {
	Record     *Record
	SourceUsed string
}

// Load implements §4.7's priority-ordered source selection: blob, then
// EEPROM, then OTP, stopping at the first success. src may implement any
// subset of BlobSource/WordSource/OTPSource; parser may leave the
// corresponding Load* nil if it doesn't support that source kind.
func Load(ctx context.Context, parser *Parser, src Source, action Action) (*LoadResult, error) {
	log := Logger(ctx)

	if blob, ok := src.(BlobSource); ok && parser.LoadBlob != nil {
		size, err := blob.BlobSize(ctx)
		if err == nil && size > 0 {
			buf := make([]byte, size)
			if n, err := blob.ReadBlob(ctx, buf); err == nil {
				rec, err := parser.LoadBlob(ctx, buf[:n])
				if err == nil {
					if action != ActionRawSave {
						if parser.Check != nil {
							if err := parser.Check(rec); err != nil {
								return nil, err
							}
						}
					}
					log.Debug("loaded via blob source", "family", parser.Family)
					return &LoadResult{Record: rec, SourceUsed: "blob"}, nil
				}
			}
		}
	}

	if word, ok := src.(WordSource); ok && src.Caps().Has(CapHW) && parser.LoadEEPROM != nil {
		rec, err := parser.LoadEEPROM(ctx, word)
		if err == nil {
			if action != ActionRawSave && parser.Check != nil {
				if err := parser.Check(rec); err != nil {
					return nil, err
				}
			}
			log.Debug("loaded via EEPROM source", "family", parser.Family)
			return &LoadResult{Record: rec, SourceUsed: "eeprom"}, nil
		}
	}

	if otp, ok := src.(OTPSource); ok && parser.LoadOTP != nil {
		rec, err := parser.LoadOTP(ctx, otp)
		if err == nil {
			if action != ActionRawSave && parser.Check != nil {
				if err := parser.Check(rec); err != nil {
					return nil, err
				}
			}
			log.Debug("loaded via OTP source", "family", parser.Family)
			return &LoadResult{Record: rec, SourceUsed: "otp"}, nil
		}
	}

	return nil, newErr(KindNotFound, "no calibration data discovered at any candidate address for %s", parser.Family)
}

// LoadAny tries every registered parser in an unspecified but stable
// order, returning the first that successfully loads from src. This backs
// plug-and-play chip autodetection (§6 "caps: ... PNP") when the caller
// doesn't already know the family from a PCI ID lookup.
func LoadAny(ctx context.Context, src Source, action Action) (*LoadResult, error) {
	for _, f := range orderedFamilies() {
		p, ok := ParserFor(f)
		if !ok {
			continue
		}
		if res, err := Load(ctx, p, src, action); err == nil {
			return res, nil
		}
	}
	return nil, newErr(KindNotFound, "no parser recognised the data on this source")
}

// orderedFamilies gives a stable, newest-first probing order so
// autodetection doesn't depend on map iteration order.
func orderedFamilies() []Family {
	return []Family{
		Family9888, Family9880, Family6174, Family9300,
		Family9287, Family9285, Family5416, Family5211,
	}
}
