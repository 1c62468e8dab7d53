package eep

import "context"

// 6174 (802.11ac): uncompressed fixed-layout image, exactly 8124 bytes
// (§6 "Structure sizes enforced for uncompressed images"). Grounded on
// original_source/eep_6174.c, which is the thinnest of the ac-era parsers
// (no OTP or compression support).

const size6174 = 8124

func init() {
	register(&Parser{
		Family: Family6174,
		LoadBlob: func(ctx context.Context, buf []byte) (*Record, error) {
			return loadFixedImage(ctx, Family6174, buf, size6174)
		},
		Check: func(rec *Record) error { return checkFixedImage(rec, size6174/2) },
		Update: func(rec *Record, param UpdateParam, value []byte) error {
			return updateFixedImage(rec, param, value)
		},
	})
}
