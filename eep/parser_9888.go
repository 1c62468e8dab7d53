package eep

import "context"

// 9888 (802.11ac): uncompressed fixed-layout image, exactly 12064 bytes
// (§6). Grounded on original_source/eep_9888.c, structurally identical to
// eep_6174.c aside from the size constant.

const size9888 = 12064

func init() {
	register(&Parser{
		Family: Family9888,
		LoadBlob: func(ctx context.Context, buf []byte) (*Record, error) {
			return loadFixedImage(ctx, Family9888, buf, size9888)
		},
		Check: func(rec *Record) error { return checkFixedImage(rec, size9888/2) },
		Update: func(rec *Record, param UpdateParam, value []byte) error {
			return updateFixedImage(rec, param, value)
		},
	})
}
