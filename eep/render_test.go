package eep

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRenderCTLBracketing reproduces §8 scenario S5: a CTL edge sequence
// whose zero-flag edges toggle an open/closed bracket, terminated by the
// frequency sentinel.
func TestRenderCTLBracketing(t *testing.T) {
	ctl := CTLDescriptor{
		RegDomain: 0x0010,
		Mode:      "11A",
		Edges: []CTLEdge{
			{FreqMHz: 2412, MaxPowerFlag: 0},
			{FreqMHz: 2417, MaxPowerFlag: 0},
			{FreqMHz: 2457, MaxPowerFlag: 0},
			{FreqMHz: 2462, MaxPowerFlag: 0},
			{FreqMHz: CTLFreqTerminator, MaxPowerFlag: 0},
		},
	}
	require.Equal(t, "[2412 2417] [2457 2462]", RenderCTL(ctl))
}

func TestRenderCTLStopsAtTerminator(t *testing.T) {
	ctl := CTLDescriptor{
		Edges: []CTLEdge{
			{FreqMHz: 5180, MaxPowerFlag: 0},
			{FreqMHz: CTLFreqTerminator},
			{FreqMHz: 5200, MaxPowerFlag: 0}, // must never appear in output
		},
	}
	require.Equal(t, "[5180", RenderCTL(ctl))
}

func TestRenderCTLNonZeroFlagsDontToggle(t *testing.T) {
	ctl := CTLDescriptor{
		Edges: []CTLEdge{
			{FreqMHz: 5180, MaxPowerFlag: 0x40},
			{FreqMHz: 5200, MaxPowerFlag: 0x40},
		},
	}
	require.Equal(t, "5180 5200", RenderCTL(ctl))
}

func TestMergePierGainsMonotoneAxisAndBlanks(t *testing.T) {
	p := Pier{
		FreqMHz: 2412,
		Gains: []PDGainSeries{
			{Gain: PDGain4x, Samples: []PDPoint{{Power025dB: 20, VPD: 5}, {Power025dB: 10, VPD: 1}}},
			{Gain: PDGain2x, Samples: []PDPoint{{Power025dB: 10, VPD: 2}}},
		},
	}
	merged := MergePierGains(p)
	require.Equal(t, []int{10, 20}, merged.Powers)

	require.Equal(t, []int{1, 5}, merged.VPD[PDGain4x])
	require.Equal(t, []int{2, -1}, merged.VPD[PDGain2x])
}

func TestMergePierGainsDuplicateRowKeepsFirst(t *testing.T) {
	p := Pier{
		Gains: []PDGainSeries{
			{Gain: PDGain1x, Samples: []PDPoint{{Power025dB: 4, VPD: 9}, {Power025dB: 4, VPD: 99}}},
		},
	}
	merged := MergePierGains(p)
	require.Equal(t, []int{4}, merged.Powers)
	require.Equal(t, []int{9}, merged.VPD[PDGain1x])
}

func TestRenderDoesNotPanicOnEmptyRecord(t *testing.T) {
	rec := &Record{Family: Family5416}
	var sb []byte
	buf := &sliceWriter{buf: &sb}
	require.NoError(t, Render(buf, rec))
}

type sliceWriter struct{ buf *[]byte }

func (w *sliceWriter) Write(p []byte) (int, error) {
	*w.buf = append(*w.buf, p...)
	return len(p), nil
}
