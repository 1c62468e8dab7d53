package eep

import (
	"fmt"
	"io"
	"sort"
)

// Section names a rendering group (§4.6).
type Section string

const (
	SectionInit  Section = "INIT"
	SectionBase  Section = "BASE"
	SectionModal Section = "MODAL"
	SectionPower Section = "POWER"
)

// Render walks rec and writes every field exactly once, grouped by
// section, to w (§4.6). Which sections to emit is controlled by want; an
// empty want renders all four.
func Render(w io.Writer, rec *Record, want ...Section) error {
	sections := map[Section]bool{}
	if len(want) == 0 {
		sections[SectionInit] = true
		sections[SectionBase] = true
		sections[SectionModal] = true
		sections[SectionPower] = true
	} else {
		for _, s := range want {
			sections[s] = true
		}
	}

	if sections[SectionInit] {
		if _, err := fmt.Fprintf(w, "[INIT] family=%s\n", rec.Family); err != nil {
			return err
		}
	}
	if sections[SectionBase] {
		if err := renderBase(w, &rec.Base); err != nil {
			return err
		}
	}
	if sections[SectionModal] {
		for i := range rec.Modal {
			if err := renderModal(w, &rec.Modal[i]); err != nil {
				return err
			}
		}
	}
	if sections[SectionPower] {
		if err := renderPower(w, rec); err != nil {
			return err
		}
	}
	return nil
}

func renderBase(w io.Writer, b *BaseHeader) error {
	_, err := fmt.Fprintf(w, "[BASE] version=%d.%d length=%d checksum=%#04x regDmn=[%#04x,%#04x] mac=%02X:%02X:%02X:%02X:%02X:%02X txchainmask=%#x rxchainmask=%#x bigEndian=%v devType=%d powerTableOffset=%ddBm\n",
		b.Version.Major, b.Version.Minor, b.LengthWords, b.Checksum,
		b.RegDomain[0], b.RegDomain[1],
		b.MACAddress[0], b.MACAddress[1], b.MACAddress[2], b.MACAddress[3], b.MACAddress[4], b.MACAddress[5],
		b.TxChainMask, b.RxChainMask, b.BigEndian, b.DeviceType, b.PowerTableOffset)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "[BASE] opCaps: 5GHz=%v 2GHz=%v HT20=%v HT40=%v VHT20=%v VHT40=%v VHT80=%v\n",
		b.OpCaps.Allow5GHz, b.OpCaps.Allow2GHz, b.OpCaps.AllowHT20, b.OpCaps.AllowHT40,
		b.OpCaps.AllowVHT20, b.OpCaps.AllowVHT40, b.OpCaps.AllowVHT80)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "[BASE] customerData=% x\n", b.CustomerData[:])
	return err
}

func renderModal(w io.Writer, m *ModalHeader) error {
	label := string(m.Band)
	if label == "" {
		label = "shared"
	}
	if _, err := fmt.Fprintf(w, "[MODAL:%s] switchSettle=%d pdGainMask=%#x xpdExternal=%v xpaOn=%d xpaOff=%d\n",
		label, m.SwitchSettle, m.PDGainMask, m.XPDExternal, m.XPAOnTime, m.XPAOffTime); err != nil {
		return err
	}
	for i := range m.AntCtrlChain {
		if _, err := fmt.Fprintf(w, "[MODAL:%s] chain %d: antCtrl=%#x txAtten=%d rxAtten=%d txMargin=%d iqCalI=%d iqCalQ=%d paBias=%d\n",
			label, i, m.AntCtrlChain[i], at(m.TxAttenChain, i), at(m.RxAttenChain, i), at(m.TxMarginChain, i),
			at(m.IQCalIChain, i), at(m.IQCalQChain, i), at(m.PABiasChain, i)); err != nil {
			return err
		}
	}
	for i, nf := range m.NoiseFloorThresh {
		if _, err := fmt.Fprintf(w, "[MODAL:%s] chain %d: noiseFloorThresh=%d\n", label, i, nf); err != nil {
			return err
		}
	}
	if len(m.SpurChans) > 0 {
		if _, err := fmt.Fprintf(w, "[MODAL:%s] spurChans=%v\n", label, m.SpurChans); err != nil {
			return err
		}
	}
	return nil
}

func at[T any](s []T, i int) T {
	var zero T
	if i < 0 || i >= len(s) {
		return zero
	}
	return s[i]
}

// renderPower renders per-chain PD-gain pier tables (merged onto a shared
// monotone power axis, §4.6) and CTL tables (bracket notation, §4.6).
func renderPower(w io.Writer, rec *Record) error {
	for _, cp := range rec.Piers {
		for _, p := range cp.Piers {
			merged := MergePierGains(p)
			if _, err := fmt.Fprintf(w, "[POWER] chain %d pier %dMHz:\n", cp.Chain, p.FreqMHz); err != nil {
				return err
			}
			if err := renderMergedPier(w, merged); err != nil {
				return err
			}
		}
	}
	for _, t := range rec.Target {
		for _, e := range t.Entries {
			if _, err := fmt.Fprintf(w, "[POWER] target %s pier %dMHz: %v (0.5dB units)\n", t.Group, e.FreqMHz, e.PowerHalfdB); err != nil {
				return err
			}
		}
	}
	for _, ctl := range rec.CTL {
		line := RenderCTL(ctl)
		if _, err := fmt.Fprintf(w, "[POWER] CTL regDmn=%#04x mode=%s: %s\n", ctl.RegDomain, ctl.Mode, line); err != nil {
			return err
		}
	}
	return nil
}

// MergedPier is the merged-onto-a-shared-power-axis view of one pier's PD
// gain series (§4.6 "per-gain VPD columns are merged onto a shared
// monotone power axis; missing (gain,power) cells render blank").
type MergedPier struct {
	Powers []int            // strictly increasing power axis, 0.25dB units
	VPD    map[PDGain][]int // per gain, VPD per power index; -1 marks "blank"
	Gains  []PDGain
}

// MergePierGains merges p's per-gain series onto one monotone power axis,
// duplicate rows (same power seen more than once within a gain) merged by
// keeping the first sample seen (§3 invariant: "duplicate rows are
// permitted and are merged on render").
func MergePierGains(p Pier) MergedPier {
	powerSet := map[int]bool{}
	for _, g := range p.Gains {
		for _, s := range g.Samples {
			powerSet[s.Power025dB] = true
		}
	}
	powers := make([]int, 0, len(powerSet))
	for pw := range powerSet {
		powers = append(powers, pw)
	}
	sort.Ints(powers)

	idx := map[int]int{}
	for i, pw := range powers {
		idx[pw] = i
	}

	out := MergedPier{Powers: powers, VPD: map[PDGain][]int{}}
	for _, g := range p.Gains {
		out.Gains = append(out.Gains, g.Gain)
		col := make([]int, len(powers))
		for i := range col {
			col[i] = -1
		}
		for _, s := range g.Samples {
			i := idx[s.Power025dB]
			if col[i] == -1 {
				col[i] = s.VPD
			}
		}
		out.VPD[g.Gain] = col
	}
	return out
}

func renderMergedPier(w io.Writer, m MergedPier) error {
	for _, g := range m.Gains {
		col := m.VPD[g]
		if _, err := fmt.Fprintf(w, "[POWER]   gain=%#x:", g); err != nil {
			return err
		}
		for i, pw := range m.Powers {
			v := col[i]
			if v == -1 {
				if _, err := fmt.Fprintf(w, " %ddB25=_", pw); err != nil {
					return err
				}
			} else {
				if _, err := fmt.Fprintf(w, " %ddB25=%d", pw, v); err != nil {
					return err
				}
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// RenderCTL renders a CTL descriptor's edges using the bracketing
// convention of §4.6: an edge whose flag bits are zero toggles the
// open/closed state; an "open" edge is prefixed with "[", the next
// zero-flag edge is suffixed with "]" (§8 scenario S5).
func RenderCTL(ctl CTLDescriptor) string {
	out := ""
	open := false
	for i, e := range ctl.Edges {
		if e.FreqMHz == CTLFreqTerminator {
			break
		}
		tok := fmt.Sprintf("%d", e.FreqMHz)
		if e.FlagsZero() {
			if !open {
				tok = "[" + tok
				open = true
			} else {
				tok = tok + "]"
				open = false
			}
		}
		if i > 0 {
			out += " "
		}
		out += tok
	}
	return out
}
