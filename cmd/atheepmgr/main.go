// Command atheepmgr loads an Atheros/Qualcomm Atheros calibration image
// (from a raw dump, or from a connected NIC when one of the hardware
// connector back-ends is wired up) and renders its decoded fields.
//
// This is a thin CLI wrapper: it owns flag parsing and the top-level
// action dispatch, nothing more. Connector construction (PCI BAR mmap,
// udev PNP lookup, GPIO write-protect) lives in the connector package and
// is an external collaborator to the core eep package, per the decode
// engine's own scope.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	"github.com/atheepmgr/atheepmgr/eep"
)

func main() {
	var (
		family   = flag.StringP("family", "f", "", "chip family (5211,5416,9285,9287,9300,9880,6174,9888); empty autodetects")
		rawSave  = flag.BoolP("raw", "r", false, "skip structural validation, load and render best-effort")
		sections = flag.StringArrayP("section", "s", nil, "sections to render (INIT,BASE,MODAL,POWER); default all")
		verbose  = flag.CountP("verbose", "v", "increase log verbosity")
	)
	flag.Parse()

	logger := eep.NewLogger(os.Stderr)
	switch {
	case *verbose >= 2:
		logger.SetLevel(log.DebugLevel)
	case *verbose == 1:
		logger.SetLevel(log.InfoLevel)
	default:
		logger.SetLevel(log.WarnLevel)
	}
	ctx := eep.WithLogger(context.Background(), logger)

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: atheepmgr [flags] <dump-file>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(ctx, flag.Arg(0), *family, *rawSave, *sections); err != nil {
		logger.Error("atheepmgr failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path, family string, rawSave bool, sectionNames []string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	src := eep.NewByteBuffer(buf)

	action := eep.ActionNormal
	if rawSave {
		action = eep.ActionRawSave
	}

	var result *eep.LoadResult
	if family != "" {
		parser, ok := eep.ParserFor(eep.Family(family))
		if !ok {
			return fmt.Errorf("unknown family %q (supported: %v)", family, eep.SupportedFamilies())
		}
		result, err = eep.Load(ctx, parser, src, action)
	} else {
		result, err = eep.LoadAny(ctx, src, action)
	}
	if err != nil {
		return fmt.Errorf("loading calibration data: %w", err)
	}

	sections := make([]eep.Section, 0, len(sectionNames))
	for _, s := range sectionNames {
		sections = append(sections, eep.Section(s))
	}
	return eep.Render(os.Stdout, result.Record, sections...)
}
