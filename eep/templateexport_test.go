package eep

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestExportTemplateRunLengthEncodesNonZero(t *testing.T) {
	tmpl := Template{Name: "test", Image: []byte{0, 0, 0xAA, 0xBB, 0, 0xCC, 0, 0}}

	var buf bytes.Buffer
	require.NoError(t, ExportTemplate(&buf, tmpl))

	var doc templateExportDoc
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	require.Equal(t, "test", doc.Name)
	require.Equal(t, len(tmpl.Image), doc.Size)
	require.Equal(t, []templateRun{
		{Offset: 2, Bytes: []byte{0xAA, 0xBB}},
		{Offset: 5, Bytes: []byte{0xCC}},
	}, doc.Runs)
}

func TestExportTemplateAllZero(t *testing.T) {
	tmpl := Template{Name: "blank", Image: make([]byte, 8)}
	var buf bytes.Buffer
	require.NoError(t, ExportTemplate(&buf, tmpl))

	var doc templateExportDoc
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Empty(t, doc.Runs)
	require.Equal(t, 8, doc.Size)
}

func TestAllTemplatesAndLookup(t *testing.T) {
	all := AllTemplates()
	require.Len(t, all, 7)

	tmpl, ok := TemplateByName("H112")
	require.True(t, ok)
	require.Equal(t, 2, tmpl.ID)

	_, ok = TemplateByRef(999)
	require.False(t, ok)
}
