package eep

// Template is a full factory-default calibration image keyed by a small
// integer ID (GLOSSARY "Template", spec.md §4.4/§9 "Template store").
type Template struct {
	ID    int
	Name  string
	Image []byte
}

// templateStore is the built-in set of factory templates. Populated from
// templatedata.go (embedded immutable data). The lookup is a linear scan
// per §9's guidance ("the lookup is a linear scan" — these stores hold a
// handful of entries, a map would be premature).
var templateStore = []Template{
	{ID: 1, Name: "default", Image: templateDefault},
	{ID: 2, Name: "H112", Image: templateH112},
	{ID: 3, Name: "H116", Image: templateH116},
	{ID: 4, Name: "X112", Image: templateX112},
	{ID: 5, Name: "X113", Image: templateX113},
	{ID: 6, Name: "CUS223", Image: templateCUS223},
	{ID: 7, Name: "XB140", Image: templateXB140},
}

// TemplateByRef looks up a built-in template by its small integer `ref`
// (as carried in a BLOCK record header, §4.4).
func TemplateByRef(ref int) (Template, bool) {
	for _, t := range templateStore {
		if t.ID == ref {
			return t, true
		}
	}
	return Template{}, false
}

// TemplateByName looks up a built-in template by name, for template
// export and tests.
func TemplateByName(name string) (Template, bool) {
	for _, t := range templateStore {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}

// AllTemplates returns the full built-in template set, for export/listing.
func AllTemplates() []Template {
	return append([]Template(nil), templateStore...)
}
