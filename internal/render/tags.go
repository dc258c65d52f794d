package render

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed tags.yaml
var tagsYAML []byte

var tagLabels = loadTagLabels()

func loadTagLabels() map[string]string {
	labels := map[string]string{}
	// The table ships inside the binary; a parse failure here is a
	// build defect, not a runtime condition.
	if err := yaml.Unmarshal(tagsYAML, &labels); err != nil {
		panic("render: embedded tags.yaml: " + err.Error())
	}
	return labels
}

// Label returns the display label for a GEDCOM tag, falling back to
// the raw tag.
func Label(tag string) string {
	if l, ok := tagLabels[tag]; ok {
		return l
	}
	return tag
}
