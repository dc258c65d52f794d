// Package pdfcheck verifies a written PDF with pdfcpu.
package pdfcheck

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Info describes a verified PDF file.
type Info struct {
	Pages int
}

// Verify runs a relaxed structural validation on the file and returns
// its page count.
func Verify(path string) (Info, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.ValidateFile(path, conf); err != nil {
		return Info{}, fmt.Errorf("validate %q: %w", path, err)
	}

	pages, err := api.PageCountFile(path)
	if err != nil {
		return Info{}, fmt.Errorf("page count %q: %w", path, err)
	}
	return Info{Pages: pages}, nil
}
