package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gedkit/gedpdf/internal/config"
	"github.com/gedkit/gedpdf/internal/display"
	"github.com/gedkit/gedpdf/internal/gedcom"
	"github.com/gedkit/gedpdf/internal/pdfcheck"
	"github.com/gedkit/gedpdf/internal/render"
	"github.com/gedkit/gedpdf/internal/sanitize"
	"github.com/gedkit/gedpdf/internal/summary"
)

func runConvert(cmd *cobra.Command, args []string) error {
	inPath, outPath := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	totalSteps := 5
	if cfg.VerifyOutput {
		totalSteps = 6
	}

	// Step 1: read input
	display.Step(1, totalSteps, "Reading "+inPath+"...")
	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open input %q: %w", inPath, err)
	}
	defer in.Close()

	// Step 2: sanitize
	display.Step(2, totalSteps, "Repairing GEDCOM structure...")
	lines, sanStats := sanitize.Sanitize(in)
	if len(lines) == 0 {
		return errors.New("no GEDCOM lines found in input (empty or unreadable file)")
	}
	display.StepResult("Corrected lines:", sanStats.Lines)
	if sanStats.Clamped > 0 {
		display.StepWarn(fmt.Sprintf("clamped %d illegal level jump(s)", sanStats.Clamped))
	}
	if sanStats.Merged > 0 {
		display.StepWarn(fmt.Sprintf("merged %d continuation line(s)", sanStats.Merged))
	}

	// Step 3: parse
	display.Step(3, totalSteps, "Parsing records...")
	tree, err := gedcom.Parse(lines)
	if err != nil {
		return fmt.Errorf("parse repaired GEDCOM: %w", err)
	}
	display.StepResult("Top-level records:", len(tree.Roots))

	// Step 4: summarize
	display.Step(4, totalSteps, "Extracting individuals and families...")
	doc := summary.Build(tree)
	display.StepDetail(fmt.Sprintf("%d individual(s), %d family(ies), %d event(s)",
		len(doc.Individuals), len(doc.Families), len(doc.Events)))

	// Step 5: render and write
	display.Step(5, totalSteps, "Rendering PDF...")
	opts := render.Options{
		Placeholder: placeholderRune(cfg.Placeholder),
		Title:       cfg.Document.Title,
		Author:      cfg.Document.Author,
	}
	pdfBytes, renStats, err := render.Render(doc, tree, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if renStats.Placeholders > 0 {
		display.StepWarn(fmt.Sprintf("substituted %d unencodable character(s)", renStats.Placeholders))
	}
	if err := os.WriteFile(outPath, pdfBytes, 0644); err != nil {
		return fmt.Errorf("write output %q: %w", outPath, err)
	}

	// Step 6: verify the written file
	if cfg.VerifyOutput {
		display.Step(6, totalSteps, "Verifying output...")
		info, err := pdfcheck.Verify(outPath)
		if err != nil {
			// The PDF is already on disk; a verification failure is
			// reported but does not fail the conversion.
			display.Warn("output verification failed: " + err.Error())
		} else {
			display.StepResult("Pages:", info.Pages)
		}
	}

	display.ConversionInfo{
		InputPath:    inPath,
		OutputPath:   outPath,
		InputLines:   sanStats.Lines,
		Records:      renStats.Records,
		Pages:        renStats.Pages,
		MergedLines:  sanStats.Merged,
		ClampedLines: sanStats.Clamped,
		Placeholders: renStats.Placeholders,
		OutputBytes:  len(pdfBytes),
	}.Summary()
	display.Success("Saved " + outPath)

	return nil
}

// placeholderRune reduces the configured placeholder string to a
// single drawable rune.
func placeholderRune(s string) rune {
	for _, r := range s {
		return r
	}
	return '?'
}
