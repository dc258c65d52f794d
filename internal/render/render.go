// Package render walks a parsed GEDCOM tree and draws it as a
// paginated PDF document.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gedkit/gedpdf/internal/gedcom"
	"github.com/gedkit/gedpdf/internal/summary"
)

// Fixed A4 geometry, millimeters.
const (
	pageMargin = 15.0

	titleHeight   = 10.0
	headingHeight = 8.0
	lineHeight    = 5.0
	sectionGap    = 4.0
	indentStep    = 5.0
)

// Options configures the non-layout aspects of a render.
type Options struct {
	// Placeholder substitutes runes the page encoding cannot represent.
	Placeholder rune
	Title       string
	Author      string
}

// Stats reports what one render produced.
type Stats struct {
	Pages        int
	Records      int
	FieldLines   int
	Placeholders int
}

// Render draws the document and returns the finished PDF bytes. A
// value that cannot be encoded is substituted, never fatal; the only
// error cases are failures of the PDF writer itself.
func Render(doc *summary.Document, tree *gedcom.Tree, opts Options) ([]byte, Stats, error) {
	if opts.Placeholder == 0 {
		opts.Placeholder = '?'
	}

	r := &renderer{opts: opts}
	r.init()

	r.titleBlock(doc.Header)
	r.individualOverview(doc.Individuals)
	r.familyOverview(doc.Families)
	r.eventSection(doc.Events)
	r.sourceSection(doc.Sources)
	r.noteSection(doc.Notes)
	r.mediaSection(doc.Media)
	r.associationSection(doc.Associations)
	r.submitterSection(doc.Submitters)

	for _, root := range tree.Roots {
		if root.Tag == "HEAD" || root.Tag == "TRLR" {
			continue
		}
		r.recordSection(root)
		r.stats.Records++
	}

	r.stats.Pages = r.pdf.PageCount()

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, r.stats, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), r.stats, nil
}

type renderer struct {
	pdf   *gofpdf.Fpdf
	tr    func(string) string
	opts  Options
	stats Stats

	// y is the running vertical offset, reset on every page break.
	y      float64
	top    float64
	limit  float64
	left   float64
	usable float64
}

func (r *renderer) init() {
	pdf := gofpdf.New("P", "mm", "A4", "")
	title := r.opts.Title
	if title == "" {
		title = "Family Records"
	}
	pdf.SetTitle(title, true)
	if r.opts.Author != "" {
		pdf.SetAuthor(r.opts.Author, true)
	}
	pdf.SetCreator("gedpdf", true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	// Pagination is tracked through r.y; gofpdf must not break pages
	// on its own.
	pdf.SetAutoPageBreak(false, 0)

	pageW, pageH := pdf.GetPageSize()
	r.pdf = pdf
	r.tr = pdf.UnicodeTranslatorFromDescriptor("")
	r.top = pageMargin
	r.limit = pageH - pageMargin
	r.left = pageMargin
	r.usable = pageW - 2*pageMargin

	pdf.AddPage()
	r.y = r.top
}

// ensure breaks the page unless height more millimeters fit below the
// running offset.
func (r *renderer) ensure(height float64) {
	if r.y+height > r.limit {
		r.pdf.AddPage()
		r.y = r.top
	}
}

// text draws one line at the given indent and advances the offset.
func (r *renderer) text(indent float64, style string, size float64, h float64, s string) {
	s, n := substitute(s, r.opts.Placeholder)
	r.stats.Placeholders += n
	r.pdf.SetFont("Helvetica", style, size)
	r.pdf.SetXY(r.left+indent, r.y)
	r.pdf.CellFormat(r.usable-indent, h, r.tr(s), "", 0, "L", false, 0, "")
	r.y += h
}

// wrapped draws a possibly long string, wrapping it to the usable
// width. The page may break between wrapped lines.
func (r *renderer) wrapped(indent float64, style string, size float64, s string) {
	r.pdf.SetFont("Helvetica", style, size)
	for _, part := range strings.Split(s, "\n") {
		enc, n := substitute(part, r.opts.Placeholder)
		r.stats.Placeholders += n
		lines := r.pdf.SplitText(r.tr(enc), r.usable-indent)
		if len(lines) == 0 {
			lines = []string{""}
		}
		for _, ln := range lines {
			r.ensure(lineHeight)
			r.pdf.SetXY(r.left+indent, r.y)
			r.pdf.CellFormat(r.usable-indent, lineHeight, ln, "", 0, "L", false, 0, "")
			r.y += lineHeight
			r.stats.FieldLines++
		}
	}
}

// heading places a section heading. A heading is never left as the
// last line of a page: it only goes down if at least one field line
// still fits under it.
func (r *renderer) heading(s string) {
	r.ensure(headingHeight + lineHeight)
	r.text(0, "B", 13, headingHeight, s)
}

func (r *renderer) sectionTitle(s string) {
	r.ensure(sectionGap + titleHeight + 2*lineHeight)
	r.y += sectionGap
	r.text(0, "B", 16, titleHeight, s)
	r.pdf.SetDrawColor(120, 120, 120)
	r.pdf.Line(r.left, r.y, r.left+r.usable, r.y)
	r.y += 2
}

func (r *renderer) field(indent float64, label, value string) {
	if value == "" {
		return
	}
	r.wrapped(indent, "", 10, label+": "+value)
}

func (r *renderer) titleBlock(h *summary.Header) {
	r.text(0, "B", 20, titleHeight+2, "Family Records")
	if h == nil {
		r.y += sectionGap
		return
	}
	r.field(0, "Source Software", strings.TrimSpace(h.Source+" "+h.SourceVersion))
	r.field(0, "Date", h.Date)
	r.field(0, "Character Set", h.Charset)
	r.field(0, "GEDCOM Version", h.GedcomVersion)
	r.y += sectionGap
}

func (r *renderer) individualOverview(inds []*summary.Individual) {
	if len(inds) == 0 {
		return
	}
	r.sectionTitle("Individuals")
	for _, ind := range inds {
		name := ind.Name
		if name == "" {
			name = "Unknown"
		}
		span := lifespan(ind)
		line := name
		if span != "" {
			line += "  (" + span + ")"
		}
		line += "  " + ind.Xref
		r.wrapped(0, "", 10, line)
	}
}

func lifespan(ind *summary.Individual) string {
	switch {
	case ind.BirthDate == "" && ind.DeathDate == "":
		return ""
	case ind.DeathDate == "":
		return "b. " + ind.BirthDate
	case ind.BirthDate == "":
		return "d. " + ind.DeathDate
	default:
		return ind.BirthDate + " - " + ind.DeathDate
	}
}

func (r *renderer) familyOverview(fams []*summary.Family) {
	if len(fams) == 0 {
		return
	}
	r.sectionTitle("Families")
	for _, fam := range fams {
		head := partnerLine(fam)
		r.wrapped(0, "", 10, head+"  "+fam.Xref)
		if fam.MarriageDate != "" || fam.MarriagePlace != "" {
			r.field(indentStep, "Married", joinNonEmpty(fam.MarriageDate, fam.MarriagePlace))
		}
		if len(fam.ChildNames) > 0 {
			r.field(indentStep, "Children", strings.Join(nonEmptyOr(fam.ChildNames, fam.ChildXrefs), ", "))
		}
	}
}

func partnerLine(fam *summary.Family) string {
	h := fam.HusbandName
	if h == "" {
		h = fam.HusbandXref
	}
	w := fam.WifeName
	if w == "" {
		w = fam.WifeXref
	}
	switch {
	case h != "" && w != "":
		return h + " & " + w
	case h != "":
		return h
	case w != "":
		return w
	default:
		return "Family"
	}
}

func (r *renderer) eventSection(events []summary.Event) {
	if len(events) == 0 {
		return
	}
	r.sectionTitle("Events")
	for _, ev := range events {
		line := Label(ev.Type)
		if detail := joinNonEmpty(ev.Date, ev.Place, ev.Cause); detail != "" {
			line += ": " + detail
		}
		line += "  (" + ev.RecordXref + ")"
		r.wrapped(0, "", 10, line)
		if ev.Note != "" {
			r.field(indentStep, "Note", ev.Note)
		}
		if ev.Sources != "" {
			r.field(indentStep, "Sources", ev.Sources)
		}
	}
}

func (r *renderer) sourceSection(srcs []*summary.Source) {
	if len(srcs) == 0 {
		return
	}
	r.sectionTitle("Sources")
	for _, src := range srcs {
		title := src.Title
		if title == "" {
			title = "Untitled"
		}
		r.wrapped(0, "", 10, title+"  "+src.Xref)
		r.field(indentStep, "Author", src.Author)
		r.field(indentStep, "Publication", src.Publication)
		r.field(indentStep, "Repository", src.Repository)
		r.field(indentStep, "Notes", strings.Join(src.Notes, "; "))
	}
}

func (r *renderer) noteSection(notes []*summary.Note) {
	if len(notes) == 0 {
		return
	}
	r.sectionTitle("Notes")
	for _, n := range notes {
		line := n.Text
		if n.Xref != "" {
			line = n.Xref + "  " + line
		}
		r.wrapped(0, "", 10, line)
	}
}

func (r *renderer) mediaSection(media []*summary.MediaObject) {
	if len(media) == 0 {
		return
	}
	r.sectionTitle("Media Objects")
	for _, m := range media {
		r.wrapped(0, "", 10, mediaLine(m))
		r.field(indentStep, "File", m.File)
	}
}

func mediaLine(m *summary.MediaObject) string {
	title := m.Title
	if title == "" {
		title = m.File
	}
	line := title + "  " + m.Xref
	if m.Format != "" {
		line += "  (" + m.Format + ")"
	}
	return line
}

func (r *renderer) associationSection(assocs []summary.Association) {
	if len(assocs) == 0 {
		return
	}
	r.sectionTitle("Associations")
	for _, a := range assocs {
		r.wrapped(0, "", 10, associationLine(a))
	}
}

// associationLine names the associated individual by resolved name,
// falling back to the bare cross-reference.
func associationLine(a summary.Association) string {
	target := a.TargetName
	if target == "" {
		target = a.TargetXref
	}
	line := a.Xref + " - " + target
	if a.Relation != "" {
		line += " (" + a.Relation + ")"
	}
	return line
}

func (r *renderer) submitterSection(subs []*summary.Submitter) {
	if len(subs) == 0 {
		return
	}
	r.sectionTitle("Submitters")
	for _, s := range subs {
		line := s.Name
		if line == "" {
			line = s.Xref
		} else {
			line += "  " + s.Xref
		}
		r.wrapped(0, "", 10, line)
		r.field(indentStep, "Address", s.Address)
		r.field(indentStep, "Phone", s.Phone)
		r.field(indentStep, "Email", s.Email)
	}
}

// recordSection renders one top-level record: a heading naming the
// record, then its whole subtree as indented field lines.
func (r *renderer) recordSection(rec *gedcom.Record) {
	r.y += sectionGap
	r.heading(recordHeading(rec))
	for _, c := range rec.Children {
		r.recordFields(c, indentStep)
	}
}

func (r *renderer) recordFields(rec *gedcom.Record, indent float64) {
	line := Label(rec.Tag)
	if rec.Value != "" {
		line += ": " + rec.Value
	}
	r.wrapped(indent, "", 10, line)
	for _, c := range rec.Children {
		r.recordFields(c, indent+indentStep)
	}
}

// recordHeading identifies a record by its tag plus the most human
// value available among its first-level children.
func recordHeading(rec *gedcom.Record) string {
	h := Label(rec.Tag)
	if rec.Xref != "" {
		h += " " + rec.Xref
	}
	name := summary.DisplayName(rec.ChildValue("NAME"))
	if name == "" {
		name = rec.ChildValue("TITL")
	}
	if name == "" {
		name = rec.Value
	}
	if name != "" {
		h += " - " + name
	}
	return h
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

// nonEmptyOr substitutes fallback entries for empty names.
func nonEmptyOr(names, fallback []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		if n == "" && i < len(fallback) {
			n = fallback[i]
		}
		out[i] = n
	}
	return out
}
