// Package summary extracts typed views from a GEDCOM record tree:
// individuals, families, life events, sources, and the supporting
// record kinds, with cross-references between them resolved to names.
package summary

import (
	"strings"

	"github.com/gedkit/gedpdf/internal/gedcom"
)

// Header describes the transmitting system, from the HEAD record.
type Header struct {
	Source        string
	SourceVersion string
	Date          string
	Charset       string
	GedcomVersion string
}

// Individual is the flattened view of one INDI record.
type Individual struct {
	Xref        string
	Name        string
	Gender      string
	BirthDate   string
	BirthPlace  string
	DeathDate   string
	DeathPlace  string
	DeathCause  string
	Occupation  string
	Education   string
	Religion    string
	Nationality string
	Description string
	Title       string
	Residence   string
	Notes       []string
	ChangeDate  string

	// Resolved from family records in the second pass.
	FatherXref  string
	FatherName  string
	MotherXref  string
	MotherName  string
	SpouseNames []string
	ChildNames  []string
}

// Family is the flattened view of one FAM record.
type Family struct {
	Xref          string
	HusbandXref   string
	HusbandName   string
	WifeXref      string
	WifeName      string
	MarriageDate  string
	MarriagePlace string
	DivorceDate   string
	DivorcePlace  string
	EngageDate    string
	EngagePlace   string
	ChildXrefs    []string
	ChildNames    []string
	Notes         []string
	ChangeDate    string
}

// Event is one life event beyond birth and death, as a table row.
type Event struct {
	RecordXref string
	RecordKind string
	Type       string
	Date       string
	Place      string
	Cause      string
	Note       string
	Sources    string
}

// Source is the flattened view of one SOUR record.
type Source struct {
	Xref        string
	Title       string
	Author      string
	Publication string
	Repository  string
	Notes       []string
}

// Note is a top-level NOTE record.
type Note struct {
	Xref string
	Text string
}

// MediaObject is a top-level OBJE record.
type MediaObject struct {
	Xref   string
	File   string
	Format string
	Title  string
}

// Association links one individual to another with a stated relation.
type Association struct {
	Xref       string
	TargetXref string
	TargetName string
	Relation   string
}

// Submitter is a SUBM record.
type Submitter struct {
	Xref    string
	Name    string
	Address string
	Phone   string
	Email   string
}

// Document holds every extracted view of one parsed file.
type Document struct {
	Header       *Header
	Individuals  []*Individual
	Families     []*Family
	Events       []Event
	Sources      []*Source
	Notes        []*Note
	Media        []*MediaObject
	Associations []Association
	Submitters   []*Submitter
}

// lifeEventTags are the individual event tags rendered as table rows
// rather than dedicated fields.
var lifeEventTags = map[string]bool{
	"BAPM": true, "CHR": true, "BURI": true, "CREM": true, "ADOP": true,
	"GRAD": true, "RETI": true, "NATU": true, "EMIG": true, "IMMI": true,
	"CENS": true, "WILL": true, "PROB": true, "CONF": true, "FCOM": true,
	"BARM": true, "BASM": true, "BAPL": true, "ENDL": true, "SLGC": true,
	"SLGS": true,
}

// Build collects the typed views in two passes: extract each record,
// then resolve cross-references (child to parents, spouses, children)
// across individuals and families.
func Build(t *gedcom.Tree) *Document {
	doc := &Document{}
	names := map[string]string{}

	for _, r := range t.Roots {
		switch r.Tag {
		case "HEAD":
			doc.Header = buildHeader(r)
		case "INDI":
			ind := buildIndividual(r)
			doc.Individuals = append(doc.Individuals, ind)
			names[ind.Xref] = ind.Name
			doc.Events = append(doc.Events, buildEvents(r, "INDI")...)
		case "FAM":
			doc.Families = append(doc.Families, buildFamily(r))
		case "SOUR":
			doc.Sources = append(doc.Sources, buildSource(r))
		case "NOTE":
			doc.Notes = append(doc.Notes, &Note{Xref: r.Xref, Text: r.Value})
		case "OBJE":
			doc.Media = append(doc.Media, &MediaObject{
				Xref:   r.Xref,
				File:   r.ChildValue("FILE"),
				Format: r.ChildValue("FORM"),
				Title:  r.ChildValue("TITL"),
			})
		case "SUBM":
			doc.Submitters = append(doc.Submitters, &Submitter{
				Xref:    r.Xref,
				Name:    r.ChildValue("NAME"),
				Address: r.ChildValue("ADDR"),
				Phone:   r.ChildValue("PHON"),
				Email:   r.ChildValue("EMAIL"),
			})
		}
	}

	resolve(doc, names)
	collectAssociations(t, doc, names)
	return doc
}

func buildHeader(r *gedcom.Record) *Header {
	h := &Header{
		Date:    r.ChildValue("DATE"),
		Charset: r.ChildValue("CHAR"),
	}
	if sour := r.Child("SOUR"); sour != nil {
		h.Source = sour.Value
		h.SourceVersion = sour.ChildValue("VERS")
	}
	if gedc := r.Child("GEDC"); gedc != nil {
		h.GedcomVersion = gedc.ChildValue("VERS")
	}
	return h
}

func buildIndividual(r *gedcom.Record) *Individual {
	ind := &Individual{
		Xref:        r.Xref,
		Name:        DisplayName(r.ChildValue("NAME")),
		Gender:      r.ChildValue("SEX"),
		Occupation:  r.ChildValue("OCCU"),
		Education:   r.ChildValue("EDUC"),
		Religion:    r.ChildValue("RELI"),
		Nationality: r.ChildValue("NATI"),
		Description: r.ChildValue("DSCR"),
		Title:       r.ChildValue("TITL"),
		Residence:   r.ChildValue("RESI"),
		Notes:       r.ChildValues("NOTE"),
	}
	if birt := r.Child("BIRT"); birt != nil {
		ind.BirthDate = birt.ChildValue("DATE")
		ind.BirthPlace = birt.ChildValue("PLAC")
	}
	if deat := r.Child("DEAT"); deat != nil {
		ind.DeathDate = deat.ChildValue("DATE")
		ind.DeathPlace = deat.ChildValue("PLAC")
		ind.DeathCause = deat.ChildValue("CAUS")
	}
	if ch := r.Child("CHAN"); ch != nil {
		ind.ChangeDate = ch.ChildValue("DATE")
	}
	return ind
}

func buildFamily(r *gedcom.Record) *Family {
	fam := &Family{
		Xref:        r.Xref,
		HusbandXref: r.ChildValue("HUSB"),
		WifeXref:    r.ChildValue("WIFE"),
		ChildXrefs:  r.ChildValues("CHIL"),
		Notes:       r.ChildValues("NOTE"),
	}
	if marr := r.Child("MARR"); marr != nil {
		fam.MarriageDate = marr.ChildValue("DATE")
		fam.MarriagePlace = marr.ChildValue("PLAC")
	}
	if div := r.Child("DIV"); div != nil {
		fam.DivorceDate = div.ChildValue("DATE")
		fam.DivorcePlace = div.ChildValue("PLAC")
	}
	if enga := r.Child("ENGA"); enga != nil {
		fam.EngageDate = enga.ChildValue("DATE")
		fam.EngagePlace = enga.ChildValue("PLAC")
	}
	if ch := r.Child("CHAN"); ch != nil {
		fam.ChangeDate = ch.ChildValue("DATE")
	}
	return fam
}

func buildSource(r *gedcom.Record) *Source {
	return &Source{
		Xref:        r.Xref,
		Title:       r.ChildValue("TITL"),
		Author:      r.ChildValue("AUTH"),
		Publication: r.ChildValue("PUBL"),
		Repository:  r.ChildValue("REPO"),
		Notes:       r.ChildValues("NOTE"),
	}
}

func buildEvents(r *gedcom.Record, kind string) []Event {
	var events []Event
	for _, c := range r.Children {
		if !lifeEventTags[c.Tag] {
			continue
		}
		ev := Event{
			RecordXref: r.Xref,
			RecordKind: kind,
			Type:       c.Tag,
			Date:       c.ChildValue("DATE"),
			Place:      c.ChildValue("PLAC"),
			Cause:      c.ChildValue("CAUS"),
			Note:       c.ChildValue("NOTE"),
			Sources:    strings.Join(c.ChildValues("SOUR"), ", "),
		}
		events = append(events, ev)
	}
	return events
}

// resolve fills the relationship fields that cross record boundaries.
func resolve(doc *Document, names map[string]string) {
	byXref := map[string]*Individual{}
	for _, ind := range doc.Individuals {
		byXref[ind.Xref] = ind
	}

	for _, fam := range doc.Families {
		fam.HusbandName = names[fam.HusbandXref]
		fam.WifeName = names[fam.WifeXref]
		for _, cx := range fam.ChildXrefs {
			fam.ChildNames = append(fam.ChildNames, names[cx])
			if child, ok := byXref[cx]; ok {
				child.FatherXref = fam.HusbandXref
				child.FatherName = fam.HusbandName
				child.MotherXref = fam.WifeXref
				child.MotherName = fam.WifeName
			}
		}
		if h, ok := byXref[fam.HusbandXref]; ok {
			if fam.WifeName != "" {
				h.SpouseNames = append(h.SpouseNames, fam.WifeName)
			}
			h.ChildNames = append(h.ChildNames, fam.ChildNames...)
		}
		if w, ok := byXref[fam.WifeXref]; ok {
			if fam.HusbandName != "" {
				w.SpouseNames = append(w.SpouseNames, fam.HusbandName)
			}
			w.ChildNames = append(w.ChildNames, fam.ChildNames...)
		}
	}
}

func collectAssociations(t *gedcom.Tree, doc *Document, names map[string]string) {
	for _, r := range t.Records("INDI") {
		for _, c := range r.Children {
			if c.Tag != "ASSO" {
				continue
			}
			doc.Associations = append(doc.Associations, Association{
				Xref:       r.Xref,
				TargetXref: c.Value,
				TargetName: names[c.Value],
				Relation:   c.ChildValue("RELA"),
			})
		}
	}
}

// DisplayName converts a GEDCOM name value ("John /Doe/") into plain
// display form.
func DisplayName(name string) string {
	name = strings.ReplaceAll(name, "/", " ")
	return strings.Join(strings.Fields(name), " ")
}
