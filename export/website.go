package export

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"jkwi-ims/store"
)

//go:embed website.html.tmpl
var websiteSource string

var websiteTmpl = template.Must(template.New("website").Parse(websiteSource))

// WebsiteOptions picks which optional sections the generated page carries.
// The company section is always present.
type WebsiteOptions struct {
	Title               string
	IncludeDirectors    bool
	IncludeDivisions    bool
	IncludePartnerships bool
	IncludeMembers      bool
}

type websiteView struct {
	Title        string
	Company      store.Company
	Directors    []store.Director
	Divisions    []store.Division
	Partnerships []store.Partnership
	Members      []store.Member
	ActiveCount  int
}

// Website renders a standalone HTML page from d.
func Website(opts WebsiteOptions, d store.Data) ([]byte, error) {
	v := websiteView{Title: opts.Title, Company: d.Company}
	if v.Title == "" {
		v.Title = d.Company.Name
	}
	if opts.IncludeDirectors {
		v.Directors = d.Directors
	}
	if opts.IncludeDivisions {
		v.Divisions = d.Divisions
	}
	if opts.IncludePartnerships {
		v.Partnerships = d.Partnerships
	}
	if opts.IncludeMembers {
		v.Members = d.Members
		for _, m := range d.Members {
			if m.Status == store.StatusActive {
				v.ActiveCount++
			}
		}
	}
	var buf bytes.Buffer
	if err := websiteTmpl.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("render website: %w", err)
	}
	return buf.Bytes(), nil
}
