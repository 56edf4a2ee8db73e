package notify

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/eastafricavision9-cell/eavicollageapply-sub001/errors"
)

//go:embed templates/letter.html
var letterTemplate embed.FS

// Renderer produces the admission letter document for a notice.
// Rendering must be deterministic: the same notice always yields
// byte-identical output.
type Renderer interface {
	Render(notice AdmissionNotice) ([]byte, error)
}

// LetterRenderer fills the embedded admission letter template.
type LetterRenderer struct {
	tmpl *template.Template
}

// NewLetterRenderer parses the embedded letter template.
func NewLetterRenderer() (*LetterRenderer, error) {
	tmpl, err := template.ParseFS(letterTemplate, "templates/letter.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse letter template")
	}
	return &LetterRenderer{tmpl: tmpl}, nil
}

// letterFields is the template input. Dates and money are pre-formatted so
// the template itself stays trivial and the output deterministic.
type letterFields struct {
	FullName        string
	CourseName      string
	AdmissionNumber string
	ReportingDate   string
	FeeBalance      string
	FeePerYear      string
}

// Render fills the letter template with the notice facts.
// Missing required fields signal a render failure before anything is built.
func (r *LetterRenderer) Render(notice AdmissionNotice) ([]byte, error) {
	if err := validateNotice(notice); err != nil {
		return nil, err
	}

	fields := letterFields{
		FullName:        notice.FullName,
		CourseName:      notice.CourseName,
		AdmissionNumber: notice.AdmissionNumber,
		ReportingDate:   notice.ReportingDate.Format("2 January 2006"),
		FeeBalance:      formatKES(notice.FeeBalance),
		FeePerYear:      formatKES(notice.FeePerYear),
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, fields); err != nil {
		return nil, errors.Wrap(errors.ErrRender, err.Error())
	}
	return buf.Bytes(), nil
}

func validateNotice(notice AdmissionNotice) error {
	switch {
	case notice.FullName == "":
		return errors.Wrap(errors.ErrRender, "notice missing full name")
	case notice.CourseName == "":
		return errors.Wrap(errors.ErrRender, "notice missing course name")
	case notice.AdmissionNumber == "":
		return errors.Wrap(errors.ErrRender, "notice missing admission number")
	case notice.ReportingDate.IsZero():
		return errors.Wrap(errors.ErrRender, "notice missing reporting date")
	}
	return nil
}
