package core

import (
	"bytes"
	htmltmpl "html/template"
	"net/mail"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"

	appfs "github.com/chumcred/academy/fs"
)

var (
	textTemplates *texttmpl.Template
	htmlTemplates *htmltmpl.Template
	tmplInit      sync.Once
	tmplInitErr   error
)

type (
	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	// EmailService is any service that can send emails.
	EmailService interface {
		// SendMessages sends messages concurrently.
		SendMessages(messages ...*EmailMessage)
	}
)

// Render fills TextContent and HTMLContent from BodyStr or from the
// embedded `<TemplateName>.txt` / `<TemplateName>.gohtml` templates.
func (m *EmailMessage) Render() error {
	tmplInit.Do(parseTemplates)
	if tmplInitErr != nil {
		return tmplInitErr
	}

	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
	}
	if m.TemplateName == "" {
		return nil
	}

	if m.TextContent == "" {
		if tmpl := textTemplates.Lookup(m.TemplateName + ".txt"); tmpl != nil {
			var buff bytes.Buffer
			if err := tmpl.Execute(&buff, m.TemplateData); err != nil {
				return errors.Wrap(err, "rendering text email")
			}
			m.TextContent = buff.String()
		}
	}
	if tmpl := htmlTemplates.Lookup(m.TemplateName + ".gohtml"); tmpl != nil {
		var buff bytes.Buffer
		if err := tmpl.Execute(&buff, m.TemplateData); err != nil {
			return errors.Wrap(err, "rendering html email")
		}
		m.HTMLContent = buff.String()
	}
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }

func parseTemplates() {
	textTemplates, tmplInitErr = texttmpl.ParseFS(appfs.FS, "templates/email/*.txt")
	if tmplInitErr != nil {
		tmplInitErr = errors.Wrap(tmplInitErr, "parsing text email templates")
		return
	}
	htmlTemplates, tmplInitErr = htmltmpl.ParseFS(appfs.FS, "templates/email/*.gohtml")
	if tmplInitErr != nil {
		tmplInitErr = errors.Wrap(tmplInitErr, "parsing html email templates")
	}
}
