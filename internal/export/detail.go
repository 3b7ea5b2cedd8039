package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/vacancyctl/internal/models"
)

const blockSelector = "p, div, li, ul, ol, h1, h2, h3, h4, h5, h6, tr"

// WriteVacancy renders a single vacancy. JSON writes the record as
// received; every other format prints the detail view.
func WriteVacancy(w io.Writer, v models.Vacancy, format Format, opts WriteOptions) error {
	if format == FormatJSON {
		return WriteJSON(w, v)
	}

	lines := []string{
		fmt.Sprintf("#%d %s %s", v.ID, safe(v.Title), opts.badge(v.Status)),
		"",
		field("Company", dash(v.CompanyName)),
		field("Address", dash(v.CompanyAddress)),
	}
	if logo := safe(v.CompanyLogo); logo != "" {
		lines = append(lines, field("Logo", logo))
	}
	if v.HasExternalID() {
		lines = append(lines, field("HH", externalLink(v, opts, "View on HH")+" ("+v.ExternalURL()+")"))
	}
	lines = append(lines, field("Created", dash(formatTime(&v.CreatedAt))))
	if published := formatTime(v.PublishedAt); published != "" {
		lines = append(lines, field("Published", published+" (published on HH)"))
	}
	if updated := formatTime(v.UpdatedAt); updated != "" {
		lines = append(lines, field("Updated", updated))
	}
	if description := DescriptionText(v.Description); description != "" {
		lines = append(lines, "", description)
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func field(label, value string) string {
	return fmt.Sprintf("%-10s %s", label+":", value)
}

// DescriptionText converts an HTML vacancy description into plain text
// with one line per block element. Plain text input is returned trimmed.
func DescriptionText(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.Contains(raw, "<") {
		return raw
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return raw
	}
	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").PrependHtml("- ")
	doc.Find(blockSelector).AppendHtml("\n")

	var out []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
