package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jimezsa/vacancyctl/internal/models"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
	// FormatNDJSON writes each list as one compact JSON line.
	FormatNDJSON   Format = "ndjson"
)

const timeLayout = "2006-01-02 15:04"

type WriteOptions struct {
	Hyperlinks bool
	// Badge renders a status; nil prints the plain label.
	Badge      func(status string) string
	// Link styles the text of an HH link; nil leaves it plain.
	Link       func(text string) string
}

func (o WriteOptions) badge(status models.Status) string {
	if o.Badge != nil {
		return o.Badge(string(status))
	}
	return status.Label()
}

func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "ndjson", "jsonl":
		return FormatNDJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "tsv":
		return FormatTSV, nil
	case "table", "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}

func WriteVacancies(w io.Writer, items []models.Vacancy, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, items)
	case FormatNDJSON:
		return WriteJSONLine(w, items)
	case FormatCSV:
		return writeCSV(w, items, ',')
	case FormatTSV:
		return writeCSV(w, items, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, items)
	default:
		return writeTable(w, items, opts)
	}
}

// WriteJSON writes value as indented JSON.
func WriteJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

// WriteJSONLine writes value as one compact line of JSON.
func WriteJSONLine(w io.Writer, value any) error {
	return json.NewEncoder(w).Encode(value)
}

func writeCSV(w io.Writer, items []models.Vacancy, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(csvHeader()); err != nil {
		return err
	}
	for _, item := range items {
		if err := writer.Write(csvRow(item)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, items []models.Vacancy, opts WriteOptions) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No vacancies.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader(), "\t"))
	for _, item := range items {
		fmt.Fprintln(tw, strings.Join(tableRow(item, opts), "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, items []models.Vacancy) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No vacancies.")
		return err
	}
	for _, item := range items {
		lines := []string{
			fmt.Sprintf("- **%s** (%s) #%d", safe(item.Title), safe(item.CompanyName), item.ID),
			fmt.Sprintf("  Status: %s", item.Status.Label()),
			fmt.Sprintf("  Address: %s", dash(item.CompanyAddress)),
		}
		if link := item.ExternalURL(); link != "" {
			lines = append(lines, fmt.Sprintf("  HH: [View on HH](<%s>)", link))
		}
		if !item.CreatedAt.IsZero() {
			lines = append(lines, fmt.Sprintf("  Created: %s", item.CreatedAt.Format(timeLayout)))
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func csvHeader() []string {
	return []string{
		"id",
		"title",
		"company_name",
		"company_address",
		"status",
		"hh_id",
		"created_at",
		"published_at",
		"updated_at",
	}
}

func csvRow(item models.Vacancy) []string {
	return []string{
		strconv.FormatInt(item.ID, 10),
		item.Title,
		item.CompanyName,
		item.CompanyAddress,
		string(item.Status),
		item.HHID,
		formatTime(&item.CreatedAt),
		formatTime(item.PublishedAt),
		formatTime(item.UpdatedAt),
	}
}

func formatTime(ts *models.Timestamp) string {
	if ts == nil || ts.IsZero() {
		return ""
	}
	return ts.Format(timeLayout)
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func dash(value string) string {
	if value = safe(value); value == "" {
		return "-"
	}
	return value
}

func tableHeader() []string {
	return []string{
		"id",
		"title",
		"company",
		"status",
		"hh",
		"created",
	}
}

func tableRow(item models.Vacancy, opts WriteOptions) []string {
	return []string{
		strconv.FormatInt(item.ID, 10),
		truncate(safe(item.Title), 48),
		truncate(safe(item.CompanyName), 32),
		opts.badge(item.Status),
		externalLink(item, opts, item.HHID),
		dash(formatTime(&item.CreatedAt)),
	}
}

// externalLink renders the HH page of item labelled text, or "-".
func externalLink(item models.Vacancy, opts WriteOptions, text string) string {
	link := item.ExternalURL()
	if link == "" {
		return "-"
	}
	display := safe(text)
	if opts.Link != nil {
		display = opts.Link(display)
	}
	if opts.Hyperlinks {
		display = hyperlink(link, display)
	}
	return display
}

func hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if max <= 3 || len(runes) <= max {
		return value
	}
	return strings.TrimSpace(string(runes[:max-3])) + "..."
}
