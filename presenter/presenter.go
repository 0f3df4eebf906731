// Package presenter renders prediction results for people.
package presenter

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"drybean/ml"
)

const messageFormat = "Predicted Bean Type: **%s**"

// Message is the success line shown for a prediction. The label is kept verbatim.
func Message(label string) string {
	return fmt.Sprintf(messageFormat, label)
}

// Markdown is Message with the label escaped, for markdown renderers.
func Markdown(label string) string {
	return fmt.Sprintf(messageFormat, escapeMarkdown(label))
}

var markdown = goldmark.New()

// HTML renders Message(label) as an HTML fragment.
func HTML(label string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(label)), &buf); err != nil {
		return "", fmt.Errorf("render result: %w", err)
	}
	return template.HTML(strings.TrimSpace(buf.String())), nil
}

func escapeMarkdown(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune("\\`*_{}[]()#+-.!<>|~", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Row is one labelled input value.
type Row struct {
	Label string
	Value string
}

// Summary lists the inputs in schema order, formatted for the given language.
func Summary(v ml.FeatureVector, tag language.Tag) []Row {
	p := message.NewPrinter(tag)
	rows := make([]Row, ml.FeatureCount)
	for i, f := range ml.Features() {
		rows[i] = Row{Label: f.Label, Value: formatValue(p, v[i])}
	}
	return rows
}

// FormatValue formats one measurement for the given language.
func FormatValue(tag language.Tag, value float64) string {
	return formatValue(message.NewPrinter(tag), value)
}

func formatValue(p *message.Printer, value float64) string {
	return p.Sprint(number.Decimal(value, number.MaxFractionDigits(6)))
}
