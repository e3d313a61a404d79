// Package cliproduct holds the product command suite: list, get, create,
// update, delete, and open.
package cliproduct

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stockctl/stockctl/api"
)

var tableColumns = []string{"ID", "NAME", "PRICE", "COLORS", "IMAGES", "UPDATED"}

// RenderTable writes products as tab-separated columns, one row per record,
// in server order. Tab separation composes with `column -t`.
func RenderTable(w io.Writer, products []api.Product, noHeader bool) error {
	if !noHeader {
		if _, err := fmt.Fprintln(w, strings.Join(tableColumns, "\t")); err != nil {
			return err
		}
	}
	for _, p := range products {
		row := []string{
			p.ID,
			p.Name,
			strconv.FormatFloat(p.Price, 'f', -1, 64),
			strings.Join(p.Colors, ","),
			strconv.Itoa(len(p.ImageURLs)),
			formatTimestamp(p.UpdatedAt),
		}
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return nil
}

var (
	detailTitleStyle = lipgloss.NewStyle().Bold(true)
	detailLabelStyle = lipgloss.NewStyle().Faint(true).Width(12)
	detailTagStyle   = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1)
)

// RenderDetail writes a single product as a labeled card.
func RenderDetail(w io.Writer, p *api.Product) error {
	var b strings.Builder

	b.WriteString(detailTitleStyle.Render(p.Name))
	b.WriteByte('\n')
	writeDetailRow(&b, "ID", p.ID)
	writeDetailRow(&b, "Price", strconv.FormatFloat(p.Price, 'f', -1, 64))
	if p.Description != "" {
		writeDetailRow(&b, "Description", p.Description)
	}
	if len(p.Colors) > 0 {
		tags := make([]string, len(p.Colors))
		for i, c := range p.Colors {
			tags[i] = detailTagStyle.Render(c)
		}
		b.WriteString(detailLabelStyle.Render("Colors"))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, tags...))
		b.WriteByte('\n')
	}
	for i, u := range p.ImageURLs {
		writeDetailRow(&b, fmt.Sprintf("Image %d", i+1), u)
	}
	if ts := formatTimestamp(p.CreatedAt); ts != "" {
		writeDetailRow(&b, "Created", ts)
	}
	if ts := formatTimestamp(p.UpdatedAt); ts != "" {
		writeDetailRow(&b, "Updated", ts)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeDetailRow(b *strings.Builder, label, value string) {
	b.WriteString(detailLabelStyle.Render(label))
	b.WriteString(value)
	b.WriteByte('\n')
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
