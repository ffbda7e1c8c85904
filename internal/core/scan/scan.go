// Package scan turns a snapshot of the board's DOM into archival candidates.
// It never touches the live page: the browser layer hands it rendered HTML
// and it answers with the rows the keyword policy selected.
package scan

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"boardsweep/internal/core"
	"boardsweep/internal/core/config"
)

// Parse extracts candidates from rendered board HTML, applies the matcher,
// and caps the result at limit (0 means no cap). Rows without the configured
// id attribute are skipped: without it there is no stable selector to drive
// later, so acting on such a row would be a shot in the dark.
func Parse(html string, sel config.Selectors, m *Matcher, limit int, logger *slog.Logger) ([]core.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse board HTML: %w", err)
	}

	var candidates []core.Candidate
	doc.Find(sel.Row).EachWithBreak(func(i int, row *goquery.Selection) bool {
		if limit > 0 && len(candidates) >= limit {
			return false
		}

		id, ok := row.Attr(sel.RowIDAttr)
		if !ok || strings.TrimSpace(id) == "" {
			logger.Warn("skipping row without id attribute",
				slog.Int("index", i), slog.String("attr", sel.RowIDAttr))
			return true
		}

		c := core.Candidate{
			RowID:    id,
			Selector: fmt.Sprintf(`%s[%s=%q]`, sel.Row, sel.RowIDAttr, id),
			Title:    strings.TrimSpace(row.Find(sel.Title).First().Text()),
			Status:   strings.TrimSpace(row.Find(sel.Status).First().Text()),
		}
		row.Find(sel.Tag).Each(func(_ int, tag *goquery.Selection) {
			if t := strings.TrimSpace(tag.Text()); t != "" {
				c.Tags = append(c.Tags, t)
			}
		})

		if m.Match(c) {
			candidates = append(candidates, c)
		}
		return true
	})

	return candidates, nil
}
