package cli

import (
	"fmt"
	"io"
	"slices"
	"sort"
	"time"

	"github.com/juju/clock"
	"github.com/pterm/pterm"

	"github.com/qfactory/mes-helper/internal/core/domain"
	"github.com/qfactory/mes-helper/internal/core/filter"
)

const dateLayout = "2006-01-02"

// defaultRange is yesterday..today in local time.
func defaultRange(clk clock.Clock) (string, string) {
	now := clk.Now().In(time.Local)
	return now.AddDate(0, 0, -1).Format(dateLayout), now.Format(dateLayout)
}

// renderResult prints the matched rows as a table followed by the count line.
// An empty match prints only the "no data" warning.
func renderResult(w io.Writer, res *domain.QueryResult, preferred []string) error {
	if len(res.Matched) == 0 {
		_, err := fmt.Fprint(w, pterm.Warning.Sprintln(res.Summary()))
		return err
	}

	cols := columns(res.Matched, preferred)
	data := make(pterm.TableData, 0, len(res.Matched)+1)
	data = append(data, cols)
	for _, row := range res.Matched {
		line := make([]string, len(cols))
		for i, c := range cols {
			line[i] = filter.Text(row[c])
		}
		data = append(data, line)
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, table); err != nil {
		return err
	}

	printer := pterm.Info
	if res.Truncated {
		printer = pterm.Warning
	}
	_, err = fmt.Fprint(w, printer.Sprintln(res.Summary()))
	return err
}

// columns returns the preferred keys present in any row, then every other
// key in alphabetical order.
func columns(rows []domain.Record, preferred []string) []string {
	seen := make(map[string]bool)
	for _, r := range rows {
		for k := range r {
			seen[k] = true
		}
	}

	cols := make([]string, 0, len(seen))
	for _, p := range preferred {
		if seen[p] {
			cols = append(cols, p)
		}
	}
	rest := make([]string, 0, len(seen))
	for k := range seen {
		if !slices.Contains(preferred, k) {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(cols, rest...)
}
