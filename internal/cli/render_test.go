package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/pterm/pterm"

	"github.com/qfactory/mes-helper/internal/core/domain"
)

func init() {
	pterm.DisableStyling()
}

func TestDefaultRange_YesterdayToToday(t *testing.T) {
	clk := testclock.NewClock(time.Date(2024, 3, 1, 0, 30, 0, 0, time.Local))
	from, to := defaultRange(clk)
	if from != "2024-02-29" || to != "2024-03-01" {
		t.Fatalf("expected 2024-02-29..2024-03-01, got %s..%s", from, to)
	}
}

func TestColumns_PreferredFirstThenSorted(t *testing.T) {
	rows := []domain.Record{
		{"zeta": 1, "itemCode": "A", "lotCode": "L"},
		{"alpha": true, "itemName": "N"},
	}
	got := strings.Join(columns(rows, inventoryColumns), ",")
	if got != "itemCode,itemName,lotCode,alpha,zeta" {
		t.Fatalf("unexpected columns %s", got)
	}
}

func TestRenderResult_Table(t *testing.T) {
	var buf bytes.Buffer
	err := renderResult(&buf, &domain.QueryResult{
		TotalFetched: 3,
		Matched: []domain.Record{
			{"itemCode": "ABC-1", "qty": 5},
			{"itemCode": "ABC-2"},
		},
	}, inventoryColumns)
	if err != nil {
		t.Fatalf("renderResult: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"itemCode", "qty", "ABC-1", "ABC-2", "original 3 records, 2 matched criteria"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestRenderResult_NoData(t *testing.T) {
	var buf bytes.Buffer
	if err := renderResult(&buf, &domain.QueryResult{TotalFetched: 4, Matched: []domain.Record{}}, inventoryColumns); err != nil {
		t.Fatalf("renderResult: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "no data (original 4 records, 0 matched criteria)") {
		t.Fatalf("missing no-data warning:\n%s", out)
	}
	if strings.Contains(out, "itemCode") {
		t.Fatalf("no table expected for an empty result:\n%s", out)
	}
}

func TestRenderResult_TruncationWarning(t *testing.T) {
	var buf bytes.Buffer
	res := &domain.QueryResult{TotalFetched: 2, Matched: []domain.Record{{"itemCode": "A"}}, Truncated: true, Limit: 2}
	if err := renderResult(&buf, res, inventoryColumns); err != nil {
		t.Fatalf("renderResult: %v", err)
	}
	if !strings.Contains(buf.String(), "fetch limit of 2 rows reached") {
		t.Fatalf("missing truncation warning:\n%s", buf.String())
	}
}
