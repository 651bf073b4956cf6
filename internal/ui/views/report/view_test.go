package report_test

import (
	"strings"
	"testing"

	reportdto "visitlog/internal/modules/report/dto"
	"visitlog/internal/ui/views/report"
)

func TestRenderIncludesHeadersAndCells(t *testing.T) {
	t.Parallel()
	out := report.Render(reportdto.ReportOutput{
		Columns: []string{"Name", "Check-out"},
		Rows:    [][]string{{"Ama Owusu", "N/A"}},
	})
	for _, want := range []string{"Name", "Check-out", "Ama Owusu", "N/A"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in rendered table:\n%s", want, out)
		}
	}
}
