package csvfile

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ExportColumns is the fixed column order of a contact export.
var ExportColumns = []string{"name", "email", "phone", "company", "status", "leadSource", "tags", "score"}

// Record supplies the values of one exported line, in ExportColumns order.
type Record interface {
	ExportValues() []string
}

// Write emits a header line and one line per record. Every value is
// quoted, with embedded quotes doubled and line breaks flattened to a
// space so each record stays on one line.
func Write[R Record](w io.Writer, records []R) error {
	if _, err := io.WriteString(w, strings.Join(ExportColumns, ",")+"\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, rec := range records {
		values := rec.ExportValues()
		quoted := make([]string, len(values))
		for j, v := range values {
			quoted[j] = `"` + strings.ReplaceAll(flatten(v), `"`, `""`) + `"`
		}
		if _, err := io.WriteString(w, strings.Join(quoted, ",")+"\n"); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i+1, err)
		}
	}
	return nil
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func flatten(v string) string {
	return lineBreaks.Replace(v)
}

// ExportFilename names the download for an export taken at t.
func ExportFilename(t time.Time) string {
	return "contacts_export_" + t.UTC().Format("2006-01-02") + ".csv"
}
