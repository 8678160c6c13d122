package database

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/paiban/schichtplan/internal/metrics"
)

func TestTruncateQuery(t *testing.T) {
	short := "SELECT 1"
	if got := truncateQuery(short); got != short {
		t.Errorf("truncateQuery(%q) = %q", short, got)
	}

	long := strings.Repeat("x", 250)
	if got := truncateQuery(long); len(got) != 203 || !strings.HasSuffix(got, "...") {
		t.Errorf("expected truncated query, got length %d", len(got))
	}
}

func TestSchema(t *testing.T) {
	for _, table := range Tables {
		if !strings.Contains(Schema, "CREATE TABLE IF NOT EXISTS "+table+" ") {
			t.Errorf("schema misses table %s", table)
		}
	}
}

func TestTableOf(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"SELECT stunden FROM sollstunden WHERE mitarbeiter_id = $1", "sollstunden"},
		{"\n\t\tINSERT INTO schichtplaene (id, start_datum) VALUES ($1, $2)", "schichtplaene"},
		{"SELECT s.datum FROM schichten s JOIN mitarbeiter m ON m.id = s.mitarbeiter_id", "schichten"},
		{"SELECT code FROM Schichtarten", "schichtarten"},
		{"SELECT 1", "other"},
	}
	for _, tt := range tests {
		if got := tableOf(tt.query); got != tt.want {
			t.Errorf("tableOf(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestStatementOf(t *testing.T) {
	if got := statementOf("\n\t\tINSERT INTO schichten"); got != "insert" {
		t.Errorf("statementOf = %q, want insert", got)
	}
	if got := statementOf("   "); got != "unknown" {
		t.Errorf("statementOf = %q, want unknown", got)
	}
}

func TestObserve_RecordsQueryMetric(t *testing.T) {
	db := &DB{}
	db.observe("SELECT code FROM schichtarten", 0, nil)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, metrics.DBQueryDuration) || !strings.Contains(body, "schichtarten") {
		t.Errorf("expected query histogram for schichtarten, got:\n%s", body)
	}
}
