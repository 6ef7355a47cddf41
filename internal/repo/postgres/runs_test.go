package postgres

import (
	"strings"
	"testing"
)

func TestUpdateRunQueryIsGuarded(t *testing.T) {
	if !strings.Contains(updateRunQuery, "outcome = 0") {
		t.Fatalf("expected pending-outcome guard in update query")
	}
	if !strings.Contains(updateRunQuery, "user_id IS NOT DISTINCT FROM") {
		t.Fatalf("expected NULL-safe user predicate in update query")
	}
	if !strings.Contains(updateRunQuery, "parcour_id = $7") {
		t.Fatalf("expected parcour predicate in update query")
	}
}

func TestRunListingIsCappedAndOrdered(t *testing.T) {
	if !strings.Contains(selectRunsByParcourQuery, "ORDER BY updated_on DESC") {
		t.Fatalf("expected most-recent-update ordering in listing query")
	}
	if !strings.Contains(selectRunsByParcourQuery, "LIMIT $2") {
		t.Fatalf("expected limit placeholder in listing query")
	}
}

func TestInsertRunSharesCreatedAndUpdatedTimestamp(t *testing.T) {
	if !strings.Contains(insertRunQuery, "$7, $7") {
		t.Fatalf("expected created_on and updated_on to share one timestamp argument")
	}
}
