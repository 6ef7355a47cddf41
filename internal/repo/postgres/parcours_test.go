package postgres

import (
	"strings"
	"testing"
)

func TestParcourExistsQueryIsAProbe(t *testing.T) {
	if !strings.Contains(parcourExistsQuery, "SELECT EXISTS") {
		t.Fatalf("expected an EXISTS probe, not a full fetch")
	}
}

func TestParcourListingJoinsOwner(t *testing.T) {
	if !strings.Contains(selectParcoursQuery, "LEFT JOIN users") {
		t.Fatalf("expected owner join in listing query")
	}
	if !strings.Contains(selectParcoursQuery, "ORDER BY p.updated_on DESC") {
		t.Fatalf("expected most-recent-update ordering in listing query")
	}
}

func TestDeleteParcourHasNoRunCascade(t *testing.T) {
	if strings.Contains(deleteParcourQuery, "runs") {
		t.Fatalf("delete must not touch runs")
	}
}
