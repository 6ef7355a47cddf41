package postgres

import (
	"strings"
	"testing"
)

func TestInsertUserQueryToleratesDuplicateSub(t *testing.T) {
	if !strings.Contains(insertUserQuery, "ON CONFLICT (sub) DO NOTHING") {
		t.Fatalf("expected duplicate-sub conflict clause in insert query")
	}
}

func TestUserLookupQueries(t *testing.T) {
	if !strings.Contains(selectUserBySubQuery, "WHERE sub = $1") {
		t.Fatalf("expected sub predicate in lookup query")
	}
	if !strings.Contains(selectUserByIDQuery, "WHERE id = $1") {
		t.Fatalf("expected id predicate in lookup query")
	}
}
