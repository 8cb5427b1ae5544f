package database

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func columnType(t *testing.T, ddl, column string) string {
	t.Helper()
	match := regexp.MustCompile(`(?m)^\s*` + column + `\s+([A-Z]+(?:\(\d+\))?)`).FindStringSubmatch(ddl)
	require.Len(t, match, 2, "column %s not found", column)
	return match[1]
}

func TestVisitsSchema_ClientColumnsUnbounded(t *testing.T) {
	require.NotEmpty(t, VisitsSchema)
	table := VisitsSchema[0]

	for _, column := range []string{"visited_at", "ip_address", "user_agent", "note"} {
		t.Run(column, func(t *testing.T) {
			assert.Equal(t, "TEXT", columnType(t, table, column))
		})
	}
	assert.NotContains(t, strings.ToUpper(table), "VARCHAR")
}

func TestVisitsSchema_Idempotent(t *testing.T) {
	for _, stmt := range VisitsSchema {
		assert.Contains(t, stmt, "IF NOT EXISTS")
	}
	for _, stmt := range VisitsTeardown {
		assert.Contains(t, stmt, "IF EXISTS")
	}
}
