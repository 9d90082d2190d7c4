package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS votes (", firstLine(SchemaStatements[0]))
	assert.Equal(t, "DROP TABLE IF EXISTS ballots CASCADE", firstLine("  DROP TABLE IF EXISTS ballots CASCADE "))
}

func TestSchemaCoversEveryDroppedTable(t *testing.T) {
	schema := strings.Join(SchemaStatements, "\n")
	for _, drop := range DropStatements {
		table := strings.Fields(drop)[4]
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}
