// Package spannertest connects repository tests to a migrated Spanner
// emulator database.
package spannertest

import (
	"context"
	"fmt"
	"os"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"
)

const defaultDatabase = "projects/test-project/instances/test-instance/databases/procat-test"

// Tables in child-first order.
var tables = []string{"product_images", "products", "audit_logs", "users", "site_config"}

// Setup returns a client on a clean database. The test is skipped unless
// SPANNER_EMULATOR_HOST is set.
func Setup(t *testing.T) *spanner.Client {
	t.Helper()
	if os.Getenv("SPANNER_EMULATOR_HOST") == "" {
		t.Skip("SPANNER_EMULATOR_HOST not set")
	}

	client, err := spanner.NewClient(context.Background(), Database())
	require.NoError(t, err, "failed to create Spanner client")

	Clean(t, client)
	t.Cleanup(func() {
		Clean(t, client)
		client.Close()
	})
	return client
}

// Database returns TEST_SPANNER_DATABASE or the emulator default.
func Database() string {
	if db := os.Getenv("TEST_SPANNER_DATABASE"); db != "" {
		return db
	}
	return defaultDatabase
}

// Clean truncates all tables.
func Clean(t *testing.T, client *spanner.Client) {
	t.Helper()

	mutations := make([]*spanner.Mutation, 0, len(tables))
	for _, table := range tables {
		mutations = append(mutations, spanner.Delete(table, spanner.AllKeys()))
	}
	_, err := client.Apply(context.Background(), mutations)
	require.NoError(t, err, "failed to clean database")
}

// Apply commits mutations in one transaction.
func Apply(t *testing.T, client *spanner.Client, mutations ...*spanner.Mutation) {
	t.Helper()
	_, err := client.Apply(context.Background(), mutations)
	require.NoError(t, err)
}

// AssertRowCount asserts the number of rows in a table.
func AssertRowCount(t *testing.T, client *spanner.Client, table string, expected int) {
	t.Helper()

	iter := client.Single().Query(context.Background(), spanner.Statement{
		SQL: fmt.Sprintf("SELECT COUNT(*) FROM %s", table),
	})
	defer iter.Stop()

	row, err := iter.Next()
	require.NoError(t, err, "failed to query row count")

	var count int64
	require.NoError(t, row.Columns(&count), "failed to parse count")
	require.Equal(t, int64(expected), count, "unexpected row count in table %s", table)
}
