package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testExpenses = `[
  {"id": "e1", "description": "Electricity bill meter reading", "amount": 1200, "expense_date": "2024-03-05", "category_name": "Miscellaneous"},
  {"id": "e2", "description": "Chalk and attendance register", "amount": 300, "categories": {"name": "Miscellaneous"}},
  {"id": "e3", "description": "Sewage cleaning", "amount": 500, "category_name": "Miscellaneous"},
  {"id": "e4", "description": "Retirement gift", "amount": 40, "category_name": "Miscellaneous"},
  {"id": "e5", "description": "Mess grocery order", "notes": "weekly", "amount": 80, "category_name": "Hostel Mess"}
]`

type cliHarness struct {
	t      *testing.T
	dbPath string
	dir    string
}

func newHarness(t *testing.T) *cliHarness {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	return &cliHarness{t: t, dir: dir, dbPath: filepath.Join(dir, "data", "spicecat.db")}
}

func (h *cliHarness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--db", h.dbPath, "--log-level", "error"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *cliHarness) mustRun(stdin string, args ...string) string {
	h.t.Helper()
	out, err := h.run(stdin, args...)
	require.NoError(h.t, err, out)
	return out
}

func (h *cliHarness) writeFile(name, content string) string {
	h.t.Helper()
	path := filepath.Join(h.dir, name)
	require.NoError(h.t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func (h *cliHarness) seed() {
	h.t.Helper()
	out := h.mustRun("", "categories", "seed")
	assert.Contains(h.t, out, "Registered 17 new categories.")

	out = h.mustRun("", "expenses", "import", h.writeFile("expenses.json", testExpenses))
	assert.Contains(h.t, out, "Imported 5 expenses.")
	assert.Contains(h.t, out, "Hostel Mess")
}

func TestSuggestCommand(t *testing.T) {
	h := newHarness(t)
	h.seed()

	out := h.mustRun("", "suggest", "Electricity", "bill", "meter", "reading")
	assert.Contains(t, out, "Utilities")
	assert.Contains(t, out, "High 86%")

	out = h.mustRun("", "suggest", "--json", "x")
	assert.Equal(t, "[]", strings.TrimSpace(out))

	out = h.mustRun("", "suggest", "--explain", "Sewage cleaning")
	assert.Contains(t, out, "Utilities")
	assert.Contains(t, out, "Cleaning & Sanitation")
	assert.Contains(t, out, "sewage(phrase 3.60)")
}

func TestReclassifyWorkflow(t *testing.T) {
	h := newHarness(t)
	h.seed()

	t.Run("dry run writes nothing", func(t *testing.T) {
		out := h.mustRun("s\n", "reclassify", "--auto", "--dry-run")
		assert.Contains(t, out, "3 of 4 expenses have suggestions: 2 at Medium confidence or better, 1 lower.")
		assert.Contains(t, out, "Dry run: no changes were written.")

		list := h.mustRun("", "expenses", "list", "--category", "miscellaneous")
		for _, id := range []string{"e1", "e2", "e3", "e4"} {
			assert.Contains(t, list, id)
		}
	})

	t.Run("auto plus review", func(t *testing.T) {
		out := h.mustRun("1\n", "reclassify", "--auto", "--learn=false")
		assert.Contains(t, out, "Sewage cleaning")
		assert.Contains(t, out, "Moved 3 expenses out of Miscellaneous.")

		list := h.mustRun("", "expenses", "list", "--category", "Utilities")
		assert.Contains(t, list, "e1")
		assert.Contains(t, list, "e3")

		list = h.mustRun("", "expenses", "list", "--category", "Miscellaneous")
		assert.Contains(t, list, "e4")
		assert.NotContains(t, list, "e1")
	})

	t.Run("nothing left to suggest", func(t *testing.T) {
		out := h.mustRun("", "reclassify", "--yes")
		assert.Contains(t, out, "None of the 1 expenses matched a category.")
	})
}

func TestLearnAndPatterns(t *testing.T) {
	h := newHarness(t)
	h.seed()
	h.mustRun("", "reclassify", "--yes", "--learn=false")

	out := h.mustRun("", "learn")
	assert.Contains(t, out, "Utilities:")
	assert.Contains(t, out, "meter")

	exportPath := filepath.Join(h.dir, "patterns.json")
	h.mustRun("", "patterns", "export", exportPath)
	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Utilities"`)

	out = h.mustRun("", "patterns", "reset")
	assert.Contains(t, out, "Learned terms cleared.")
	out = h.mustRun("", "patterns", "show")
	assert.Contains(t, out, "No learned terms yet.")

	out = h.mustRun("", "patterns", "import", exportPath)
	assert.Contains(t, out, "Imported learned terms for 1 categories.")
	out = h.mustRun("", "patterns", "show")
	assert.Contains(t, out, "meter")

	_, err = h.run("", "patterns", "import", h.writeFile("bad.json", "{not json"))
	assert.Error(t, err)
	out = h.mustRun("", "patterns", "show")
	assert.Contains(t, out, "meter")

	out = h.mustRun("", "patterns", "add", "stationery", "Duster")
	assert.Contains(t, out, `Added "Duster" to Stationery.`)
	out = h.mustRun("", "patterns", "export")
	assert.Contains(t, out, `"Stationery":["duster"]`)

	_, err = h.run("", "patterns", "add", "Nowhere", "duster")
	assert.Error(t, err)
}

func TestCategoriesCommands(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("", "categories", "list")
	assert.Contains(t, out, "No categories found.")

	out = h.mustRun("", "categories", "add", "Hostel Mess", "--color", "#AA3366")
	assert.Contains(t, out, "Created category Hostel Mess")

	_, err := h.run("", "categories", "add", "hostel mess")
	assert.Error(t, err)

	_, err = h.run("", "categories", "add", "Garden", "--color", "green")
	assert.Error(t, err)

	out = h.mustRun("", "categories", "list")
	assert.Contains(t, out, "Hostel Mess")
	assert.Contains(t, out, "#AA3366")
}

func TestMaintenanceCommands(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("", "migrate")
	assert.Contains(t, out, "Database is at schema version 3.")

	out = h.mustRun("", "migrate", "--status")
	assert.Contains(t, out, "Current version: 3")

	out = h.mustRun("", "catalog", "validate")
	assert.Contains(t, out, "embedded default catalog is valid: 16 categories (version 1)")

	bad := h.writeFile("catalog.yaml", "version: 1\ncategories:\n  - name: Empty\n    weight: 1\n")
	_, err := h.run("", "catalog", "validate", bad)
	assert.Error(t, err)

	out = h.mustRun("", "catalog", "show")
	assert.Contains(t, out, "Utilities")

	out = h.mustRun("", "version")
	assert.Contains(t, out, "spicecat dev")
}
