package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gateforge/internal/calendar"
	"github.com/example/gateforge/internal/planner"
	"github.com/example/gateforge/pkg/models"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("LOG_MODE", "prod")
	return dir
}

func TestStatusCommand(t *testing.T) {
	setupEnv(t)
	out := run(t, "status")
	assert.Contains(t, out, "Cards due today: 1")
}

func TestExportImportCommands(t *testing.T) {
	dir := setupEnv(t)

	out := run(t, "export")
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.JSONEq(t, `"1.5"`, string(doc["version"]))

	path := filepath.Join(dir, "backup.json")
	run(t, "export", path)
	_, err := os.Stat(path)
	require.NoError(t, err)

	out = run(t, "import", path)
	assert.Contains(t, out, "Imported backup taken at")
}

func TestImportCardsCommand(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "cards.csv")
	require.NoError(t, os.WriteFile(path, []byte("front,back,subject\nPumping lemma is for?,Non-regularity,Theory of Computation\n"), 0644))

	out := run(t, "import-cards", path)
	assert.Contains(t, out, "1 created")

	out = run(t, "status")
	assert.Contains(t, out, "Cards due today: 2")
}

func TestReportCommand(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "report.xlsx")

	run(t, "report", path)
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteResolution(t *testing.T) {
	p := models.Phase{ID: "P1", Name: "Algorithms", Start: calendar.MustParse("2026-02-01"), End: calendar.MustParse("2026-02-10")}

	var buf bytes.Buffer
	writeResolution(&buf, planner.Resolution{Active: &p}, false)
	assert.Equal(t, "Active phase: P1 Algorithms (2026-02-01 to 2026-02-10), ends in 0d 00h 00m 00s\n", buf.String())

	buf.Reset()
	writeResolution(&buf, planner.Resolution{}, true)
	assert.Equal(t, "Schedule pending\n", buf.String())
}

func TestResourceCommands(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "toc-syllabus.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n1 0 obj\n"), 0644))

	out := run(t, "resource", "add", path)
	require.Contains(t, out, `Saved pdf "toc-syllabus" as `)
	id := strings.TrimSpace(out[strings.LastIndex(out, " ")+1:])

	out = run(t, "resource", "list")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "toc-syllabus")

	run(t, "resource", "delete", id)
	assert.Equal(t, "No resources saved\n", run(t, "resource", "list"))
}

func TestResourceAddRejectsText(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain notes"), 0644))

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"resource", "add", path})
	assert.Error(t, cmd.Execute())
}
