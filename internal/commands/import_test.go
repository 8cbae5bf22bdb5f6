package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bankfeed/internal/config"
	"github.com/cleared-dev/bankfeed/internal/importlog"
)

func TestImport_ScansImportDir(t *testing.T) {
	dir := initWorkspace(t)
	stage(t, dir, "aib.csv")
	stage(t, dir, "revolut.tsv")

	out, err := runBankfeed(t, "import", "--repo", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "aib.csv [aib]: 6 of 7 rows parsed")
	assert.Contains(t, out, "revolut.tsv [revolut]")
	assert.Contains(t, out, "imported:    6")

	// Both files moved to processed.
	for _, name := range []string{"aib.csv", "revolut.tsv"} {
		_, err := os.Stat(filepath.Join(dir, "import", "processed", name))
		assert.NoError(t, err, "%s should be processed", name)
		_, err = os.Stat(filepath.Join(dir, "import", name))
		assert.True(t, os.IsNotExist(err), "%s should leave import/", name)
	}

	entries, err := importlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "aib", entries[0].Signature)
	assert.Equal(t, 6, entries[0].Imported)
	assert.NotEmpty(t, entries[0].BatchID)
	assert.Equal(t, "revolut", entries[1].Signature)
}

func TestImport_Reimport(t *testing.T) {
	dir := initWorkspace(t)
	path := filepath.Join("..", "..", "testdata", "aib.csv")

	out, err := runBankfeed(t, "import", "--repo", dir, path)
	require.NoError(t, err, out)

	out, err = runBankfeed(t, "import", "--repo", dir, path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "duplicates:  6")
	assert.Contains(t, out, "imported:    0")

	out, err = runBankfeed(t, "import", "--repo", dir, "--keep-duplicates", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "duplicates:  6")
	assert.Contains(t, out, "imported:    6")

	// Explicit files stay where they are.
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestImport_Empty(t *testing.T) {
	dir := initWorkspace(t)
	out, err := runBankfeed(t, "import", "--repo", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "No statements in import/")
}

func TestImport_ManualMapping(t *testing.T) {
	dir := initWorkspace(t)
	stage(t, dir, "generic.csv")

	out, err := runBankfeed(t, "import", "--repo", dir,
		"--date-col", "Date", "--description-col", "Narrative", "--amount-col", "Amount")
	require.NoError(t, err, out)
	assert.Contains(t, out, "generic.csv [manual]")
	assert.Contains(t, out, "imported:    3")
}

func TestImport_IncompleteMapping(t *testing.T) {
	dir := initWorkspace(t)
	out, err := runBankfeed(t, "import", "--repo", dir, "--date-col", "Date")
	require.Error(t, err)
	assert.Contains(t, out, "manual mapping needs")
}

func TestImport_RejectsMalformed(t *testing.T) {
	dir := initWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "bad.csv"), []byte("Date,Amount\n"), 0o644))

	out, err := runBankfeed(t, "import", "--repo", dir)
	require.Error(t, err)
	assert.Contains(t, out, "bad.csv")

	// A rejected file stays in import/ for another attempt.
	_, err = os.Stat(filepath.Join(dir, "import", "bad.csv"))
	assert.NoError(t, err)
}

func TestImport_Categorize(t *testing.T) {
	dir := initWorkspace(t)
	stage(t, dir, "aib.csv")

	out, err := runBankfeed(t, "import", "--repo", dir, "--categorize")
	require.NoError(t, err, out)
	// Default rules match the hotel and the fuel stop.
	assert.Contains(t, out, "categorized: 2 (unmatched 4, failed 0)")
}

func TestImport_NotAWorkspace(t *testing.T) {
	out, err := runBankfeed(t, "import", "--repo", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, out, "reading config")
}

func TestImport_SkipDuplicatesFromConfig(t *testing.T) {
	dir := initWorkspace(t)
	cfgPath := filepath.Join(dir, config.FileName)
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	cfg.Import.SkipDuplicates = false
	require.NoError(t, config.Save(cfgPath, cfg))

	path := filepath.Join("..", "..", "testdata", "aib.csv")
	out, err := runBankfeed(t, "import", "--repo", dir, path)
	require.NoError(t, err, out)

	out, err = runBankfeed(t, "import", "--repo", dir, path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "duplicates:  6")
	assert.Contains(t, out, "imported:    6")

	// An explicit flag beats the config.
	out, err = runBankfeed(t, "import", "--repo", dir, "--keep-duplicates=false", path)
	require.NoError(t, err, out)
	assert.Contains(t, out, "imported:    0")
}
