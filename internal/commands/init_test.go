package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bankfeed/internal/accounts"
	"github.com/cleared-dev/bankfeed/internal/categorize"
	"github.com/cleared-dev/bankfeed/internal/config"
)

func TestInit_CreatesStructure(t *testing.T) {
	dir := initWorkspace(t)

	expectedDirs := []string{
		"accounts",
		"rules",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range expectedDirs {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	_, err := os.Stat(filepath.Join(dir, "bankfeed.db"))
	assert.NoError(t, err, "database should be created")
}

func TestInit_Config(t *testing.T) {
	dir := initWorkspace(t)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "Test Ltd", cfg.Business.Name)
	assert.Equal(t, "ltd", cfg.Business.EntityType)
	assert.Equal(t, "Dublin", cfg.Director.BaseLocation)
	assert.NoError(t, config.Validate(cfg))
}

func TestInit_Base(t *testing.T) {
	dir := t.TempDir()
	out, err := runBankfeed(t, "init", dir, "--name", "Midlands Ltd", "--base", "athlone")
	require.NoError(t, err, out)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "Athlone", cfg.Director.BaseLocation)
	assert.Equal(t, "Westmeath", cfg.Director.HomeCounty)

	out, err = runBankfeed(t, "init", t.TempDir(), "--name", "X", "--base", "Atlantis")
	require.Error(t, err)
	assert.Contains(t, out, "unknown base location")
}

func TestInit_Accounts(t *testing.T) {
	dir := initWorkspace(t)

	svc, err := accounts.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, accounts.DefaultChart("ltd"), svc.All())
}

func TestInit_SoleTrader(t *testing.T) {
	dir := t.TempDir()
	out, err := runBankfeed(t, "init", dir, "--name", "Solo", "--entity-type", "sole_trader")
	require.NoError(t, err, out)

	svc, err := accounts.Load(dir)
	require.NoError(t, err)
	assert.False(t, svc.Exists(accounts.AccountDirectorsLoan))
}

func TestInit_Rules(t *testing.T) {
	dir := initWorkspace(t)

	rules, err := categorize.LoadRules(filepath.Join(dir, categorize.RulesPath))
	require.NoError(t, err)
	assert.Equal(t, categorize.DefaultRules(), rules)
}

func TestInit_Gitignore(t *testing.T) {
	dir := initWorkspace(t)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "bankfeed.db")
	assert.Contains(t, string(data), ".env")
}

func TestInit_RequiresName(t *testing.T) {
	_, err := runBankfeed(t, "init", t.TempDir())
	require.Error(t, err, "init without --name should fail")
}

func TestInit_RejectsEntityType(t *testing.T) {
	out, err := runBankfeed(t, "init", t.TempDir(), "--name", "X", "--entity-type", "llc")
	require.Error(t, err)
	assert.Contains(t, out, "EntityType")
}
