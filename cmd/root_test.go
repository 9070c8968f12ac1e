package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	expected := []string{"run", "upload", "admins", "leadlists", "phantoms", "runs", "timestamps", "monitor"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "leadgen-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRunCommand_Flags(t *testing.T) {
	for _, name := range []string{"tag", "csv", "phantom", "customers", "exclude-stores", "upload", "from", "cutoff-pct"} {
		assert.NotNil(t, runCmd.Flags().Lookup(name), "run should have --%s flag", name)
	}

	flag := runCmd.Flags().Lookup("upload")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestUploadCommand_Flags(t *testing.T) {
	require.NotNil(t, uploadCmd.Flags().Lookup("tag"))
	require.NotNil(t, uploadCmd.Flags().Lookup("file"))

	update := uploadCmd.Flags().Lookup("update")
	require.NotNil(t, update)
	assert.Equal(t, "false", update.DefValue)
}

func TestLeadListsCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range leadListsCmd.Commands() {
		names[c.Name()] = true
		if c == leadListsReassignCmd {
			continue
		}
		assert.NotNil(t, c.Flags().Lookup("tag"), "leadlists %s should have --tag", c.Name())
	}
	for _, name := range []string{"create", "delete", "count", "reassign"} {
		assert.True(t, names[name], "leadlists should have subcommand %q", name)
	}

	for _, name := range []string{"from-tag", "to-tag"} {
		f := leadListsReassignCmd.Flags().Lookup(name)
		require.NotNil(t, f, "reassign should have --%s", name)
		assert.Equal(t, []string{"true"}, f.Annotations[cobra.BashCompOneRequiredFlag])
	}
}

func TestRunsCommand_Flags(t *testing.T) {
	flag := runsListCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "50", flag.DefValue)

	assert.NotNil(t, runsStatsCmd.Flags().Lookup("since"))
	assert.NotNil(t, runsShowCmd.Args)
}

func TestAdminsCommand_Flags(t *testing.T) {
	assert.NotNil(t, adminsListCmd.Flags().Lookup("exclude-stores"))
	assert.NotNil(t, adminsFindCmd.Flags().Lookup("email"))
	assert.NotNil(t, phantomsLaunchCmd.Flags().Lookup("name"))
}
