package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDatasyncCommand(t *testing.T) {
	cmd := newDatasyncCommand()

	assert.Equal(t, "datasync", cmd.Use)
	assert.True(t, cmd.HasSubCommands())
}

func TestNewDatasyncExportCommand(t *testing.T) {
	cmd := newDatasyncExportCommand()

	assert.Equal(t, "export", cmd.Use)
	assert.Equal(t, "Export the cards file into the database", cmd.Short)
	assert.NotNil(t, cmd.RunE)

	dryRunFlag := cmd.Flags().Lookup("dry-run")
	assert.NotNil(t, dryRunFlag)
	assert.Equal(t, "false", dryRunFlag.DefValue)

	migrateFlag := cmd.Flags().Lookup("migrate")
	assert.NotNil(t, migrateFlag)
	assert.Equal(t, "false", migrateFlag.DefValue)
}

func TestNewDatasyncImportCommand(t *testing.T) {
	cmd := newDatasyncImportCommand()

	assert.Equal(t, "import", cmd.Use)
	assert.Equal(t, "Replace the cards file with the cards in the database", cmd.Short)
	assert.NotNil(t, cmd.RunE)

	dryRunFlag := cmd.Flags().Lookup("dry-run")
	assert.NotNil(t, dryRunFlag)
	assert.Equal(t, "false", dryRunFlag.DefValue)
}

func TestDatasyncCommands_RunE_configError(t *testing.T) {
	for _, sub := range []string{"export", "import"} {
		t.Run(sub, func(t *testing.T) {
			_, err := runCommand(t, setupBrokenConfigFile(t), "", "datasync", sub)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "load config")
		})
	}
}
