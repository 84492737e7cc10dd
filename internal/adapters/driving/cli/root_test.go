package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "docbase", rootCmd.Use)
}

func TestRootCmd_HasCommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"base", "document", "query", "settings", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "data-dir", "config-dir"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "flag %s", name)
	}
	assert.Equal(t, "v", rootCmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestExecute_BootstrapsWithFlags(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	SetServices(nil, nil)
	defer func() { dataDir, configDir = "", "" }()

	repo := newMockRepository()
	settings := newMockSettingsService()
	var got Options
	closed := false
	boot := func(_ context.Context, opts Options) (*Services, error) {
		got = opts
		return &Services{
			Repository: repo,
			Settings:   settings,
			Close:      func() error { closed = true; return nil },
		}, nil
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"base", "list", "--data-dir", "/tmp/d", "--config-dir", "/tmp/c"})

	err := Execute(context.Background(), boot)

	require.NoError(t, err)
	assert.Equal(t, Options{DataDir: "/tmp/d", ConfigDir: "/tmp/c"}, got)
	assert.True(t, closed)
	assert.Contains(t, buf.String(), "No document bases")
}

func TestExecute_BootstrapError(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	SetServices(nil, nil)

	boot := func(context.Context, Options) (*Services, error) {
		return nil, errors.New("disk on fire")
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"base", "list"})

	err := Execute(context.Background(), boot)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestCommands_WithoutServices(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	SetServices(nil, nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)

	rootCmd.SetArgs([]string{"base", "list"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repository not configured")

	rootCmd.SetArgs([]string{"settings", "show"})
	err = rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}
