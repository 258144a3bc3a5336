package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs a command with the given args and captures output.
func executeCommand(args ...string) (string, error) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := executeCommand("--help")
	require.NoError(t, err)
	assert.Contains(t, out, "gate")
}

func TestGlobalFlags(t *testing.T) {
	root := NewRootCmd()

	formatFlag := root.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag, "expected --format flag to exist")
	assert.Equal(t, "text", formatFlag.DefValue)

	serverFlag := root.PersistentFlags().Lookup("server")
	require.NotNil(t, serverFlag, "expected --server flag to exist")
	assert.Empty(t, serverFlag.DefValue)
}

func TestSubcommands(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"serve", "register", "checkin", "checkout", "visitors", "sweep", "token", "config", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	for _, path := range [][]string{{"token", "decode"}, {"token", "validate"}} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[1], cmd.Name())
	}
}

func TestVersion(t *testing.T) {
	out, err := executeCommand("version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestArgsValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"register without name", []string{"register"}},
		{"checkin without id", []string{"checkin"}},
		{"checkout without id", []string{"checkout"}},
		{"checkout with extra arg", []string{"checkout", "VIS1", "VIS2"}},
		{"visitors with arg", []string{"visitors", "all"}},
		{"token decode without token", []string{"token", "decode"}},
		{"token validate without token", []string{"token", "validate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestServeFlags(t *testing.T) {
	cmd, _, err := NewRootCmd().Find([]string{"serve"})
	require.NoError(t, err)

	for _, name := range []string{"port", "sweep-interval", "max-visit-hours", "timezone", "dev"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "8080", cmd.Flags().Lookup("port").DefValue)
	assert.Equal(t, "1m0s", cmd.Flags().Lookup("sweep-interval").DefValue)
}
