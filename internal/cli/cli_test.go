package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildParser_RegistersAllCommands(t *testing.T) {
	parser, _, cmds := buildParser("test")

	expected := []string{
		"scan", "watch", "sources", "list", "edit", "trash", "restore",
		"purge", "category", "tag", "filter", "export", "import", "status",
	}
	for _, name := range expected {
		assert.NotNil(t, parser.Find(name), "command %s should be registered", name)
	}

	require.NotNil(t, cmds.List)
	require.NotNil(t, cmds.Status)
}

func TestRunWithArgs_Version(t *testing.T) {
	out := captureOutput(t, func() {
		err := RunWithArgs("1.2.3", []string{"--version"})
		require.NoError(t, err)
	})
	assert.Contains(t, out, "linktrack 1.2.3")
}

func TestRunWithArgs_UnknownCommand(t *testing.T) {
	err := RunWithArgs("test", []string{"definitely-not-a-command"})
	assert.Error(t, err)
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"30d", "720h0m0s", false},
		{"24h", "24h0m0s", false},
		{"2w", "336h0m0s", false},
		{"15m", "15m0s", false},
		{"", "", true},
		{"d", "", true},
		{"10x", "", true},
		{"abc", "", true},
	}
	for _, tt := range tests {
		got, err := parseDuration(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got.String(), "input %q", tt.in)
	}
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"1", "42", "7"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 42, 7}, ids)

	_, err = parseIDs(nil)
	assert.Error(t, err)

	_, err = parseIDs([]string{"1", "nope"})
	assert.Error(t, err)
}

func TestFormatTimeAgo(t *testing.T) {
	assert.Equal(t, "never", formatTimeAgo(time.Time{}))
	assert.Equal(t, "just now", formatTimeAgo(time.Now()))
	assert.Equal(t, "2h ago", formatTimeAgo(time.Now().Add(-2*time.Hour)))
	assert.Equal(t, "3d ago", formatTimeAgo(time.Now().Add(-72*time.Hour)))
}
