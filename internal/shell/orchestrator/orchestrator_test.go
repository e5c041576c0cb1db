package orchestrator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRequest targets a throwaway channel directory.
func testRequest(t *testing.T) Request {
	t.Helper()
	return Request{
		Identity:       "my-site",
		DescriptorPath: "/state/my-site/docker-compose.yml",
		ChannelDir:     t.TempDir(),
		Credentials:    map[string]string{"WORDPRESS_DB_PASSWORD": "pw"},
	}
}

func channelFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestInvoker_PassesProjectDescriptorAndChannel(t *testing.T) {
	// "echo" stands in for the orchestrator: its output shows the exact
	// invocation, and it always succeeds.
	inv := New("echo compose", nil)
	req := testRequest(t)
	var out bytes.Buffer

	require.NoError(t, inv.Up(context.Background(), req, &out))

	assert.Contains(t, out.String(), "compose -p my-site -f /state/my-site/docker-compose.yml --env-file "+filepath.Join(req.ChannelDir, ".env."))
	assert.Contains(t, out.String(), "up -d --remove-orphans")
}

func TestInvoker_ChannelPurgedAfterSuccess(t *testing.T) {
	inv := New("echo compose", nil)
	req := testRequest(t)

	require.NoError(t, inv.Stop(context.Background(), req, &bytes.Buffer{}))

	assert.Empty(t, channelFiles(t, req.ChannelDir), "channel file must not outlive the invocation")
}

func TestInvoker_ChannelPurgedAfterFailure(t *testing.T) {
	inv := New("false", nil)
	req := testRequest(t)

	err := inv.Up(context.Background(), req, &bytes.Buffer{})

	assert.Error(t, err)
	assert.Empty(t, channelFiles(t, req.ChannelDir), "channel file must be purged on orchestrator failure too")
}

func TestInvoker_ExecPassesCommandThrough(t *testing.T) {
	inv := New("echo compose", nil)
	req := testRequest(t)
	var out bytes.Buffer

	require.NoError(t, inv.Exec(context.Background(), req, "wordpress", []string{"wp", "cron", "event", "run", "--due-now"}, &out))

	assert.Contains(t, out.String(), "exec -T wordpress wp cron event run --due-now")
}

func TestInvoker_LogsFollowFlag(t *testing.T) {
	inv := New("echo compose", nil)
	req := testRequest(t)
	var out bytes.Buffer

	require.NoError(t, inv.Logs(context.Background(), req, "db", true, &out))

	assert.Contains(t, out.String(), "logs -f db")
}
