package ptyexec

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, c *Cmd) string {
	t.Helper()
	var sb strings.Builder
	buf := make([]byte, 1024)
	for {
		n, err := c.Read(buf)
		sb.Write(buf[:n])
		if err == io.EOF {
			return sb.String()
		}
		require.NoError(t, err)
	}
}

func TestEchoStdout(t *testing.T) {
	c, err := Start("sh", "echo hello", "", []string{"PATH=/usr/bin:/bin"})
	require.NoError(t, err)
	out := drain(t, c)
	code, err := c.Wait()
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "hello\r\n", out)
}

func TestStderrMerged(t *testing.T) {
	c, err := Start("sh", "echo hello 1>&2", "", []string{"PATH=/usr/bin:/bin"})
	require.NoError(t, err)
	out := drain(t, c)
	_, err = c.Wait()
	require.NoError(t, err)
	assert.Equal(t, "hello\r\n", out)
}

func TestExitCode(t *testing.T) {
	c, err := Start("sh", "exit 3", "", []string{"PATH=/usr/bin:/bin"})
	require.NoError(t, err)
	drain(t, c)
	code, err := c.Wait()
	require.NoError(t, err)
	assert.Equal(t, 3, code)
}

func TestWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	c, err := Start("sh", "pwd", dir, []string{"PATH=/usr/bin:/bin"})
	require.NoError(t, err)
	out := drain(t, c)
	_, err = c.Wait()
	require.NoError(t, err)
	assert.Contains(t, out, dir)
}

func TestRestrictedEnvironment(t *testing.T) {
	c, err := Start("sh", "echo \"v=$SECRET\"", "", []string{"PATH=/usr/bin:/bin"})
	require.NoError(t, err)
	out := drain(t, c)
	_, err = c.Wait()
	require.NoError(t, err)
	assert.Contains(t, out, "v=\r\n")
}

func TestSpawnFailure(t *testing.T) {
	_, err := Start("/no/such/shell", "true", "", nil)
	assert.Error(t, err)
}
