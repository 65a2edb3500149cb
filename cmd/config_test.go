package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadRunConfig_ValidFile(t *testing.T) {
	path := writeTempConfig(t, `
server_uri: dns:///grpclb-test.example.com:443
test_case: slow_fallback_after_startup
unroute_cmd: sudo ip route add unreachable 10.0.0.0/8
blackhole_cmd: sudo iptables -A OUTPUT -d 10.0.0.0/8 -j DROP
credentials: insecure
`)

	cfg, err := LoadRunConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "dns:///grpclb-test.example.com:443", cfg.ServerURI)
	assert.Equal(t, "slow_fallback_after_startup", cfg.TestCase)
	assert.Equal(t, "sudo ip route add unreachable 10.0.0.0/8", cfg.UnrouteCmd)
	assert.Equal(t, "sudo iptables -A OUTPUT -d 10.0.0.0/8 -j DROP", cfg.BlackholeCmd)
	assert.Equal(t, "insecure", cfg.Credentials)
	assert.NoError(t, cfg.Validate())
}

func TestLoadRunConfig_UnknownField_Errors(t *testing.T) {
	path := writeTempConfig(t, `
server_uri: localhost:10000
unexpected_field: true
`)

	_, err := LoadRunConfig(path)
	assert.Error(t, err)
}

func TestLoadRunConfig_MissingFile_Errors(t *testing.T) {
	_, err := LoadRunConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestRunConfig_Validate(t *testing.T) {
	valid := RunConfig{
		ServerURI:    "localhost:10000",
		TestCase:     "fast_fallback_before_startup",
		UnrouteCmd:   "true",
		BlackholeCmd: "true",
	}

	tests := []struct {
		name   string
		mutate func(*RunConfig)
		ok     bool
	}{
		{"complete config", func(c *RunConfig) {}, true},
		{"missing server URI", func(c *RunConfig) { c.ServerURI = "" }, false},
		{"missing test case", func(c *RunConfig) { c.TestCase = "" }, false},
		{"missing unroute command", func(c *RunConfig) { c.UnrouteCmd = "" }, false},
		{"missing blackhole command", func(c *RunConfig) { c.BlackholeCmd = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestResolveConfig_FlagsTakePrecedenceOverFile(t *testing.T) {
	configPath = writeTempConfig(t, `
server_uri: file-host:443
test_case: slow_fallback_before_startup
unroute_cmd: file-unroute
blackhole_cmd: file-blackhole
`)
	t.Cleanup(func() { configPath = "" })

	// The user set --server-uri explicitly; everything else comes from the file.
	require.NoError(t, runCmd.Flags().Set("server-uri", "flag-host:443"))

	cfg, err := resolveConfig(runCmd.Flags())

	require.NoError(t, err)
	assert.Equal(t, "flag-host:443", cfg.ServerURI)
	assert.Equal(t, "slow_fallback_before_startup", cfg.TestCase)
	assert.Equal(t, "file-unroute", cfg.UnrouteCmd)
	assert.Equal(t, "file-blackhole", cfg.BlackholeCmd)
}
