package cli

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/quorum/internal/config"
	"github.com/mrz1836/quorum/internal/output"
	quorumerr "github.com/mrz1836/quorum/pkg/errors"
)

func TestConfigKeys_Get(t *testing.T) {
	t.Parallel()

	testCfg := config.Defaults()
	testCfg.Home = "/test/home"
	testCfg.Shares.Strict = true
	testCfg.Shares.SealedDir = "/vault"
	testCfg.Security.ScryptWorkFactor = 20
	testCfg.Output.DefaultFormat = "json"
	testCfg.Logging.File = "/var/log/quorum.log"

	tests := []struct {
		path string
		want string
	}{
		{"home", "/test/home"},
		{"shares.strict", "true"},
		{"shares.fingerprints", "false"},
		{"shares.sealed_dir", "/vault"},
		{"security.memory_lock", "true"},
		{"security.scrypt_work_factor", "20"},
		{"output.default_format", "json"},
		{"output.color", "auto"},
		{"output.verbose", "false"},
		{"logging.level", "error"},
		{"logging.format", "text"},
		{"logging.file", "/var/log/quorum.log"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()
			key, err := lookupConfigKey(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, key.get(testCfg))
		})
	}

	assert.Len(t, sortedConfigKeys(), len(tests))
}

func TestConfigKeys_Set(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		value   string
		want    string
		wantErr bool
	}{
		{path: "shares.strict", value: "true", want: "true"},
		{path: "shares.fingerprints", value: "1", want: "true"},
		{path: "shares.strict", value: "maybe", wantErr: true},
		{path: "security.memory_lock", value: "false", want: "false"},
		{path: "security.scrypt_work_factor", value: "12", want: "12"},
		{path: "security.scrypt_work_factor", value: "lots", wantErr: true},
		{path: "output.default_format", value: "JSON", want: "json"},
		{path: "logging.level", value: "Debug", want: "debug"},
		{path: "logging.format", value: "JSON", want: "json"},
		{path: "home", value: "/elsewhere", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.path+"="+tc.value, func(t *testing.T) {
			t.Parallel()
			c := config.Defaults()
			key, err := lookupConfigKey(tc.path)
			require.NoError(t, err)

			err = key.set(c, tc.value)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, key.get(c))
		})
	}
}

func TestLookupConfigKey_Suggestions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path       string
		suggestion string
	}{
		{"shares.strikt", `did you mean "shares.strict"?`},
		{"output.verbos", `did you mean "output.verbose"?`},
		{"logging.lvl", `did you mean "logging.level"?`},
		{"SHARES.STRICTT", `did you mean "shares.strict"?`},
		{"networks.eth.rpc", "run 'quorum config show' to list keys"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()
			_, err := lookupConfigKey(tc.path)
			require.ErrorIs(t, err, quorumerr.ErrUnknownConfigKey)

			var qe *quorumerr.QuorumError
			require.ErrorAs(t, err, &qe)
			assert.Equal(t, tc.suggestion, qe.Suggestion)
			assert.Equal(t, tc.path, qe.Details["key"])
		})
	}
}

func TestLookupConfigKey_CaseInsensitive(t *testing.T) {
	t.Parallel()
	_, err := lookupConfigKey("Output.Default_Format")
	require.NoError(t, err)
}

func TestRunConfigInit(t *testing.T) {
	home := setupTestEnv(t)
	t.Cleanup(func() { configForce = false })

	cmd, stdout, _ := newTestCmd(t, output.FormatText)
	require.NoError(t, runConfigInit(cmd, nil))
	assert.Contains(t, stdout.String(), "Configuration created at "+config.Path(home))

	loaded, err := config.Load(config.Path(home))
	require.NoError(t, err)
	assert.Equal(t, home, loaded.Home)
	assert.Equal(t, config.DefaultScryptWorkFactor, loaded.Security.ScryptWorkFactor)

	// Second init needs --force.
	cmd, _, _ = newTestCmd(t, output.FormatText)
	require.Error(t, runConfigInit(cmd, nil))

	configForce = true
	cmd, stdout, _ = newTestCmd(t, output.FormatJSON)
	require.NoError(t, runConfigInit(cmd, nil))

	var resp map[string]string
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, "created", resp["status"])
}

func TestRunConfigShow(t *testing.T) {
	setupTestEnv(t)

	t.Run("text", func(t *testing.T) {
		cmd, stdout, _ := newTestCmd(t, output.FormatText)
		require.NoError(t, runConfigShow(cmd, nil))

		result := stdout.String()
		assert.Contains(t, result, "KEY")
		assert.Contains(t, result, "shares.strict")
		assert.Contains(t, result, "security.scrypt_work_factor")
	})

	t.Run("json", func(t *testing.T) {
		cmd, stdout, _ := newTestCmd(t, output.FormatJSON)
		require.NoError(t, runConfigShow(cmd, nil))

		var values map[string]string
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &values))
		assert.Equal(t, cfg.Home, values["home"])
		assert.Equal(t, "false", values["shares.strict"])
		assert.Len(t, values, len(configKeys))
	})
}

func TestRunConfigGet(t *testing.T) {
	setupTestEnv(t)

	cmd, stdout, _ := newTestCmd(t, output.FormatText)
	require.NoError(t, runConfigGet(cmd, []string{"home"}))
	assert.Equal(t, cfg.Home+"\n", stdout.String())

	cmd, stdout, _ = newTestCmd(t, output.FormatJSON)
	require.NoError(t, runConfigGet(cmd, []string{"logging.level"}))
	assert.JSONEq(t, `{"key":"logging.level","value":"off"}`, stdout.String())

	cmd, _, _ = newTestCmd(t, output.FormatText)
	err := runConfigGet(cmd, []string{"nonexistent"})
	require.ErrorIs(t, err, quorumerr.ErrUnknownConfigKey)
	assert.Equal(t, quorumerr.ExitInput, ExitCode(err))
}

func TestRunConfigSet(t *testing.T) {
	home := setupTestEnv(t)

	// Without a config file the defaults are written out.
	cmd, stdout, _ := newTestCmd(t, output.FormatText)
	require.NoError(t, runConfigSet(cmd, []string{"shares.strict", "true"}))
	assert.Contains(t, stdout.String(), "Set shares.strict = true")

	cmd, _, _ = newTestCmd(t, output.FormatText)
	require.NoError(t, runConfigSet(cmd, []string{"Logging.Level", "debug"}))

	loaded, err := config.Load(config.Path(home))
	require.NoError(t, err)
	assert.True(t, loaded.Shares.Strict)
	assert.Equal(t, "debug", loaded.Logging.Level)
	assert.Equal(t, home, loaded.Home)

	info, err := os.Stat(config.Path(home))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRunConfigSet_Rejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{
			name: "unknown key",
			args: []string{"shares.strikt", "true"},
			code: "UNKNOWN_CONFIG_KEY",
		},
		{
			name: "not a bool",
			args: []string{"shares.strict", "perhaps"},
			code: "INVALID_VALUE",
		},
		{
			name: "unknown format",
			args: []string{"output.default_format", "yaml"},
			code: "INVALID_VALUE",
		},
		{
			name: "work factor too small",
			args: []string{"security.scrypt_work_factor", "4"},
			code: "INVALID_VALUE",
		},
		{
			name: "unknown log level",
			args: []string{"logging.level", "warn"},
			code: "INVALID_VALUE",
		},
		{
			name: "unknown log format",
			args: []string{"logging.format", "logfmt"},
			code: "INVALID_VALUE",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			home := setupTestEnv(t)

			cmd, stdout, _ := newTestCmd(t, output.FormatText)
			err := runConfigSet(cmd, tc.args)
			require.Error(t, err)
			assert.Equal(t, tc.code, quorumerr.Code(err))
			assert.Equal(t, quorumerr.ExitInput, ExitCode(err))
			assert.Empty(t, stdout.String())

			_, statErr := os.Stat(config.Path(home))
			assert.True(t, os.IsNotExist(statErr), "rejected value must not be saved")
		})
	}
}

func TestRunConfigSet_IgnoresEnvironment(t *testing.T) {
	home := setupTestEnv(t)

	// The effective config says strict; the stored file must not.
	cfg.Shares.Strict = true

	cmd, _, _ := newTestCmd(t, output.FormatText)
	require.NoError(t, runConfigSet(cmd, []string{"shares.fingerprints", "true"}))

	loaded, err := config.Load(config.Path(home))
	require.NoError(t, err)
	assert.False(t, loaded.Shares.Strict)
	assert.True(t, loaded.Shares.Fingerprints)
}
