package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/spf13/cobra"

	"github.com/mrz1836/quorum/internal/config"
	"github.com/mrz1836/quorum/internal/output"
	"github.com/mrz1836/quorum/internal/quorumcrypto"
	"github.com/mrz1836/quorum/internal/shamir"
)

const testPassphrase = "correct horse battery"

func TestMain(m *testing.M) {
	// Sealing tests would take seconds each at the default cost.
	quorumcrypto.ScryptWorkFactor = config.MinScryptWorkFactor
	os.Exit(m.Run())
}

// setupTestEnv points the globals at a fresh home directory with a text
// formatter and null logger, and restores them on cleanup.
// NOT parallel-safe: mutates package-level globals.
func setupTestEnv(t *testing.T) string {
	t.Helper()

	origCfg := cfg
	origLogger := logger
	origFormatter := formatter
	t.Cleanup(func() {
		cfg = origCfg
		logger = origLogger
		formatter = origFormatter
	})

	tmpDir := t.TempDir()

	testCfg := config.Defaults()
	testCfg.Home = tmpDir
	testCfg.Security.MemoryLock = false
	testCfg.Logging.Level = "off"
	cfg = testCfg
	logger = config.NullLogger()
	formatter = output.NewFormatter(output.FormatText, os.Stdout)

	t.Setenv(config.EnvPassphrase, "")
	return tmpDir
}

// newTestCmd returns a command wired to buffers, carrying a CommandContext
// built from the current globals with the given output format.
func newTestCmd(t *testing.T, format output.Format) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(bytes.NewReader(nil))

	SetCmdContext(cmd, NewCommandContext(cfg, logger, output.NewFormatter(format, &stdout)))
	return cmd, &stdout, &stderr
}

// withSource makes cmd use a fixed sequence of coefficients.
func withSource(cmd *cobra.Command, values ...uint64) {
	GetCmdContext(cmd).WithSource(func() shamir.RandomSource {
		return &sequenceSource{values: values}
	})
}

// sequenceSource returns its values in order, cycling.
type sequenceSource struct {
	values []uint64
	next   int
}

func (s *sequenceSource) Uniform(modulus uint64) (uint64, error) {
	v := s.values[s.next%len(s.values)] % modulus
	s.next++
	return v, nil
}

// withMockPrompts replaces prompt functions for testing and restores on cleanup.
func withMockPrompts(t *testing.T, passphrase string) {
	t.Helper()
	origPW := promptPasswordFn
	origNewPW := promptNewPassphraseFn
	t.Cleanup(func() {
		promptPasswordFn = origPW
		promptNewPassphraseFn = origNewPW
	})

	promptPasswordFn = func(_ string) ([]byte, error) {
		return []byte(passphrase), nil
	}
	promptNewPassphraseFn = func() ([]byte, error) {
		return []byte(passphrase), nil
	}
}

// resetGenerateFlags restores generate flags after a test sets them.
func resetGenerateFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		generateStrict = false
		generateFingerprints = false
		generateOutDir = ""
		generateSeal = false
		generateForce = false
		generateQR = false
	})
}

// resetReconstructFlags restores reconstruct flags after a test sets them.
func resetReconstructFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		reconstructIn = ""
		reconstructSealed = nil
	})
}
