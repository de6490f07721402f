package cli

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mrz1836/quorum/internal/fileutil"
	"github.com/mrz1836/quorum/internal/output"
	"github.com/mrz1836/quorum/internal/quorumcrypto"
	"github.com/mrz1836/quorum/internal/shamir"
	"github.com/mrz1836/quorum/internal/sharefile"
	quorumerr "github.com/mrz1836/quorum/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	batchStrict       bool
	batchFingerprints bool
)

// batchCmd splits every line of a file as its own secret.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var batchCmd = &cobra.Command{
	Use:   "batch <file> <n> <k>",
	Short: "Split each line of a file into its own set of shares",
	Long: `Split each non-empty line of a file into its own set of n shares with
threshold k. Every secret gets an independent random polynomial, and the sets
are generated concurrently.

Text output prints one block per secret, headed by a "# secret <line>" comment,
so each block can be fed to 'quorum reconstruct' unchanged.`,
	Example: `  quorum batch secrets.txt 5 3
  quorum batch secrets.txt 5 3 --strict -o json`,
	GroupID: groupSharing,
	Args:    cobra.ExactArgs(3),
	RunE:    runBatch,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().BoolVar(&batchStrict, "strict", false, "fail instead of warning when a secret does not survive encoding")
	batchCmd.Flags().BoolVar(&batchFingerprints, "fingerprints", false, "add a short share id to each share")
}

type batchSet struct {
	Line   int         `json:"line"`
	Shares []shareJSON `json:"shares"`
}

type batchResponse struct {
	RunID     string     `json:"run_id"`
	Threshold int        `json:"threshold"`
	Total     int        `json:"total"`
	Modulus   uint64     `json:"modulus"`
	Sets      []batchSet `json:"sets"`
	Warnings  []string   `json:"warnings,omitempty"`
}

// batchSecret is one secret and the file line it came from.
type batchSecret struct {
	line  int
	value []byte
}

func runBatch(cmd *cobra.Command, args []string) error {
	cc := GetCmdContext(cmd)
	path := args[0]

	n, k, err := parseThreshold(args[1], args[2])
	if err != nil {
		return err
	}

	data, err := fileutil.ReadLimited(path, maxBatchInput)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return quorumerr.WithDetails(quorumerr.FromCause(quorumerr.ErrNotFound, err), map[string]string{"file": path})
		}
		return quorumerr.WithDetails(shareError(err), map[string]string{"file": path})
	}
	buf := quorumcrypto.SecureBytesFrom(data, cc.Config.GetSecurity().MemoryLock)
	defer buf.Destroy()

	secrets := splitSecrets(buf.Bytes())
	if len(secrets) == 0 {
		return quorumerr.WithSuggestion(
			quorumerr.WithDetails(quorumerr.ErrEmptySecret, map[string]string{"file": path}),
			"put one secret per line",
		)
	}

	strict := strictMode(batchStrict, cc.Config)
	var warnings []string
	values := make([][]byte, len(secrets))
	for i, s := range secrets {
		warning, err := capacityWarning(s.value, strict)
		if err != nil {
			return quorumerr.WithDetails(err, map[string]string{"line": strconv.Itoa(s.line)})
		}
		if warning != "" {
			warnings = append(warnings, "line "+strconv.Itoa(s.line)+": "+warning)
		}
		values[i] = s.value
	}

	sets, err := shamir.GenerateBatch(commandContext(cmd), values, n, k, cc.NewSource)
	if err != nil {
		return shareError(err)
	}

	runID := uuid.New()
	cc.Logger.InfoAttrs("batch generated",
		slog.String("run_id", runID.String()),
		slog.Int("secrets", len(sets)),
		slog.Int("n", n),
		slog.Int("k", k),
	)

	fingerprints := fingerprintMode(batchFingerprints, cc.Config)
	w := cmd.OutOrStdout()

	if wantsJSON(cc.Formatter) {
		resp := batchResponse{
			RunID:     runID.String(),
			Threshold: k,
			Total:     n,
			Modulus:   shamir.Prime,
			Sets:      make([]batchSet, len(sets)),
			Warnings:  warnings,
		}
		for i, shares := range sets {
			resp.Sets[i] = batchSet{Line: secrets[i].line, Shares: toShareJSON(shares, fingerprints)}
		}
		return writeJSON(w, resp)
	}

	for _, warning := range warnings {
		output.Warn(cmd.ErrOrStderr(), warning)
	}
	for i, shares := range sets {
		if i > 0 {
			outln(w)
		}
		out(w, "# secret %d\n", secrets[i].line)
		if err := sharefile.Write(w, shares, fingerprints); err != nil {
			return err
		}
	}
	return nil
}

// splitSecrets returns the non-empty lines of data with 1-based line numbers.
// The values alias data.
func splitSecrets(data []byte) []batchSecret {
	var secrets []batchSecret
	for i, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSuffix(line, []byte("\r"))
		if len(line) == 0 {
			continue
		}
		secrets = append(secrets, batchSecret{line: i + 1, value: line})
	}
	return secrets
}
