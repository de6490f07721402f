package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mrz1836/quorum/internal/output"
	"github.com/mrz1836/quorum/internal/quorumcrypto"
	"github.com/mrz1836/quorum/internal/shamir"
	"github.com/mrz1836/quorum/internal/sharefile"
	quorumerr "github.com/mrz1836/quorum/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	generateStrict       bool
	generateFingerprints bool
	generateOutDir       string
	generateSeal         bool
	generateForce        bool
	generateQR           bool
)

// generateCmd splits a secret into shares.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var generateCmd = &cobra.Command{
	Use:   "generate <secret> <n> <k>",
	Short: "Split a secret into n shares with threshold k",
	Long: `Split a secret into n shares so that any k of them reconstruct it.

The secret is folded into one element of the field modulo 2147483647, which
holds at most 3 bytes. Longer secrets, and secrets starting with a zero byte,
produce a warning (or an error with --strict) because they do not survive the
round trip.

Shares are printed as "<index> <value>" lines for indices 1..n. With --out-dir
each share is instead sealed into its own passphrase-encrypted file
share-<index>.age. The passphrase is read from QUORUM_PASSPHRASE or prompted for.`,
	Example: `  quorum generate AB 5 3
  quorum generate AB 5 3 --fingerprints -o text
  quorum generate key 3 2 --out-dir ./vault
  quorum generate AB 3 2 --qr`,
	GroupID: groupSharing,
	Args:    cobra.ExactArgs(3),
	RunE:    runGenerate,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().BoolVar(&generateStrict, "strict", false, "fail instead of warning when the secret does not survive encoding")
	generateCmd.Flags().BoolVar(&generateFingerprints, "fingerprints", false, "add a short share id to each share")
	generateCmd.Flags().StringVar(&generateOutDir, "out-dir", "", "write sealed share files to this directory instead of printing")
	generateCmd.Flags().BoolVar(&generateSeal, "seal", false, "write sealed share files to shares.sealed_dir")
	generateCmd.Flags().BoolVar(&generateForce, "force", false, "overwrite existing sealed share files")
	generateCmd.Flags().BoolVar(&generateQR, "qr", false, "also render each share as a QR code on stderr")
}

type generateResponse struct {
	RunID     string       `json:"run_id"`
	Threshold int          `json:"threshold"`
	Total     int          `json:"total"`
	Modulus   uint64       `json:"modulus"`
	Shares    []shareJSON  `json:"shares,omitempty"`
	Files     []sealedJSON `json:"files,omitempty"`
	Warnings  []string     `json:"warnings,omitempty"`
}

type sealedJSON struct {
	Index uint64 `json:"index"`
	Path  string `json:"path"`
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cc := GetCmdContext(cmd)

	n, k, err := parseThreshold(args[1], args[2])
	if err != nil {
		return err
	}

	dir, err := sealedOutputDir(cc)
	if err != nil {
		return err
	}

	security := cc.Config.GetSecurity()
	secret := quorumcrypto.SecureBytesFrom([]byte(args[0]), security.MemoryLock)
	defer secret.Destroy()
	if security.MemoryLock && secret.Len() > 0 && !secret.IsLocked() {
		cc.Logger.DebugAttrs("memory lock unavailable, secret held in unlocked memory",
			slog.Int("bytes", secret.Len()),
		)
	}

	warning, err := capacityWarning(secret.Bytes(), strictMode(generateStrict, cc.Config))
	if err != nil {
		return err
	}
	var warnings []string
	if warning != "" {
		warnings = append(warnings, warning)
	}

	var passphrase []byte
	if dir != "" {
		if path, exists := sharefile.ExistingSealed(dir, n); exists && !generateForce {
			return quorumerr.WithSuggestion(
				quorumerr.WithDetails(quorumerr.ErrInvalidInput, map[string]string{"file": path}),
				"share files already exist; use --force to overwrite or choose another --out-dir",
			)
		}
		if passphrase, err = readPassphrase(true); err != nil {
			return err
		}
		defer quorumcrypto.Zero(passphrase)
	}

	shares, err := shamir.Generate(secret.Bytes(), n, k, cc.NewSource())
	if err != nil {
		return shareError(err)
	}

	runID := uuid.New()
	cc.Logger.InfoAttrs("shares generated",
		slog.String("run_id", runID.String()),
		slog.Int("n", n),
		slog.Int("k", k),
		slog.Bool("sealed", dir != ""),
	)

	resp := generateResponse{
		RunID:     runID.String(),
		Threshold: k,
		Total:     n,
		Modulus:   shamir.Prime,
		Warnings:  warnings,
	}

	if dir != "" {
		return writeSealedShares(cmd, cc, dir, resp, shares, passphrase)
	}
	return displayShares(cmd, cc, resp, shares)
}

// sealedOutputDir resolves where sealed files go, or "" to print shares.
func sealedOutputDir(cc *CommandContext) (string, error) {
	if generateOutDir != "" {
		return filepath.Clean(generateOutDir), nil
	}
	if !generateSeal {
		return "", nil
	}
	dir := cc.Config.GetShares().SealedDir
	if dir == "" {
		return "", quorumerr.WithSuggestion(
			quorumerr.ErrInvalidInput,
			"pass --out-dir or run 'quorum config set shares.sealed_dir <dir>'",
		)
	}
	return filepath.Clean(dir), nil
}

func displayShares(cmd *cobra.Command, cc *CommandContext, resp generateResponse, shares []shamir.Share) error {
	w := cmd.OutOrStdout()
	fingerprints := fingerprintMode(generateFingerprints, cc.Config)

	if wantsJSON(cc.Formatter) {
		resp.Shares = toShareJSON(shares, fingerprints)
		return writeJSON(w, resp)
	}

	for _, warning := range resp.Warnings {
		output.Warn(cmd.ErrOrStderr(), warning)
	}
	if err := sharefile.Write(w, shares, fingerprints); err != nil {
		return err
	}

	if generateQR {
		qrCfg := output.DefaultQRConfig()
		qrCfg.Force = true
		errW := cmd.ErrOrStderr()
		for _, s := range shares {
			outln(errW, "share", s.Index)
			if err := output.RenderQR(errW, sharefile.FormatLine(s), qrCfg); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeSealedShares(
	cmd *cobra.Command,
	cc *CommandContext,
	dir string,
	resp generateResponse,
	shares []shamir.Share,
	passphrase []byte,
) error {
	runID, err := uuid.Parse(resp.RunID)
	if err != nil {
		return err
	}

	envs := make([]sharefile.Envelope, len(shares))
	for i, s := range shares {
		envs[i] = sharefile.NewEnvelope(runID, resp.Threshold, resp.Total, s)
	}

	paths, err := sharefile.WriteSealedSet(dir, envs, passphrase)
	if err != nil {
		return quorumerr.Wrap(shareError(err), "writing sealed shares to %s", dir)
	}
	cc.Logger.InfoAttrs("sealed shares written",
		slog.String("run_id", resp.RunID),
		slog.String("dir", dir),
		slog.Int("files", len(paths)),
	)

	w := cmd.OutOrStdout()
	if wantsJSON(cc.Formatter) {
		resp.Files = make([]sealedJSON, len(paths))
		for i, path := range paths {
			resp.Files[i] = sealedJSON{Index: shares[i].Index, Path: path}
		}
		return writeJSON(w, resp)
	}

	for _, warning := range resp.Warnings {
		output.Warn(cmd.ErrOrStderr(), warning)
	}

	table := output.NewTable("INDEX", "FILE")
	table.AlignRight(0)
	for i, path := range paths {
		table.AddRow(fmt.Sprintf("%d", shares[i].Index), path)
	}
	if err := table.Render(w); err != nil {
		return err
	}
	output.Successf(w, "Sealed %d shares; any %d reconstruct the secret", len(paths), resp.Threshold)
	return nil
}
