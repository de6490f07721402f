package cli

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

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
	reconstructIn     string
	reconstructSealed []string
)

// reconstructCmd recovers a secret from k shares.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var reconstructCmd = &cobra.Command{
	Use:   "reconstruct <k>",
	Short: "Recover a secret from k shares",
	Long: `Recover a secret from k shares by Lagrange interpolation at zero.

Shares are read one per line as "<index> <value>" from stdin or --in FILE, in
any order. Blank lines and text after "#" are ignored, and reading stops after
k shares. The JSON document printed by 'quorum generate -o json' is accepted
as well.

With --sealed the shares come from passphrase-encrypted share files instead.
The passphrase is read from QUORUM_PASSPHRASE or prompted for.

k must match the threshold the shares were generated with. Fewer shares,
shares from different runs, or altered shares yield a wrong secret without
any error.`,
	Example: `  quorum generate AB 5 3 -o text | tail -3 | quorum reconstruct 3
  quorum reconstruct 3 --in shares.txt
  quorum reconstruct 2 --sealed vault/share-1.age --sealed vault/share-3.age`,
	GroupID: groupSharing,
	Args:    cobra.ExactArgs(1),
	RunE:    runReconstruct,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(reconstructCmd)

	reconstructCmd.Flags().StringVar(&reconstructIn, "in", "", "read shares from this file instead of stdin")
	reconstructCmd.Flags().StringArrayVar(&reconstructSealed, "sealed", nil, "sealed share file to read (repeatable)")
	reconstructCmd.MarkFlagsMutuallyExclusive("in", "sealed")
}

type reconstructResponse struct {
	Secret string `json:"secret"`
	Hex    string `json:"hex"`
	Value  uint64 `json:"value"`
}

func runReconstruct(cmd *cobra.Command, args []string) error {
	cc := GetCmdContext(cmd)

	k, err := parseCount("k", args[0])
	if err != nil {
		return err
	}

	var shares []shamir.Share
	if len(reconstructSealed) > 0 {
		shares, err = readSealedShares(cmd, reconstructSealed, k)
	} else {
		shares, err = readTextShares(cmd, k)
	}
	if err != nil {
		return err
	}

	value, err := shamir.Interpolate(shares)
	if err != nil {
		return shareError(err)
	}
	secret := shamir.Decode(value)
	defer quorumcrypto.Zero(secret)

	cc.Logger.InfoAttrs("secret reconstructed",
		slog.Int("k", k),
		slog.Bool("sealed", len(reconstructSealed) > 0),
	)

	w := cmd.OutOrStdout()
	if wantsJSON(cc.Formatter) {
		return writeJSON(w, reconstructResponse{
			Secret: string(secret),
			Hex:    hex.EncodeToString(secret),
			Value:  value,
		})
	}

	out(w, "Reconstructed secret: %s\n", secret)
	return nil
}

// readTextShares reads k shares from --in or stdin. An interactive
// terminal is read line by line so input ends after the k-th share.
func readTextShares(cmd *cobra.Command, k int) ([]shamir.Share, error) {
	if reconstructIn != "" {
		data, err := fileutil.ReadLimited(reconstructIn, maxShareInput)
		if err != nil {
			return nil, quorumerr.WithDetails(shareError(err), map[string]string{"file": reconstructIn})
		}
		return parseShareDocument(cmd.ErrOrStderr(), reconstructIn, data, k)
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && output.IsTerminal(f) {
		out(cmd.ErrOrStderr(), "Enter %d shares, one \"<index> <value>\" per line:\n", k)
		shares, err := sharefile.Parse(in, k)
		return shares, shareError(err)
	}

	data, err := fileutil.ReadAllLimited(in, maxShareInput)
	if err != nil {
		return nil, shareError(err)
	}
	return parseShareDocument(cmd.ErrOrStderr(), "stdin", data, k)
}

// parseShareDocument accepts share text or a generate JSON document.
// Warnings about the document go to w.
func parseShareDocument(w io.Writer, source string, data []byte, k int) ([]shamir.Share, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return parseSharesJSON(w, source, trimmed, k)
	}

	shares, err := sharefile.Parse(bytes.NewReader(data), k)
	return shares, shareError(err)
}

func parseSharesJSON(w io.Writer, source string, data []byte, k int) ([]shamir.Share, error) {
	var doc generateResponse
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, shareError(fmt.Errorf("%w: %w", sharefile.ErrMalformedShareInput, err))
	}
	if doc.Modulus != 0 && doc.Modulus != shamir.Prime {
		return nil, shareError(fmt.Errorf("%w: modulus %d", sharefile.ErrModulusMismatch, doc.Modulus))
	}
	if len(doc.Shares) < k {
		return nil, shareError(fmt.Errorf("%w: expected %d shares, got %d",
			sharefile.ErrMalformedShareInput, k, len(doc.Shares)))
	}
	if doc.Threshold != 0 && doc.Threshold != k {
		output.Warnf(w, "%s was generated with threshold %d, not %d", source, doc.Threshold, k)
	}
	return fromShareJSON(doc.Shares[:k]), nil
}

// readSealedShares decrypts the first k sealed files with one passphrase.
func readSealedShares(cmd *cobra.Command, paths []string, k int) ([]shamir.Share, error) {
	if len(paths) < k {
		return nil, quorumerr.WithSuggestion(
			quorumerr.WithDetails(quorumerr.ErrMalformedShareInput, map[string]string{
				"k":     strconv.Itoa(k),
				"files": strconv.Itoa(len(paths)),
			}),
			"pass at least k --sealed files",
		)
	}

	passphrase, err := readPassphrase(false)
	if err != nil {
		return nil, err
	}
	defer quorumcrypto.Zero(passphrase)

	shares := make([]shamir.Share, 0, k)
	var first sharefile.Envelope
	for i, path := range paths[:k] {
		env, err := sharefile.ReadSealed(path, passphrase)
		if err != nil {
			return nil, quorumerr.WithDetails(shareError(err), map[string]string{"file": path})
		}
		if i == 0 {
			first = env
		}
		warnEnvelope(cmd.ErrOrStderr(), path, env, first, k)
		shares = append(shares, env.Share())
	}
	return shares, nil
}

// warnEnvelope flags share files that cannot combine into the right secret.
func warnEnvelope(w io.Writer, path string, env, first sharefile.Envelope, k int) {
	if int(env.Threshold) != k {
		output.Warnf(w, "%s was generated with threshold %d, not %d", path, env.Threshold, k)
	}
	if env.RunID != first.RunID {
		output.Warnf(w, "%s belongs to a different generation run", path)
	}
}
