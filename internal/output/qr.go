package output

import (
	"io"

	"github.com/mdp/qrterminal/v3"
	"rsc.io/qr"
)

// QRConfig configures QR code rendering of shares.
type QRConfig struct {
	// Level is the error correction level.
	Level qr.Level
	// QuietZone is the number of empty blocks around the code.
	QuietZone int
	// HalfBlocks uses half-height blocks for a more compact display.
	HalfBlocks bool
	// Force renders even when the writer is not a terminal, e.g. for printing.
	Force bool
}

// DefaultQRConfig returns defaults for terminal rendering. Medium error
// correction keeps a printed share scannable after some wear.
func DefaultQRConfig() QRConfig {
	return QRConfig{
		Level:      qr.M,
		QuietZone:  1,
		HalfBlocks: true,
	}
}

// CanRenderQR reports whether w is a terminal suitable for QR rendering.
func CanRenderQR(w io.Writer) bool {
	return IsTerminal(w)
}

// RenderQR renders data as a QR code. Without cfg.Force nothing is written
// unless w is a terminal.
func RenderQR(w io.Writer, data string, cfg QRConfig) error {
	if w == nil || (!cfg.Force && !CanRenderQR(w)) {
		return nil
	}

	qrterminal.GenerateWithConfig(data, qrterminal.Config{
		Level:          cfg.Level,
		Writer:         w,
		QuietZone:      cfg.QuietZone,
		HalfBlocks:     cfg.HalfBlocks,
		BlackChar:      qrterminal.BLACK_BLACK,
		WhiteChar:      qrterminal.WHITE_WHITE,
		WhiteBlackChar: qrterminal.WHITE_BLACK,
		BlackWhiteChar: qrterminal.BLACK_WHITE,
	})
	return nil
}
