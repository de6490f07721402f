package output_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rsc.io/qr"

	"github.com/mrz1836/quorum/internal/output"
)

func TestDefaultQRConfig(t *testing.T) {
	t.Parallel()
	cfg := output.DefaultQRConfig()
	assert.Equal(t, qr.M, cfg.Level)
	assert.Equal(t, 1, cfg.QuietZone)
	assert.True(t, cfg.HalfBlocks)
	assert.False(t, cfg.Force)
}

func TestRenderQR_NonTerminal(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer

	assert.False(t, output.CanRenderQR(&buf))
	require.NoError(t, output.RenderQR(&buf, "1 16706", output.DefaultQRConfig()))
	assert.Empty(t, buf.String())

	require.NoError(t, output.RenderQR(nil, "1 16706", output.DefaultQRConfig()))
}

func TestRenderQR_Forced(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	cfg := output.DefaultQRConfig()
	cfg.Force = true

	require.NoError(t, output.RenderQR(&buf, "3 2147483646", cfg))
	assert.NotEmpty(t, buf.String())
	assert.Greater(t, bytes.Count(buf.Bytes(), []byte("\n")), 5)
}
