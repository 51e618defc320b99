package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpellecer/quetzal/internal/encoding"
)

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	// Valid UTF-8 with Spanish characters should pass through unchanged.
	input := "Fecha,Descripción,Monto\n01-10,DEPÓSITO EN AGENCIA,1500.00\n"
	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_Latin1(t *testing.T) {
	// Windows-1252 encoded "Descripción\n".
	// In Windows-1252: ó = 0xF3
	latin1Bytes := []byte{
		'D', 'e', 's', 'c', 'r', 'i', 'p', 'c', 'i', 0xF3, 'n', '\n',
	}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Descripción\n", string(got))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	// UTF-8 BOM (0xEF 0xBB 0xBF) should be stripped.
	bom := []byte{0xEF, 0xBB, 0xBF}
	content := []byte("Descripción,Monto\n")
	input := append(bom, content...)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Descripción,Monto\n", string(got))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	// UTF-16 LE BOM followed by "Q.50" in little-endian code units.
	input := []byte{0xFF, 0xFE, 'Q', 0x00, '.', 0x00, '5', 0x00, '0', 0x00}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Q.50", string(got))
}
