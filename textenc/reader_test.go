package textenc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/scry/core"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestReadPlainUTF8(t *testing.T) {
	path := writeTemp(t, "plain.txt", []byte("hello world\n"))
	text, enc, err := ReadFileSafe(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", text)
	assert.Equal(t, EncodingUTF8, enc)
}

func TestReadUTF8WithBOM(t *testing.T) {
	path := writeTemp(t, "bom.txt", append([]byte{0xEF, 0xBB, 0xBF}, []byte("content")...))
	text, enc, err := ReadFileSafe(path)
	require.NoError(t, err)
	assert.Equal(t, "content", text)
	assert.Equal(t, EncodingUTF8BOM, enc)
}

func TestBOMOnlyFile(t *testing.T) {
	path := writeTemp(t, "bomonly.txt", []byte{0xEF, 0xBB, 0xBF})
	text, enc, err := ReadFileSafe(path)
	require.NoError(t, err)
	assert.Equal(t, "", text)
	assert.Equal(t, EncodingUTF8BOM, enc)
}

func TestEmptyFile(t *testing.T) {
	path := writeTemp(t, "empty.txt", nil)
	text, enc, err := ReadFileSafe(path)
	require.NoError(t, err)
	assert.Equal(t, "", text)
	assert.Equal(t, EncodingUTF8, enc)
}

func TestUTF16LEWithBOM(t *testing.T) {
	// "hi" in UTF-16 LE with BOM.
	data := []byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00}
	path := writeTemp(t, "utf16le.txt", data)
	text, enc, err := ReadFileSafe(path)
	require.NoError(t, err)
	assert.Equal(t, "hi", text)
	assert.Equal(t, EncodingUTF16LE, enc)
}

func TestUTF16BEWithBOM(t *testing.T) {
	data := []byte{0xFE, 0xFF, 0x00, 'h', 0x00, 'i'}
	path := writeTemp(t, "utf16be.txt", data)
	text, enc, err := ReadFileSafe(path)
	require.NoError(t, err)
	assert.Equal(t, "hi", text)
	assert.Equal(t, EncodingUTF16BE, enc)
}

func TestShiftJIS(t *testing.T) {
	// "こんにちは" encoded as Shift-JIS.
	data := []byte{0x82, 0xB1, 0x82, 0xF1, 0x82, 0xC9, 0x82, 0xBF, 0x82, 0xCD}
	path := writeTemp(t, "sjis.txt", data)
	text, enc, err := ReadFileSafe(path)
	require.NoError(t, err)
	assert.Equal(t, "こんにちは", text)
	assert.Equal(t, EncodingShiftJIS, enc)
}

func TestMissingFile(t *testing.T) {
	_, _, err := ReadFileSafe(filepath.Join(t.TempDir(), "nope.txt"))
	assert.True(t, errors.Is(err, core.ErrFileNotFound))
}

func TestBOMlessUTF16Sniff(t *testing.T) {
	// "test" in BOM-less UTF-16 LE.
	data := []byte{'t', 0x00, 'e', 0x00, 's', 0x00, 't', 0x00}
	text, enc, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "test", text)
	assert.Equal(t, EncodingUTF16LE, enc)
}
