package images

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestNewStorage_Validation(t *testing.T) {
	_, err := NewStorage("")
	assert.Error(t, err)

	_, err = NewStorageWithSubdir(t.TempDir(), "")
	assert.Error(t, err)
}

func TestStorage_SaveAndGet(t *testing.T) {
	s := setupStorage(t)

	data := []byte("jpeg bytes")
	require.NoError(t, s.Save("b1", data))

	got, err := s.Get("b1")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestStorage_SaveValidation(t *testing.T) {
	s := setupStorage(t)

	assert.Error(t, s.Save("", []byte("x")))
	assert.Error(t, s.Save("b1", nil))
}

func TestStorage_Exists(t *testing.T) {
	s := setupStorage(t)

	assert.False(t, s.Exists("b1"))
	assert.False(t, s.Exists(""))

	require.NoError(t, s.Save("b1", []byte("x")))
	assert.True(t, s.Exists("b1"))
}

func TestStorage_Delete(t *testing.T) {
	s := setupStorage(t)

	require.NoError(t, s.Save("b1", []byte("x")))
	require.NoError(t, s.Delete("b1"))
	assert.False(t, s.Exists("b1"))

	// Deleting an absent image is not an error.
	require.NoError(t, s.Delete("b1"))
}

func TestStorage_Hash(t *testing.T) {
	s := setupStorage(t)

	require.NoError(t, s.Save("b1", []byte("stable content")))

	h1, err := s.Hash("b1")
	require.NoError(t, err)
	assert.Len(t, h1, 64)

	h2, err := s.Hash("b1")
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	_, err = s.Hash("missing")
	assert.Error(t, err)
}

func testImage(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestComputeBlurHashBytes(t *testing.T) {
	hash, err := ComputeBlurHashBytes(testImage(t, 200, 300))
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	// 4x3 components produce a fixed-length hash.
	assert.Len(t, hash, 28)
}

func TestComputeBlurHashBytes_SmallImagePassthrough(t *testing.T) {
	hash, err := ComputeBlurHashBytes(testImage(t, 32, 48))
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
}

func TestComputeBlurHashBytes_InvalidData(t *testing.T) {
	_, err := ComputeBlurHashBytes([]byte("not an image"))
	assert.Error(t, err)
}

func TestComputeBlurHash_File(t *testing.T) {
	s := setupStorage(t)
	require.NoError(t, s.Save("b1", testImage(t, 100, 150)))

	hash, err := ComputeBlurHash(s.Path("b1"))
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	_, err = ComputeBlurHash(s.Path("missing"))
	assert.Error(t, err)
}

func TestEncodeJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	data, err := EncodeJPEG(img, 80)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0xFF, 0xD8}))
}
