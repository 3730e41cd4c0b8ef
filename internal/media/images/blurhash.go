package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"

	"github.com/bbrks/go-blurhash"
	_ "golang.org/x/image/webp"
)

const (
	// Blurhash components. 4x3 gives a good balance between hash size
	// and placeholder quality for portrait-oriented book covers.
	blurHashXComponents = 4
	blurHashYComponents = 3

	// Downscale target before encoding. Blurhash quality does not
	// improve past this size, but encoding cost does.
	blurHashMaxDimension = 64
)

// ComputeBlurHash generates a blurhash placeholder string from an
// image file on disk.
func ComputeBlurHash(imagePath string) (string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	return encodeBlurHash(img)
}

// ComputeBlurHashBytes generates a blurhash placeholder string from
// raw image bytes, visible while the real cover loads.
func ComputeBlurHashBytes(imgData []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	return encodeBlurHash(img)
}

func encodeBlurHash(img image.Image) (string, error) {
	small := resizeForBlurHash(img)

	hash, err := blurhash.Encode(blurHashXComponents, blurHashYComponents, small)
	if err != nil {
		return "", fmt.Errorf("failed to encode blurhash: %w", err)
	}

	return hash, nil
}

// resizeForBlurHash downscales an image with nearest-neighbor
// sampling. Fidelity is irrelevant, the result only feeds the hash.
func resizeForBlurHash(img image.Image) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= blurHashMaxDimension && height <= blurHashMaxDimension {
		return img
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = blurHashMaxDimension
		newHeight = height * blurHashMaxDimension / width
	} else {
		newHeight = blurHashMaxDimension
		newWidth = width * blurHashMaxDimension / height
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	small := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	for y := 0; y < newHeight; y++ {
		srcY := bounds.Min.Y + y*height/newHeight
		for x := 0; x < newWidth; x++ {
			srcX := bounds.Min.X + x*width/newWidth
			small.Set(x, y, img.At(srcX, srcY))
		}
	}

	return small
}

// EncodeJPEG re-encodes an image as JPEG at the given quality.
// Used to normalize downloaded covers before storage.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
