package export

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// maxImageDimension caps the pixel size of embedded signature images.
// Signatures are drawn on a canvas a few hundred points wide; anything
// larger only inflates the output file.
const maxImageDimension = 1200

// embedImage decodes a data URI signature image and appends it to the
// update as an RGB image XObject. Transparency is carried in a separate
// grayscale soft mask object. Returns the XObject's ID.
func embedImage(ctx *updateContext, dataURI string) (uint32, error) {
	img, err := decodeDataURI(dataURI)
	if err != nil {
		return 0, err
	}
	img = downscale(img)

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	rgb := make([]byte, 0, w*h*3)
	alpha := make([]byte, 0, w*h)
	opaque := true
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if a == 0 {
				rgb = append(rgb, 255, 255, 255)
			} else {
				// Undo premultiplication so color survives the mask split.
				rgb = append(rgb,
					uint8((r*0xffff/a)>>8),
					uint8((g*0xffff/a)>>8),
					uint8((b*0xffff/a)>>8))
			}
			alpha = append(alpha, uint8(a>>8))
			if a != 0xffff {
				opaque = false
			}
		}
	}

	smaskRef := ""
	if !opaque {
		maskID, err := addImageObject(ctx, alpha, w, h, "DeviceGray", "")
		if err != nil {
			return 0, err
		}
		smaskRef = fmt.Sprintf(" /SMask %d 0 R", maskID)
	}

	return addImageObject(ctx, rgb, w, h, "DeviceRGB", smaskRef)
}

func addImageObject(ctx *updateContext, samples []byte, w, h int, colorSpace, extra string) (uint32, error) {
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(samples); err != nil {
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}

	var body bytes.Buffer
	fmt.Fprintf(&body,
		"<< /Type /XObject /Subtype /Image /Width %d /Height %d /ColorSpace /%s /BitsPerComponent 8 /Filter /FlateDecode /Length %d%s >>\nstream\n",
		w, h, colorSpace, compressed.Len(), extra)
	body.Write(compressed.Bytes())
	body.WriteString("\nendstream")

	return ctx.addObject(body.Bytes())
}

// decodeDataURI parses "data:image/png;base64,...." and decodes the image.
// PNG and JPEG payloads are accepted.
func decodeDataURI(uri string) (image.Image, error) {
	comma := strings.IndexByte(uri, ',')
	if !strings.HasPrefix(uri, "data:") || comma < 0 {
		return nil, fmt.Errorf("image data is not a data URI")
	}
	meta := uri[len("data:"):comma]
	if !strings.Contains(meta, ";base64") {
		return nil, fmt.Errorf("image data URI is not base64 encoded")
	}

	raw, err := base64.StdEncoding.DecodeString(uri[comma+1:])
	if err != nil {
		return nil, fmt.Errorf("failed to decode image payload: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// downscale resizes images whose longest side exceeds maxImageDimension,
// preserving aspect ratio.
func downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxImageDimension {
		return img
	}

	scale := float64(maxImageDimension) / float64(longest)
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}
