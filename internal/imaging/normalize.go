package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// UnsupportedInputError reports bytes that cannot be normalized to a PNG
type UnsupportedInputError struct {
	Reason string
}

func (e *UnsupportedInputError) Error() string {
	return e.Reason
}

const pdfMagic = "%PDF"

// NormalizeToPNG converts supported input into a single canonical PNG:
// the first page of a PDF, or the image itself re-encoded. Content type is
// advisory; PDFs are also recognized by magic bytes, and unknown types are
// still tried as images before being rejected.
func NormalizeToPNG(data []byte, contentType string) ([]byte, error) {
	if contentType == "application/pdf" || bytes.HasPrefix(data, []byte(pdfMagic)) {
		return pdfFirstPageToPNG(data)
	}

	if strings.HasPrefix(contentType, "image/") {
		out, err := decodeToPNG(data)
		if err != nil {
			return nil, &UnsupportedInputError{Reason: fmt.Sprintf("failed to process image: %v", err)}
		}
		return out, nil
	}

	// Content type lied or was absent; try the registered decoders anyway
	out, err := decodeToPNG(data)
	if err != nil {
		return nil, &UnsupportedInputError{
			Reason: fmt.Sprintf("unsupported file type: %s (expected PDF or PNG/JPEG/GIF/WEBP/TIFF/BMP)", contentType),
		}
	}
	return out, nil
}

func pdfFirstPageToPNG(data []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, &UnsupportedInputError{Reason: fmt.Sprintf("failed to process PDF: %v", err)}
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, &UnsupportedInputError{Reason: "failed to process PDF: document has no pages"}
	}

	img, err := doc.Image(0)
	if err != nil {
		return nil, &UnsupportedInputError{Reason: fmt.Sprintf("failed to render PDF page: %v", err)}
	}

	return encodePNG(img)
}

func decodeToPNG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
