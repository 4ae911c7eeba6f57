package assets

import (
	"fmt"
	"image"
	"os"

	// Decoders for the formats the viewer accepts.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// LoadImage decodes the image at path, reporting through the manager.
func LoadImage(m *Manager, path string) (image.Image, error) {
	m.ItemStart(path)

	file, err := os.Open(path)
	if err != nil {
		m.ItemError(path)
		return nil, fmt.Errorf("failed to open image file: %v", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		m.ItemError(path)
		return nil, fmt.Errorf("failed to decode image %s: %v", path, err)
	}

	m.ItemEnd(path)
	return img, nil
}
