package filemgr

import (
	"fmt"
	"image"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"verso/utils"

	"github.com/disintegration/imaging"
)

const (
	uploadDir    = "static/productpic"
	thumbDir     = "static/productpic/thumb"
	maxCoverSize = 5 << 20 // 5 MB
	coverWidth   = 800
	thumbWidth   = 200
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

func safeFilename(productID, ext string) string {
	return fmt.Sprintf("%s-%s%s", productID, utils.GenerateRandomString(8), ext)
}

// SaveCoverImage stores a product cover, resized to a bounded width, and
// writes a thumbnail alongside. Returns the stored filename.
func SaveCoverImage(file multipart.File, header *multipart.FileHeader, productID string) (string, error) {
	if header.Size > maxCoverSize {
		return "", fmt.Errorf("image too large: %d bytes", header.Size)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported image type: %s", ext)
	}

	img, err := imaging.Decode(file)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		return "", err
	}

	filename := safeFilename(productID, ".jpg")

	resized := bound(img, coverWidth)
	if err := imaging.Save(resized, filepath.Join(uploadDir, filename)); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}

	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(thumbDir, filename)); err != nil {
		return "", fmt.Errorf("save thumbnail: %w", err)
	}

	return filename, nil
}

func bound(img image.Image, width int) image.Image {
	if img.Bounds().Dx() <= width {
		return img
	}
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}

// SaveFormImages saves every file under the multipart key and returns the
// stored filenames. Missing key is not an error; a bad file aborts the batch.
func SaveFormImages(form *multipart.Form, key, productID string) ([]string, error) {
	headers := form.File[key]
	if len(headers) == 0 {
		return nil, nil
	}

	var saved []string
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return saved, err
		}
		name, err := SaveCoverImage(file, header, productID)
		file.Close()
		if err != nil {
			return saved, err
		}
		saved = append(saved, name)
	}
	return saved, nil
}
