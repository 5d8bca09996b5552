package service

import (
	"image"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
)

type mediaStore struct {
	dir string
}

func newMediaStore(dir string) *mediaStore {
	return &mediaStore{
		dir: dir,
	}
}

// Save validates the payload by decoding its header before anything touches
// disk; a corrupt or non-image upload returns ErrFileMustBeImage.
func (m *mediaStore) Save(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	_, format, err := image.DecodeConfig(file)
	if err != nil {
		return "", ErrFileMustBeImage
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + "." + format
	dst, err := os.Create(filepath.Join(m.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}

	return name, nil
}
