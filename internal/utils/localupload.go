package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const localUploadDir = "./uploads"

func InitLocalStorage() error {
	for _, sub := range []string{"images", "files"} {
		if err := os.MkdirAll(filepath.Join(localUploadDir, sub), 0o755); err != nil {
			return err
		}
	}
	return nil
}

func UploadToLocal(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	folder := determineFolder(file.Header.Get("Content-Type"))
	filename := uuid.New().String() + filepath.Ext(file.Filename)
	dstPath := filepath.Join(localUploadDir, folder, filename)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return fmt.Sprintf("/uploads/%s/%s", folder, filename), nil
}

func determineFolder(contentType string) string {
	if strings.HasPrefix(contentType, "image/") {
		return "images"
	}
	return "files"
}

func DeleteFromLocal(fileURL string) error {
	rel := strings.TrimPrefix(fileURL, "/uploads/")
	if rel == fileURL || strings.Contains(rel, "..") {
		return fmt.Errorf("invalid local file path")
	}

	path := filepath.Join(localUploadDir, rel)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
