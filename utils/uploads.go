package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// Upload purposes; each gets its own subdirectory under the uploads root.
const (
	UploadDonationProofs        = "donation-proofs"
	UploadReceiverVerifications = "receiver-verifications"
	UploadProgressMedia         = "progress-media"
	UploadReceiverPhotos        = "receiver-photos"
	UploadDonorPhotos           = "donor-photos"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFilename keeps [A-Za-z0-9._-] and replaces everything else
// with an underscore.
func SanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(filepath.Base(name), "_")
}

// SaveUploadedFile writes a multipart file into <root>/<subdir> with a
// timestamp-prefixed sanitized name and returns the public path
// (/uploads/<subdir>/<name>).
func SaveUploadedFile(root, subdir string, fh *multipart.FileHeader) (string, error) {
	dir := filepath.Join(root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), SanitizeFilename(fh.Filename))

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	return PublicUploadPath(subdir, name), nil
}

// SaveUploadedFiles stores every file and returns the public paths.
func SaveUploadedFiles(root, subdir string, files []*multipart.FileHeader) ([]string, error) {
	paths := make([]string, 0, len(files))
	for _, fh := range files {
		p, err := SaveUploadedFile(root, subdir, fh)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func PublicUploadPath(subdir, filename string) string {
	if subdir == "" {
		return "/uploads/" + filename
	}
	return "/uploads/" + subdir + "/" + filename
}
