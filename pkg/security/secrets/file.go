// Package secrets reads file-backed secrets referenced from the
// configuration document: provider credentials, database passwords and key
// passphrases, typically mounted from Kubernetes Secrets.
//
// Reads are bounded and fail fast. A slow or hung filesystem must not stall
// service startup, so there are no retries, and a per-file size cap keeps a
// misconfigured path (say, a device file) from being slurped into memory.
package secrets

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// MaxFileSize is the per-file read cap. Real secrets are tiny; anything
// larger is a misconfigured path.
const MaxFileSize = 1 << 20 // 1 MiB

// Read returns the trimmed contents of a secret file. It fails when the
// path does not exist, is not a regular file, is world-readable, exceeds
// MaxFileSize, or holds nothing but whitespace.
func Read(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("secret file not found: %s", path)
		}
		return "", fmt.Errorf("failed to stat secret file %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("secret path is not a regular file: %s", path)
	}
	if info.Mode().Perm()&0o004 != 0 {
		return "", fmt.Errorf("insecure permissions on %s: %o (must not be world-readable)", path, info.Mode().Perm())
	}
	if info.Size() > MaxFileSize {
		return "", fmt.Errorf("secret file %s exceeds size limit (%d bytes)", path, MaxFileSize)
	}

	data, err := readBounded(path)
	if err != nil {
		return "", err
	}

	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", fmt.Errorf("secret file is empty: %s", path)
	}
	return value, nil
}

// ReadPEM returns the contents of a certificate or key file. Unlike Read it
// allows world-readable files (certificates are not confidential) and does
// not trim or reject empty content beyond the existence check.
func ReadPEM(path string) ([]byte, error) {
	return ReadFile(path)
}

// ReadFile reads a non-confidential file with the same size bound as
// secrets but without the permission checks. Used for configuration
// content referenced by path, such as a system prompt override.
func ReadFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", path)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("file %s exceeds size limit (%d bytes)", path, MaxFileSize)
	}
	return readBounded(path)
}

// CheckExists verifies that path names an existing readable entry, without
// reading its contents. Used for locations where only presence matters
// (index directories, embeddings models).
func CheckExists(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path not found: %s", path)
		}
		return fmt.Errorf("path not readable: %s: %w", path, err)
	}
	return f.Close()
}

// readBounded reads at most MaxFileSize+1 bytes so that growth between the
// stat and the read is still caught.
func readBounded(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("file %s exceeds size limit (%d bytes)", path, MaxFileSize)
	}
	return data, nil
}
