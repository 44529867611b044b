package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRead(t *testing.T) {
	path := writeFile(t, "apitoken", "  sk-secret\n\n", 0o600)

	value, err := Read(path)
	if err != nil {
		t.Fatalf("expected read to succeed, got %v", err)
	}
	if value != "sk-secret" {
		t.Errorf("expected trimmed value, got %q", value)
	}
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected read of a missing file to fail")
	}
}

func TestRead_WorldReadable(t *testing.T) {
	path := writeFile(t, "apitoken", "secret", 0o644)

	_, err := Read(path)
	if err == nil {
		t.Fatal("expected world-readable secret to be rejected")
	}
	if !strings.Contains(err.Error(), "world-readable") {
		t.Errorf("error should name the permission problem: %v", err)
	}
}

func TestRead_Empty(t *testing.T) {
	path := writeFile(t, "apitoken", "\n  \n", 0o600)

	_, err := Read(path)
	if err == nil {
		t.Fatal("expected empty secret to be rejected")
	}
}

func TestRead_Directory(t *testing.T) {
	_, err := Read(t.TempDir())
	if err == nil {
		t.Fatal("expected read of a directory to fail")
	}
}

func TestRead_TooLarge(t *testing.T) {
	path := writeFile(t, "apitoken", strings.Repeat("x", MaxFileSize+1), 0o600)

	_, err := Read(path)
	if err == nil {
		t.Fatal("expected oversized secret to be rejected")
	}
}

func TestReadPEM_AllowsWorldReadable(t *testing.T) {
	path := writeFile(t, "ca.crt", "-----BEGIN CERTIFICATE-----", 0o644)

	data, err := ReadPEM(path)
	if err != nil {
		t.Fatalf("expected PEM read to succeed, got %v", err)
	}
	if len(data) == 0 {
		t.Error("expected file contents")
	}
}

func TestReadFile(t *testing.T) {
	path := writeFile(t, "prompt.txt", "You are a helpful assistant.\n", 0o644)

	data, err := ReadFile(path)
	if err != nil {
		t.Fatalf("expected read to succeed, got %v", err)
	}
	if string(data) != "You are a helpful assistant.\n" {
		t.Errorf("expected verbatim contents, got %q", data)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected read of a missing file to fail")
	}
	if _, err := ReadFile(t.TempDir()); err == nil {
		t.Error("expected read of a directory to fail")
	}
}

func TestCheckExists(t *testing.T) {
	path := writeFile(t, "tls.key", "key", 0o600)

	if err := CheckExists(path); err != nil {
		t.Errorf("expected existing file to pass, got %v", err)
	}
	if err := CheckExists(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected missing file to fail")
	}
}
