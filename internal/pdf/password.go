package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Credentials holds the passwords for an encrypted PDF.
type Credentials struct {
	UserPassword  string `json:"user_password,omitempty"`
	OwnerPassword string `json:"owner_password,omitempty"`
}

// IsEncrypted reports whether the PDF requires a password to open.
func IsEncrypted(filename string) (bool, error) {
	if _, err := api.PageCountFile(filename); err != nil {
		if IsPasswordError(err) {
			return true, nil
		}
		return false, fmt.Errorf("check encryption of %s: %w", filename, err)
	}
	return false, nil
}

// DecryptToTemp writes a decrypted copy of an encrypted PDF to a temp
// file and returns its path. For unencrypted input the original path
// comes back unchanged. The caller removes the temp file when done.
func DecryptToTemp(filename string, creds *Credentials) (string, error) {
	encrypted, err := IsEncrypted(filename)
	if err != nil {
		return "", err
	}
	if !encrypted {
		return filename, nil
	}

	conf := model.NewDefaultConfiguration()
	if creds != nil {
		conf.UserPW = creds.UserPassword
		conf.OwnerPW = creds.OwnerPassword
	}

	tempFile, err := os.CreateTemp("", "scrub-decrypted-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	_ = tempFile.Close()

	if err := api.DecryptFile(filename, tempFile.Name(), conf); err != nil {
		_ = os.Remove(tempFile.Name())
		return "", fmt.Errorf("decrypt %s: %w", filename, err)
	}
	return tempFile.Name(), nil
}

// CleanupTemp removes a temp file produced by DecryptToTemp. Paths that
// do not look like ours are left alone.
func CleanupTemp(path string) {
	if strings.Contains(path, "scrub-decrypted-") && strings.HasSuffix(path, ".pdf") {
		_ = os.Remove(path)
	}
}

// IsPasswordError reports whether an error stems from PDF encryption.
func IsPasswordError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, keyword := range []string{"password", "encrypted", "decrypt", "authentication"} {
		if strings.Contains(msg, keyword) {
			return true
		}
	}
	return false
}
