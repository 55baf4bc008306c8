package keys

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	kerrors "github.com/9Mirrors-Lab/knowledge-index/internal/errors"
)

// Source says where the private key comes from. Exactly one field must be set.
type Source struct {
	// Path is a PEM file on disk.
	Path string

	// Inline is PEM text provided through the environment.
	Inline string

	// Base64 is a standard base64 encoding of the PEM file.
	Base64 string
}

// Kind names the configured location: "file", "inline", "base64" or "" when unset.
func (s Source) Kind() string {
	switch {
	case s.Path != "":
		return "file"
	case s.Inline != "":
		return "inline"
	case s.Base64 != "":
		return "base64"
	default:
		return ""
	}
}

// String describes the source without revealing key material.
func (s Source) String() string {
	switch s.Kind() {
	case "file":
		return "file " + s.Path
	case "inline":
		return "inline PEM from the environment"
	case "base64":
		return "base64 PEM from the environment"
	default:
		return "no key source"
	}
}

func (s Source) count() int {
	n := 0
	for _, value := range []string{s.Path, s.Inline, s.Base64} {
		if value != "" {
			n++
		}
	}
	return n
}

// Material is raw key bytes together with a note of how they were read.
type Material struct {
	Data   []byte
	Origin string

	// Unescaped is set when literal \n sequences in an inline secret were
	// turned into line breaks.
	Unescaped bool
}

// ReadMaterial reads the key bytes from src.
//
// Inline secrets are the one place where formatting is repaired: a single-line
// value carrying literal \n sequences (a common artifact of secret stores) is
// unescaped. Nothing else is altered and no header is added.
func ReadMaterial(src Source) (*Material, error) {
	switch src.count() {
	case 0:
		return nil, fmt.Errorf("%w: set PRIVATE_KEY_PATH, PRIVATE_KEY or PRIVATE_KEY_BASE64", kerrors.ErrPrivateKeyNotFound)
	case 1:
	default:
		return nil, kerrors.ErrAmbiguousKeySource
	}

	switch src.Kind() {
	case "file":
		data, err := os.ReadFile(src.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", kerrors.ErrPrivateKeyNotFound, src.Path, err)
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, fmt.Errorf("%w: %s is empty", kerrors.ErrPrivateKeyNotFound, src.Path)
		}
		return &Material{Data: data, Origin: src.String()}, nil

	case "inline":
		value := src.Inline
		unescaped := false
		if !strings.Contains(value, "\n") && strings.Contains(value, `\n`) {
			value = strings.ReplaceAll(value, `\n`, "\n")
			unescaped = true
		}
		return &Material{Data: []byte(value), Origin: src.String(), Unescaped: unescaped}, nil

	default:
		data, err := decodeBase64(src.Base64)
		if err != nil {
			return nil, fmt.Errorf("%w: decoding PRIVATE_KEY_BASE64: %w", kerrors.ErrInvalidPrivateKey, err)
		}
		return &Material{Data: data, Origin: src.String()}, nil
	}
}

// Encode returns the base64 form of key material for storage as PRIVATE_KEY_BASE64.
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func decodeBase64(value string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(strings.Join(strings.Fields(value), ""))
}

// isBase64PEM reports whether data is base64 text that decodes to a PEM block.
func isBase64PEM(data []byte) bool {
	decoded, err := decodeBase64(string(data))
	if err != nil {
		return false
	}
	return bytes.HasPrefix(bytes.TrimSpace(decoded), []byte("-----BEGIN "))
}
