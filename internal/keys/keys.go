package keys

import (
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	kerrors "github.com/9Mirrors-Lab/knowledge-index/internal/errors"

	"golang.org/x/crypto/ssh"
)

// PEM block types accepted by Parse.
const (
	pemTypePKCS1          = "RSA PRIVATE KEY"
	pemTypePKCS8          = "PRIVATE KEY"
	pemTypeEncryptedPKCS8 = "ENCRYPTED PRIVATE KEY"
	pemTypeOpenSSH        = "OPENSSH PRIVATE KEY"
)

// Format is the encoding a private key was supplied in.
type Format int

const (
	FormatUnknown Format = iota
	FormatPKCS1
	FormatPKCS8
	FormatOpenSSH
)

func (f Format) String() string {
	switch f {
	case FormatPKCS1:
		return "PKCS#1"
	case FormatPKCS8:
		return "PKCS#8"
	case FormatOpenSSH:
		return "OpenSSH"
	default:
		return "unknown"
	}
}

// Key is a parsed RSA private key ready for RS256 signing.
type Key struct {
	Private *rsa.PrivateKey
	Format  Format
}

// Bits returns the modulus size.
func (k *Key) Bits() int {
	return k.Private.N.BitLen()
}

// PKCS1PEM re-encodes the key as a PKCS#1 "RSA PRIVATE KEY" PEM block,
// whatever format it was supplied in.
func (k *Key) PKCS1PEM() []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  pemTypePKCS1,
		Bytes: x509.MarshalPKCS1PrivateKey(k.Private),
	})
}

// Load reads key material from src and parses it.
func Load(src Source) (*Key, error) {
	material, err := ReadMaterial(src)
	if err != nil {
		return nil, err
	}
	return Parse(material.Data)
}

// Parse decodes exactly one PEM block and parses it as an RSA private key.
// Material that is not a well-formed PEM block is rejected; no header is
// ever synthesized around it.
func Parse(data []byte) (*Key, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: key material is empty", kerrors.ErrNotPEM)
	}

	if !bytes.HasPrefix(trimmed, []byte("-----BEGIN ")) {
		return nil, notPEMError(trimmed)
	}

	block, rest := pem.Decode(trimmed)
	if block == nil {
		return nil, notPEMError(trimmed)
	}
	if len(bytes.TrimSpace(rest)) != 0 {
		return nil, fmt.Errorf("%w: unexpected data after the %q block", kerrors.ErrNotPEM, block.Type)
	}

	if procType := block.Headers["Proc-Type"]; strings.Contains(procType, "ENCRYPTED") {
		return nil, fmt.Errorf("%w: legacy encrypted PEM (%s)", kerrors.ErrPassphraseRequired, procType)
	}

	switch block.Type {
	case pemTypePKCS1:
		privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing PKCS#1 body: %w", kerrors.ErrInvalidPrivateKey, err)
		}
		return &Key{Private: privateKey, Format: FormatPKCS1}, nil

	case pemTypePKCS8:
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing PKCS#8 body: %w", kerrors.ErrInvalidPrivateKey, err)
		}
		privateKey, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: PKCS#8 key is %T, GitHub Apps require RSA", kerrors.ErrUnsupportedKeyType, parsed)
		}
		return &Key{Private: privateKey, Format: FormatPKCS8}, nil

	case pemTypeOpenSSH:
		privateKey, err := parseOpenSSHPrivateKey(trimmed)
		if err != nil {
			return nil, err
		}
		return &Key{Private: privateKey, Format: FormatOpenSSH}, nil

	case pemTypeEncryptedPKCS8:
		return nil, fmt.Errorf("%w: encrypted PKCS#8 keys are not supported", kerrors.ErrPassphraseRequired)

	default:
		return nil, fmt.Errorf("%w: unexpected PEM block type %q", kerrors.ErrInvalidPrivateKey, block.Type)
	}
}

// parseOpenSSHPrivateKey parses an unencrypted OpenSSH private key.
func parseOpenSSHPrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	parsed, err := ssh.ParseRawPrivateKey(pemBytes)
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if errors.As(err, &missing) {
			return nil, kerrors.ErrPassphraseRequired
		}
		return nil, fmt.Errorf("%w: parsing OpenSSH body: %w", kerrors.ErrInvalidPrivateKey, err)
	}

	privateKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: OpenSSH key is %T, GitHub Apps require RSA", kerrors.ErrUnsupportedKeyType, parsed)
	}
	return privateKey, nil
}

// notPEMError explains the most common ways a stored secret loses its framing.
func notPEMError(data []byte) error {
	switch {
	case !bytes.Contains(data, []byte("\n")) && bytes.Contains(data, []byte(`\n`)):
		return fmt.Errorf("%w: key contains literal \\n sequences instead of line breaks; store it with real line breaks or as PRIVATE_KEY_BASE64", kerrors.ErrNotPEM)
	case isBase64PEM(data):
		return fmt.Errorf("%w: key looks base64-encoded; supply it as PRIVATE_KEY_BASE64", kerrors.ErrNotPEM)
	case !bytes.HasPrefix(data, []byte("-----BEGIN ")) && bytes.Contains(data, []byte("-----BEGIN ")):
		return fmt.Errorf("%w: unexpected text before the PEM header", kerrors.ErrNotPEM)
	case bytes.Contains(data, []byte("-----BEGIN ")):
		return fmt.Errorf("%w: header found but the block is malformed (footer mismatch or invalid base64 body)", kerrors.ErrNotPEM)
	default:
		return fmt.Errorf("%w: no PEM header found", kerrors.ErrNotPEM)
	}
}
