package errors

import "errors"

// Configuration errors indicate missing or malformed settings.
var (
	// ErrMissingConfig indicates a required setting was not provided.
	ErrMissingConfig = errors.New("required configuration is missing")

	// ErrInvalidConfig indicates a setting was provided but could not be used.
	ErrInvalidConfig = errors.New("configuration is invalid")
)

// Key errors indicate the private key could not be located or used.
var (
	// ErrPrivateKeyNotFound indicates no key material could be read.
	ErrPrivateKeyNotFound = errors.New("private key not found")

	// ErrAmbiguousKeySource indicates more than one key location was configured.
	ErrAmbiguousKeySource = errors.New("more than one private key source configured")

	// ErrNotPEM indicates the key material is not a well-formed PEM block.
	ErrNotPEM = errors.New("private key is not a PEM block")

	// ErrInvalidPrivateKey indicates the private key is malformed.
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrUnsupportedKeyType indicates the key parsed but is not an RSA key.
	ErrUnsupportedKeyType = errors.New("unsupported private key type")

	// ErrPassphraseRequired indicates the key is encrypted.
	ErrPassphraseRequired = errors.New("private key is passphrase-protected")
)

// Token errors indicate the app could not authenticate.
var (
	// ErrSigningFailed indicates the JWT assertion could not be signed.
	ErrSigningFailed = errors.New("failed to sign app assertion")

	// ErrTokenExchange indicates the installation token request failed.
	ErrTokenExchange = errors.New("installation token exchange failed")
)

// Remote errors indicate a GitHub API call failed.
var (
	// ErrListRepositories indicates the organization listing failed.
	ErrListRepositories = errors.New("failed to list organization repositories")

	// ErrIndexRead indicates the stored index document could not be read.
	ErrIndexRead = errors.New("failed to read index document")

	// ErrIndexWrite indicates the index document could not be written.
	ErrIndexWrite = errors.New("failed to write index document")

	// ErrDispatchFailed indicates the repository dispatch event was rejected.
	ErrDispatchFailed = errors.New("repository dispatch failed")
)
