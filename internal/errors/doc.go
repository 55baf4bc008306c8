// Package errors provides typed error values for knowledge-index.
//
// Callers match these with errors.Is() instead of comparing strings. Internal
// packages wrap a sentinel together with the underlying library or HTTP error,
// so both the category and the real cause survive to the CLI layer.
//
// # Error Categories
//
//   - Configuration errors: ErrMissingConfig, ErrInvalidConfig
//   - Key errors: ErrPrivateKeyNotFound, ErrNotPEM, ErrInvalidPrivateKey, ...
//   - Token errors: ErrSigningFailed, ErrTokenExchange
//   - Remote errors: ErrListRepositories, ErrIndexRead, ErrIndexWrite, ErrDispatchFailed
//
// Key errors are always returned before any network call is made.
//
// # Usage
//
//	key, err := keys.Load(source)
//	if errors.Is(err, kerrors.ErrNotPEM) {
//	    // Tell the user how the secret was mangled.
//	}
//
// Wrap with context and keep the cause:
//
//	return fmt.Errorf("%w: parsing PKCS#8 body: %w", kerrors.ErrInvalidPrivateKey, err)
package errors
