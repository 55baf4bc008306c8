// Package keys loads the GitHub App private key.
//
// A key can come from a file (PRIVATE_KEY_PATH), an inline environment value
// (PRIVATE_KEY) or a base64 environment value (PRIVATE_KEY_BASE64). Exactly
// one must be configured.
//
// # Validation
//
// Parse accepts a single PEM block and nothing else:
//
//   - RSA PRIVATE KEY: PKCS#1, parsed with crypto/x509
//   - PRIVATE KEY: PKCS#8, must contain an RSA key
//   - OPENSSH PRIVATE KEY: parsed with golang.org/x/crypto/ssh, must be unencrypted RSA
//
// Anything else fails with a sentinel from internal/errors and the parser's
// own error attached. Text without PEM framing is rejected, never wrapped in
// synthetic headers; a key that "parses" after such surgery is not the key
// GitHub holds the public half of.
//
// # Normalization
//
// Key.PKCS1PEM re-encodes any accepted key as PKCS#1. The signature produced
// from the normalized key is identical to one produced from the original.
//
// # Secret stores
//
// Some secret stores flatten multi-line values into one line with literal \n
// sequences. ReadMaterial undoes that for inline values only. Storing the key
// as PRIVATE_KEY_BASE64 (see Encode) avoids the problem entirely.
package keys
