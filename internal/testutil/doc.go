// Package testutil provides shared test helpers for knowledge-index packages.
//
// RSAKey returns a 2048-bit key generated once per test binary. PKCS1PEM,
// PKCS8PEM and OpenSSHPEM encode it in each supported format.
//
// GitHub is an httptest server implementing the handful of REST endpoints the
// tool calls: the installation token exchange, the organization repository
// listing (paginated), contents read and write, and repository dispatch. It
// records every request so tests can assert that no network call was made,
// or that exactly one write happened.
//
// All helpers call t.Fatalf on failure rather than returning errors.
package testutil
