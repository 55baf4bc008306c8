// Package appauth authenticates as a GitHub App installation.
//
// Authentication is two steps. SignAssertion produces a short-lived RS256
// JWT (the app assertion) with the app ID as issuer, issued 60 seconds in the
// past to absorb clock skew and expiring 10 minutes later. Issuer then
// exchanges the assertion for an installation access token with a single
// POST to /app/installations/{id}/access_tokens.
//
// Tokens are used for one run and never cached or refreshed. Failures are
// not retried.
package appauth
