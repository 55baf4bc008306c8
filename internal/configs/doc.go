// Package configs builds the run configuration for knowledge-index.
//
// Settings are layered, later layers winning:
//
//  1. Built-in defaults (Default)
//  2. An optional TOML file (--config or KNOWLEDGE_INDEX_CONFIG)
//  3. Environment variables (APP_ID, INSTALLATION_ID, PRIVATE_KEY, INDEX_ORG, ...)
//
// Key material and the dispatch token are accepted only from the environment
// and are never written back by Save.
//
// A sample file:
//
//	[app]
//	id = 123456
//	installation_id = 7890123
//	private_key_path = "~/.config/knowledge-index/app.pem"
//
//	[index]
//	organization = "9Mirrors-Lab"
//	repository = "knowledge-index"
//	path = "README.md"
//	prefix = "know-"
//	exclude = ["know-archive-*"]
//
// There is no package-level state. Load returns a *Config that callers pass
// to each component, and each command validates only what it needs
// (ValidateForToken, ValidateForSync, ValidateForDispatch).
package configs
