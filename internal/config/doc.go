// Package config loads wikivec configuration in three layers:
// built-in defaults, then ~/.wikivec/config.toml, then environment
// variables (with .env autoloaded when present). Later layers win.
//
// The same TOML file backs the wikivec config command, which edits
// keys in place without disturbing unrelated entries.
package config
