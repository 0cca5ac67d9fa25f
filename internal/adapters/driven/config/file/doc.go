// Package file loads pipeline configuration from a TOML file.
// Built-in defaults cover a checkout of the corpus with no config
// file at all; file values overlay the defaults key by key.
package file
