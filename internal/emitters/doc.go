// Package emitters provides the dataset artifact writers. Each emitter
// serializes the same final record set into one output format and can
// read its artifact back for integrity verification. Three formats are
// produced per run: dolma (gzip JSONL), compact (JSON array) and
// parallel (wide CSV, one row per aligned article).
package emitters
