// Package sqlite persists the build audit trail. Every run gets a row
// with its verdict and record count; every processed file gets an
// event row explaining what happened to it. The database lives under
// the output directory unless configured elsewhere.
package sqlite
