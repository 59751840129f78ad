// Package filesystem provides implementations of the types.FS
// interface: the OS filesystem used at runtime and an afero-backed
// filesystem for tests.
package filesystem
