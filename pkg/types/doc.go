// Package types holds the shared data model for magicmount: the
// virtual tree Node merged from module content and the filesystem
// interface the scanner reads through.
package types
