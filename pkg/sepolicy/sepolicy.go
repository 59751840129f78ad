// Package sepolicy is the security-label service: reading and writing
// SELinux file contexts so shadow copies stay label-identical to the
// entries they stand in for.
package sepolicy

// Labeler reads and writes the security label of a path. Operations
// never follow symlinks: a link carries its own label.
type Labeler interface {
	Get(path string) (string, error)
	Set(path, label string) error
}
