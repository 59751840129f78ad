package sepolicy

// DefaultLabel is what a Memory labeler reports for paths that were
// never labeled.
const DefaultLabel = "u:object_r:system_file:s0"

// Memory is an in-process Labeler for tests and hosts without SELinux.
type Memory struct {
	labels map[string]string
}

// NewMemory returns an empty in-memory labeler.
func NewMemory() *Memory {
	return &Memory{labels: make(map[string]string)}
}

func (m *Memory) Get(path string) (string, error) {
	if label, ok := m.labels[path]; ok {
		return label, nil
	}
	return DefaultLabel, nil
}

func (m *Memory) Set(path, label string) error {
	m.labels[path] = label
	return nil
}
