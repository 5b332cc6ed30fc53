package domain

// Target is a declared build unit together with its entrypoint path.
// Path is the value written in the manifest; ResolvedPath is the path that
// is probed on disk.
type Target struct {
	Name         string
	Kind         TargetKind
	Path         string
	ResolvedPath string
}

// Manifest is the set of targets declared by one manifest file.
type Manifest struct {
	Path    string
	Dir     string
	Package string
	Targets []Target
}

// ByKind returns the targets of the given kind in declaration order.
func (m Manifest) ByKind(k TargetKind) []Target {
	var out []Target
	for _, t := range m.Targets {
		if t.Kind == k {
			out = append(out, t)
		}
	}
	return out
}
