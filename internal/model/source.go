package model

// Path represents a file system path.
type Path string

// File represents a seed source file.
type File struct {
	Path      Path   `json:"path" yaml:"path"`
	ShortPath Path   `json:"short_path,omitempty" yaml:"short_path,omitempty"`
	Hash      string `json:"hash" yaml:"hash"`
}
