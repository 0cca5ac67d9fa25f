package domain

// SourceKind identifies the format a corpus file was authored in.
type SourceKind string

const (
	// KindHTML is a web article page.
	KindHTML SourceKind = "html"

	// KindText is pre-converted plain text, typically extracted from a
	// PDF upstream of this tool.
	KindText SourceKind = "text"
)

// IsValid reports whether the kind is one the pipeline understands.
func (k SourceKind) IsValid() bool {
	switch k {
	case KindHTML, KindText:
		return true
	}
	return false
}

// SourceFile is a classified corpus file discovered by the connector.
// The connector reads content as it walks, one file at a time.
type SourceFile struct {
	// Path is the absolute path on disk.
	Path string

	// RelPath is the path relative to the corpus root, slash-separated.
	RelPath string

	// Name is the base filename.
	Name string

	// Language is the ISO 639-1 code inferred from the path.
	// Empty when the path matches no configured language.
	Language string

	// Kind is the classified source format.
	// Invalid (empty) when the extension matches no known format.
	Kind SourceKind

	// Content is the file's bytes. Nil when the file was not read
	// because its kind or language is unknown.
	Content []byte
}

// Supported reports whether the file classified into a known kind and
// language, that is, whether the pipeline can process it.
func (f *SourceFile) Supported() bool {
	return f.Kind.IsValid() && f.Language != ""
}

// FileError ties a walk-time failure to the file it came from.
type FileError struct {
	// File is the classified file that failed.
	File SourceFile

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return e.File.RelPath + ": " + e.Err.Error()
}

// Unwrap returns the underlying failure.
func (e *FileError) Unwrap() error {
	return e.Err
}

// ChangeType represents the type of corpus change.
type ChangeType int

const (
	// ChangeCreated indicates a new file.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified file.
	ChangeUpdated

	// ChangeDeleted indicates a removed file.
	ChangeDeleted
)

// FileChange represents a change event from watch mode.
// The pipeline always rebuilds from a full walk, so no content
// travels with the event.
type FileChange struct {
	// Type is the kind of change.
	Type ChangeType

	// Path is the absolute path of the changed file.
	Path string
}
