package source

type (
	// FileID uniquely identifies a source file within a FileSet. Everything
	// above the workspace layer refers to file content through this id,
	// never through a path. A rename is a delete plus a create of a new id.
	FileID uint32
	// SourceRootID identifies a group of files that may reference each
	// other by relative path.
	SourceRootID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Hash    uint64
	Flags   FileFlags
}
