package runtime

import (
	"fmt"

	"gritql/engine-go/pkg/tree"
)

// FilePtr is an opaque handle into the file registry: a file id plus the
// revision produced by successive rewrites.
type FilePtr struct {
	File    uint16
	Version uint16
}

// LoadedFile is one revision of a file held in memory: its name, raw source
// and the parsed tree values borrow from.
type LoadedFile struct {
	Name     string
	Source   []byte
	Tree     *tree.Tree
	Language *tree.Language
}

// FileRegistry maps file pointers to in-memory file revisions. The registry
// owns the parsed trees; values only borrow them.
type FileRegistry struct {
	files [][]*LoadedFile
}

// NewFileRegistry returns an empty registry.
func NewFileRegistry() *FileRegistry {
	return &FileRegistry{}
}

// Load parses source with the given language and stores it as revision zero
// of a new file, returning its pointer.
func (r *FileRegistry) Load(name string, source []byte, lang *tree.Language) (FilePtr, error) {
	parsed, err := lang.Parse(source)
	if err != nil {
		return FilePtr{}, fmt.Errorf("registry: load %s: %w", name, err)
	}
	file := &LoadedFile{Name: name, Source: source, Tree: parsed, Language: lang}
	r.files = append(r.files, []*LoadedFile{file})
	return FilePtr{File: uint16(len(r.files) - 1)}, nil
}

// PushRevision stores a rewritten revision of an existing file and returns
// the pointer to it.
func (r *FileRegistry) PushRevision(ptr FilePtr, source []byte) (FilePtr, error) {
	file, err := r.lookup(ptr)
	if err != nil {
		return FilePtr{}, err
	}
	parsed, err := file.Language.Parse(source)
	if err != nil {
		return FilePtr{}, fmt.Errorf("registry: revise %s: %w", file.Name, err)
	}
	revision := &LoadedFile{Name: file.Name, Source: source, Tree: parsed, Language: file.Language}
	r.files[ptr.File] = append(r.files[ptr.File], revision)
	return FilePtr{File: ptr.File, Version: uint16(len(r.files[ptr.File]) - 1)}, nil
}

// File returns the revision a pointer refers to.
func (r *FileRegistry) File(ptr FilePtr) (*LoadedFile, error) {
	return r.lookup(ptr)
}

// Len counts registered files.
func (r *FileRegistry) Len() int {
	return len(r.files)
}

// NameValue exposes a file's name as a resolved value.
func (r *FileRegistry) NameValue(ptr FilePtr) (Value, error) {
	file, err := r.lookup(ptr)
	if err != nil {
		return nil, err
	}
	return FromString(file.Name), nil
}

// BodyValue exposes a file's body as a binding over its tree root.
func (r *FileRegistry) BodyValue(ptr FilePtr) (Value, error) {
	file, err := r.lookup(ptr)
	if err != nil {
		return nil, err
	}
	return FromTree(file.Tree), nil
}

func (r *FileRegistry) lookup(ptr FilePtr) (*LoadedFile, error) {
	if int(ptr.File) >= len(r.files) {
		return nil, fmt.Errorf("registry: no file %d", ptr.File)
	}
	revisions := r.files[ptr.File]
	if int(ptr.Version) >= len(revisions) {
		return nil, fmt.Errorf("registry: file %d has no revision %d", ptr.File, ptr.Version)
	}
	return revisions[ptr.Version], nil
}
