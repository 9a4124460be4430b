package index

import (
	"os"
	"path/filepath"

	"github.com/aursu/sshdconf/internal/config"
	"github.com/aursu/sshdconf/internal/errors"
	"github.com/aursu/sshdconf/internal/logging"
	"github.com/aursu/sshdconf/internal/sshparse"
)

// FileID identifies one file in the include graph. A file included from
// several points keeps a single FileID; only its directives appear once
// per inclusion point in the flattened order.
type FileID int

// File is one parsed file of the include graph.
type File struct {
	ID     FileID
	Path   string
	Text   string
	Tokens []sshparse.Token
}

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int {
	return len(f.Tokens)
}

// Directive is one occurrence of an option in the flattened read order.
type Directive struct {
	File  FileID
	Seq   int // position in OpenSSH read order across all files
	Line  int // 1-based line within its file
	Key   string
	Value string
	Scope Scope
	Raw   string

	ValStart int
	ValEnd   int
}

// MatchHeader records a Match line, used to locate block boundaries and
// insertion anchors. A "Match all" header is recorded with the global
// scope: it still terminates the preceding block.
type MatchHeader struct {
	File  FileID
	Seq   int
	Line  int
	Scope Scope
}

// Index is the flattened, ordered view of every directive across the
// include graph. It is rebuilt from the file system on every invocation;
// nothing is cached between runs.
type Index struct {
	Root       FileID
	Files      []*File
	Directives []Directive
	Headers    []MatchHeader

	pathID map[string]FileID
}

type builder struct {
	idx      *Index
	settings *config.Settings
	rootDir  string
	stack    []string // include chain for cycle detection
	seq      int
}

// Build parses the root file, expands every Include depth-first in
// declaration order, and returns the flattened index. A file reached
// through several inclusion points is parsed once but its directives
// are indexed at every point, matching sshd's positional re-evaluation.
func Build(rootPath string, settings *config.Settings) (*Index, error) {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, errors.IOFailure("resolve", rootPath, err)
	}

	b := &builder{
		idx: &Index{
			pathID: make(map[string]FileID),
		},
		settings: settings,
		rootDir:  filepath.Dir(abs),
	}

	rootID, err := b.loadFile(abs)
	if err != nil {
		return nil, err
	}
	b.idx.Root = rootID

	if err := b.expand(rootID, Scope{}); err != nil {
		return nil, err
	}

	logging.Debug("index built",
		"root", abs,
		"files", len(b.idx.Files),
		"directives", len(b.idx.Directives))
	return b.idx, nil
}

// NewEmpty returns an index for a root file that does not exist yet.
// Insertions into it create the file.
func NewEmpty(rootPath string) *Index {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		abs = rootPath
	}
	return &Index{
		Root:   0,
		Files:  []*File{{ID: 0, Path: abs}},
		pathID: map[string]FileID{abs: 0},
	}
}

func (b *builder) loadFile(path string) (FileID, error) {
	if id, ok := b.idx.pathID[path]; ok {
		return id, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.IncludeUnreadable(path, err)
	}
	tokens, err := sshparse.ParseText(path, string(data))
	if err != nil {
		return 0, err
	}

	id := FileID(len(b.idx.Files))
	b.idx.Files = append(b.idx.Files, &File{
		ID:     id,
		Path:   path,
		Text:   string(data),
		Tokens: tokens,
	})
	b.idx.pathID[path] = id
	return id, nil
}

// expand walks one file's tokens under the scope active at its inclusion
// point. A Match header rebinds the scope until the next header or the
// end of this file; the caller's scope is untouched.
func (b *builder) expand(id FileID, scope Scope) error {
	file := b.idx.Files[id]

	b.stack = append(b.stack, file.Path)
	defer func() { b.stack = b.stack[:len(b.stack)-1] }()

	for _, tok := range file.Tokens {
		switch tok.Kind {
		case sshparse.KindMatch:
			newScope, err := headerScope(tok.Args, tok.Value, b.settings)
			if err != nil {
				return errors.ParseFailure(file.Path, tok.Line, err)
			}
			scope = newScope
			b.idx.Headers = append(b.idx.Headers, MatchHeader{
				File:  id,
				Seq:   b.nextSeq(),
				Line:  tok.Line,
				Scope: scope,
			})

		case sshparse.KindInclude:
			targets, err := sshparse.IncludeTargets(tok, b.rootDir)
			if err != nil {
				return err
			}
			for _, target := range targets {
				abs, err := filepath.Abs(target)
				if err != nil {
					return errors.IOFailure("resolve", target, err)
				}
				if b.onStack(abs) {
					return errors.IncludeCycle(abs)
				}
				childID, err := b.loadFile(abs)
				if err != nil {
					return err
				}
				if err := b.expand(childID, scope); err != nil {
					return err
				}
			}

		case sshparse.KindDirective:
			b.idx.Directives = append(b.idx.Directives, Directive{
				File:     id,
				Seq:      b.nextSeq(),
				Line:     tok.Line,
				Key:      tok.Key,
				Value:    tok.Value,
				Scope:    scope,
				Raw:      tok.Raw,
				ValStart: tok.ValStart,
				ValEnd:   tok.ValEnd,
			})
		}
	}
	return nil
}

func (b *builder) nextSeq() int {
	s := b.seq
	b.seq++
	return s
}

func (b *builder) onStack(path string) bool {
	for _, p := range b.stack {
		if p == path {
			return true
		}
	}
	return false
}

// FileByID returns the file for an id.
func (x *Index) FileByID(id FileID) *File {
	return x.Files[id]
}

// RootFile returns the root configuration file.
func (x *Index) RootFile() *File {
	return x.Files[x.Root]
}

// Path returns the path of a file id.
func (x *Index) Path(id FileID) string {
	return x.Files[id].Path
}

// FirstMatchHeader returns the first header (in read order) opening the
// given Match scope, or nil when no such block exists anywhere.
func (x *Index) FirstMatchHeader(scope Scope) *MatchHeader {
	if scope.Global() {
		return nil
	}
	for i := range x.Headers {
		if x.Headers[i].Scope.Equal(scope) {
			return &x.Headers[i]
		}
	}
	return nil
}

// nextHeaderLine returns the smallest header line in file id strictly
// after the given line, or 0 when the block runs to end of file.
func (x *Index) nextHeaderLine(id FileID, after int) int {
	next := 0
	for _, h := range x.Headers {
		if h.File != id || h.Line <= after {
			continue
		}
		if next == 0 || h.Line < next {
			next = h.Line
		}
	}
	return next
}

// BlockLastDirectiveLine returns the line of the last directive inside
// the block opened by h, or 0 when the block body is empty.
func (x *Index) BlockLastDirectiveLine(h *MatchHeader) int {
	boundary := x.nextHeaderLine(h.File, h.Line)
	last := 0
	for _, d := range x.Directives {
		if d.File != h.File || !d.Scope.Equal(h.Scope) {
			continue
		}
		if d.Line <= h.Line {
			continue
		}
		if boundary != 0 && d.Line >= boundary {
			continue
		}
		if d.Line > last {
			last = d.Line
		}
	}
	return last
}

// LastScopeDirectiveLine returns the line of the last directive with the
// given scope in file id, or 0 when the file has none.
func (x *Index) LastScopeDirectiveLine(id FileID, scope Scope) int {
	last := 0
	for _, d := range x.Directives {
		if d.File == id && d.Scope.Equal(scope) && d.Line > last {
			last = d.Line
		}
	}
	return last
}

// FirstHeaderLine returns the line of the first Match header in file id,
// or 0 when the file has none.
func (x *Index) FirstHeaderLine(id FileID) int {
	first := 0
	for _, h := range x.Headers {
		if h.File != id {
			continue
		}
		if first == 0 || h.Line < first {
			first = h.Line
		}
	}
	return first
}
