// Package scanner turns directories, jars and class files into raw symbol
// records.
package scanner

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/jvmsym/raw"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
)

func log() commonlog.Logger {
	return commonlog.GetLogger("jvmsym.scanner")
}

type Options struct {
	// Workers is the number of concurrent class parsers; values below one
	// mean runtime.NumCPU.
	Workers int
	Filter  *Filter
	Raw     raw.Options
	// Progress, when set, is called once per class entry after it has been
	// parsed, filtered or rejected. Calls come from several workers at once.
	Progress func(name string)
}

type Result struct {
	// Classes are sorted by FQN.
	Classes []*raw.Classfile
	// Errors holds one message per entry that could not be read or parsed.
	Errors []string
	// Skipped counts classes rejected by the filter and module-info entries.
	Skipped int
}

type Scanner struct {
	opts Options
}

func New(opts Options) *Scanner {
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}
	return &Scanner{opts: opts}
}

// entry is one class file's bytes, named by its location. Entries inside
// archives are named "outer.jar!/com/example/A.class".
type entry struct {
	name string
	data []byte
}

type scan struct {
	*Scanner
	mu  sync.Mutex
	res Result
}

func (s *scan) fail(name string, format string, args ...any) {
	msg := fmt.Sprintf("%s: %s", name, fmt.Sprintf(format, args...))
	log().Warning(msg)
	s.mu.Lock()
	s.res.Errors = append(s.res.Errors, msg)
	s.mu.Unlock()
}

func (s *scan) skip(name, reason string) {
	log().Debugf("skipping %s: %s", name, reason)
	s.mu.Lock()
	s.res.Skipped++
	s.mu.Unlock()
}

// Scan reads a directory tree, a .jar or .zip archive (nested archives
// included), or a single .class file. Unreadable entries are reported in
// Result.Errors; Scan itself fails only when root cannot be opened or ctx
// is done.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	sc := &scan{Scanner: s}
	g, ctx := errgroup.WithContext(ctx)
	entries := make(chan entry)

	g.Go(func() error {
		defer close(entries)
		switch {
		case info.IsDir():
			return sc.walkDir(ctx, root, entries)
		case isArchive(root):
			return sc.openArchive(ctx, root, entries)
		default:
			return sc.readFile(ctx, root, entries)
		}
	})
	for i := 0; i < s.opts.Workers; i++ {
		g.Go(func() error {
			for e := range entries {
				sc.parse(e)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &sc.res
	sort.SliceStable(res.Classes, func(i, j int) bool {
		return res.Classes[i].FQN() < res.Classes[j].FQN()
	})
	sort.Strings(res.Errors)
	log().Infof("scanned %s: %d classes, %d errors, %d skipped", root, len(res.Classes), len(res.Errors), res.Skipped)
	return res, nil
}

func (s *scan) parse(e entry) {
	if s.opts.Progress != nil {
		defer s.opts.Progress(e.name)
	}
	cls, err := raw.FromReader(bytes.NewReader(e.data), s.opts.Raw)
	if errors.Is(err, raw.ErrModuleInfo) {
		s.skip(e.name, "module descriptor")
		return
	}
	if err != nil {
		s.fail(e.name, "parse: %v", err)
		return
	}
	if !s.opts.Filter.Match(cls.Name.InternalName()) {
		s.skip(e.name, "filtered")
		return
	}
	s.mu.Lock()
	s.res.Classes = append(s.res.Classes, cls)
	s.mu.Unlock()
}

func send(ctx context.Context, out chan<- entry, e entry) error {
	select {
	case out <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *scan) walkDir(ctx context.Context, root string, out chan<- entry) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			s.fail(p, "walk: %v", err)
			return nil
		}
		if d.IsDir() {
			return ctx.Err()
		}
		switch {
		case isClassFile(p):
			return s.readFile(ctx, p, out)
		case isArchive(p):
			return s.openArchive(ctx, p, out)
		}
		return nil
	})
}

func (s *scan) readFile(ctx context.Context, p string, out chan<- entry) error {
	if path.Base(filepath.ToSlash(p)) == "module-info.class" {
		s.skip(p, "module descriptor")
		return nil
	}
	data, err := os.ReadFile(p)
	if err != nil {
		s.fail(p, "read: %v", err)
		return nil
	}
	return send(ctx, out, entry{name: p, data: data})
}

func (s *scan) openArchive(ctx context.Context, p string, out chan<- entry) error {
	zr, err := zip.OpenReader(p)
	if err != nil {
		s.fail(p, "open archive: %v", err)
		return nil
	}
	defer zr.Close()
	return s.walkArchive(ctx, p, &zr.Reader, out)
}

func (s *scan) walkArchive(ctx context.Context, name string, zr *zip.Reader, out chan<- entry) error {
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(f.Name, "META-INF/") {
			continue
		}
		entryName := name + "!/" + f.Name
		switch {
		case isClassFile(f.Name):
			if path.Base(f.Name) == "module-info.class" {
				s.skip(entryName, "module descriptor")
				continue
			}
			data, err := readZipFile(f)
			if err != nil {
				s.fail(entryName, "read: %v", err)
				continue
			}
			if err := send(ctx, out, entry{name: entryName, data: data}); err != nil {
				return err
			}
		case isArchive(f.Name):
			data, err := readZipFile(f)
			if err != nil {
				s.fail(entryName, "read: %v", err)
				continue
			}
			nested, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
			if err != nil {
				s.fail(entryName, "open archive: %v", err)
				continue
			}
			if err := s.walkArchive(ctx, entryName, nested, out); err != nil {
				return err
			}
		}
	}
	return nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func isClassFile(name string) bool {
	return strings.HasSuffix(name, ".class")
}

func isArchive(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".jar" || ext == ".zip"
}
