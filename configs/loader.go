package configs

import (
	"fmt"
	"iter"
	"os"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Loader reads cue files lazily, once. Earlier files take precedence.
type Loader struct {
	load func() ([]file, error)
}

type file struct {
	path  string
	value cue.Value
}

func NewLoader(paths []string, schemaSrc string) Loader {
	return Loader{
		load: sync.OnceValues(func() ([]file, error) {
			// schema and files must share one runtime to unify
			ctx := cuecontext.New()

			var schema cue.Value
			if schemaSrc != "" {
				schema = ctx.CompileString("close({" + schemaSrc + "})")
				if err := schema.Err(); err != nil {
					return nil, fmt.Errorf("compile schema: %w", err)
				}
			}

			files := make([]file, 0, len(paths))
			for _, path := range paths {
				content, err := os.ReadFile(path)
				if err != nil {
					return nil, err
				}
				value := ctx.CompileBytes(content, cue.Filename(path))
				if err := value.Err(); err != nil {
					return nil, fmt.Errorf("compile %s: %w", path, err)
				}
				if schema.Exists() {
					if err := schema.Unify(value).Validate(cue.Concrete(true)); err != nil {
						return nil, fmt.Errorf("validate %s: %w", path, err)
					}
				}
				files = append(files, file{
					path:  path,
					value: value,
				})
			}

			return files, nil
		}),
	}
}

func (l Loader) lookup(path string) iter.Seq2[file, cue.Value] {
	return func(yield func(file, cue.Value) bool) {
		files, err := l.load()
		if err != nil {
			return
		}
		cuePath := cue.ParsePath(path)
		for _, f := range files {
			value := f.value.LookupPath(cuePath)
			if !value.Exists() {
				continue
			}
			if !yield(f, value) {
				return
			}
		}
	}
}

// IterCueValues yields the value at path in every file that defines it.
func (l Loader) IterCueValues(path string) iter.Seq2[*cue.Value, error] {
	return func(yield func(*cue.Value, error) bool) {
		if _, err := l.load(); err != nil {
			yield(nil, err)
			return
		}
		for _, value := range l.lookup(path) {
			if !yield(&value, nil) {
				return
			}
		}
	}
}

// AssignFirst decodes the first value found at path into target.
func (l Loader) AssignFirst(path string, target any) error {
	if _, err := l.load(); err != nil {
		return err
	}
	for f, value := range l.lookup(path) {
		if err := value.Decode(target); err != nil {
			return fmt.Errorf("decode %s in %s: %w", path, f.path, err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrValueNotFound, path)
}
