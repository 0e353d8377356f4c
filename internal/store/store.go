// Package store persists named parameter vectors in a folder.
//
// Each artifact is one file holding a vector in gonum's mat.VecDense binary
// encoding. A missing artifact is reported as not found rather than as an error.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"github.com/FlavioCFOliveira/NumNet/internal/tensor"
)

// ErrNotVector is returned when saving a tensor that is not a non-empty rank-1 tensor.
var ErrNotVector = errors.New("store: only non-empty vectors can be saved")

// Store is a folder of named artifacts.
type Store struct {
	dir string
}

// Open returns a store rooted at dir, creating the folder if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create folder: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's folder.
func (s *Store) Dir() string { return s.dir }

// Path returns the file path of the named artifact.
func (s *Store) Path(name string) string { return filepath.Join(s.dir, name) }

// Save writes t under name, replacing any existing artifact.
func (s *Store) Save(name string, t *tensor.Tensor) error {
	if t.Dims() != 1 || t.Len() == 0 {
		return fmt.Errorf("%w: %q has shape %v", ErrNotVector, name, t.Shape())
	}
	f, err := os.Create(s.Path(name))
	if err != nil {
		return fmt.Errorf("store: create %q: %w", name, err)
	}
	if _, err := mat.NewVecDense(t.Len(), t.Data()).MarshalBinaryTo(f); err != nil {
		f.Close()
		return fmt.Errorf("store: encode %q: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("store: close %q: %w", name, err)
	}
	return nil
}

// Load reads the named artifact. The boolean is false, with a nil error,
// when the artifact does not exist.
func (s *Store) Load(name string) (*tensor.Tensor, bool, error) {
	f, err := os.Open(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: open %q: %w", name, err)
	}
	defer f.Close()

	var v mat.VecDense
	if _, err := v.UnmarshalBinaryFrom(f); err != nil {
		return nil, false, fmt.Errorf("store: decode %q: %w", name, err)
	}
	return tensor.FromVector(mat.Col(nil, 0, &v)), true, nil
}
