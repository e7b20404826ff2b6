package xarray

import (
	"fmt"
	"sync"

	"github.com/JaneliaSciComp/xarray-ome-ngff/ngff"
	"github.com/JaneliaSciComp/xarray-ome-ngff/storage"
)

// ArrayWrapper turns a stored array handle into an application-facing
// array object.
type ArrayWrapper interface {
	Wrap(a *storage.Array) (Arrayish, error)
}

// ZarrArrayWrapper passes the stored array handle through unchanged.
type ZarrArrayWrapper struct{}

func (w ZarrArrayWrapper) Wrap(a *storage.Array) (Arrayish, error) {
	return a, nil
}

// LazyArrayWrapper wraps a stored array in a lazy proxy whose bytes are
// read from storage only on first materialization.  This is the in-process
// stand-in for wrapping in a lazy chunked array framework.
type LazyArrayWrapper struct {
	// Chunks overrides the stored chunking when materializing; nil keeps
	// the stored chunking.
	Chunks []int

	// InlineArray retains the handle and caches the first materialization
	// on the proxy.  When false, the array is re-opened and re-read from
	// storage on every Materialize call.
	InlineArray bool

	// MetaDType overrides the reported element dtype; empty keeps the
	// stored dtype.
	MetaDType string
}

func (w LazyArrayWrapper) Wrap(a *storage.Array) (Arrayish, error) {
	if w.Chunks != nil && len(w.Chunks) != len(a.Shape()) {
		return nil, fmt.Errorf("lazy wrapper chunks %v do not match array rank %d",
			w.Chunks, len(a.Shape()))
	}
	return &LazyArray{array: a, wrapper: w}, nil
}

// LazyArray defers chunk reads until Materialize is called.
type LazyArray struct {
	array   *storage.Array
	wrapper LazyArrayWrapper

	once sync.Once
	data []byte
	err  error
}

func (l *LazyArray) Shape() []int {
	return l.array.Shape()
}

func (l *LazyArray) DType() string {
	if l.wrapper.MetaDType != "" {
		return l.wrapper.MetaDType
	}
	return l.array.DType()
}

// Materialize reads the full array from storage.  With an inlined handle
// the read happens once and later calls return the same buffer; otherwise
// the array is re-opened and re-read on every call.
func (l *LazyArray) Materialize() ([]byte, error) {
	if !l.wrapper.InlineArray {
		a, err := storage.OpenArray(l.array.Store(), l.array.Path())
		if err != nil {
			return nil, err
		}
		return storage.ReadArrayData(a)
	}
	l.once.Do(func() {
		l.data, l.err = storage.ReadArrayData(l.array)
	})
	return l.data, l.err
}

// WrapperSpec is a declarative description of an ArrayWrapper, resolvable
// by name.
type WrapperSpec struct {
	Name   string      `json:"name"`
	Config ngff.Config `json:"config"`
}

// ResolveWrapper converts a WrapperSpec into the corresponding
// ArrayWrapper.
func ResolveWrapper(spec WrapperSpec) (ArrayWrapper, error) {
	switch spec.Name {
	case "zarr_array":
		return ZarrArrayWrapper{}, nil
	case "lazy_array":
		w := LazyArrayWrapper{InlineArray: true}
		if v, found := spec.Config["chunks"]; found {
			chunks, err := toIntSlice(v)
			if err != nil {
				return nil, fmt.Errorf("lazy wrapper %q config: %w", "chunks", err)
			}
			w.Chunks = chunks
		}
		if b, found, err := spec.Config.GetBool("inline_array"); err != nil {
			return nil, err
		} else if found {
			w.InlineArray = b
		}
		if s, found, err := spec.Config.GetString("meta"); err != nil {
			return nil, err
		} else if found {
			w.MetaDType = s
		}
		return w, nil
	default:
		return nil, fmt.Errorf("array wrapper spec %q is not recognized", spec.Name)
	}
}

func toIntSlice(v interface{}) ([]int, error) {
	switch vals := v.(type) {
	case []int:
		return vals, nil
	case []interface{}:
		out := make([]int, len(vals))
		for i, elem := range vals {
			switch n := elem.(type) {
			case int:
				out[i] = n
			case int64:
				out[i] = int(n)
			case float64:
				out[i] = int(n)
			default:
				return nil, fmt.Errorf("expected integer elements, got %v", elem)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected integer list, got %v", v)
	}
}
