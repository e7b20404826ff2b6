package xarray

import (
	"bytes"
	"testing"

	"github.com/JaneliaSciComp/xarray-ome-ngff/ngff"
	"github.com/JaneliaSciComp/xarray-ome-ngff/storage"
)

func makeTestArray(t *testing.T, store storage.KeyValue, path string) (*storage.Array, []byte) {
	meta := storage.ArrayMeta{
		Shape:  []int{2, 3},
		Chunks: []int{2, 3},
		DType:  "<u1",
	}
	array, err := storage.CreateArray(store, path, meta)
	if err != nil {
		t.Fatalf("CreateArray: %v\n", err)
	}
	data := []byte{1, 2, 3, 4, 5, 6}
	if err := storage.WriteArrayData(array, data); err != nil {
		t.Fatalf("WriteArrayData: %v\n", err)
	}
	return array, data
}

func TestZarrArrayWrapper(t *testing.T) {
	store := storage.NewMemStore()
	array, _ := makeTestArray(t, store, "w/s0")
	wrapped, err := ZarrArrayWrapper{}.Wrap(array)
	if err != nil {
		t.Fatalf("Wrap: %v\n", err)
	}
	if wrapped != Arrayish(array) {
		t.Errorf("ZarrArrayWrapper should pass the handle through unchanged\n")
	}
}

func TestLazyArrayWrapper(t *testing.T) {
	store := storage.NewMemStore()
	array, data := makeTestArray(t, store, "w/s0")
	wrapped, err := LazyArrayWrapper{InlineArray: true}.Wrap(array)
	if err != nil {
		t.Fatalf("Wrap: %v\n", err)
	}
	lazy, ok := wrapped.(*LazyArray)
	if !ok {
		t.Fatalf("expected *LazyArray, got %T\n", wrapped)
	}
	if lazy.DType() != "<u1" {
		t.Errorf("lazy DType = %q, want %q\n", lazy.DType(), "<u1")
	}
	got, err := lazy.Materialize()
	if err != nil {
		t.Fatalf("Materialize: %v\n", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Materialize = %v, want %v\n", got, data)
	}

	// chunk rank mismatch is rejected at wrap time
	if _, err := (LazyArrayWrapper{Chunks: []int{2}}).Wrap(array); err == nil {
		t.Errorf("expected error for chunk rank mismatch\n")
	}
}

func TestLazyArrayInlineCaching(t *testing.T) {
	store := storage.NewMemStore()
	array, data := makeTestArray(t, store, "w/s0")

	inline, err := LazyArrayWrapper{InlineArray: true}.Wrap(array)
	if err != nil {
		t.Fatalf("Wrap: %v\n", err)
	}
	fresh, err := LazyArrayWrapper{InlineArray: false}.Wrap(array)
	if err != nil {
		t.Fatalf("Wrap: %v\n", err)
	}
	for _, lazy := range []Arrayish{inline, fresh} {
		got, err := lazy.(*LazyArray).Materialize()
		if err != nil {
			t.Fatalf("Materialize: %v\n", err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("Materialize = %v, want %v\n", got, data)
		}
	}

	// the stored bytes change; only the non-inlined proxy sees the update
	updated := []byte{9, 8, 7, 6, 5, 4}
	if err := storage.WriteArrayData(array, updated); err != nil {
		t.Fatalf("WriteArrayData: %v\n", err)
	}
	got, err := inline.(*LazyArray).Materialize()
	if err != nil {
		t.Fatalf("Materialize: %v\n", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("inlined proxy should return the cached bytes, got %v\n", got)
	}
	got, err = fresh.(*LazyArray).Materialize()
	if err != nil {
		t.Fatalf("Materialize: %v\n", err)
	}
	if !bytes.Equal(got, updated) {
		t.Errorf("non-inlined proxy should re-read storage, got %v\n", got)
	}
}

func TestResolveWrapper(t *testing.T) {
	w, err := ResolveWrapper(WrapperSpec{Name: "zarr_array"})
	if err != nil {
		t.Fatalf("ResolveWrapper(zarr_array): %v\n", err)
	}
	if _, ok := w.(ZarrArrayWrapper); !ok {
		t.Errorf("expected ZarrArrayWrapper, got %T\n", w)
	}

	config := ngff.NewConfig()
	config.Set("chunks", []interface{}{float64(2), float64(3)})
	config.Set("inline_array", false)
	config.Set("meta", "<f4")
	w, err = ResolveWrapper(WrapperSpec{Name: "lazy_array", Config: config})
	if err != nil {
		t.Fatalf("ResolveWrapper(lazy_array): %v\n", err)
	}
	lazy, ok := w.(LazyArrayWrapper)
	if !ok {
		t.Fatalf("expected LazyArrayWrapper, got %T\n", w)
	}
	if len(lazy.Chunks) != 2 || lazy.Chunks[0] != 2 || lazy.Chunks[1] != 3 {
		t.Errorf("lazy chunks = %v, want [2 3]\n", lazy.Chunks)
	}
	if lazy.InlineArray {
		t.Errorf("inline_array should be false\n")
	}
	if lazy.MetaDType != "<f4" {
		t.Errorf("meta dtype = %q, want %q\n", lazy.MetaDType, "<f4")
	}

	if _, err := ResolveWrapper(WrapperSpec{Name: "dask_array"}); err == nil {
		t.Errorf("expected error for unrecognized wrapper name\n")
	}
}

func TestNewDataArrayValidation(t *testing.T) {
	data := &MemArray{ArrayShape: []int{2, 3}, ArrayDType: "<f8"}
	coords := []Coordinate{
		NewCoordinate("y", []float64{0, 1}, nil),
		NewCoordinate("x", []float64{0, 1, 2}, nil),
	}
	arr, err := NewDataArray(data, []string{"y", "x"}, coords)
	if err != nil {
		t.Fatalf("NewDataArray: %v\n", err)
	}
	if arr.Rank() != 2 || arr.NumElements() != 6 {
		t.Errorf("rank/size = %d/%d, want 2/6\n", arr.Rank(), arr.NumElements())
	}
	if _, found := arr.Coord("x"); !found {
		t.Errorf("coordinate %q not found\n", "x")
	}

	if _, err := NewDataArray(data, []string{"y"}, nil); err == nil {
		t.Errorf("expected error for dims/shape mismatch\n")
	}
	badCoord := []Coordinate{NewCoordinate("z", []float64{0}, nil)}
	if _, err := NewDataArray(data, []string{"y", "x"}, badCoord); err == nil {
		t.Errorf("expected error for coordinate on unknown dimension\n")
	}
	shortCoord := []Coordinate{NewCoordinate("x", []float64{0}, nil)}
	if _, err := NewDataArray(data, []string{"y", "x"}, shortCoord); err == nil {
		t.Errorf("expected error for coordinate length mismatch\n")
	}
}
