package v04

import (
	"fmt"
	"path"

	"github.com/JaneliaSciComp/xarray-ome-ngff/ngff"
	"github.com/JaneliaSciComp/xarray-ome-ngff/storage"
	"github.com/JaneliaSciComp/xarray-ome-ngff/xarray"

	"github.com/dustin/go-humanize"
)

// CreateGroup materializes a multiscale group: it assembles the metadata
// from the given pyramid levels, persists it in a group node at groupPath,
// and creates one array node per level with matching shape and dtype.
// Levels whose DataArray holds in-memory bytes also have their data
// written.
func CreateGroup(store storage.KeyValue, groupPath string, levels []Level, opts Options) (*storage.Group, error) {
	timedLog := ngff.NewTimeLog()

	multi, err := MultiscaleMetadata(levels, "", "", nil, opts)
	if err != nil {
		return nil, err
	}
	group, err := storage.CreateGroup(store, groupPath)
	if err != nil {
		return nil, err
	}
	raw, err := SerializeGroupAttrs(&GroupAttrs{Multiscales: []Multiscale{*multi}})
	if err != nil {
		return nil, err
	}
	if err := group.WriteAttrs(raw); err != nil {
		return nil, err
	}

	var totalBytes uint64
	for _, level := range levels {
		if level.Array == nil || level.Array.Data == nil {
			return nil, fmt.Errorf("level %q has no array data handle", level.Path)
		}
		meta := storage.ArrayMeta{
			Shape:      level.Array.Shape(),
			Chunks:     chunksFor(level.Array.Shape(), opts.Chunks),
			DType:      level.Array.Data.DType(),
			Compressor: opts.Compressor,
		}
		arrayNode, err := storage.CreateArray(store, path.Join(groupPath, level.Path), meta)
		if err != nil {
			return nil, err
		}
		if mem, ok := level.Array.Data.(*xarray.MemArray); ok && mem.Bytes != nil {
			if err := storage.WriteArrayData(arrayNode, mem.Bytes); err != nil {
				return nil, err
			}
			totalBytes += uint64(len(mem.Bytes))
		}
	}
	timedLog.Infof("Created multiscale group %q with %d levels (%s written)",
		groupPath, len(levels), humanize.Bytes(totalBytes))
	return group, nil
}

// chunksFor returns the chunk shape for a created array: the configured
// chunking when set, else the whole array as a single chunk.
func chunksFor(shape, configured []int) []int {
	if len(configured) == len(shape) {
		return configured
	}
	chunks := make([]int, len(shape))
	copy(chunks, shape)
	for i, c := range chunks {
		if c < 1 {
			chunks[i] = 1
		}
	}
	return chunks
}

// ReadGroup reads every resolution level of a multiscale group as a
// labeled array, reconstructing coordinates by fusing the group's base
// transform chain with each dataset's chain.  The result maps dataset
// paths to arrays.
func ReadGroup(group *storage.Group, wrapper xarray.ArrayWrapper, multiscalesIndex int) (map[string]*xarray.DataArray, error) {
	raw, err := group.ReadAttrs()
	if err != nil {
		return nil, err
	}
	attrs, err := ParseGroupAttrs(raw)
	if err != nil {
		return nil, err
	}
	if multiscalesIndex < 0 || multiscalesIndex >= len(attrs.Multiscales) {
		return nil, fmt.Errorf("multiscales index %d out of range: document has %d entries",
			multiscalesIndex, len(attrs.Multiscales))
	}
	multi := attrs.Multiscales[multiscalesIndex]
	if wrapper == nil {
		wrapper = xarray.ZarrArrayWrapper{}
	}

	result := make(map[string]*xarray.DataArray, len(multi.Datasets))
	for _, dset := range multi.Datasets {
		arrayNode, err := storage.OpenArray(group.Store(), path.Join(group.Path(), dset.Path))
		if err != nil {
			return nil, err
		}
		labeled, err := labeledArray(multi, dset, arrayNode, wrapper)
		if err != nil {
			return nil, err
		}
		result[dset.Path] = labeled
	}
	return result, nil
}

// ReadArray reads one stored array as a labeled array.  The array node
// itself carries no multiscale metadata, so the hierarchy is walked upward,
// ancestor by ancestor, until a group holds a multiscales document naming
// this array among its datasets.  Ancestors with absent or unrelated
// metadata are skipped; exhausting the walk fails with
// ngff.ErrMetadataNotFound.
func ReadArray(array *storage.Array, wrapper xarray.ArrayWrapper) (*xarray.DataArray, error) {
	if wrapper == nil {
		wrapper = xarray.ZarrArrayWrapper{}
	}
	it := array.Ancestors()
	for {
		ancestor, ok := it.Next()
		if !ok {
			break
		}
		raw, err := ancestor.ReadAttrs()
		if err != nil || raw == nil {
			continue
		}
		attrs, err := ParseGroupAttrs(raw)
		if err != nil {
			ngff.Debugf("Skipping ancestor %q of array %q: %v\n", ancestor.Path(), array.Path(), err)
			continue
		}
		rel, ok := storage.RelativePath(ancestor.Path(), array.Path())
		if !ok {
			continue
		}
		for _, multi := range attrs.Multiscales {
			for _, dset := range multi.Datasets {
				if dset.Path != rel {
					continue
				}
				return labeledArray(multi, dset, array, wrapper)
			}
		}
	}
	return nil, fmt.Errorf("array %q: %w", array.Path(), ngff.ErrMetadataNotFound)
}

// labeledArray fuses the multiscale base chain with a dataset chain,
// rebuilds coordinates against the stored shape, and wraps the handle.
func labeledArray(multi Multiscale, dset Dataset, arrayNode *storage.Array, wrapper xarray.ArrayWrapper) (*xarray.DataArray, error) {
	scale, translation, err := FuseCoordinateTransforms(multi.CoordinateTransformations, dset.CoordinateTransformations)
	if err != nil {
		return nil, err
	}
	coords, err := CoordsFromTransforms(multi.Axes, []Transform{scale, translation}, arrayNode.Shape())
	if err != nil {
		return nil, err
	}
	wrapped, err := wrapper.Wrap(arrayNode)
	if err != nil {
		return nil, err
	}
	dims := make([]string, len(multi.Axes))
	for i, axis := range multi.Axes {
		dims[i] = axis.Name
	}
	return xarray.NewDataArray(wrapped, dims, coords)
}
