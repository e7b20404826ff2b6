package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/JaneliaSciComp/xarray-ome-ngff/ngff"

	"github.com/blang/semver"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"
)

func init() {
	ver, err := semver.Make("0.1.0")
	if err != nil {
		panic(fmt.Sprintf("unable to make semver for blob engine: %v", err))
	}
	RegisterEngine(blobEngine{"blob", "Cloud bucket store via gocloud.dev", ver})
}

// --- Engine Implementation ------

type blobEngine struct {
	name   string
	desc   string
	semver semver.Version
}

func (e blobEngine) GetName() string {
	return e.name
}

func (e blobEngine) GetDescription() string {
	return e.desc
}

func (e blobEngine) GetSemVer() semver.Version {
	return e.semver
}

// NewStore returns a bucket-backed store.  The passed config must contain a
// "ref" string of the form:
//
//	gcs://<bucketname>[/<prefix>]
//	s3://<bucketname>[/<prefix>]
//	file:///<dir>
//	mem://
//
// For s3 refs this relies on the user having AWS credentials set up in ways
// gocloud can find them and AWS_REGION set.
func (e blobEngine) NewStore(config StoreConfig) (KeyValue, error) {
	ref, found, err := config.GetString("ref")
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%q must be specified for blob engine configuration", "ref")
	}
	bucket, err := OpenBucket(ref)
	if err != nil {
		return nil, err
	}
	return &BlobStore{bucket: bucket, ref: ref}, nil
}

// OpenBucket returns a blob.Bucket for the given reference, with any path
// after the bucket name applied as a key prefix.
func OpenBucket(ref string) (*blob.Bucket, error) {
	ctx := context.Background()

	url := ref
	var prefix string
	if scheme := strings.Index(ref, "://"); scheme >= 0 {
		rest := ref[scheme+len("://"):]
		if slash := strings.Index(rest, "/"); slash >= 0 && !strings.HasPrefix(ref, "file://") {
			url = ref[:scheme+len("://")] + rest[:slash]
			prefix = strings.TrimSuffix(rest[slash+1:], "/") + "/"
		}
	}
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		ngff.Errorf("Can't open bucket reference @ %q: %v\n", ref, err)
		return nil, err
	}
	if prefix != "" && prefix != "/" {
		bucket = blob.PrefixedBucket(bucket, prefix)
	}
	return bucket, nil
}

// BlobStore is a KeyValue store backed by a cloud bucket.
type BlobStore struct {
	bucket *blob.Bucket
	ref    string
}

func (s *BlobStore) String() string {
	return fmt.Sprintf("blob store @ %s", s.ref)
}

func (s *BlobStore) Get(k string) ([]byte, error) {
	data, err := s.bucket.ReadAll(context.Background(), k)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *BlobStore) Put(k string, v []byte) error {
	return s.bucket.WriteAll(context.Background(), k, v, nil)
}

func (s *BlobStore) Delete(k string) error {
	err := s.bucket.Delete(context.Background(), k)
	if err != nil && gcerrors.Code(err) == gcerrors.NotFound {
		return nil
	}
	return err
}

func (s *BlobStore) Exists(k string) (bool, error) {
	return s.bucket.Exists(context.Background(), k)
}

func (s *BlobStore) List(prefix string) ([]string, error) {
	ctx := context.Background()
	iter := s.bucket.List(&blob.ListOptions{Prefix: prefix})
	var keys []string
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

func (s *BlobStore) Close() error {
	return s.bucket.Close()
}
