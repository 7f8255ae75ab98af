package api

import (
	"fmt"
	"path"
	"strings"

	"dataflow-etl/conf"

	"google.golang.org/api/storage/v1"
)

// OutputObject resolves the bucket and object prefix exported files go to.
func OutputObject(o *conf.Options) (*storage.Object, error) {
	bucket, err := o.OutputBucket().Resolve()
	if err != nil {
		return nil, err
	}
	p, err := o.OutputPath().Resolve()
	if err != nil {
		return nil, err
	}
	bucket = strings.TrimSuffix(strings.TrimPrefix(bucket, "gs://"), "/")
	if bucket == "" {
		return nil, fmt.Errorf("output bucket must not be empty")
	}
	name := strings.TrimPrefix(path.Clean("/"+p), "/")
	return &storage.Object{Bucket: bucket, Name: name}, nil
}

func OutputURI(o *conf.Options) (string, error) {
	obj, err := OutputObject(o)
	if err != nil {
		return "", err
	}
	if obj.Name == "" {
		return "gs://" + obj.Bucket, nil
	}
	return fmt.Sprintf("gs://%s/%s", obj.Bucket, obj.Name), nil
}
