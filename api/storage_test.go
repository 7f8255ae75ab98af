package api

import (
	"testing"

	"dataflow-etl/conf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputObject(t *testing.T) {
	tests := []struct {
		bucket, path string
		wantBucket   string
		wantName     string
		wantURI      string
	}{
		{"my-bucket", "out/run1", "my-bucket", "out/run1", "gs://my-bucket/out/run1"},
		{"gs://my-bucket/", "/out//run1/", "my-bucket", "out/run1", "gs://my-bucket/out/run1"},
		{"my-bucket", "", "my-bucket", "", "gs://my-bucket"},
	}
	for _, tt := range tests {
		o := conf.NewOptions()
		o.SetOutputBucket(conf.StaticValue(tt.bucket))
		o.SetOutputPath(conf.StaticValue(tt.path))

		obj, err := OutputObject(o)
		require.NoError(t, err)
		assert.Equal(t, tt.wantBucket, obj.Bucket)
		assert.Equal(t, tt.wantName, obj.Name)

		uri, err := OutputURI(o)
		require.NoError(t, err)
		assert.Equal(t, tt.wantURI, uri)
	}
}

func TestOutputObject_EmptyBucket(t *testing.T) {
	o := conf.NewOptions()
	o.SetOutputBucket(conf.StaticValue("gs://"))
	o.SetOutputPath(conf.StaticValue("out"))

	_, err := OutputObject(o)

	assert.Error(t, err)
}

func TestOutputObject_PathDeferred(t *testing.T) {
	o := conf.NewOptions()
	o.SetOutputBucket(conf.StaticValue("my-bucket"))

	_, err := OutputObject(o)

	assert.ErrorIs(t, err, conf.ErrUnresolved)
}
