package blob

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseURI(t *testing.T) {
	var tests = []struct {
		uri    string
		bucket string
		key    string
		err    bool
	}{
		{"s3://lamalux-pricing/2024/q1.xlsx", "lamalux-pricing", "2024/q1.xlsx", false},
		{"s3://bucket/prices.csv", "bucket", "prices.csv", false},
		{"s3://bucket", "", "", true},
		{"s3:///prices.csv", "", "", true},
		{"https://bucket/prices.csv", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, key, err := ParseURI(tt.uri)
			if tt.err {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestIsURI(t *testing.T) {
	assert.True(t, IsURI("s3://bucket/prices.xlsx"))
	assert.False(t, IsURI("./prices.xlsx"))
	assert.False(t, IsURI("/data/s3://x"))
}
