package artifacts

import (
	"github.com/charmbracelet/log"
	"github.com/coinbase/adfmap/aws"
	"github.com/coinbase/step/aws/s3"
	"github.com/coinbase/step/utils/to"
	"github.com/pkg/errors"
)

// PutJSON uploads value as JSON to bucket/key
func PutJSON(s3c aws.S3API, bucket string, key string, value interface{}) error {
	if err := s3.PutStruct(s3c, to.Strp(bucket), to.Strp(key), value); err != nil {
		return errors.Wrapf(err, "uploading s3://%v/%v", bucket, key)
	}

	log.Debug("uploaded artifact", "bucket", bucket, "key", key)
	return nil
}

