package policies

import (
	"context"
	"io"
)

// ReportUploader stores generated analytics reports in object storage and
// returns a retrievable URL.
type ReportUploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (publicURL string, err error)
}
