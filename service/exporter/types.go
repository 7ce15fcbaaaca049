package exporter

import (
	"context"
	"io"
)

type SubmissionExporter interface {
	Export(ctx context.Context, accountID *uint64, writer io.Writer) error
}
