package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetExporter(t *testing.T) {
	f := NewSubmissionExporterFactory(nil, zap.NewNop())

	csvExp := f.GetExporter(CSVSubmissionExporter)
	require.NotNil(t, csvExp)
	// 惰性创建后复用同一实例
	assert.Same(t, csvExp, f.GetExporter(CSVSubmissionExporter))

	xlsxExp := f.GetExporter(XLSXSubmissionExporter)
	require.NotNil(t, xlsxExp)
	assert.NotSame(t, csvExp, xlsxExp)

	assert.Nil(t, f.GetExporter(ExporterType("pdf")))
}

func TestExporterSuffixMap(t *testing.T) {
	assert.Equal(t, ".csv", ExporterSuffixMap[CSVSubmissionExporter])
	assert.Equal(t, ".xlsx", ExporterSuffixMap[XLSXSubmissionExporter])
}
