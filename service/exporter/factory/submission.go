package factory

import (
	"sync"

	"github.com/to404hanga/codeforces_submit_bot/service/exporter"
	"github.com/to404hanga/codeforces_submit_bot/service/exporter/csv"
	"github.com/to404hanga/codeforces_submit_bot/service/exporter/xlsx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ExporterType string

const (
	CSVSubmissionExporter  ExporterType = "csv"
	XLSXSubmissionExporter ExporterType = "xlsx"
)

var ExporterSuffixMap = map[ExporterType]string{
	CSVSubmissionExporter:  ".csv",
	XLSXSubmissionExporter: ".xlsx",
}

type SubmissionExporterFactory struct {
	factory map[ExporterType]exporter.SubmissionExporter
	db      *gorm.DB
	log     *zap.Logger
	mux     sync.RWMutex
}

func NewSubmissionExporterFactory(db *gorm.DB, log *zap.Logger) *SubmissionExporterFactory {
	return &SubmissionExporterFactory{
		factory: make(map[ExporterType]exporter.SubmissionExporter), // 延迟创建
		db:      db,
		log:     log,
	}
}

func (f *SubmissionExporterFactory) GetExporter(exporterType ExporterType) exporter.SubmissionExporter {
	f.mux.RLock()
	if exp, exists := f.factory[exporterType]; exists {
		f.mux.RUnlock()
		return exp
	}
	f.mux.RUnlock()

	f.mux.Lock()
	defer f.mux.Unlock()

	// 双重检查，避免重复创建
	if exp, exists := f.factory[exporterType]; exists {
		return exp
	}

	switch exporterType {
	case CSVSubmissionExporter:
		f.factory[CSVSubmissionExporter] = csv.NewStreamableCSVSubmissionExporter(f.db, f.log)
		return f.factory[CSVSubmissionExporter]
	case XLSXSubmissionExporter:
		f.factory[XLSXSubmissionExporter] = xlsx.NewStreamableXLSXSubmissionExporter(f.db, f.log)
		return f.factory[XLSXSubmissionExporter]
	}

	return nil
}
