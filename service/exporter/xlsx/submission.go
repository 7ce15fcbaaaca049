package xlsx

import (
	"context"
	"fmt"
	"io"

	"github.com/to404hanga/codeforces_submit_bot/model"
	"github.com/to404hanga/codeforces_submit_bot/service/exporter"
	"github.com/to404hanga/codeforces_submit_bot/service/exporter/common"
	"github.com/to404hanga/codeforces_submit_bot/service/exporter/csv"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type StreamableXLSXSubmissionExporter struct {
	log *zap.Logger
	db  *gorm.DB
}

var _ exporter.SubmissionExporter = (*StreamableXLSXSubmissionExporter)(nil)

func NewStreamableXLSXSubmissionExporter(db *gorm.DB, log *zap.Logger) *StreamableXLSXSubmissionExporter {
	return &StreamableXLSXSubmissionExporter{
		db:  db,
		log: log,
	}
}

func (e *StreamableXLSXSubmissionExporter) Export(ctx context.Context, accountID *uint64, writer io.Writer) error {
	ectx, cancel := context.WithCancel(ctx)
	defer cancel()

	// 创建新的Excel文件
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.log.Error("close excel file failed", zap.Error(err))
		}
	}()

	sheetName := "提交记录"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet failed: %w", err)
	}
	f.SetActiveSheet(index)

	if err = e.writeHeader(f, sheetName); err != nil {
		return fmt.Errorf("write header failed: %w", err)
	}

	batchSize := 1000
	page := 1
	subCh := make(chan []model.Submission, 3)
	errCh := make(chan error, 1)

	go func() {
		defer close(subCh)
		defer close(errCh)
		for {
			select {
			case <-ectx.Done():
				errCh <- ectx.Err()
				return
			default:
				submissions, errGoroutine := common.FetchSubmissions(e.db, ectx, accountID, page, batchSize)
				if errGoroutine != nil {
					errCh <- errGoroutine
					return
				}
				if len(submissions) == 0 {
					return
				}
				// 消费端提前退出时靠 cancel 解除阻塞
				select {
				case subCh <- submissions:
				case <-ectx.Done():
					errCh <- ectx.Err()
					return
				}
				page++
			}
		}
	}()

	currentRow := 2 // 从第二行开始写入数据（第一行是表头）
	var goroutineErr error

	for {
		select {
		case submissions, ok := <-subCh:
			if !ok {
				if goroutineErr != nil {
					return fmt.Errorf("sub goroutine fetch submissions failed: %w", goroutineErr)
				}
				// 所有数据处理完成，写入到writer
				if err = f.Write(writer); err != nil {
					return fmt.Errorf("write excel file failed: %w", err)
				}
				return nil
			}
			if err = e.processSubmissions(f, sheetName, submissions, &currentRow); err != nil {
				return fmt.Errorf("process submissions failed: %w", err)
			}
		case err = <-errCh:
			if err != nil {
				goroutineErr = err
			}
		}
	}
}

// processSubmissions 处理提交数据，将其写入 Excel 文件
func (e *StreamableXLSXSubmissionExporter) processSubmissions(f *excelize.File, sheetName string, submissions []model.Submission, currentRow *int) error {
	for _, sub := range submissions {
		record := csv.SubmissionRecord(&sub)
		cell, err := excelize.CoordinatesToCellName(1, *currentRow)
		if err != nil {
			return fmt.Errorf("coordinates to cell name failed: %w", err)
		}
		row := make([]any, 0, len(record))
		for _, col := range record {
			row = append(row, col)
		}
		if err = f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("set sheet row failed: %w", err)
		}
		*currentRow++
	}
	return nil
}

// writeHeader 写入表头
func (e *StreamableXLSXSubmissionExporter) writeHeader(f *excelize.File, sheetName string) error {
	headers := csv.SubmissionHeader()
	row := make([]any, 0, len(headers))
	for _, h := range headers {
		row = append(row, h)
	}
	return f.SetSheetRow(sheetName, "A1", &row)
}
