package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/to404hanga/codeforces_submit_bot/model"
	"github.com/to404hanga/codeforces_submit_bot/service/exporter"
	"github.com/to404hanga/codeforces_submit_bot/service/exporter/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type StreamableCSVSubmissionExporter struct {
	log *zap.Logger
	db  *gorm.DB
}

var _ exporter.SubmissionExporter = (*StreamableCSVSubmissionExporter)(nil)

func NewStreamableCSVSubmissionExporter(db *gorm.DB, log *zap.Logger) *StreamableCSVSubmissionExporter {
	return &StreamableCSVSubmissionExporter{
		db:  db,
		log: log,
	}
}

func (e *StreamableCSVSubmissionExporter) Export(ctx context.Context, accountID *uint64, writer io.Writer) error {
	ectx, cancel := context.WithCancel(ctx)
	defer cancel()

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

	csvWriter := csv.NewWriter(writer)
	defer csvWriter.Flush()

	err := e.writeHeader(csvWriter)
	if err != nil {
		return fmt.Errorf("write header failed: %w", err)
	}

	var goroutineErr error
	for {
		select {
		case submissions, ok := <-subCh:
			if !ok {
				if goroutineErr != nil {
					return fmt.Errorf("sub goroutine fetch submissions failed: %w", goroutineErr)
				}
				return nil
			}
			if err = e.processSubmissions(csvWriter, submissions); err != nil {
				return fmt.Errorf("process submissions failed: %w", err)
			}
		case err = <-errCh:
			if err != nil {
				goroutineErr = err
			}
		}
	}
}

// processSubmissions 处理提交数据，将其转换为 CSV 记录
func (e *StreamableCSVSubmissionExporter) processSubmissions(csvWriter *csv.Writer, submissions []model.Submission) error {
	records := make([][]string, 0, len(submissions))
	for _, sub := range submissions {
		records = append(records, SubmissionRecord(&sub))
	}
	return csvWriter.WriteAll(records)
}

// writeHeader 写入 CSV 头部
func (e *StreamableCSVSubmissionExporter) writeHeader(csvWriter *csv.Writer) error {
	return csvWriter.Write(SubmissionHeader())
}

// SubmissionHeader 导出列头, CSV 与 XLSX 共用
func SubmissionHeader() []string {
	return []string{
		"提交ID",
		"账号ID",
		"题目",
		"语言ID",
		"状态",
		"失败原因",
		"远程提交ID",
		"判题结论",
		"通过测试数",
		"耗时(ms)",
		"内存(bytes)",
		"创建时间",
	}
}

// SubmissionRecord 单条提交的导出记录
func SubmissionRecord(sub *model.Submission) []string {
	accountID := ""
	if sub.AccountID != nil {
		accountID = strconv.FormatUint(*sub.AccountID, 10)
	}
	remoteID := ""
	if sub.RemoteID != nil {
		remoteID = strconv.FormatInt(*sub.RemoteID, 10)
	}
	return []string{
		strconv.FormatUint(sub.ID, 10),
		accountID,
		sub.ProblemCode(),
		strconv.Itoa(sub.LanguageID),
		sub.Status.String(),
		sub.FailureCause.String(),
		remoteID,
		string(sub.Result.Verdict),
		strconv.Itoa(sub.Result.PassedTestCount),
		strconv.Itoa(sub.Result.TimeConsumedMillis),
		strconv.FormatInt(sub.Result.MemoryConsumedBytes, 10),
		sub.CreatedAt.Format(time.RFC3339),
	}
}
