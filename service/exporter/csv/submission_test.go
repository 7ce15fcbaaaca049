package csv

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/to404hanga/codeforces_submit_bot/model"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newExportTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Submission{}))
	return db
}

func seedSubmission(t *testing.T, db *gorm.DB, accountID uint64, remoteID int64, verdict model.Verdict) uint64 {
	t.Helper()
	contestID := int64(1700)
	sub := model.Submission{
		AccountID:    &accountID,
		CodeURL:      "code/blob",
		Status:       model.SubmissionStatusSubmitted,
		ContestID:    &contestID,
		ProblemIndex: "A",
		LanguageID:   54,
		RemoteID:     &remoteID,
		Result: model.RemoteResult{
			Verdict:         verdict,
			PassedTestCount: 10,
		},
	}
	require.NoError(t, db.Create(&sub).Error)
	return sub.ID
}

func TestExportAllSubmissions(t *testing.T) {
	db := newExportTestDB(t)
	seedSubmission(t, db, 1, 100, model.VerdictOK)
	seedSubmission(t, db, 2, 101, model.VerdictWrongAnswer)

	var buf bytes.Buffer
	e := NewStreamableCSVSubmissionExporter(db, zap.NewNop())
	require.NoError(t, e.Export(context.Background(), nil, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, SubmissionHeader(), records[0])
	assert.Equal(t, "1700A", records[1][2])
	assert.Equal(t, "Submitted", records[1][4])
	assert.Equal(t, "100", records[1][6])
	assert.Equal(t, "OK", records[1][7])
	assert.Equal(t, "WRONG_ANSWER", records[2][7])
}

func TestExportFilteredByAccount(t *testing.T) {
	db := newExportTestDB(t)
	seedSubmission(t, db, 1, 100, model.VerdictOK)
	seedSubmission(t, db, 2, 101, model.VerdictOK)

	accountID := uint64(2)
	var buf bytes.Buffer
	e := NewStreamableCSVSubmissionExporter(db, zap.NewNop())
	require.NoError(t, e.Export(context.Background(), &accountID, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2", records[1][1])
}

func TestExportEmpty(t *testing.T) {
	db := newExportTestDB(t)

	var buf bytes.Buffer
	e := NewStreamableCSVSubmissionExporter(db, zap.NewNop())
	require.NoError(t, e.Export(context.Background(), nil, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, SubmissionHeader(), records[0])
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("sink closed")
}

func TestExportWriterFailureStopsPaging(t *testing.T) {
	db := newExportTestDB(t)
	accountID := uint64(1)
	subs := make([]model.Submission, 0, 4001)
	for i := 0; i < 4001; i++ {
		remoteID := int64(1000 + i)
		subs = append(subs, model.Submission{
			AccountID:    &accountID,
			CodeURL:      "code/blob",
			Status:       model.SubmissionStatusSubmitted,
			ProblemIndex: "A",
			LanguageID:   54,
			RemoteID:     &remoteID,
		})
	}
	require.NoError(t, db.CreateInBatches(&subs, 500).Error)

	before := runtime.NumGoroutine()
	e := NewStreamableCSVSubmissionExporter(db, zap.NewNop())
	err := e.Export(context.Background(), nil, failingWriter{})
	require.Error(t, err)

	// 消费端出错返回后, 取数 goroutine 不能阻塞在发送上
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, time.Second, 10*time.Millisecond)
}

func TestSubmissionRecordOptionalFields(t *testing.T) {
	sub := &model.Submission{
		ID:           9,
		Status:       model.SubmissionStatusPending,
		ProblemIndex: "B",
		LanguageID:   31,
	}

	record := SubmissionRecord(sub)
	require.Len(t, record, len(SubmissionHeader()))
	assert.Equal(t, "9", record[0])
	assert.Equal(t, "", record[1]) // 未分配账号
	assert.Equal(t, "B", record[2])
	assert.Equal(t, "Pending", record[4])
	assert.Equal(t, "", record[6]) // 未上传, 没有远程提交 ID
}
