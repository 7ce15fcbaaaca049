package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/to404hanga/codeforces_submit_bot/event"
	"github.com/to404hanga/codeforces_submit_bot/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrDuplicateRemoteID 远程提交 ID 与已有记录冲突, 调用方必须回退为 Failed
var ErrDuplicateRemoteID = errors.New("remote submission id already recorded")

type SubmissionService interface {
	// ListPendingOrdered 按创建顺序列出所有待分配提交
	ListPendingOrdered(ctx context.Context) ([]model.Submission, error)
	// ListAssignedTo 列出分配给某账号的指定状态提交, 按创建顺序
	ListAssignedTo(ctx context.Context, accountID uint64, status model.SubmissionStatus) ([]model.Submission, error)
	// Claim 原子地把 Pending 提交分配给账号(Pending -> InProgress), 返回是否抢占成功
	Claim(ctx context.Context, submissionID, accountID uint64) (bool, error)
	// ReclaimOrphans 回收属主任务已死亡的 InProgress 提交, 重置为 Pending 并清空账号
	ReclaimOrphans(ctx context.Context, liveAccountIDs []uint64) (int64, error)
	// MarkSubmitted 记录远程提交 ID 并置为 Submitted, ID 冲突时返回 ErrDuplicateRemoteID
	MarkSubmitted(ctx context.Context, submissionID uint64, remoteID int64) error
	// MarkFailed 置为 Failed 并记录失败原因, 同时清空远程提交 ID
	MarkFailed(ctx context.Context, submissionID uint64, cause model.FailureCause) error
	// SaveResult 整体写入远程判题结果子记录
	SaveResult(ctx context.Context, submissionID uint64, result model.RemoteResult) error
	// MarkResultNotFound 远程状态流中找不到的提交停止轮询
	MarkResultNotFound(ctx context.Context, submissionIDs []uint64) error
	// GetSubmissionByID 获取提交记录
	GetSubmissionByID(ctx context.Context, submissionID uint64) (*model.Submission, error)
	// CreateSubmission 创建待分配提交, 代码已上传到对象存储
	CreateSubmission(ctx context.Context, param *model.SubmitCodeParam, codeURL string) (uint64, error)
	// GetSubmissionList 获取提交列表(管理页面使用)
	GetSubmissionList(ctx context.Context, param *model.GetSubmissionListParam) (*model.GetSubmissionListResponse, error)
	// ListFailedCodeBefore 列出给定截止时间之前仍保留代码的失败提交(清理任务使用)
	ListFailedCodeBefore(ctx context.Context, deadline time.Time) ([]model.Submission, error)
	// ClearCode 清空提交的代码对象引用(清理任务使用)
	ClearCode(ctx context.Context, submissionIDs []uint64) error
	// CheckExistByCodeURL 检查对象是否仍被某条提交引用(孤儿对象清理使用)
	CheckExistByCodeURL(ctx context.Context, codeURL string) (bool, error)
}

type SubmissionServiceImpl struct {
	db    *gorm.DB
	kafka event.Producer
	log   *zap.Logger
}

var _ SubmissionService = (*SubmissionServiceImpl)(nil)

func NewSubmissionService(db *gorm.DB, kafka event.Producer, log *zap.Logger) SubmissionService {
	return &SubmissionServiceImpl{
		db:    db,
		kafka: kafka,
		log:   log,
	}
}

func (s *SubmissionServiceImpl) ListPendingOrdered(ctx context.Context) ([]model.Submission, error) {
	var submissions []model.Submission
	err := s.db.WithContext(ctx).Model(&model.Submission{}).
		Where("status = ?", model.SubmissionStatusPending).
		Order("created_at asc, id asc").
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("ListPendingOrdered failed at find submissions: %w", err)
	}
	return submissions, nil
}

func (s *SubmissionServiceImpl) ListAssignedTo(ctx context.Context, accountID uint64, status model.SubmissionStatus) ([]model.Submission, error) {
	var submissions []model.Submission
	err := s.db.WithContext(ctx).Model(&model.Submission{}).
		Where("account_id = ?", accountID).
		Where("status = ?", status).
		Order("created_at asc, id asc").
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("ListAssignedTo failed at find submissions: %w", err)
	}
	return submissions, nil
}

// Claim 条件更新保证同一条提交永远只会被一个账号抢到
func (s *SubmissionServiceImpl) Claim(ctx context.Context, submissionID, accountID uint64) (bool, error) {
	res := s.db.WithContext(ctx).Model(&model.Submission{}).
		Where("id = ?", submissionID).
		Where("status = ?", model.SubmissionStatusPending).
		Where("account_id IS NULL").
		Updates(map[string]any{
			"status":     model.SubmissionStatusInProgress,
			"account_id": accountID,
		})
	if res.Error != nil {
		return false, fmt.Errorf("Claim failed at update submission: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *SubmissionServiceImpl) ReclaimOrphans(ctx context.Context, liveAccountIDs []uint64) (int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Submission{}).
		Where("status = ?", model.SubmissionStatusInProgress)
	if len(liveAccountIDs) > 0 {
		query = query.Where("account_id IS NULL OR account_id NOT IN ?", liveAccountIDs)
	}
	res := query.Updates(map[string]any{
		"status":     model.SubmissionStatusPending,
		"account_id": nil,
	})
	if res.Error != nil {
		return 0, fmt.Errorf("ReclaimOrphans failed at update submissions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *SubmissionServiceImpl) MarkSubmitted(ctx context.Context, submissionID uint64, remoteID int64) error {
	err := s.db.WithContext(ctx).Model(&model.Submission{}).
		Where("id = ?", submissionID).
		Updates(map[string]any{
			"status":    model.SubmissionStatusSubmitted,
			"remote_id": remoteID,
		}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateRemoteID
	}
	if err != nil {
		return fmt.Errorf("MarkSubmitted failed at update submission: %w", err)
	}

	s.publishStatus(ctx, &event.SubmissionStatusMessage{
		SubmissionID: submissionID,
		Status:       model.SubmissionStatusSubmitted.Int8(),
		RemoteID:     &remoteID,
	})
	return nil
}

func (s *SubmissionServiceImpl) MarkFailed(ctx context.Context, submissionID uint64, cause model.FailureCause) error {
	err := s.db.WithContext(ctx).Model(&model.Submission{}).
		Where("id = ?", submissionID).
		Updates(map[string]any{
			"status":        model.SubmissionStatusFailed,
			"failure_cause": cause,
			"remote_id":     nil,
		}).Error
	if err != nil {
		return fmt.Errorf("MarkFailed failed at update submission: %w", err)
	}

	s.publishStatus(ctx, &event.SubmissionStatusMessage{
		SubmissionID: submissionID,
		Status:       model.SubmissionStatusFailed.Int8(),
		FailureCause: int8(cause),
	})
	return nil
}

func (s *SubmissionServiceImpl) SaveResult(ctx context.Context, submissionID uint64, result model.RemoteResult) error {
	err := s.db.WithContext(ctx).Model(&model.Submission{}).
		Where("id = ?", submissionID).
		Updates(map[string]any{
			"result_verdict":               result.Verdict,
			"result_testset":               result.Testset,
			"result_passed_test_count":     result.PassedTestCount,
			"result_time_consumed_millis":  result.TimeConsumedMillis,
			"result_memory_consumed_bytes": result.MemoryConsumedBytes,
			"result_points":                result.Points,
		}).Error
	if err != nil {
		return fmt.Errorf("SaveResult failed at update submission: %w", err)
	}

	s.publishStatus(ctx, &event.SubmissionStatusMessage{
		SubmissionID: submissionID,
		Status:       model.SubmissionStatusSubmitted.Int8(),
		Verdict:      string(result.Verdict),
	})
	return nil
}

func (s *SubmissionServiceImpl) MarkResultNotFound(ctx context.Context, submissionIDs []uint64) error {
	if len(submissionIDs) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Model(&model.Submission{}).
		Where("id IN ?", submissionIDs).
		Update("status", model.SubmissionStatusResultNotFound).Error
	if err != nil {
		return fmt.Errorf("MarkResultNotFound failed at update submissions: %w", err)
	}

	for _, id := range submissionIDs {
		s.publishStatus(ctx, &event.SubmissionStatusMessage{
			SubmissionID: id,
			Status:       model.SubmissionStatusResultNotFound.Int8(),
		})
	}
	return nil
}

func (s *SubmissionServiceImpl) GetSubmissionByID(ctx context.Context, submissionID uint64) (*model.Submission, error) {
	var submission model.Submission
	err := s.db.WithContext(ctx).Model(&model.Submission{}).
		Where("id = ?", submissionID).
		First(&submission).Error
	if err != nil {
		return nil, fmt.Errorf("GetSubmissionByID failed at find submission: %w", err)
	}
	return &submission, nil
}

func (s *SubmissionServiceImpl) CreateSubmission(ctx context.Context, param *model.SubmitCodeParam, codeURL string) (uint64, error) {
	submission := model.Submission{
		CodeURL:        codeURL,
		Status:         model.SubmissionStatusPending,
		ContestID:      param.ContestID,
		ProblemsetName: param.ProblemsetName,
		ProblemIndex:   param.ProblemIndex,
		LanguageID:     param.LanguageID,
	}
	if err := s.db.WithContext(ctx).Create(&submission).Error; err != nil {
		return 0, fmt.Errorf("CreateSubmission failed at create submission: %w", err)
	}
	return submission.ID, nil
}

func (s *SubmissionServiceImpl) GetSubmissionList(ctx context.Context, param *model.GetSubmissionListParam) (*model.GetSubmissionListResponse, error) {
	query := s.db.WithContext(ctx).Model(&model.Submission{})
	if param.AccountID != nil {
		query = query.Where("account_id = ?", *param.AccountID)
	}
	if param.Status != nil {
		query = query.Where("status = ?", *param.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("GetSubmissionList failed at count submissions: %w", err)
	}

	var submissions []model.Submission
	err := query.Order("id desc").
		Limit(param.PageSize).
		Offset((param.Page - 1) * param.PageSize).
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("GetSubmissionList failed at find submissions: %w", err)
	}

	return &model.GetSubmissionListResponse{
		Total:    total,
		List:     submissions,
		Page:     param.Page,
		PageSize: param.PageSize,
	}, nil
}

func (s *SubmissionServiceImpl) ListFailedCodeBefore(ctx context.Context, deadline time.Time) ([]model.Submission, error) {
	var submissions []model.Submission
	err := s.db.WithContext(ctx).Model(&model.Submission{}).
		Where("status IN ?", []model.SubmissionStatus{
			model.SubmissionStatusFailed,
			model.SubmissionStatusResultNotFound,
		}).
		Where("code_url != ''").
		Where("created_at < ?", deadline).
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("ListFailedCodeBefore failed at find submissions: %w", err)
	}
	return submissions, nil
}

func (s *SubmissionServiceImpl) ClearCode(ctx context.Context, submissionIDs []uint64) error {
	if len(submissionIDs) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Model(&model.Submission{}).
		Where("id IN ?", submissionIDs).
		Update("code_url", "").Error
	if err != nil {
		return fmt.Errorf("ClearCode failed at update submissions: %w", err)
	}
	return nil
}

func (s *SubmissionServiceImpl) CheckExistByCodeURL(ctx context.Context, codeURL string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Submission{}).
		Where("code_url = ?", codeURL).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("CheckExistByCodeURL failed at count submissions: %w", err)
	}
	return count > 0, nil
}

// publishStatus 状态变更事件尽力而为地投递, 投递失败不影响状态机
func (s *SubmissionServiceImpl) publishStatus(ctx context.Context, msg *event.SubmissionStatusMessage) {
	if s.kafka == nil {
		return
	}
	val, err := msg.Marshal()
	if err != nil {
		s.log.Error("publishStatus failed at marshal message", zap.Error(err))
		return
	}
	_, _, err = s.kafka.Produce(ctx, &sarama.ProducerMessage{
		Topic: event.SubmissionStatusTopic,
		Value: sarama.ByteEncoder(val),
	})
	if err != nil {
		s.log.Error("publishStatus failed at produce message",
			zap.Uint64("submission_id", msg.SubmissionID),
			zap.Error(err))
	}
}
