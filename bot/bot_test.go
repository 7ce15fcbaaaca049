package bot

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/to404hanga/codeforces_submit_bot/model"
	"github.com/to404hanga/codeforces_submit_bot/service"
	"go.uber.org/zap"
)

type fakeJudge struct {
	authenticateFn func(ctx context.Context, account *model.BotAccount) error
	loadFormFn     func(ctx context.Context, sub *model.Submission) (*SubmitForm, error)
	postCodeFn     func(ctx context.Context, form *SubmitForm, sub *model.Submission, source io.Reader) (int64, error)
	pollStatusFn   func(ctx context.Context, handle string, offset, count int) ([]StatusRow, error)

	authenticateCalls int
	loadFormCalls     int
	logoutCalls       int
}

func (j *fakeJudge) Authenticate(ctx context.Context, account *model.BotAccount) error {
	j.authenticateCalls++
	if j.authenticateFn != nil {
		return j.authenticateFn(ctx, account)
	}
	return nil
}

func (j *fakeJudge) LoadSubmitForm(ctx context.Context, sub *model.Submission) (*SubmitForm, error) {
	j.loadFormCalls++
	if j.loadFormFn != nil {
		return j.loadFormFn(ctx, sub)
	}
	return &SubmitForm{URL: "https://judge.test/submit", CSRFToken: "token"}, nil
}

func (j *fakeJudge) PostCode(ctx context.Context, form *SubmitForm, sub *model.Submission, source io.Reader) (int64, error) {
	if j.postCodeFn != nil {
		return j.postCodeFn(ctx, form, sub, source)
	}
	return 100, nil
}

func (j *fakeJudge) PollStatus(ctx context.Context, handle string, offset, count int) ([]StatusRow, error) {
	if j.pollStatusFn != nil {
		return j.pollStatusFn(ctx, handle, offset, count)
	}
	return nil, nil
}

func (j *fakeJudge) Logout(ctx context.Context) error {
	j.logoutCalls++
	return nil
}

type fakeAccountService struct {
	refreshFn func(ctx context.Context, accountID uint64) (*model.BotAccount, error)

	mu            sync.Mutex
	statusUpdates []model.AccountStatus
}

func (s *fakeAccountService) ListActive(ctx context.Context) ([]model.BotAccount, error) {
	return nil, nil
}

func (s *fakeAccountService) Refresh(ctx context.Context, accountID uint64) (*model.BotAccount, error) {
	if s.refreshFn != nil {
		return s.refreshFn(ctx, accountID)
	}
	return &model.BotAccount{ID: accountID, Status: model.AccountStatusActive}, nil
}

func (s *fakeAccountService) UpdateStatus(ctx context.Context, accountID uint64, status model.AccountStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusUpdates = append(s.statusUpdates, status)
	return nil
}

func (s *fakeAccountService) TouchAssignment(ctx context.Context, accountID uint64) error {
	return nil
}

func (s *fakeAccountService) GetAccountList(ctx context.Context, param *model.GetAccountListParam) (*model.GetAccountListResponse, error) {
	return nil, nil
}

func (s *fakeAccountService) CreateAccount(ctx context.Context, param *model.CreateAccountParam) (uint64, error) {
	return 0, nil
}

func (s *fakeAccountService) UpdateAccount(ctx context.Context, param *model.UpdateAccountParam) error {
	return nil
}

type markFailedCall struct {
	submissionID uint64
	cause        model.FailureCause
}

type fakeSubmissionService struct {
	listAssignedFn  func(ctx context.Context, accountID uint64, status model.SubmissionStatus) ([]model.Submission, error)
	markSubmittedFn func(ctx context.Context, submissionID uint64, remoteID int64) error

	submitted      map[uint64]int64
	failed         []markFailedCall
	savedResults   map[uint64]model.RemoteResult
	resultNotFound [][]uint64
}

func newFakeSubmissionService() *fakeSubmissionService {
	return &fakeSubmissionService{
		submitted:    make(map[uint64]int64),
		savedResults: make(map[uint64]model.RemoteResult),
	}
}

func (s *fakeSubmissionService) ListPendingOrdered(ctx context.Context) ([]model.Submission, error) {
	return nil, nil
}

func (s *fakeSubmissionService) ListAssignedTo(ctx context.Context, accountID uint64, status model.SubmissionStatus) ([]model.Submission, error) {
	if s.listAssignedFn != nil {
		return s.listAssignedFn(ctx, accountID, status)
	}
	return nil, nil
}

func (s *fakeSubmissionService) Claim(ctx context.Context, submissionID, accountID uint64) (bool, error) {
	return false, nil
}

func (s *fakeSubmissionService) ReclaimOrphans(ctx context.Context, liveAccountIDs []uint64) (int64, error) {
	return 0, nil
}

func (s *fakeSubmissionService) MarkSubmitted(ctx context.Context, submissionID uint64, remoteID int64) error {
	if s.markSubmittedFn != nil {
		if err := s.markSubmittedFn(ctx, submissionID, remoteID); err != nil {
			return err
		}
	}
	s.submitted[submissionID] = remoteID
	return nil
}

func (s *fakeSubmissionService) MarkFailed(ctx context.Context, submissionID uint64, cause model.FailureCause) error {
	s.failed = append(s.failed, markFailedCall{submissionID: submissionID, cause: cause})
	return nil
}

func (s *fakeSubmissionService) SaveResult(ctx context.Context, submissionID uint64, result model.RemoteResult) error {
	s.savedResults[submissionID] = result
	return nil
}

func (s *fakeSubmissionService) MarkResultNotFound(ctx context.Context, submissionIDs []uint64) error {
	s.resultNotFound = append(s.resultNotFound, submissionIDs)
	return nil
}

func (s *fakeSubmissionService) GetSubmissionByID(ctx context.Context, submissionID uint64) (*model.Submission, error) {
	return nil, nil
}

func (s *fakeSubmissionService) CreateSubmission(ctx context.Context, param *model.SubmitCodeParam, codeURL string) (uint64, error) {
	return 0, nil
}

func (s *fakeSubmissionService) GetSubmissionList(ctx context.Context, param *model.GetSubmissionListParam) (*model.GetSubmissionListResponse, error) {
	return nil, nil
}

func (s *fakeSubmissionService) ListFailedCodeBefore(ctx context.Context, deadline time.Time) ([]model.Submission, error) {
	return nil, nil
}

func (s *fakeSubmissionService) ClearCode(ctx context.Context, submissionIDs []uint64) error {
	return nil
}

func (s *fakeSubmissionService) CheckExistByCodeURL(ctx context.Context, codeURL string) (bool, error) {
	return false, nil
}

type fakeCodeStore struct{}

func (fakeCodeStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("print(42)")), nil
}

func testAccount() *model.BotAccount {
	return &model.BotAccount{
		ID:     7,
		Handle: "bot_7",
		Status: model.AccountStatusActive,
	}
}

func newTestBot(judge Judge, accountSvc service.AccountService, submissionSvc service.SubmissionService) *Bot {
	return NewBot(testAccount(), judge, accountSvc, submissionSvc, fakeCodeStore{}, zap.NewNop(), Config{})
}

func remoteIDPtr(id int64) *int64 {
	return &id
}

func TestLoginOnlyAllowedBeforeAuthentication(t *testing.T) {
	judge := &fakeJudge{}
	b := newTestBot(judge, &fakeAccountService{}, newFakeSubmissionService())

	require.NoError(t, b.Login(context.Background()))
	assert.Equal(t, StatusReady, b.Status())

	err := b.Login(context.Background())
	var stateErr *InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, StatusBeforeAuthentication, stateErr.Want)
	assert.Equal(t, StatusReady, stateErr.Got)
}

func TestLoginAuthenticationFailure(t *testing.T) {
	judge := &fakeJudge{
		authenticateFn: func(ctx context.Context, account *model.BotAccount) error {
			return &AuthenticationError{Handle: account.Handle}
		},
	}
	b := newTestBot(judge, &fakeAccountService{}, newFakeSubmissionService())

	err := b.Login(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthenticationError(err))
	assert.Equal(t, StatusAuthenticationFailed, b.Status())
}

func TestSubmitCodeSuccess(t *testing.T) {
	judge := &fakeJudge{}
	subSvc := newFakeSubmissionService()
	b := newTestBot(judge, &fakeAccountService{}, subSvc)
	require.NoError(t, b.Login(context.Background()))

	sub := &model.Submission{ID: 1, CodeURL: "blob-1", Status: model.SubmissionStatusInProgress}
	require.NoError(t, b.SubmitCode(context.Background(), sub))

	assert.Equal(t, int64(100), subSvc.submitted[1])
	assert.Empty(t, subSvc.failed)
}

func TestSubmitCodeReloginRetriesOnce(t *testing.T) {
	judge := &fakeJudge{}
	judge.loadFormFn = func(ctx context.Context, sub *model.Submission) (*SubmitForm, error) {
		if judge.loadFormCalls == 1 {
			return nil, &SessionExpiredError{URL: "https://judge.test/submit"}
		}
		return &SubmitForm{URL: "https://judge.test/submit", CSRFToken: "token"}, nil
	}
	subSvc := newFakeSubmissionService()
	b := newTestBot(judge, &fakeAccountService{}, subSvc)
	require.NoError(t, b.Login(context.Background()))

	sub := &model.Submission{ID: 2, CodeURL: "blob-2"}
	require.NoError(t, b.SubmitCode(context.Background(), sub))

	// 初始登录一次 + 会话过期后重登录一次
	assert.Equal(t, 2, judge.authenticateCalls)
	assert.Equal(t, 2, judge.loadFormCalls)
	assert.Equal(t, int64(100), subSvc.submitted[2])
}

func TestReloginRestoresLoopStatus(t *testing.T) {
	judge := &fakeJudge{}
	judge.loadFormFn = func(ctx context.Context, sub *model.Submission) (*SubmitForm, error) {
		if judge.loadFormCalls == 1 {
			return nil, &SessionExpiredError{URL: "https://judge.test/submit"}
		}
		return &SubmitForm{URL: "https://judge.test/submit", CSRFToken: "token"}, nil
	}
	subSvc := newFakeSubmissionService()
	b := newTestBot(judge, &fakeAccountService{}, subSvc)
	require.NoError(t, b.Login(context.Background()))
	b.status = StatusWorking

	sub := &model.Submission{ID: 2, CodeURL: "blob-2"}
	require.NoError(t, b.SubmitCode(context.Background(), sub))

	// 循环中途的重登录结束后状态机回到 Working, 而不是停在 Ready
	assert.Equal(t, 2, judge.authenticateCalls)
	assert.Equal(t, StatusWorking, b.Status())
}

func TestSubmitCodeSecondExpiryBecomesFailed(t *testing.T) {
	judge := &fakeJudge{
		loadFormFn: func(ctx context.Context, sub *model.Submission) (*SubmitForm, error) {
			return nil, &SessionExpiredError{URL: "https://judge.test/submit"}
		},
	}
	subSvc := newFakeSubmissionService()
	b := newTestBot(judge, &fakeAccountService{}, subSvc)
	require.NoError(t, b.Login(context.Background()))

	sub := &model.Submission{ID: 3, CodeURL: "blob-3"}
	require.NoError(t, b.SubmitCode(context.Background(), sub))

	// 重试恰好一次, 第二次过期按页面加载失败处理并落库 Failed
	assert.Equal(t, 2, judge.loadFormCalls)
	require.Len(t, subSvc.failed, 1)
	assert.Equal(t, model.FailureCauseRejected, subSvc.failed[0].cause)
	assert.Empty(t, subSvc.submitted)
}

func TestSubmitCodeReloginAuthFailurePropagates(t *testing.T) {
	judge := &fakeJudge{}
	judge.authenticateFn = func(ctx context.Context, account *model.BotAccount) error {
		if judge.authenticateCalls == 1 {
			return nil
		}
		return &AuthenticationError{Handle: account.Handle}
	}
	judge.loadFormFn = func(ctx context.Context, sub *model.Submission) (*SubmitForm, error) {
		return nil, &SessionExpiredError{URL: "https://judge.test/submit"}
	}
	subSvc := newFakeSubmissionService()
	b := newTestBot(judge, &fakeAccountService{}, subSvc)
	require.NoError(t, b.Login(context.Background()))

	err := b.SubmitCode(context.Background(), &model.Submission{ID: 4, CodeURL: "blob-4"})
	require.Error(t, err)
	assert.True(t, IsAuthenticationError(err))
	// 账号级失败不落提交终态, 交由上层退出
	assert.Empty(t, subSvc.failed)
	assert.Empty(t, subSvc.submitted)
}

func TestSubmitCodeRejected(t *testing.T) {
	judge := &fakeJudge{
		postCodeFn: func(ctx context.Context, form *SubmitForm, sub *model.Submission, source io.Reader) (int64, error) {
			return 0, ErrSubmitRejected
		},
	}
	subSvc := newFakeSubmissionService()
	b := newTestBot(judge, &fakeAccountService{}, subSvc)
	require.NoError(t, b.Login(context.Background()))

	require.NoError(t, b.SubmitCode(context.Background(), &model.Submission{ID: 5, CodeURL: "blob-5"}))
	require.Len(t, subSvc.failed, 1)
	assert.Equal(t, model.FailureCauseRejected, subSvc.failed[0].cause)
}

func TestSubmitCodeDuplicateRemoteID(t *testing.T) {
	judge := &fakeJudge{}
	subSvc := newFakeSubmissionService()
	subSvc.markSubmittedFn = func(ctx context.Context, submissionID uint64, remoteID int64) error {
		return service.ErrDuplicateRemoteID
	}
	b := newTestBot(judge, &fakeAccountService{}, subSvc)
	require.NoError(t, b.Login(context.Background()))

	require.NoError(t, b.SubmitCode(context.Background(), &model.Submission{ID: 6, CodeURL: "blob-6"}))
	require.Len(t, subSvc.failed, 1)
	assert.Equal(t, model.FailureCauseDuplicate, subSvc.failed[0].cause)
	assert.Equal(t, uint64(6), subSvc.failed[0].submissionID)
}

func TestPollVerdictsResolvesPending(t *testing.T) {
	judge := &fakeJudge{
		pollStatusFn: func(ctx context.Context, handle string, offset, count int) ([]StatusRow, error) {
			return []StatusRow{
				{RemoteID: 100, Result: model.RemoteResult{Verdict: model.VerdictOK, PassedTestCount: 42}},
				{RemoteID: 101, Result: model.RemoteResult{Verdict: model.VerdictWrongAnswer, PassedTestCount: 3}},
				{RemoteID: 999, Result: model.RemoteResult{Verdict: model.VerdictOK}},
			}, nil
		},
	}
	subSvc := newFakeSubmissionService()
	subSvc.listAssignedFn = func(ctx context.Context, accountID uint64, status model.SubmissionStatus) ([]model.Submission, error) {
		return []model.Submission{
			{ID: 10, Status: model.SubmissionStatusSubmitted, RemoteID: remoteIDPtr(100)},
			{ID: 11, Status: model.SubmissionStatusSubmitted, RemoteID: remoteIDPtr(101)},
		}, nil
	}
	b := newTestBot(judge, &fakeAccountService{}, subSvc)
	require.NoError(t, b.Login(context.Background()))

	require.NoError(t, b.PollVerdicts(context.Background()))

	assert.Equal(t, model.VerdictOK, subSvc.savedResults[10].Verdict)
	assert.Equal(t, 42, subSvc.savedResults[10].PassedTestCount)
	assert.Equal(t, model.VerdictWrongAnswer, subSvc.savedResults[11].Verdict)
	assert.Empty(t, subSvc.resultNotFound)
}

func TestPollVerdictsMarksResultNotFoundAfterBudget(t *testing.T) {
	pollCalls := 0
	judge := &fakeJudge{
		pollStatusFn: func(ctx context.Context, handle string, offset, count int) ([]StatusRow, error) {
			pollCalls++
			// 状态流中永远不出现该提交
			return []StatusRow{{RemoteID: 555, Result: model.RemoteResult{Verdict: model.VerdictOK}}}, nil
		},
	}
	subSvc := newFakeSubmissionService()
	subSvc.listAssignedFn = func(ctx context.Context, accountID uint64, status model.SubmissionStatus) ([]model.Submission, error) {
		return []model.Submission{
			{ID: 20, Status: model.SubmissionStatusSubmitted, RemoteID: remoteIDPtr(777)},
		}, nil
	}
	b := NewBot(testAccount(), judge, &fakeAccountService{}, subSvc, fakeCodeStore{}, zap.NewNop(),
		Config{StatusPageSize: 10, PollRetryCount: 2})
	require.NoError(t, b.Login(context.Background()))

	require.NoError(t, b.PollVerdicts(context.Background()))

	// 预算 = ceil(1/10) + 2 = 3 页
	assert.Equal(t, 3, pollCalls)
	require.Len(t, subSvc.resultNotFound, 1)
	assert.Equal(t, []uint64{20}, subSvc.resultNotFound[0])
}

func TestPollVerdictsSkipsResolved(t *testing.T) {
	judge := &fakeJudge{
		pollStatusFn: func(ctx context.Context, handle string, offset, count int) ([]StatusRow, error) {
			t.Fatal("status feed must not be queried when nothing is pending")
			return nil, nil
		},
	}
	subSvc := newFakeSubmissionService()
	subSvc.listAssignedFn = func(ctx context.Context, accountID uint64, status model.SubmissionStatus) ([]model.Submission, error) {
		return []model.Submission{
			{ID: 30, Status: model.SubmissionStatusSubmitted, RemoteID: remoteIDPtr(100),
				Result: model.RemoteResult{Verdict: model.VerdictOK}},
		}, nil
	}
	b := newTestBot(judge, &fakeAccountService{}, subSvc)
	require.NoError(t, b.Login(context.Background()))

	require.NoError(t, b.PollVerdicts(context.Background()))
}

func TestRunRetiresOnAuthenticationFailure(t *testing.T) {
	judge := &fakeJudge{
		authenticateFn: func(ctx context.Context, account *model.BotAccount) error {
			return &AuthenticationError{Handle: account.Handle}
		},
	}
	accountSvc := &fakeAccountService{}
	b := newTestBot(judge, accountSvc, newFakeSubmissionService())

	err := b.Run(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthenticationError(err))
	assert.Equal(t, StatusAuthenticationFailed, b.Status())
	require.Len(t, accountSvc.statusUpdates, 1)
	assert.Equal(t, model.AccountStatusAuthFailed, accountSvc.statusUpdates[0])
}

func TestRunStopsWhenAccountDeactivated(t *testing.T) {
	judge := &fakeJudge{}
	accountSvc := &fakeAccountService{
		refreshFn: func(ctx context.Context, accountID uint64) (*model.BotAccount, error) {
			return &model.BotAccount{ID: accountID, Status: model.AccountStatusInactive}, nil
		},
	}
	b := NewBot(testAccount(), judge, accountSvc, newFakeSubmissionService(), fakeCodeStore{}, zap.NewNop(),
		Config{PollInterval: time.Millisecond})

	err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusLoggedOut, b.Status())
	assert.Equal(t, 1, judge.logoutCalls)
}

func TestRunStopsWhenAccountRemoved(t *testing.T) {
	judge := &fakeJudge{}
	accountSvc := &fakeAccountService{
		refreshFn: func(ctx context.Context, accountID uint64) (*model.BotAccount, error) {
			return nil, service.ErrAccountNotFound
		},
	}
	b := NewBot(testAccount(), judge, accountSvc, newFakeSubmissionService(), fakeCodeStore{}, zap.NewNop(),
		Config{PollInterval: time.Millisecond})

	require.NoError(t, b.Run(context.Background()))
	assert.Equal(t, StatusLoggedOut, b.Status())
}

func TestRunStopsOnContextCancel(t *testing.T) {
	judge := &fakeJudge{}
	b := NewBot(testAccount(), judge, &fakeAccountService{}, newFakeSubmissionService(), fakeCodeStore{}, zap.NewNop(),
		Config{PollInterval: 50 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- b.Run(ctx)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("bot did not stop after context cancellation")
	}
	assert.Equal(t, StatusLoggedOut, b.Status())
}

func TestIsRetryTrigger(t *testing.T) {
	assert.True(t, isRetryTrigger(&SessionExpiredError{URL: "u"}))
	assert.True(t, isRetryTrigger(&AuthenticationError{Handle: "h"}))
	assert.True(t, isRetryTrigger(&TokenNotFoundError{URL: "u"}))
	assert.False(t, isRetryTrigger(&PageLoadError{URL: "u", StatusCode: 503}))
	assert.False(t, isRetryTrigger(errors.New("network down")))
	assert.False(t, isRetryTrigger(nil))
}
