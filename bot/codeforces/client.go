package codeforces

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	neturl "net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/to404hanga/codeforces_submit_bot/bot"
	"github.com/to404hanga/codeforces_submit_bot/model"
	"go.uber.org/zap"
)

const (
	csrfTokenField   = "csrf_token"
	logoutAnchorText = "Logout"

	// 提交成功后页面上出现的查看源码元素, 携带远程提交 ID
	successMarkerClass = "view-source"
	successMarkerAttr  = "submissionid"

	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

	// 登录流程允许的跳转次数; 已认证会话加载提交页不应发生跳转,
	// 超过一次即视为被重定向回登录页, 会话已过期
	looseMaxRedirects  = 10
	strictMaxRedirects = 1
)

var errTooManyRedirects = errors.New("stopped after too many redirects")

type Config struct {
	BaseURL        string `yaml:"baseURL" mapstructure:"baseURL"`
	UserAgent      string `yaml:"userAgent" mapstructure:"userAgent"`
	TimeoutSeconds int    `yaml:"timeoutSeconds" mapstructure:"timeoutSeconds"` // 单位: 秒
}

func (Config) Key() string {
	return "codeforces"
}

// Client 单账号的 Codeforces 会话, 实现 bot.Judge
// session 与 strict 共享同一个 cookie jar, 仅重定向上限不同
type Client struct {
	session   *http.Client
	strict    *http.Client
	baseURL   string
	userAgent string
	log       *zap.Logger

	handle    string
	logoutURL string
}

var _ bot.Judge = (*Client)(nil)

func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("NewClient failed at create cookie jar: %w", err)
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		session: &http.Client{
			Jar:           jar,
			Timeout:       timeout,
			CheckRedirect: redirectLimiter(looseMaxRedirects),
		},
		strict: &http.Client{
			Jar:           jar,
			Timeout:       timeout,
			CheckRedirect: redirectLimiter(strictMaxRedirects),
		},
		baseURL:   baseURL,
		userAgent: userAgent,
		log:       log,
	}, nil
}

func redirectLimiter(max int) func(*http.Request, []*http.Request) error {
	return func(_ *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errTooManyRedirects
		}
		return nil
	}
}

// Authenticate 登录握手: 抓登录页取令牌, 回传凭证, 校验响应上出现注销链接
func (c *Client) Authenticate(ctx context.Context, account *model.BotAccount) error {
	page, err := c.get(ctx, c.session, c.loginURL())
	if err != nil {
		return err
	}
	token, err := page.FormToken(csrfTokenField)
	if err != nil {
		return err
	}

	form := neturl.Values{
		"csrf_token":    {token},
		"action":        {"enter"},
		"handleOrEmail": {account.Handle},
		"password":      {account.Password},
		"remember":      {"on"},
	}
	page, err = c.postForm(ctx, c.loginURL(), form)
	if err != nil {
		return err
	}

	href, found := page.AnchorByText(logoutAnchorText)
	if !found {
		return &bot.AuthenticationError{Handle: account.Handle}
	}
	c.handle = account.Handle
	c.logoutURL = c.baseURL + href
	return nil
}

// LoadSubmitForm 加载提交页并抽取防伪令牌, 页面缺少注销链接视为会话失效
func (c *Client) LoadSubmitForm(ctx context.Context, sub *model.Submission) (*bot.SubmitForm, error) {
	url := c.submitURL(sub)
	page, err := c.get(ctx, c.strict, url)
	if err != nil {
		return nil, err
	}
	if _, found := page.AnchorByText(logoutAnchorText); !found {
		return nil, &bot.AuthenticationError{Handle: c.handle}
	}
	token, err := page.FormToken(csrfTokenField)
	if err != nil {
		return nil, err
	}
	return &bot.SubmitForm{
		URL:       url,
		CSRFToken: token,
	}, nil
}

// PostCode 以 multipart 表单上传代码文件, 从响应页面抽取远程提交 ID
func (c *Client) PostCode(ctx context.Context, form *bot.SubmitForm, sub *model.Submission, source io.Reader) (int64, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fields := map[string]string{
		"csrf_token":           form.CSRFToken,
		"action":               "submitSolutionFormSubmitted",
		"submittedProblemCode": sub.ProblemCode(),
		"programTypeId":        strconv.Itoa(sub.LanguageID),
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return 0, fmt.Errorf("PostCode failed at write field %s: %w", name, err)
		}
	}
	part, err := writer.CreateFormFile("sourceFile", fmt.Sprintf("submission-%d.txt", sub.ID))
	if err != nil {
		return 0, fmt.Errorf("PostCode failed at create file part: %w", err)
	}
	if _, err := io.Copy(part, source); err != nil {
		return 0, fmt.Errorf("PostCode failed at copy source: %w", err)
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("PostCode failed at close writer: %w", err)
	}

	// 提交成功后站点以 302 跳到状态页, 远程 ID 在落地页上, 必须跟随跳转
	url := form.URL + "?csrf_token=" + neturl.QueryEscape(form.CSRFToken)
	page, err := c.do(ctx, c.session, http.MethodPost, url, body, writer.FormDataContentType())
	if err != nil {
		return 0, err
	}
	if _, found := page.AnchorByText(logoutAnchorText); !found {
		return 0, &bot.AuthenticationError{Handle: c.handle}
	}

	marker, found := page.AttrByClass(successMarkerClass, successMarkerAttr)
	if !found {
		return 0, bot.ErrSubmitRejected
	}
	remoteID, err := strconv.ParseInt(marker, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("PostCode failed at parse remote id %q: %w", marker, err)
	}
	return remoteID, nil
}

type userStatusResponse struct {
	Status  string           `json:"status"`
	Comment string           `json:"comment"`
	Result  []userStatusItem `json:"result"`
}

type userStatusItem struct {
	ID                  int64   `json:"id"`
	Verdict             string  `json:"verdict"`
	Testset             string  `json:"testset"`
	PassedTestCount     int     `json:"passedTestCount"`
	TimeConsumedMillis  int     `json:"timeConsumedMillis"`
	MemoryConsumedBytes int64   `json:"memoryConsumedBytes"`
	Points              float64 `json:"points"`
}

// PollStatus 查询公开状态流, 不依赖已认证会话
func (c *Client) PollStatus(ctx context.Context, handle string, offset, count int) ([]bot.StatusRow, error) {
	url := c.userStatusURL(handle, offset, count)
	raw, err := c.getRaw(ctx, url)
	if err != nil {
		return nil, err
	}

	var payload userStatusResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("PollStatus failed at unmarshal response: %w", err)
	}
	if payload.Status != "OK" {
		return nil, fmt.Errorf("PollStatus failed: status feed returned %q: %s", payload.Status, payload.Comment)
	}

	rows := make([]bot.StatusRow, 0, len(payload.Result))
	for _, item := range payload.Result {
		verdict := model.Verdict(item.Verdict)
		if verdict == "" {
			// 仍在排队的提交没有 verdict 字段, 统一视为评测中
			verdict = model.VerdictTesting
		}
		rows = append(rows, bot.StatusRow{
			RemoteID: item.ID,
			Result: model.RemoteResult{
				Verdict:             verdict,
				Testset:             item.Testset,
				PassedTestCount:     item.PassedTestCount,
				TimeConsumedMillis:  item.TimeConsumedMillis,
				MemoryConsumedBytes: item.MemoryConsumedBytes,
				Points:              item.Points,
			},
		})
	}
	return rows, nil
}

// Logout 访问登录时记下的注销链接, 尽力而为
func (c *Client) Logout(ctx context.Context) error {
	if c.logoutURL == "" {
		return nil
	}
	_, err := c.get(ctx, c.session, c.logoutURL)
	c.logoutURL = ""
	return err
}

func (c *Client) get(ctx context.Context, client *http.Client, url string) (*Page, error) {
	return c.do(ctx, client, http.MethodGet, url, nil, "")
}

func (c *Client) postForm(ctx context.Context, url string, form neturl.Values) (*Page, error) {
	return c.do(ctx, c.session, http.MethodPost, url, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

func (c *Client) do(ctx context.Context, client *http.Client, method, url string, body io.Reader, contentType string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s failed: %w", method, url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, errTooManyRedirects) {
			if resp != nil {
				resp.Body.Close()
			}
			return nil, &bot.SessionExpiredError{URL: url}
		}
		return nil, fmt.Errorf("%s %s failed: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &bot.PageLoadError{URL: url, StatusCode: resp.StatusCode}
	}
	return newPage(url, resp.Body)
}

func (c *Client) getRaw(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request GET %s failed: %w", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &bot.PageLoadError{URL: url, StatusCode: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
