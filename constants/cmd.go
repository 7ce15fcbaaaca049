package constants

const (
	GetAccountListPath = "/GetAccountList" // 获取机器人账号列表
	CreateAccountPath  = "/CreateAccount"  // 创建机器人账号
	UpdateAccountPath  = "/UpdateAccount"  // 更新机器人账号
)

const (
	SubmitCodePath           = "/SubmitCode"           // 提交代码
	GetSubmissionListPath    = "/GetSubmissionList"    // 获取提交列表
	GetSubmissionPath        = "/GetSubmission"        // 获取提交详情
	GetSubmissionCodeURLPath = "/GetSubmissionCodeURL" // 获取提交代码下载 URL
	ExportSubmissionListPath = "/ExportSubmissionList" // 导出提交列表
)

const (
	AdminLoginPath  = "/AdminLogin"  // 管理员登录
	AdminLogoutPath = "/AdminLogout" // 管理员登出
)
