package event

import json "github.com/bytedance/sonic"

const SubmissionStatusTopic = "bot_submission_status_topic"

// SubmissionStatusMessage 提交状态变更事件, 供评测平台侧消费
type SubmissionStatusMessage struct {
	SubmissionID uint64 `json:"submission_id"`
	Status       int8   `json:"status"`
	FailureCause int8   `json:"failure_cause,omitempty"`
	RemoteID     *int64 `json:"remote_id,omitempty"`
	Verdict      string `json:"verdict,omitempty"`
}

func (m *SubmissionStatusMessage) Marshal() ([]byte, error) {
	return json.Marshal(m)
}
