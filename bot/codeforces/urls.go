package codeforces

import (
	"fmt"
	"net/url"

	"github.com/to404hanga/codeforces_submit_bot/model"
)

const (
	DefaultBaseURL = "https://codeforces.com"

	loginPath            = "/enter"
	problemsetSubmitPath = "/problemset/submit"
	userStatusPath       = "/api/user.status"
)

func (c *Client) loginURL() string {
	return c.baseURL + loginPath
}

// submitURL 普通题库与具名题集的提交入口不同
func (c *Client) submitURL(sub *model.Submission) string {
	if sub.ProblemsetName != nil {
		return fmt.Sprintf("%s/problemsets/%s/submit", c.baseURL, *sub.ProblemsetName)
	}
	return c.baseURL + problemsetSubmitPath
}

func (c *Client) userStatusURL(handle string, from, count int) string {
	query := url.Values{}
	query.Set("handle", handle)
	query.Set("from", fmt.Sprint(from))
	query.Set("count", fmt.Sprint(count))
	return c.baseURL + userStatusPath + "?" + query.Encode()
}
