package codeforces

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/to404hanga/codeforces_submit_bot/bot"
)

const samplePage = `
<html><body>
<form method="post">
  <input type="hidden" name="csrf_token" value="deadbeef"/>
</form>
<a href="/profile/bot_1"> bot_1 </a>
<a href="/abc123/logout">Logout</a>
<span class="view-source" submissionid="271828182">271828182</span>
</body></html>`

func mustPage(t *testing.T, html string) *Page {
	t.Helper()
	page, err := newPage("https://judge.test/page", strings.NewReader(html))
	require.NoError(t, err)
	return page
}

func TestPageFormToken(t *testing.T) {
	page := mustPage(t, samplePage)

	token, err := page.FormToken("csrf_token")
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", token)
}

func TestPageFormTokenMissing(t *testing.T) {
	page := mustPage(t, `<html><body><form></form></body></html>`)

	_, err := page.FormToken("csrf_token")
	var tokenErr *bot.TokenNotFoundError
	require.ErrorAs(t, err, &tokenErr)
	assert.Equal(t, "https://judge.test/page", tokenErr.URL)
}

func TestPageFormTokenEmptyValue(t *testing.T) {
	page := mustPage(t, `<html><body><input name="csrf_token" value=""/></body></html>`)

	_, err := page.FormToken("csrf_token")
	var tokenErr *bot.TokenNotFoundError
	assert.ErrorAs(t, err, &tokenErr)
}

func TestPageAnchorByText(t *testing.T) {
	page := mustPage(t, samplePage)

	href, found := page.AnchorByText("Logout")
	assert.True(t, found)
	assert.Equal(t, "/abc123/logout", href)

	// 锚文本两侧的空白不参与匹配
	href, found = page.AnchorByText("bot_1")
	assert.True(t, found)
	assert.Equal(t, "/profile/bot_1", href)

	_, found = page.AnchorByText("Login")
	assert.False(t, found)
}

func TestPageAttrByClass(t *testing.T) {
	page := mustPage(t, samplePage)

	id, found := page.AttrByClass("view-source", "submissionid")
	assert.True(t, found)
	assert.Equal(t, "271828182", id)

	_, found = page.AttrByClass("no-such-class", "submissionid")
	assert.False(t, found)
}
