package codeforces

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/to404hanga/codeforces_submit_bot/bot"
)

// Page 抓取到的页面, 提供令牌与链接的抽取能力
type Page struct {
	URL string
	doc *goquery.Document
}

func newPage(url string, body io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse page %q failed: %w", url, err)
	}
	return &Page{
		URL: url,
		doc: doc,
	}, nil
}

// FormToken 抽取指定名字的表单隐藏域取值, 缺失时返回 *bot.TokenNotFoundError
func (p *Page) FormToken(name string) (string, error) {
	value, exists := p.doc.Find(fmt.Sprintf("input[name=%s]", name)).First().Attr("value")
	if !exists || value == "" {
		return "", &bot.TokenNotFoundError{URL: p.URL}
	}
	return value, nil
}

// AnchorByText 按锚文本查找链接
func (p *Page) AnchorByText(text string) (string, bool) {
	var href string
	found := false
	p.doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) != text {
			return true
		}
		href, found = s.Attr("href")
		return !found
	})
	return href, found
}

// AttrByClass 按 class 查找首个元素的指定属性
func (p *Page) AttrByClass(class, attr string) (string, bool) {
	return p.doc.Find("." + class).First().Attr(attr)
}
