package site

import (
	"net/url"
	"strings"
)

// Resolver 按照站点生成器 relative_url 的规则拼接 baseurl
type Resolver struct {
	BaseURL string
}

func NewResolver(baseURL string) *Resolver {
	return &Resolver{BaseURL: baseURL}
}

func (r *Resolver) RelativeURL(path string) string {
	if parse, err := url.Parse(path); err == nil && parse.IsAbs() {
		return path
	}
	joined := ensureLeadingSlash(strings.TrimSuffix(r.BaseURL, "/")) + ensureLeadingSlash(path)
	// 与 relative_url 一致，对空格、非 ASCII 字符做百分号编码，已编码的部分保持不变
	parse, err := url.Parse(joined)
	if err != nil {
		return joined
	}
	return parse.String()
}

func ensureLeadingSlash(s string) string {
	if s == "" || strings.HasPrefix(s, "/") {
		return s
	}
	return "/" + s
}
