package site

import (
	"net/url"
	"regexp"
	"strings"
)

const DefaultTabPermalink = "/:collection/:path:output_ext"

var (
	slugDefault = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	slugPretty  = regexp.MustCompile(`[^\p{L}\p{N}._~!$&'()+,;=@]+`)
	slashes     = regexp.MustCompile(`/{2,}`)
)

var markupExts = map[string]bool{
	".md": true, ".markdown": true, ".mkd": true, ".mkdn": true, ".mdown": true,
	".html": true, ".htm": true, ".textile": true,
}

// CollectionPermalink 返回 collection 未声明 permalink 时按全局风格补全的模板
func CollectionPermalink(configured, style string) string {
	if configured != "" {
		return configured
	}
	template := "/:collection/:path"
	switch style {
	case "pretty":
		return template + "/"
	case "", "date", "ordinal", "none":
		return template + ":output_ext"
	}
	if strings.HasSuffix(style, "/") {
		template += "/"
	}
	if strings.HasSuffix(style, ":output_ext") {
		template += ":output_ext"
	}
	return template
}

func slugify(s string, pretty, cased bool) string {
	re := slugDefault
	if pretty {
		re = slugPretty
	}
	s = strings.Trim(re.ReplaceAllString(s, "-"), "-")
	if !cased {
		s = strings.ToLower(s)
	}
	return s
}

func outputExt(ext string) string {
	if markupExts[strings.ToLower(ext)] {
		return ".html"
	}
	return ext
}

func escapePath(s string) string {
	return (&url.URL{Path: s}).EscapedPath()
}

// expandPermalink 展开 :collection :path :name :basename :title :slug :output_ext
func expandPermalink(template, collection, rel, slug string) string {
	ext := ""
	if i := strings.LastIndex(rel, "."); i > strings.LastIndex(rel, "/") {
		ext = rel[i:]
	}
	docPath := strings.TrimRight(strings.TrimSuffix(rel, ext), ".")
	basename := docPath[strings.LastIndex(docPath, "/")+1:]
	if slug == "" {
		slug = basename
	}
	out := strings.NewReplacer(
		":collection", escapePath(collection),
		":output_ext", escapePath(outputExt(ext)),
		":basename", escapePath(basename),
		":path", escapePath(docPath),
		":name", escapePath(slugify(basename, false, false)),
		":title", escapePath(slugify(slug, true, true)),
		":slug", escapePath(slugify(slug, false, false)),
	).Replace(template)
	out = strings.ReplaceAll("/"+out, "..", "/")
	out = strings.ReplaceAll(out, "./", "")
	return slashes.ReplaceAllString(out, "/")
}
