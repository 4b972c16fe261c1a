package cachelist

// Resolver 将站点内相对路径转换为可部署的地址
type Resolver interface {
	RelativeURL(path string) string
}

type ResolverFunc func(path string) string

func (f ResolverFunc) RelativeURL(path string) string {
	return f(path)
}

type Tab struct {
	URL string `json:"url" yaml:"url"`
}

type Analytics struct {
	ProxyURL string `json:"proxy_url" yaml:"proxy_url"`
	Enabled  bool   `json:"enabled" yaml:"enabled"`
}

type Config struct {
	Resolver  Resolver
	Tabs      []Tab
	Analytics Analytics
}

// Lists 为 service worker 使用的缓存列表，构建后不再修改
type Lists struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

var (
	stylesheets = []string{
		"/assets/css/home.css",
		"/assets/css/categories.css",
		"/assets/css/tags.css",
		"/assets/css/archives.css",
		"/assets/css/page.css",
		"/assets/css/post.css",
		"/assets/css/category-tag.css",
		"/assets/css/lib/bootstrap-toc.min.css",
	}
	scripts = []string{
		"/assets/js/home.min.js",
		"/assets/js/page.min.js",
		"/assets/js/post.min.js",
		"/assets/js/categories.min.js",
	}
	iconDir   = "/assets/img/favicons"
	iconFiles = []string{
		"favicon.ico",
		"apple-icon.png",
		"apple-icon-precomposed.png",
		"android-icon-192x192.png",
		"ms-icon-150x150.png",
		"manifest.json",
		"browserconfig.xml",
	}
	others = []string{
		"/assets/js/data/search.json",
		"/404.html",
	}
	roots = []string{
		"/app.js",
		"/sw.js",
	}
)

const (
	PageviewsData = "/assets/js/data/pageviews.json"
	ShieldsHost   = "/img.shields.io/"
)

// FixedIncludes 为不包含 tab 时 Include 的长度
const FixedIncludes = 8 + 4 + 7 + 2 + 2

// Build 根据站点配置生成缓存与排除列表。
// 不做去重、排序与校验，resolver 的返回值原样使用。
func Build(cfg Config) *Lists {
	resolve := cfg.Resolver
	if resolve == nil {
		resolve = ResolverFunc(func(path string) string { return path })
	}

	include := make([]string, 0, FixedIncludes+len(cfg.Tabs))
	for _, item := range stylesheets {
		include = append(include, resolve.RelativeURL(item))
	}
	for _, item := range scripts {
		include = append(include, resolve.RelativeURL(item))
	}
	for _, tab := range cfg.Tabs {
		include = append(include, tab.URL)
	}
	iconURL := resolve.RelativeURL(iconDir)
	for _, item := range iconFiles {
		include = append(include, iconURL+"/"+item)
	}
	for _, item := range others {
		include = append(include, resolve.RelativeURL(item))
	}
	for _, item := range roots {
		include = append(include, resolve.RelativeURL(item))
	}

	exclude := make([]string, 0, 3)
	if cfg.Analytics.ProxyURL != "" && cfg.Analytics.Enabled {
		exclude = append(exclude, cfg.Analytics.ProxyURL)
	}
	exclude = append(exclude, PageviewsData, ShieldsHost)

	return &Lists{
		Include: include,
		Exclude: exclude,
	}
}
