package site

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"gopkg.d7z.net/sw-cachelist/pkg/cachelist"
)

// Config 为 _config.yml 中被使用的部分
type Config struct {
	BaseURL   string `yaml:"baseurl"`   // 子路径
	Permalink string `yaml:"permalink"` // 全局 permalink 风格，默认 date

	Tabs []cachelist.Tab `yaml:"tabs"` // 显式声明的 tab，存在时跳过 collection 扫描

	Collections map[string]Collection `yaml:"collections"`
	Defaults    []Default             `yaml:"defaults"`

	GoogleAnalytics struct {
		PV struct {
			ProxyURL string `yaml:"proxy_url"`
			Enabled  bool   `yaml:"enabled"`
		} `yaml:"pv"`
	} `yaml:"google_analytics"`
}

type Collection struct {
	Permalink string `yaml:"permalink"`
	SortBy    string `yaml:"sort_by"`
}

// Default 对应 front matter defaults 中的一项
type Default struct {
	Scope  DefaultScope   `yaml:"scope"`
	Values map[string]any `yaml:"values"`
}

type DefaultScope struct {
	Path string `yaml:"path"`
	Type string `yaml:"type"`
}

func (c *Config) Analytics() cachelist.Analytics {
	return cachelist.Analytics{
		ProxyURL: c.GoogleAnalytics.PV.ProxyURL,
		Enabled:  c.GoogleAnalytics.PV.Enabled,
	}
}

func ParseConfig(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "parse site config")
	}
	return &c, nil
}
