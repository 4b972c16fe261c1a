package config

import (
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/alecthomas/units"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"gopkg.d7z.net/sw-cachelist/pkg/renders"
)

type Config struct {
	Site       string `yaml:"site"`   // 站点根目录
	SiteConfig string `yaml:"config"` // 站点配置文件，相对站点根目录
	Output     string `yaml:"output"` // 生成文件路径，相对站点根目录
	Format     string `yaml:"format"` // 输出格式

	Tabs   ConfigTabs   `yaml:"tabs"`   // tab collection
	Server ConfigServer `yaml:"server"` // 预览服务
}

type ConfigTabs struct {
	Dir     string           `yaml:"dir"`
	Pattern string           `yaml:"pattern"`
	Limit   units.Base2Bytes `yaml:"limit"` // front matter 最大大小
}

type ConfigServer struct {
	Bind  string `yaml:"bind"`  // HTTP 绑定
	Route string `yaml:"route"` // 生成文件的访问路径
	Cache int    `yaml:"cache"` // 缓存的渲染结果数量
}

func Default() *Config {
	c := &Config{}
	_ = c.fill()
	return c
}

func (c *Config) fill() error {
	if c.Site == "" {
		c.Site = "."
	}
	if c.SiteConfig == "" {
		c.SiteConfig = "_config.yml"
	}
	if c.Output == "" {
		c.Output = "assets/js/data/cache-list.js"
	}
	if c.Format == "" {
		c.Format = "js"
	}
	if renders.GetRender(c.Format) == nil {
		return errors.Errorf("unsupported format %s, available: %v", c.Format, renders.Formats())
	}
	if c.Tabs.Dir == "" {
		c.Tabs.Dir = "_tabs"
	}
	if c.Tabs.Pattern == "" {
		c.Tabs.Pattern = "*.md"
	}
	if c.Tabs.Limit <= 0 {
		c.Tabs.Limit = 64 * units.KiB
	}
	c.SiteConfig = slashPath(c.SiteConfig)
	c.Output = slashPath(c.Output)
	c.Tabs.Dir = slashPath(c.Tabs.Dir)
	if c.Server.Bind == "" {
		c.Server.Bind = "127.0.0.1:4001"
	}
	if c.Server.Route == "" {
		c.Server.Route = "/" + c.Output
	}
	if c.Server.Cache <= 0 {
		c.Server.Cache = 32
	}
	return nil
}

// slashPath 转换为 io/fs 可接受的路径
func slashPath(p string) string {
	return path.Clean(filepath.ToSlash(p))
}

func LoadConfig(file string) (*Config, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var c Config
	decoder := yaml.NewDecoder(f)
	if err = decoder.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "failed to parse config %s", file)
	}
	if err = c.fill(); err != nil {
		return nil, err
	}
	stat, err := os.Stat(c.Site)
	if err != nil {
		return nil, errors.Wrap(err, "site dir not exists")
	}
	if !stat.IsDir() {
		return nil, errors.New("site dir is not a directory")
	}
	return &c, nil
}
