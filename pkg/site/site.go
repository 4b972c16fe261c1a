package site

import (
	"io/fs"
	"os"
	"path"

	"github.com/alecthomas/units"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gopkg.d7z.net/sw-cachelist/pkg/cachelist"
)

type Options struct {
	ConfigFile string // 相对站点根目录

	TabsDir     string
	TabsPattern string
	TabsLimit   units.Base2Bytes
}

// Site 一次构建所使用的站点快照
type Site struct {
	Config   *Config
	Resolver *Resolver
	Tabs     []Tab
}

func Open(fsys fs.FS, opts Options) (*Site, error) {
	if opts.ConfigFile == "" {
		opts.ConfigFile = "_config.yml"
	}
	if opts.TabsDir == "" {
		opts.TabsDir = "_tabs"
	}
	// io/fs 不接受 ./ 前缀
	opts.ConfigFile = path.Clean(opts.ConfigFile)
	opts.TabsDir = path.Clean(opts.TabsDir)
	data, err := fs.ReadFile(fsys, opts.ConfigFile)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read site config %s", opts.ConfigFile)
	}
	config, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}
	result := &Site{
		Config:   config,
		Resolver: NewResolver(config.BaseURL),
	}
	if len(config.Tabs) > 0 {
		for _, tab := range config.Tabs {
			result.Tabs = append(result.Tabs, Tab{URL: tab.URL})
		}
		return result, nil
	}
	collection := config.Collections["tabs"]
	tabsOpts := TabOptions{
		Collection:    "tabs",
		Pattern:       opts.TabsPattern,
		Permalink:     collection.Permalink,
		SitePermalink: config.Permalink,
		SortBy:        collection.SortBy,
		Defaults:      config.Defaults,
		Limit:         opts.TabsLimit,
	}
	result.Tabs, err = LoadTabs(fsys, opts.TabsDir, tabsOpts)
	if errors.Is(err, os.ErrNotExist) {
		zap.L().Debug("tabs collection not found", zap.String("dir", opts.TabsDir))
		result.Tabs = nil
	} else if err != nil {
		return nil, err
	}
	return result, nil
}

// CacheConfig 将站点快照转换为缓存列表的输入
func (s *Site) CacheConfig() cachelist.Config {
	tabs := make([]cachelist.Tab, 0, len(s.Tabs))
	for _, tab := range s.Tabs {
		tabs = append(tabs, cachelist.Tab{URL: tab.URL})
	}
	return cachelist.Config{
		Resolver:  s.Resolver,
		Tabs:      tabs,
		Analytics: s.Config.Analytics(),
	}
}
