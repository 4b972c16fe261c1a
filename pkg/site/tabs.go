package site

import (
	"bufio"
	"bytes"
	"cmp"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/alecthomas/units"
	"github.com/gobwas/glob"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrFrontMatterTooLarge = errors.New("front matter exceeds size limit")

type Tab struct {
	Name  string // 文件名（不包含扩展名）
	Path  string // 相对站点根目录
	Title string
	URL   string
	Data  map[string]any // defaults 与 front matter 合并后的结果
}

type TabOptions struct {
	Collection    string           // collection 名称，默认 tabs
	Pattern       string           // 文档匹配规则
	Permalink     string           // collection 级别的 permalink 模板
	SitePermalink string           // 全局 permalink 风格
	SortBy        string           // 排序字段，为空时按路径排序
	Defaults      []Default        // front matter defaults
	Limit         units.Base2Bytes // front matter 最大大小
}

// LoadTabs 扫描 dir 下的 collection 文档。
// 指定 SortBy 时按该字段排序，缺少该字段的文档按路径排在最后。
func LoadTabs(fsys fs.FS, dir string, opts TabOptions) ([]Tab, error) {
	if opts.Collection == "" {
		opts.Collection = "tabs"
	}
	if opts.Pattern == "" {
		opts.Pattern = "*.md"
	}
	opts.Permalink = CollectionPermalink(opts.Permalink, opts.SitePermalink)
	if opts.Limit <= 0 {
		opts.Limit = 64 * units.KiB
	}
	matcher, err := glob.Compile(opts.Pattern, '/')
	if err != nil {
		return nil, errors.Wrapf(err, "invalid tab pattern %s", opts.Pattern)
	}
	dir = path.Clean(dir)

	tabs := make([]Tab, 0)
	err = fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel := p
		if dir != "." {
			rel = strings.TrimPrefix(p, dir+"/")
		}
		if !matcher.Match(rel) {
			return nil
		}
		tab, err := readTab(fsys, p, rel, opts)
		if err != nil {
			return errors.Wrapf(err, "failed to load tab %s", p)
		}
		tabs = append(tabs, *tab)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(tabs, func(a, b Tab) int {
		if opts.SortBy != "" {
			av, aok := a.Data[opts.SortBy]
			bv, bok := b.Data[opts.SortBy]
			switch {
			case aok && !bok:
				return -1
			case !aok && bok:
				return 1
			case aok && bok:
				if c := compareValue(av, bv); c != 0 {
					return c
				}
			}
		}
		return strings.Compare(a.Path, b.Path)
	})
	return tabs, nil
}

func compareValue(a, b any) int {
	af, aok := number(a)
	bf, bok := number(b)
	if aok && bok {
		return cmp.Compare(af, bf)
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func readTab(fsys fs.FS, p, rel string, opts TabOptions) (*Tab, error) {
	f, err := fsys.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	raw, err := readFrontMatter(f, int64(opts.Limit))
	if err != nil {
		return nil, err
	}
	data := ResolveDefaults(opts.Defaults, p, opts.Collection)
	if len(raw) > 0 {
		meta := make(map[string]any)
		if err = yaml.Unmarshal(raw, &meta); err != nil {
			return nil, errors.Wrap(err, "parse front matter")
		}
		maps.Copy(data, meta)
	}
	permalink, _ := data["permalink"].(string)
	if permalink == "" {
		permalink = opts.Permalink
	}
	slug, _ := data["slug"].(string)
	title, _ := data["title"].(string)
	base := path.Base(p)
	return &Tab{
		Name:  strings.TrimSuffix(base, path.Ext(base)),
		Path:  p,
		Title: title,
		URL:   expandPermalink(permalink, opts.Collection, rel, slug),
		Data:  data,
	}, nil
}

// readFrontMatter 返回首尾 "---" 之间的内容，没有 front matter 时返回 nil
func readFrontMatter(r io.Reader, limit int64) ([]byte, error) {
	reader := bufio.NewReader(io.LimitReader(r, limit+1))
	first, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	if strings.TrimSpace(first) != "---" {
		return nil, nil
	}
	read := int64(len(first))
	out := &bytes.Buffer{}
	for {
		line, err := reader.ReadString('\n')
		read += int64(len(line))
		if read > limit {
			return nil, ErrFrontMatterTooLarge
		}
		if strings.TrimSpace(line) == "---" {
			return out.Bytes(), nil
		}
		out.WriteString(line)
		if err == io.EOF {
			return nil, errors.New("unterminated front matter")
		}
		if err != nil {
			return nil, err
		}
	}
}
