package pkg

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gopkg.d7z.net/sw-cachelist/pkg/cachelist"
	"gopkg.d7z.net/sw-cachelist/pkg/config"
	"gopkg.d7z.net/sw-cachelist/pkg/renders"
	"gopkg.d7z.net/sw-cachelist/pkg/site"
)

type Generator struct {
	fsys   fs.FS
	root   string
	output string
	render renders.Render
	opts   site.Options
}

func NewGenerator(c *config.Config) (*Generator, error) {
	return NewGeneratorFS(os.DirFS(c.Site), c)
}

// NewGeneratorFS 使用指定的文件系统读取站点，输出仍写入 c.Site
func NewGeneratorFS(fsys fs.FS, c *config.Config) (*Generator, error) {
	render := renders.GetRender(c.Format)
	if render == nil {
		return nil, errors.Errorf("unsupported format %s", c.Format)
	}
	return &Generator{
		fsys:   fsys,
		root:   c.Site,
		output: c.Output,
		render: render,
		opts: site.Options{
			ConfigFile:  filepath.ToSlash(c.SiteConfig),
			TabsDir:     filepath.ToSlash(c.Tabs.Dir),
			TabsPattern: c.Tabs.Pattern,
			TabsLimit:   c.Tabs.Limit,
		},
	}, nil
}

// Lists 读取当前站点快照并生成缓存列表
func (g *Generator) Lists(ctx context.Context) (*cachelist.Lists, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, err := site.Open(g.fsys, g.opts)
	if err != nil {
		return nil, err
	}
	lists := cachelist.Build(s.CacheConfig())
	zap.L().Debug("cache list built",
		zap.Int("tabs", len(s.Tabs)),
		zap.Int("include", len(lists.Include)),
		zap.Int("exclude", len(lists.Exclude)))
	return lists, nil
}

func (g *Generator) Generate(ctx context.Context, w io.Writer) error {
	lists, err := g.Lists(ctx)
	if err != nil {
		return err
	}
	return g.render.Render(w, lists)
}

// WriteFile 生成并写入目标文件，返回写入路径
func (g *Generator) WriteFile(ctx context.Context) (string, error) {
	out := &bytes.Buffer{}
	if err := g.Generate(ctx, out); err != nil {
		return "", err
	}
	target := filepath.Join(g.root, filepath.FromSlash(g.output))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create dir for %s", target)
	}
	if err := os.WriteFile(target, out.Bytes(), 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", target)
	}
	zap.L().Info("cache list generated", zap.String("path", target), zap.Int("size", out.Len()))
	return target, nil
}
