package renders

import (
	"bytes"
	"io"
	"strings"

	"gopkg.d7z.net/sw-cachelist/pkg/cachelist"
	"gopkg.d7z.net/sw-cachelist/pkg/utils"
)

const scriptTemplate = `const include = [
  {{ .Include | jsquote | join ",\n  " }}
];

const exclude = [
  {{ .Exclude | jsquote | join ",\n  " }}
];
`

var jsEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

// Script 输出 service worker 可直接引用的数组字面量
type Script struct{}

func init() {
	RegisterRender("js", &Script{})
}

func (s Script) ContentType() string {
	return "application/javascript; charset=utf-8"
}

func (s Script) Render(w io.Writer, lists *cachelist.Lists) error {
	tmpl, err := utils.NewTemplate("cache-list.js").Funcs(map[string]any{
		"jsquote": func(items []string) []string {
			result := make([]string, 0, len(items))
			for _, item := range items {
				result = append(result, "'"+jsEscaper.Replace(item)+"'")
			}
			return result
		},
	}).Parse(scriptTemplate)
	if err != nil {
		return err
	}
	out := &bytes.Buffer{}
	if err = tmpl.Execute(out, lists); err != nil {
		return err
	}
	_, err = out.WriteTo(w)
	return err
}
