package renders

import (
	"io"
	"sort"
	"sync"

	"gopkg.d7z.net/sw-cachelist/pkg/cachelist"
)

var (
	renders = make(map[string]Render)
	lock    = &sync.Mutex{}
)

type Render interface {
	ContentType() string
	Render(w io.Writer, lists *cachelist.Lists) error
}

func RegisterRender(format string, r Render) {
	lock.Lock()
	defer lock.Unlock()
	if renders[format] != nil {
		panic("duplicate render type: " + format)
	}
	renders[format] = r
}

func GetRender(format string) Render {
	lock.Lock()
	defer lock.Unlock()
	return renders[format]
}

func Formats() []string {
	lock.Lock()
	defer lock.Unlock()
	result := make([]string, 0, len(renders))
	for key := range renders {
		result = append(result, key)
	}
	sort.Strings(result)
	return result
}
