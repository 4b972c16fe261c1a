package renders

import (
	"encoding/json"
	"io"

	"gopkg.d7z.net/sw-cachelist/pkg/cachelist"
)

type JSON struct{}

func init() {
	RegisterRender("json", &JSON{})
}

func (j JSON) ContentType() string {
	return "application/json; charset=utf-8"
}

func (j JSON) Render(w io.Writer, lists *cachelist.Lists) error {
	return json.NewEncoder(w).Encode(lists)
}
