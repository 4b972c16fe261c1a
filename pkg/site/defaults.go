package site

import (
	"maps"
	"strings"

	"github.com/gobwas/glob"
)

func scopePath(p string) string {
	return strings.Trim(strings.TrimPrefix(p, "./"), "/")
}

func (d Default) matches(rel, collection string) bool {
	if d.Scope.Type != "" && d.Scope.Type != collection {
		return false
	}
	scope := scopePath(d.Scope.Path)
	if scope == "" {
		return true
	}
	if strings.Contains(scope, "*") {
		g, err := glob.Compile(scope, '/')
		return err == nil && g.Match(rel)
	}
	return rel == scope || strings.HasPrefix(rel, scope+"/")
}

// precedes 路径更长的 scope 优先，长度相同时声明了 type 的优先
func (d Default) precedes(old *Default) bool {
	if old == nil {
		return true
	}
	newPath, oldPath := scopePath(d.Scope.Path), scopePath(old.Scope.Path)
	if len(newPath) != len(oldPath) {
		return len(newPath) >= len(oldPath)
	}
	if d.Scope.Type != "" {
		return true
	}
	return old.Scope.Type == ""
}

// ResolveDefaults 合并对 rel (相对站点根目录) 生效的 defaults
func ResolveDefaults(defaults []Default, rel, collection string) map[string]any {
	result := make(map[string]any)
	var last *Default
	for i := range defaults {
		item := defaults[i]
		if !item.matches(rel, collection) {
			continue
		}
		if item.precedes(last) {
			maps.Copy(result, item.Values)
			last = &defaults[i]
		} else {
			merged := maps.Clone(item.Values)
			if merged == nil {
				merged = make(map[string]any)
			}
			maps.Copy(merged, result)
			result = merged
		}
	}
	return result
}
