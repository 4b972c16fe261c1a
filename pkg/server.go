package pkg

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gopkg.d7z.net/sw-cachelist/pkg/cachelist"
	"gopkg.d7z.net/sw-cachelist/pkg/renders"
)

type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	if errors.Is(err, os.ErrNotExist) {
		http.Error(w, "page not found.", http.StatusNotFound)
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Server 预览服务，每次请求重新读取站点
type Server struct {
	generator *Generator
	routes    map[string]renders.Render
	cache     *lru.Cache[string, []byte]

	errorHandler ErrorHandler
}

type ServerOption func(*Server)

func WithErrorHandler(handler ErrorHandler) ServerOption {
	return func(s *Server) {
		s.errorHandler = handler
	}
}

// NewServer route 返回生成器配置的格式，route 去掉 .js 后缀加 .json 返回 JSON 格式
func NewServer(generator *Generator, route string, cacheSize int, opts ...ServerOption) (*Server, error) {
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to init render cache")
	}
	route = "/" + strings.TrimPrefix(route, "/")
	s := &Server{
		generator:    generator,
		routes:       map[string]renders.Render{route: generator.render},
		cache:        cache,
		errorHandler: DefaultErrorHandler,
	}
	if strings.HasSuffix(route, ".js") {
		s.routes[strings.TrimSuffix(route, ".js")+".json"] = renders.GetRender("json")
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Server) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	sessionID := uuid.NewString()
	writer.Header().Set("Session-ID", sessionID)
	if err := s.Serve(writer, request); err != nil {
		zap.L().Debug("failed to serve cache list",
			zap.String("session", sessionID),
			zap.String("path", request.URL.Path),
			zap.Error(err))
		s.errorHandler(writer, request, err)
	}
}

func (s *Server) Serve(writer http.ResponseWriter, request *http.Request) error {
	render, ok := s.routes[request.URL.Path]
	if !ok {
		return os.ErrNotExist
	}
	if request.Method != http.MethodGet && request.Method != http.MethodHead {
		writer.Header().Set("Allow", "GET, HEAD")
		http.Error(writer, "method not allowed.", http.StatusMethodNotAllowed)
		return nil
	}
	lists, err := s.generator.Lists(request.Context())
	if err != nil {
		zap.L().Error("failed to load site", zap.Error(err))
		// 站点读取失败不应被当作 404
		return errors.Errorf("load site: %v", err)
	}
	key := fingerprint(request.URL.Path, lists)
	body, found := s.cache.Get(key)
	if found {
		writer.Header().Set("X-Cache", "HIT")
	} else {
		out := &bytes.Buffer{}
		if err = render.Render(out, lists); err != nil {
			return err
		}
		body = out.Bytes()
		s.cache.Add(key, body)
		writer.Header().Set("X-Cache", "MISS")
	}
	etag := `"` + key[:16] + `"`
	writer.Header().Set("Content-Type", render.ContentType())
	writer.Header().Set("Cache-Control", "no-cache")
	writer.Header().Set("ETag", etag)
	if matchETag(request.Header.Get("If-None-Match"), etag) {
		writer.WriteHeader(http.StatusNotModified)
		return nil
	}
	writer.WriteHeader(http.StatusOK)
	if request.Method == http.MethodGet {
		_, _ = writer.Write(body)
	}
	return nil
}

func (s *Server) Close() error {
	s.cache.Purge()
	return nil
}

func matchETag(header, etag string) bool {
	for _, item := range strings.Split(header, ",") {
		item = strings.TrimPrefix(strings.TrimSpace(item), "W/")
		if item == "*" || item == etag {
			return true
		}
	}
	return false
}

func fingerprint(route string, lists *cachelist.Lists) string {
	h := sha256.New()
	h.Write([]byte(route))
	for _, items := range [][]string{lists.Include, lists.Exclude} {
		h.Write([]byte{0})
		for _, item := range items {
			h.Write([]byte(item))
			h.Write([]byte{'\n'})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
