package engine

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/localmock/localmock/pkg/httputil"
	"github.com/localmock/localmock/pkg/util"
)

// DefaultStaticPatterns are the request paths served from the static directory.
var DefaultStaticPatterns = []string{"/", "/static/**"}

// StaticServer serves a static file for urlPath and returns the status sent.
type StaticServer interface {
	ServeStatic(w http.ResponseWriter, r *http.Request, urlPath string) int
}

type staticRoute struct {
	server   StaticServer
	patterns []string
}

func (s *staticRoute) matches(urlPath string) bool {
	if s == nil || s.server == nil {
		return false
	}
	for _, p := range s.patterns {
		if ok, err := doublestar.Match(p, urlPath); err == nil && ok {
			return true
		}
	}
	return false
}

// DirServer serves files from a directory. "/" maps to the index file.
type DirServer struct {
	Root  string
	Index string
}

// NewDirServer returns a DirServer rooted at root with index.html as index.
func NewDirServer(root string) *DirServer {
	return &DirServer{Root: root, Index: "index.html"}
}

// ServeStatic implements StaticServer.
func (d *DirServer) ServeStatic(w http.ResponseWriter, _ *http.Request, urlPath string) int {
	if urlPath == "/" || urlPath == "" {
		urlPath = "/" + d.Index
	}

	full, ok := util.SafeJoin(d.Root, urlPath)
	if !ok {
		return httputil.WriteError(w, http.StatusForbidden, "Forbidden")
	}

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return httputil.WriteNotFound(w, "File not found")
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return httputil.WriteInternalError(w, "Error reading file")
	}

	contentType := mime.TypeByExtension(filepath.Ext(full))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	return http.StatusOK
}
