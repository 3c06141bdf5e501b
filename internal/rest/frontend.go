package rest

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// FrontendHandler serves a single page application. Existing files under dir are served as they are,
// any other path falls back to the index file so client side routing works.
type FrontendHandler struct {
	dir       string
	indexFile string
}

func NewFrontendHandler(dir string, indexFile string) *FrontendHandler {
	return &FrontendHandler{dir: dir, indexFile: indexFile}
}

func (h *FrontendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if IsAPIPath(r.URL.Path) {
		NotFound(w, r)
		return
	}
	cleaned := filepath.Clean("/" + strings.TrimPrefix(r.URL.Path, "/"))
	path := filepath.Join(h.dir, cleaned)

	info, err := os.Stat(path)
	if os.IsNotExist(err) || (err == nil && info.IsDir()) {
		log.Tracef("serving %s for %s", h.indexFile, r.URL.Path)
		http.ServeFile(w, r, filepath.Join(h.dir, h.indexFile))
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.FileServer(http.Dir(h.dir)).ServeHTTP(w, r)
}
