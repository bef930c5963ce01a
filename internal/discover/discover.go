// Package discover finds the source files of a tree that are eligible for
// rewriting.
package discover

import (
	"context"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"

	"github.com/FOUEN/feishin-optimize/internal/scope"
)

// File is a discovered source file.
type File struct {
	URL  string // location usable with afs
	Path string // slash separated path relative to the walk root
}

// Options filters the walk.
type Options struct {
	Extensions []string     // kept extensions, e.g. ".ts"
	Skip       []string     // directory names never descended into
	Scope      *scope.Scope // nil includes everything
}

// Files walks root and returns matching files sorted by relative path.
func Files(ctx context.Context, fs afs.Service, root string, opts Options) ([]File, error) {
	extensions := mapset.NewSet[string]()
	for _, ext := range opts.Extensions {
		extensions.Add(strings.ToLower(ext))
	}
	skip := mapset.NewSet[string](opts.Skip...)
	pathScope := opts.Scope
	if pathScope == nil {
		pathScope = scope.All()
	}

	urls := map[string]string{}
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return !skip.Contains(info.Name()), nil
		}
		if !extensions.Contains(strings.ToLower(path.Ext(info.Name()))) {
			return true, nil
		}
		rel := path.Join(strings.Trim(parent, "/"), info.Name())
		urls[rel] = url.Join(baseURL, rel)
		return true, nil
	}
	if err := fs.Walk(ctx, root, visitor); err != nil {
		return nil, err
	}

	rels := make([]string, 0, len(urls))
	for rel := range urls {
		rels = append(rels, rel)
	}
	sort.Strings(rels)

	var files []File
	for _, rel := range pathScope.Filter(rels) {
		files = append(files, File{URL: urls[rel], Path: rel})
	}
	return files, nil
}
