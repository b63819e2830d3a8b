// Package servedir serves a directory tree over Gemini. It is a client of
// the public gemini package, not part of the core: the core has no notion
// of a filesystem, only of Handler and Response.
package servedir

import (
	"io/fs"
	"net/url"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/havenwire/gemini"
)

// Handler serves the contents of root, resolving a request's trailing path
// segments against it. Directory requests without a trailing slash are
// redirected permanently to the slash-terminated form; directories
// containing an index.gmi serve that file instead of a listing.
func Handler(root string) gemini.Handler {
	return gemini.HandlerFunc(func(r *gemini.Request) *gemini.Response {
		fsys := os.DirFS(root)
		segments := r.TrailingSegments()
		if p := r.URI().EscapedPath(); !strings.HasSuffix(p, "/") {
			virtualPath := strings.Join(segments, "/")
			if virtualPath == "" {
				virtualPath = "."
			}
			if info, err := fs.Stat(fsys, virtualPath); err == nil && info.IsDir() {
				return gemini.NewResponse(gemini.RedirectPermanentLossy(p + "/"))
			}
		}
		return serveDir(fsys, segments)
	})
}

func serveDir(fsys fs.FS, segments []string) *gemini.Response {
	for _, seg := range segments {
		if seg == ".." || seg == "." {
			return gemini.ResponseNotFound()
		}
	}
	virtualPath := strings.Join(segments, "/")
	if virtualPath == "" {
		virtualPath = "."
	}

	info, err := fs.Stat(fsys, virtualPath)
	if err != nil {
		if os.IsNotExist(err) {
			return gemini.ResponseNotFound()
		}
		return serverErrorResponse(err)
	}

	if !info.IsDir() {
		return serveFile(fsys, virtualPath)
	}

	if index, err := fs.Stat(fsys, path.Join(virtualPath, "index.gmi")); err == nil && !index.IsDir() {
		return serveFile(fsys, path.Join(virtualPath, "index.gmi"))
	}
	return serveDirListing(fsys, virtualPath, segments)
}

func serveFile(fsys fs.FS, virtualPath string) *gemini.Response {
	f, err := fsys.Open(virtualPath)
	if err != nil {
		if os.IsNotExist(err) {
			return gemini.ResponseNotFound()
		}
		return serverErrorResponse(err)
	}
	mimeType := guessMIMEFromPath(virtualPath)
	return gemini.ResponseSuccess(mimeType, gemini.ReaderBody(f))
}

func serveDirListing(fsys fs.FS, virtualPath string, segments []string) *gemini.Response {
	entries, err := fs.ReadDir(fsys, virtualPath)
	if err != nil {
		if os.IsNotExist(err) {
			return gemini.ResponseNotFound()
		}
		return serverErrorResponse(err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	doc := gemini.NewDocument().AddHeading(gemini.Heading1, "Index of /"+strings.Join(segments, "/"))
	doc.AddBlankLine()
	if len(segments) > 0 {
		doc.AddLink("../", "../")
	}
	for _, entry := range entries {
		name := entry.Name()
		link := (&url.URL{Path: name}).String()
		if entry.IsDir() {
			name += "/"
			link += "/"
		}
		doc.AddLink(link, name)
	}
	return gemini.ResponseSuccessGemini(doc)
}

// guessMIMEFromPath maps a handful of well-known extensions to their MIME
// types, falling back to application/octet-stream for anything else. This
// mirrors a conservative, dependency-free subset rather than consulting the
// full extension registry: servedir only needs to disambiguate between
// "render as gemtext/plain text" and "stream as an opaque file".
func guessMIMEFromPath(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".gmi", ".gemini":
		return gemini.GeminiMIMEStr
	case ".txt":
		return "text/plain"
	case ".jpeg", ".jpg", ".jpe":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

func serverErrorResponse(err error) *gemini.Response {
	header, headerErr := gemini.ServerError("internal error")
	if headerErr != nil {
		header = gemini.NotFound()
	}
	return gemini.NewResponse(header)
}
