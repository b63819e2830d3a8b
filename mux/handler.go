package mux

import "github.com/havenwire/gemini"

// TreeHandler adapts a Tree[gemini.Handler] into a gemini.Handler: it looks
// up the request's path segments, attaches whatever segments followed the
// matched route to the request as its trailing segments, and delegates to
// the matched handler. Requests matching no registered route get a 51
// response.
func TreeHandler(tree *Tree[gemini.Handler]) gemini.Handler {
	return gemini.HandlerFunc(func(r *gemini.Request) *gemini.Response {
		handler, trailing, ok := tree.Lookup(r.PathSegments())
		if !ok {
			return gemini.ResponseNotFound()
		}
		r.SetTrailingSegments(trailing)
		return handler.ServeGemini(r)
	})
}
