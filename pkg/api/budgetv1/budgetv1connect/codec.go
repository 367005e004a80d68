// Package budgetv1connect wires the budgetv1 messages to Connect handlers and clients.
package budgetv1connect

import (
	"encoding/json"
	"net/http"

	"connectrpc.com/connect"
)

// Codec marshals budgetv1 messages as JSON. It replaces Connect's protobuf
// codecs, which only accept generated proto messages.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// serve dispatches on the request path to a per-procedure handler.
func serve(routes map[string]*connect.Handler) *router {
	return &router{routes: routes}
}

type router struct {
	routes map[string]*connect.Handler
}

func (r *router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h, ok := r.routes[req.URL.Path]
	if !ok {
		http.NotFound(w, req)
		return
	}
	h.ServeHTTP(w, req)
}
