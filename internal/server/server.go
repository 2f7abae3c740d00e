// package server hosts the short-lived HTTP listener that receives the Spotify login redirect
package server

import (
	"net/http"
)

// Middleware decorates a handler. See [BasicRouter.Use] for ordering.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that also reports the paths it should be mounted on.
type Handler interface {
	http.Handler
	Routes() []string
}

// Router mounts handlers behind a shared middleware chain.
type Router interface {
	http.Handler
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
}
