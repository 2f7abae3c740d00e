// Package server runs the local redirect target used by `spotmp3 login`.
//
// A [BasicRouter] wraps [http.ServeMux] with method matching and a [Middleware] chain,
// where the first middleware passed to Use sees the request first.
//
// [OAuthHandler] accepts a single redirect: it checks the state token, hands the code
// to an [ExchangeFunc] and publishes one [OAuthResult]. [AwaitCallback] binds the
// listener, waits for that result (or a timeout or cancellation) and shuts the server down.
package server
