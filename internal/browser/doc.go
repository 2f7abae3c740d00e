// Package browser keeps pagination state for the catalog result lists.
//
// A [List] owns one independent [PageState] and one fetch binding. Four lists exist:
// search tracks and search playlists (owned by [Search]) and account playlists and liked
// songs (owned by [Account]). Lists never share state.
//
// Failed fetches leave the previous page, offset and total untouched so a transient error
// never clears what is already shown.
//
// Liked songs are gated on the session: without one, or when the session belongs to a
// different account, the list shows an explanatory notice instead of failing.
package browser
