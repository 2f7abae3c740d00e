// Package services implements the collaborators used by the browsers and the converter.
//
// # Catalog
//
// [Catalog] is the query surface of the music catalog. [SpotifyCatalog] implements it
// with zmb3/spotify. The identity behind a catalog is decided by its http client:
//   - [NewPublicCatalog] uses the client credentials flow for search and public playlists
//   - [Authenticator.Session] uses a user token for liked songs and private playlists
//
// # Sessions
//
// A [Session] pairs an [models.Account] with the catalog authorized for it.
// [SessionStore] keeps at most one for the lifetime of the process; a new login replaces it.
//
// # Audio
//
// [YTDLPAcquirer] implements [Acquirer] by running a yt-dlp search for "<title> <artist> audio"
// and extracting the first hit's best audio stream. [ID3Tagger] writes title, artist and album
// frames into the result.
//
// # Error Handling
//
// Catalog calls wrap failures in [shared.ErrQueryFailure]. Missing application credentials yield
// [shared.ErrMissingCredentials] and failed logins [shared.ErrAuthFailed].
package services
