// Package models defines the catalog and conversion types shared by the resolver, browsers and converter.
//
// The package contains three categories of types:
//
// 1. References: typed handles produced from user input
//   - [Kind] : Track, Playlist, Artist or SearchTerm
//   - [ItemReference] : a Kind paired with an id or raw query
//
// 2. Catalog projections: read-only views of remote records
//   - [TrackSummary] : title and ordered artists, the key passed to audio acquisition
//   - [PlaylistSummary], [ArtistSummary], [Account]
//   - [Page] and [EntryPage] : one slice of a paginated listing
//
// 3. Conversion outcomes
//   - [ConversionResult] : one per track attempted
//   - [ConversionReport] : the results of one convert call, in playlist order
//   - [ConversionRecord] : a persisted summary of a report
package models
