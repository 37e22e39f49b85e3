// Package wordpress reads the media library of a WordPress site through its
// REST API.
//
// Client implements xlmacro.PageFetcher over GET /wp-json/wp/v2/media, so the
// media-urls macro can page through the library without knowing about HTTP.
// Requests carry Basic auth built from an application password when one is
// configured; public listings work without credentials.
package wordpress
