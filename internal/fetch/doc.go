// Package fetch provides the polite HTTP client used by the collectors.
//
// The client enforces an outbound rate limit with randomized jitter between
// requests, honors robots.txt, caps response bodies, and keeps a short-lived
// page cache so collection strategies sharing an endpoint within one run fetch
// it once. Rendering mechanics live behind the source endpoints; from here a
// fetch is a plain GET returning the page markup.
package fetch
