// Package clientip resolves the caller's IP address behind common reverse
// proxies (Cloudflare, DigitalOcean App Platform, nginx) and carries it in the
// request context for logging.
//
// Proxy headers are trusted as-is. Deploy behind a proxy that overwrites them.
package clientip
