// Package mediascraper provides a recursive media crawler. It renders web
// pages (including script-generated content) through a browser session,
// extracts image and video references with platform-aware extractors, and
// persists each discovered media item under a sanitized local path with
// deduplication.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, bloom/).
package mediascraper
