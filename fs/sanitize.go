// Package fs persists downloaded media and run reports to the local
// filesystem. File and folder names derived from page titles and URLs
// are sanitized to a portable form before use, and writes go through a
// temp-file-then-rename step so interrupted runs never leave partially
// written media behind.
package fs

import (
	"regexp"
	"strings"
)

// untitledName is used when sanitization leaves nothing usable.
const untitledName = "untitled"

// unsafeChars matches characters that are invalid in file names on at
// least one supported platform, plus control characters.
var unsafeChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// SanitizeName converts an arbitrary string (page title, username, URL
// segment) into a safe file or folder name. The mapping is idempotent:
// sanitizing an already sanitized name returns it unchanged.
func SanitizeName(name string) string {
	s := unsafeChars.ReplaceAllString(name, "_")
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ". ")
	if s == "" {
		return untitledName
	}
	return s
}
