package mediascraper

import "context"

// Credentials is a login record consumed at the authentication step of a
// browser session. Loading and storage are the surrounding glue's concern.
type Credentials struct {
	Username string
	Password string
}

// Empty reports whether the credentials are unusable for a login attempt.
func (c Credentials) Empty() bool {
	return c.Username == "" || c.Password == ""
}

// BrowserSession abstracts navigation, scrolling, and login over a dynamic
// content renderer. A session is a single stateful browser tab: one page is
// loaded at a time and navigation is strictly sequential. Concurrent calls
// must not be attempted.
//
// Navigation failures are surfaced as EFETCH errors and are recoverable;
// they never terminate a whole run.
type BrowserSession interface {
	// Render navigates to the URL, waits for scripts to settle, and
	// returns the rendered DOM snapshot.
	Render(ctx context.Context, url string) (dom string, err error)

	// ScrollAndWait scrolls the current page to the bottom, pauses for the
	// session's configured scroll interval, and returns the possibly
	// updated DOM snapshot.
	ScrollAndWait(ctx context.Context) (dom string, err error)

	// CurrentURL returns the URL the session is currently on. It may
	// differ from the last Render argument after redirects.
	CurrentURL() string

	// Login navigates to loginURL and submits the credentials through the
	// page's login form.
	Login(ctx context.Context, loginURL string, creds Credentials) error

	// Close releases renderer resources.
	// Must be called when the session is no longer needed.
	Close() error
}
