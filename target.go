package mediascraper

import (
	"net/url"
	"regexp"
)

// TargetKind identifies the extractor variant a seed target requires.
type TargetKind string

// Supported target kinds.
const (
	TargetGeneral   TargetKind = "general"
	TargetInstagram TargetKind = "instagram"
	TargetTwitter   TargetKind = "twitter"
)

// usernameRegexp matches platform usernames: letters, digits, underscore, dot.
var usernameRegexp = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)

// Target is a seed identifier: either a URL (general) or a platform
// username. Immutable once created.
type Target struct {
	Kind  TargetKind
	Value string
}

// NewTarget creates a validated Target.
func NewTarget(kind TargetKind, value string) (Target, error) {
	t := Target{Kind: kind, Value: value}
	if err := t.Validate(); err != nil {
		return Target{}, err
	}
	return t, nil
}

// Validate returns an error if the target is malformed.
func (t Target) Validate() error {
	if t.Value == "" {
		return Errorf(ECONFIG, "target value required")
	}
	switch t.Kind {
	case TargetGeneral:
		u, err := url.Parse(t.Value)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return Errorf(ECONFIG, "invalid target URL %q", t.Value)
		}
	case TargetInstagram, TargetTwitter:
		if !usernameRegexp.MatchString(t.Value) {
			return Errorf(ECONFIG, "invalid %s username %q", t.Kind, t.Value)
		}
	default:
		return Errorf(ECONFIG, "unknown target kind %q", t.Kind)
	}
	return nil
}

// String returns a display form of the target.
func (t Target) String() string {
	return string(t.Kind) + ":" + t.Value
}
