// Package notify delivers short confirmations ("Entry saved!") to the user.
//
// A [Confirmer] prefers a [Native] channel and falls back to an [Alerter]. The
// native channel's permission is asked for lazily, at the first confirmation,
// never at startup. When the native channel is unavailable, denied or fails,
// the message goes to the alert channel without surfacing an error.
package notify

import "context"

// Permission mirrors the three states of a notification permission.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// ParsePermission maps a config value onto a Permission; unknown values are default.
func ParsePermission(s string) Permission {
	switch Permission(s) {
	case PermissionGranted:
		return PermissionGranted
	case PermissionDenied:
		return PermissionDenied
	default:
		return PermissionDefault
	}
}

// Native is a system-level notification channel.
type Native interface {
	// Name returns the channel's name for logging purposes.
	Name() string

	// Available reports whether the channel can be used at all.
	Available() bool

	Permission() Permission

	// RequestPermission asks the user once and remembers the answer.
	RequestPermission(ctx context.Context) (Permission, error)

	// Show delivers msg.
	Show(ctx context.Context, msg string) error
}

// Alerter is the always-available fallback channel.
type Alerter interface {
	Alert(ctx context.Context, msg string) error
}

// Channel names the channel a confirmation went out on.
type Channel string

const (
	ChannelNative Channel = "native"
	ChannelAlert  Channel = "alert"
)
