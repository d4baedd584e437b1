package archive

import "time"

// DefaultThreshold is how long a channel may sit without a message before
// it is considered inactive.
const DefaultThreshold = 90 * 24 * time.Hour

// Inactive reports whether a channel's last activity is older than the
// threshold. A nil timestamp means no message has ever been observed; such
// channels are never inactive, so a freshly created channel cannot be
// archived before anyone speaks in it. The comparison is strict: exactly
// threshold-old activity still counts as active.
func Inactive(lastMessage *time.Time, now time.Time, threshold time.Duration) bool {
	if lastMessage == nil {
		return false
	}
	return now.Sub(*lastMessage) > threshold
}
