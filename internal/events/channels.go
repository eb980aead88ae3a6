package events

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Logical per-recipient destinations. These are the only channels the
// fan-out publishes to.
const (
	ChannelMessages      = "messages"
	ChannelNotifications = "notifications"
)

// UserChannel builds the transport channel name for a recipient and a
// logical destination, e.g. "channel:user:<id>:messages".
func UserChannel(userID uuid.UUID, channel string) string {
	return fmt.Sprintf("channel:user:%s:%s", userID, channel)
}

// UserChannelPattern matches every per-recipient channel and is what the
// websocket bridge subscribes to.
const UserChannelPattern = "channel:user:*"

// ParseUserChannel extracts the recipient id and logical destination from
// a transport channel name. ok is false for foreign channels.
func ParseUserChannel(name string) (userID uuid.UUID, channel string, ok bool) {
	parts := strings.Split(name, ":")
	if len(parts) != 4 || parts[0] != "channel" || parts[1] != "user" {
		return uuid.Nil, "", false
	}
	id, err := uuid.Parse(parts[2])
	if err != nil {
		return uuid.Nil, "", false
	}
	switch parts[3] {
	case ChannelMessages, ChannelNotifications:
		return id, parts[3], true
	}
	return uuid.Nil, "", false
}
