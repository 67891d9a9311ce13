package utils

import (
	"net/url"
	"strings"
	"time"
)

// DefaultAvatarURL builds an initials avatar for users registering without an image.
func DefaultAvatarURL(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "User"
	}
	return "https://ui-avatars.com/api/?background=16a34a&color=fff&name=" + url.QueryEscape(name)
}

// GetDaysSinceJoined 计算注册天数
func GetDaysSinceJoined(createdAt time.Time) int {
	return int(time.Since(createdAt).Hours() / 24)
}
