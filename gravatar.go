package userhub

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// GravatarURL derives the default avatar image address for an email.
// The derivation is deterministic: trim, lowercase, md5, per the
// gravatar addressing scheme.
func GravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=retro", hex.EncodeToString(sum[:]))
}
