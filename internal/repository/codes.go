package repository

import (
	"strings"

	"github.com/google/uuid"
)

const (
	CodePrefixDriver   = "DRV"
	CodePrefixVehicle  = "VEH"
	CodePrefixRoute    = "RT"
	CodePrefixDelivery = "DEL"
)

// codeAttempts bounds duplicate-key retries when generating external codes.
const codeAttempts = 5

// NewCode builds an external entity code like DRV-9F3A21BC. The token comes
// from a fresh uuid rather than a timestamp, so rapid sequential creation
// cannot collide; the unique index still backstops the rare repeat.
func NewCode(prefix string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(token[:8])
}
