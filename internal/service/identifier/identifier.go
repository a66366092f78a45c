package identifier

import (
	"fmt"
	"strings"

	"github.com/jgivc/rgudw/internal/common"
	"github.com/jgivc/rgudw/internal/entity"
)

const (
	prefixLen = 4
)

var validPrefixes = map[string]struct{}{
	"BCAS": {}, "BCAX": {}, "BCED": {}, "BCES": {}, "BCJB": {},
	"BCJS": {}, "BCKS": {}, "BCUS": {}, "BLAS": {}, "BLES": {},
	"BLJM": {}, "BLJS": {}, "BLJX": {}, "BLKS": {}, "BLUD": {},
	"BLUS": {}, "MRTC": {}, "NPEA": {}, "NPUB": {}, "NPUA": {},
	"NPEB": {}, "NPJB": {}, "NPIA": {}, "NPJA": {}, "NPHA": {},
}

// Validate uppercases the prefix of raw and checks it against the known prefixes.
// The remainder must consist of decimal digits only.
func Validate(raw string) (entity.Identifier, error) {
	if len(raw) <= prefixLen {
		return "", fmt.Errorf("%w: %s", common.ErrInvalidIdentifier, raw)
	}

	prefix := strings.ToUpper(raw[:prefixLen])
	suffix := raw[prefixLen:]

	if _, ok := validPrefixes[prefix]; !ok || !isDecimal(suffix) {
		return "", fmt.Errorf("%w: %s", common.ErrInvalidIdentifier, prefix+suffix)
	}

	return entity.Identifier(prefix + suffix), nil
}

func isDecimal(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return s != ""
}
