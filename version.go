package programverify

import (
	"strconv"
	"strings"
)

// StrictMajor is the major specification version from which the presence of
// phase contracts becomes mandatory.
const StrictMajor = 3

// MajorVersion parses the leading major component out of a spec_version string.
// The expected format is v<major>[.<minor>][-<pre>][+<build>]; the "v" prefix is
// required. Returns false when the string does not carry a parsable major version.
func MajorVersion(version string) (int, bool) {
	if !strings.HasPrefix(version, "v") {
		return 0, false
	}

	rest := version[1:]
	if i := strings.IndexAny(rest, ".-+"); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return 0, false
	}

	major, err := strconv.Atoi(rest)
	if err != nil || major < 0 {
		return 0, false
	}
	return major, true
}

// IsStrict reports whether strict-contract checks apply for the given
// spec_version string. A missing or unparsable version never activates strict
// mode; the gate only raises the bar, it is not itself a validation target.
func IsStrict(version string) bool {
	major, ok := MajorVersion(version)
	return ok && major >= StrictMajor
}
