package urlresolver

import "regexp"

// wildcardToken matches every spelling of the wildcard placeholder:
//
//	token    = [ "," ] "-w-" [ "," ] | "*"
//
// A slash-wrapped token ("/-w-/", "/*/") needs no special case because
// the surrounding slashes are kept and collapsed during normalization.
var wildcardToken = regexp.MustCompile(`,?-w-,?|\*`)

var slashRun = regexp.MustCompile(`/{2,}`)

// HasToken reports whether template contains a wildcard token.
func HasToken(template string) bool {
	return wildcardToken.MatchString(template)
}

func substitute(template, replacement string) string {
	return wildcardToken.ReplaceAllLiteralString(template, replacement)
}
