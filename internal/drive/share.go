package drive

import (
	"regexp"

	"github.com/pkg/errors"
)

var (
	shareCodeRe = regexp.MustCompile(`/s/([0-9a-zA-Z]+)`)
	passwordRe  = regexp.MustCompile(`[?&]password=([^&#]+)`)
)

// ParseShareURL extracts the share code and optional access code from a
// share link like https://115.com/s/swabcdef?password=a1b2.
func ParseShareURL(rawURL string) (code, password string, err error) {
	if rawURL == "" {
		return "", "", errors.New("share url is empty")
	}
	m := shareCodeRe.FindStringSubmatch(rawURL)
	if m == nil {
		return "", "", errors.Errorf("unrecognized share url: %s", rawURL)
	}
	code = m[1]
	if pm := passwordRe.FindStringSubmatch(rawURL); pm != nil {
		password = pm[1]
	}
	return code, password, nil
}
