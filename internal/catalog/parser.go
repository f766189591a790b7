package catalog

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Source filenames follow {catalogId}__{pose}.ext or
// {catalogId}__{pose}__{modifier}.ext. The pose token is the alphabetic
// run after the first double underscore.
var nameRe = regexp.MustCompile(`^([0-9]+)__([A-Za-z]+)`)

// knownPoses is the set of pose tokens the photographers shoot by
// convention. Tokens outside the set are still accepted; the list only
// drives a warning so typos surface in the logs.
var knownPoses = map[string]bool{
	"main":    true,
	"top":     true,
	"bottom":  true,
	"profile": true,
}

// ParsedName is the result of parsing one source filename.
type ParsedName struct {
	CatalogID int
	Pose      string
}

// ParseName extracts the catalog id and pose token from a source path's
// basename. The second return value is false when the name does not match
// the grammar; callers skip such files rather than failing the batch.
func ParseName(path string) (ParsedName, bool) {
	base := filepath.Base(path)
	m := nameRe.FindStringSubmatch(base)
	if m == nil {
		return ParsedName{}, false
	}

	id, err := strconv.Atoi(m[1])
	if err != nil || id <= 0 {
		return ParsedName{}, false
	}

	return ParsedName{
		CatalogID: id,
		Pose:      strings.ToLower(m[2]),
	}, true
}

// KnownPose reports whether a pose token is in the conventional set.
func KnownPose(pose string) bool {
	return knownPoses[strings.ToLower(pose)]
}
