package tracklist

import (
	"regexp"
	"strings"
)

// unimportant matches suffix words that mark a title variant rather than a
// different song.
var unimportant = regexp.MustCompile(`(?i)\b(remaster(ed)?|edition|deluxe|live|version|mono|stereo|demo|anniversary|bonus|single|radio edit|edit|acoustic|instrumental|re-?recorded|expanded|bonus track|from .+|\d{4} mix)\b`)

var (
	bracketSuffix = regexp.MustCompile(`^(.*\S)\s*([(\[][^()\[\]]*[)\]])\s*$`)
	hyphenSuffix  = regexp.MustCompile(`^(.*\S)\s+(-\s+.+)$`)
)

// SplitTitle separates de-emphasized suffixes such as "(Remastered 2009)" or
// "- Live at Wembley" from title. In aggressive mode every bracketed or
// hyphenated suffix is split off, otherwise only those naming a variant.
// The main part is never left empty.
func SplitTitle(title string, aggressive bool) (main, extra string) {
	main = strings.TrimSpace(title)
	var extras []string
	for {
		head, suffix, ok := cutSuffix(main)
		if !ok || head == "" {
			break
		}
		if !aggressive && !unimportant.MatchString(suffix) {
			break
		}
		extras = append([]string{suffix}, extras...)
		main = head
	}
	return main, strings.Join(extras, " ")
}

func cutSuffix(title string) (head, suffix string, ok bool) {
	if m := bracketSuffix.FindStringSubmatch(title); m != nil {
		return strings.TrimSpace(m[1]), m[2], true
	}
	if m := hyphenSuffix.FindStringSubmatch(title); m != nil {
		return strings.TrimSpace(m[1]), m[2], true
	}
	return "", "", false
}
