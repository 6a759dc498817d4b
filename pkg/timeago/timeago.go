// Package timeago renders notification timestamps relative to the current instant.
package timeago

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

var supported = []language.Tag{
	language.English,
	language.German,
	language.Indonesian,
}

var matcher = language.NewMatcher(supported)

var dateLayouts = map[string]string{
	"en": "Jan 2, 2006",
	"de": "02.01.2006",
	"id": "02/01/2006",
}

// Default is the language used when nothing matches.
var Default = language.English

// Match picks the best supported language for the given preferences. Each preference may be a
// single tag ("de") or a full Accept-Language header value ("de-CH,de;q=0.9,en;q=0.8").
func Match(prefs ...string) language.Tag {
	var tags []language.Tag
	for _, p := range prefs {
		if p == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	if len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return supported[idx]
}

// Humanize returns "now", "<n> min ago", "<n> h ago", "<n> d ago", or an absolute date in the
// language of tag once the instant is a week or more old. Instants after now count as "now".
func Humanize(created, now time.Time, tag language.Tag) string {
	d := now.Sub(created)

	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d h ago", int(d/time.Hour))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%d d ago", int(d/(24*time.Hour)))
	}

	return created.In(now.Location()).Format(layoutFor(tag))
}

func layoutFor(tag language.Tag) string {
	base, _ := tag.Base()
	if layout, ok := dateLayouts[base.String()]; ok {
		return layout
	}
	return dateLayouts["en"]
}
