package parser

import (
	"regexp"
	"strings"

	"github.com/dmitrijs2005/steamkeeper/internal/models"
)

var steamIDPattern = regexp.MustCompile(`profiles/(\d+)`)

// ExtractSteamID returns the numeric id from a profile URL such as
// https://steamcommunity.com/profiles/76561198921334935, or "" when the URL
// carries none.
func ExtractSteamID(url string) string {
	m := steamIDPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// ParseLine parses login:password:mail:mail_password[:link]. Everything after
// the fourth colon is the link, colons included. Lines with fewer than four
// parts return ErrNotRecognized.
func ParseLine(line string) (models.Account, error) {
	parts := strings.Split(strings.TrimSpace(line), ":")
	if len(parts) < 4 {
		return models.Account{}, ErrNotRecognized
	}

	link := strings.Join(parts[4:], ":")

	return models.Account{
		Login:        models.Some(parts[0]),
		Password:     models.Some(parts[1]),
		Mail:         models.Some(parts[2]),
		MailPassword: models.Some(parts[3]),
		RCode:        models.None(),
		SteamID:      models.Some(ExtractSteamID(link)),
		Link:         models.Some(link),
	}, nil
}
