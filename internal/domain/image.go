package domain

import (
	"strings"
	"time"
)

// Image is the catalog record for one uploaded picture. The bytes live in
// object storage; ObjectKey points at them and URL is the public address.
type Image struct {
	ID          string
	Title       string
	Slug        string
	Description string
	ObjectKey   string
	URL         string
	Category    string
	Tags        []string

	// Likes holds the account ids that liked the image.
	Likes     []string
	Shares    int64
	Views     int64
	Downloads int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Categories is the closed set the dashboard offers. Order matters only for
// display.
var Categories = []string{
	"3D",
	"Arts",
	"Icons",
	"Textures",
	"Calligraphy",
	"Hadiths",
	"Mosques",
	"Quotes",
	"Posts",
	"Duas",
	"Ayahs",
	"Others",
}

func IsValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Slugify produces the base slug for a title: lowercased, runs of whitespace
// collapsed to a single hyphen. Collision suffixes are the caller's problem.
func Slugify(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(title))), "-")
}

func (i Image) LikedBy(accountID string) bool {
	for _, id := range i.Likes {
		if id == accountID {
			return true
		}
	}
	return false
}
