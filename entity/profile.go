package entity

import "time"

// Profile is what could be extracted from a public Instagram account.
type Profile struct {
	Username      string    `json:"username" bson:"username"`
	DisplayName   string    `json:"display_name" bson:"display_name"`
	Bio           string    `json:"bio" bson:"bio"`
	ProfilePicURL string    `json:"profile_pic_url" bson:"profile_pic_url"`
	ExternalURL   string    `json:"external_url,omitempty" bson:"external_url,omitempty"`
	Category      string    `json:"category,omitempty" bson:"category,omitempty"`
	Followers     int       `json:"followers" bson:"followers"`
	Following     int       `json:"following" bson:"following"`
	PostCount     int       `json:"post_count" bson:"post_count"`
	Posts         []Post    `json:"posts" bson:"posts"`
	Source        string    `json:"source" bson:"source"`
	FetchedAt     time.Time `json:"fetched_at" bson:"fetched_at"`
}

type Post struct {
	Shortcode string    `json:"shortcode,omitempty" bson:"shortcode,omitempty"`
	ImageURL  string    `json:"image_url" bson:"image_url"`
	Caption   string    `json:"caption" bson:"caption"`
	Likes     int       `json:"likes" bson:"likes"`
	Comments  int       `json:"comments" bson:"comments"`
	TakenAt   time.Time `json:"taken_at,omitempty" bson:"taken_at,omitempty"`
}

// IsEmpty reports whether nothing useful was extracted.
func (p *Profile) IsEmpty() bool {
	return p == nil || (p.DisplayName == "" && p.Bio == "" && len(p.Posts) == 0 && p.Followers == 0 && p.ProfilePicURL == "")
}
