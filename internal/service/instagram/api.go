package instagram

import (
	"strings"
	"time"

	"InstaCatalog/entity"
)

// apiResponse covers the shapes returned by web_profile_info, the legacy ?__a=1
// endpoint and the embedded window._sharedData blob.
type apiResponse struct {
	Status          string     `json:"status"`
	RequiresToLogin bool       `json:"requires_to_login"`
	User            *graphUser `json:"user"`
	Data            struct {
		User *graphUser `json:"user"`
	} `json:"data"`
	GraphQL struct {
		User *graphUser `json:"user"`
	} `json:"graphql"`
	EntryData struct {
		ProfilePage []struct {
			GraphQL struct {
				User *graphUser `json:"user"`
			} `json:"graphql"`
		} `json:"ProfilePage"`
	} `json:"entry_data"`
}

func (r *apiResponse) user() *graphUser {
	switch {
	case r.Data.User != nil:
		return r.Data.User
	case r.GraphQL.User != nil:
		return r.GraphQL.User
	case r.User != nil:
		return r.User
	}
	for _, page := range r.EntryData.ProfilePage {
		if page.GraphQL.User != nil {
			return page.GraphQL.User
		}
	}
	return nil
}

type edgeCount struct {
	Count int `json:"count"`
}

type graphUser struct {
	Username       string    `json:"username"`
	FullName       string    `json:"full_name"`
	Biography      string    `json:"biography"`
	ProfilePicURL  string    `json:"profile_pic_url"`
	ProfilePicHD   string    `json:"profile_pic_url_hd"`
	ExternalURL    string    `json:"external_url"`
	CategoryName   string    `json:"category_name"`
	BusinessCat    string    `json:"business_category_name"`
	EdgeFollowedBy edgeCount `json:"edge_followed_by"`
	EdgeFollow     edgeCount `json:"edge_follow"`
	Timeline       struct {
		Count int `json:"count"`
		Edges []struct {
			Node mediaNode `json:"node"`
		} `json:"edges"`
	} `json:"edge_owner_to_timeline_media"`
}

type mediaNode struct {
	Shortcode    string `json:"shortcode"`
	DisplayURL   string `json:"display_url"`
	ThumbnailSrc string `json:"thumbnail_src"`
	IsVideo      bool   `json:"is_video"`
	Caption      struct {
		Edges []struct {
			Node struct {
				Text string `json:"text"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"edge_media_to_caption"`
	EdgeLikedBy      edgeCount `json:"edge_liked_by"`
	EdgePreviewLike  edgeCount `json:"edge_media_preview_like"`
	EdgeComments     edgeCount `json:"edge_media_to_comment"`
	TakenAtTimestamp int64     `json:"taken_at_timestamp"`
}

func (u *graphUser) toProfile(username string, maxPosts int) *entity.Profile {
	p := &entity.Profile{
		Username:      username,
		DisplayName:   strings.TrimSpace(u.FullName),
		Bio:           strings.TrimSpace(u.Biography),
		ProfilePicURL: u.ProfilePicHD,
		ExternalURL:   u.ExternalURL,
		Category:      u.CategoryName,
		Followers:     u.EdgeFollowedBy.Count,
		Following:     u.EdgeFollow.Count,
		PostCount:     u.Timeline.Count,
	}
	if p.ProfilePicURL == "" {
		p.ProfilePicURL = u.ProfilePicURL
	}
	if p.Category == "" {
		p.Category = u.BusinessCat
	}

	for _, edge := range u.Timeline.Edges {
		if len(p.Posts) >= maxPosts {
			break
		}
		n := edge.Node
		post := entity.Post{
			Shortcode: n.Shortcode,
			ImageURL:  n.DisplayURL,
			Likes:     n.EdgeLikedBy.Count,
			Comments:  n.EdgeComments.Count,
		}
		if post.ImageURL == "" {
			post.ImageURL = n.ThumbnailSrc
		}
		if post.Likes == 0 {
			post.Likes = n.EdgePreviewLike.Count
		}
		if len(n.Caption.Edges) > 0 {
			post.Caption = n.Caption.Edges[0].Node.Text
		}
		if n.TakenAtTimestamp > 0 {
			post.TakenAt = time.Unix(n.TakenAtTimestamp, 0).UTC()
		}
		p.Posts = append(p.Posts, post)
	}
	return p
}
