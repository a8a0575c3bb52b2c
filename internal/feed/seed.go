// ABOUTME: Example posts used to populate an empty feed on first run.
// ABOUTME: Two posts from mock users; the first carries one comment.
package feed

import (
	"time"

	"github.com/2389-research/wupy/internal/models"
)

// Mock users referenced by the seed data.
var (
	Photographer = models.Author{
		ID:     "user1",
		Name:   "photographer_pro",
		Avatar: "https://images.pexels.com/photos/1040881/pexels-photo-1040881.jpeg?auto=compress&cs=tinysrgb&w=400",
	}
	TravelBlogger = models.Author{
		ID:     "user2",
		Name:   "travel_blogger",
		Avatar: "https://images.pexels.com/photos/1036627/pexels-photo-1036627.jpeg?auto=compress&cs=tinysrgb&w=400",
	}
)

// Seed returns the example feed relative to now, most recent first.
func Seed(now time.Time) []models.Post {
	return []models.Post{
		{
			ID:         "1",
			UserID:     Photographer.ID,
			Username:   Photographer.Name,
			UserAvatar: Photographer.Avatar,
			Content:    "¡Hermoso atardecer desde mi ventana! 🌅✨ La naturaleza nunca deja de sorprenderme.",
			Image:      "https://images.pexels.com/photos/1118873/pexels-photo-1118873.jpeg?auto=compress&cs=tinysrgb&w=800",
			Timestamp:  now.Add(-time.Hour),
			Likes:      2,
			LikedBy:    []string{"user2", "user3"},
			Comments: []models.Comment{
				{
					ID:         "c1",
					UserID:     TravelBlogger.ID,
					Username:   TravelBlogger.Name,
					UserAvatar: TravelBlogger.Avatar,
					Content:    "¡Qué foto tan increíble! Me encanta la composición.",
					Timestamp:  now.Add(-50 * time.Minute),
					Likes:      1,
					LikedBy:    []string{"user1"},
				},
			},
			Shares: 5,
		},
		{
			ID:         "2",
			UserID:     TravelBlogger.ID,
			Username:   TravelBlogger.Name,
			UserAvatar: TravelBlogger.Avatar,
			Content:    "Explorando nuevos lugares y conociendo culturas increíbles. La vida es una aventura constante 🌍",
			Timestamp:  now.Add(-2 * time.Hour),
			Likes:      1,
			LikedBy:    []string{"user1"},
			Comments:   []models.Comment{},
			Shares:     3,
		},
	}
}
