package models

import (
	"time"

	"campusnews/internal/pagination"
)

// View-модели страниц. Рендеринг HTML — вне сервиса, клиент получает JSON.

type HomeView struct {
	Articles         []*Article           `json:"articles"`
	Page             pagination.Metadata  `json:"page"`
	Categories       []*CategoryWithCount `json:"categories"`
	Query            string               `json:"query"`
	SelectedCategory string               `json:"selected_category"`
	RecentArticles   []*Article           `json:"recent_articles"`
	PopularArticles  []*Article           `json:"popular_articles"`
	LatestArticle    *Article             `json:"latest_article"`
	Totals           SiteTotals           `json:"totals"`
}

type ArticleDetailView struct {
	Article         *Article          `json:"article"`
	Comments        []*Comment        `json:"comments"`
	RelatedArticles []*Article        `json:"related_articles"`
	PopularArticles []*Article        `json:"popular_articles"`
	PreviousArticle *Article          `json:"previous_article"`
	NextArticle     *Article          `json:"next_article"`
	IsLiked         bool              `json:"is_liked"`
	CommentErrors   map[string]string `json:"comment_errors,omitempty"`
}

type ArticleListView struct {
	Articles       []*Article          `json:"articles"`
	Page           pagination.Metadata `json:"page"`
	Query          string              `json:"query"`
	SelectedStatus string              `json:"selected_status"`
}

type ArticleFormView struct {
	Action     string               `json:"action"`
	Article    *Article             `json:"article,omitempty"`
	Categories []*CategoryWithCount `json:"categories"`
	Statuses   []ArticleStatus      `json:"statuses"`
	Errors     map[string]string    `json:"errors,omitempty"`
}

type Activity struct {
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
}

type DashboardView struct {
	UserArticles       []*Article           `json:"user_articles"`
	UserArticlesCount  int64                `json:"user_articles_count"`
	TotalViews         int64                `json:"total_views"`
	TotalLikes         int64                `json:"total_likes"`
	TotalComments      int64                `json:"total_comments"`
	AvgViews           int64                `json:"avg_views"`
	AvgLikes           int64                `json:"avg_likes"`
	AvgViewsPercentage int64                `json:"avg_views_percentage"`
	AvgLikesPercentage int64                `json:"avg_likes_percentage"`
	EngagementRate     float64              `json:"engagement_rate"`
	RecentComments     []*Comment           `json:"recent_comments"`
	PopularCategories  []*CategoryWithCount `json:"popular_categories"`
	RecentActivities   []Activity           `json:"recent_activities"`
	PopularArticles    []*Article           `json:"popular_articles"`
	TotalUsers         int64                `json:"total_users"`
}

type UserListView struct {
	Users       []*User             `json:"users"`
	Page        pagination.Metadata `json:"page"`
	Query       string              `json:"query"`
	StaffFilter string              `json:"staff_filter"`
	UserCounters
}

type UserDetailView struct {
	User         *User      `json:"user"`
	UserArticles []*Article `json:"user_articles"`
	UserComments []*Comment `json:"user_comments"`
	ContentStats
}

// ProfileView — то же, что карточка пользователя, но для самого себя.
type ProfileView = UserDetailView

type UserDeleteView struct {
	User         *User      `json:"user"`
	UserArticles []*Article `json:"user_articles"`
	UserComments []*Comment `json:"user_comments"`
}

type SettingsView struct {
	SiteName        string `json:"site_name"`
	SiteDescription string `json:"site_description"`
	ContactEmail    string `json:"contact_email"`
	TotalArticles   int64  `json:"total_articles"`
	TotalUsers      int64  `json:"total_users"`
	TotalCategories int64  `json:"total_categories"`
}

type AboutView struct {
	TotalArticles   int64 `json:"total_articles"`
	TotalUsers      int64 `json:"total_users"`
	TotalCategories int64 `json:"total_categories"`
}
