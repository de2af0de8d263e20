package page

import "time"

// User 会员
type User struct {
	ID        string     `json:"id" yaml:"id" bson:"id" gorm:"column:id;primaryKey"`
	Name      string     `json:"name" yaml:"name" bson:"name" gorm:"column:name"`
	Email     string     `json:"email" yaml:"email" bson:"email" gorm:"column:email"`
	Tier      string     `json:"tier" yaml:"tier" bson:"tier" gorm:"column:tier"`
	CreatedAt time.Time  `json:"createdAt" yaml:"createdAt" bson:"createdAt" gorm:"column:created_at"`
	LastLogin *time.Time `json:"lastLogin,omitempty" yaml:"lastLogin,omitempty" bson:"lastLogin,omitempty" gorm:"column:last_login"`
}

// Post 系列中的一篇文章
type Post struct {
	ID          string    `json:"id" yaml:"id" bson:"id" gorm:"column:id;primaryKey"`
	SeriesID    string    `json:"seriesId" yaml:"seriesId" bson:"seriesId" gorm:"column:series_id"`
	Title       string    `json:"title" yaml:"title" bson:"title" gorm:"column:title"`
	Slug        string    `json:"slug" yaml:"slug" bson:"slug" gorm:"column:slug"`
	Number      int       `json:"postNumber" yaml:"postNumber" bson:"postNumber" gorm:"column:number"`
	IsPublished bool      `json:"isPublished" yaml:"isPublished" bson:"isPublished" gorm:"column:is_published"`
	IsPremium   bool      `json:"isPremium" yaml:"isPremium" bson:"isPremium" gorm:"column:is_premium"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt" bson:"createdAt" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt" bson:"updatedAt" gorm:"column:updated_at"`
}
