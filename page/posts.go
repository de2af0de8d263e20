package page

import (
	"github.com/hatlonely/tablex/source"
	"github.com/hatlonely/tablex/table"
)

const PostsFilterColumn = "title"

// NewPostsPage 文章列表，按标题过滤
func NewPostsPage(src source.Source[Post], options *Options) (*Page[Post], error) {
	options = options.withDefaults()

	columns := []table.Column[Post]{
		table.NewSortableColumn[Post]("title", "Title", nil),
		table.NewSortableColumn[Post]("number", "#", nil),
		table.NewSimpleColumn[Post]("isPublished", "Published", true, boolCell[Post]),
		table.NewSimpleColumn[Post]("isPremium", "Premium", true, boolCell[Post]),
		table.NewSortableColumn[Post]("createdAt", "Created", timeCell[Post](options.Now, "")),
	}

	return newPage("Posts", src, columns, PostsFilterColumn, false, options)
}
