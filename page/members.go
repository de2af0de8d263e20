package page

import (
	"github.com/hatlonely/tablex/source"
	"github.com/hatlonely/tablex/table"
	"github.com/pkg/errors"
)

const MembersFilterColumn = "email"

// NewMembersPage 会员列表，默认按邮箱过滤，支持多选
func NewMembersPage(src source.Source[User], options *Options) (*Page[User], error) {
	options = options.withDefaults()
	l := options.Logger.WithGroup("members")

	actions := []table.Action[User]{
		{
			Label: "Copy email",
			Icon:  "copy",
			Handler: func(u User) error {
				if err := options.Clipboard.WriteAll(u.Email); err != nil {
					return errors.Wrap(err, "copy email failed")
				}
				return nil
			},
		},
		{
			Label: "View profile",
			Icon:  "user",
			Handler: func(u User) error {
				l.Info("view profile", "id", u.ID, "email", u.Email)
				return nil
			},
		},
	}
	if options.OnRemoveMember != nil {
		actions = append(actions, table.Action[User]{
			Label:       "Remove member",
			Icon:        "trash",
			Destructive: true,
			Handler:     options.OnRemoveMember,
		})
	}

	columns := []table.Column[User]{
		table.NewSelectColumn[User](),
		table.NewSortableColumn[User]("name", "Name", nil),
		table.NewSimpleColumn[User]("email", "Email", false, nil),
		table.NewSortableColumn[User]("tier", "Tier", titleCell[User]),
		table.NewSortableColumn[User]("createdAt", "Joined", timeCell[User](options.Now, "")),
		table.NewSimpleColumn[User]("lastLogin", "Last login", false, timeCell[User](options.Now, "never")),
		table.NewActionsColumn(actions...),
	}

	return newPage("Members", src, columns, MembersFilterColumn, true, options)
}
