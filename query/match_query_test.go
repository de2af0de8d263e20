package query

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMatchQueryMatch(t *testing.T) {
	Convey("测试 MatchQuery Match 方法", t, func() {
		ann := userDoc{name: "Ann", email: "ann@example.com", age: 31}
		bob := userDoc{name: "Bob", email: "bob@example.com", age: 25}

		Convey("忽略大小写的子串匹配", func() {
			q := &MatchQuery{Field: "name", Value: "ann"}
			So(q.Match(ann), ShouldBeTrue)
			So(q.Match(bob), ShouldBeFalse)

			q = &MatchQuery{Field: "email", Value: "EXAMPLE"}
			So(q.Match(ann), ShouldBeTrue)
			So(q.Match(bob), ShouldBeTrue)
		})

		Convey("数字按文本匹配", func() {
			So((&MatchQuery{Field: "age", Value: 3}).Match(ann), ShouldBeTrue)
			So((&MatchQuery{Field: "age", Value: "3"}).Match(bob), ShouldBeFalse)
		})

		Convey("缺失字段不匹配", func() {
			So((&MatchQuery{Field: "phone", Value: ""}).Match(ann), ShouldBeFalse)
			So((&MatchQuery{Field: "name", Value: "a"}).Match(MapDocument{"name": nil}), ShouldBeFalse)
		})
	})
}

func TestMatchQueryToES(t *testing.T) {
	Convey("测试 MatchQuery ToES 方法", t, func() {
		q := &MatchQuery{Field: "title", Value: "search"}
		So(q.ToES(), ShouldResemble, map[string]any{
			"wildcard": map[string]any{
				"title": map[string]any{
					"value":            "*search*",
					"case_insensitive": true,
				},
			},
		})
	})
}

func TestMatchQueryToSQL(t *testing.T) {
	Convey("测试 MatchQuery ToSQL 方法", t, func() {
		Convey("字符串值", func() {
			sql, args, err := (&MatchQuery{Field: "title", Value: "Search"}).ToSQL()
			So(err, ShouldBeNil)
			So(sql, ShouldEqual, "LOWER(title) LIKE ? ESCAPE '!'")
			So(args, ShouldResemble, []any{"%search%"})
		})

		Convey("转义通配符", func() {
			_, args, err := (&MatchQuery{Field: "title", Value: "50%_off!"}).ToSQL()
			So(err, ShouldBeNil)
			So(args, ShouldResemble, []any{"%50!%!_off!!%"})
		})

		Convey("非法字段", func() {
			_, _, err := (&MatchQuery{Field: "title or 1=1", Value: "x"}).ToSQL()
			So(err, ShouldNotBeNil)
		})
	})
}

func TestMatchQueryToMongo(t *testing.T) {
	Convey("测试 MatchQuery ToMongo 方法", t, func() {
		result, err := (&MatchQuery{Field: "email", Value: "a.b"}).ToMongo()
		So(err, ShouldBeNil)
		So(result, ShouldResemble, map[string]any{
			"email": map[string]any{
				"$regex":   `a\.b`,
				"$options": "i",
			},
		})
	})
}
