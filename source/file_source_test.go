package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hatlonely/tablex/query"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

const membersYAML = `
- id: "1"
  name: Bob
  email: bob@example.com
  age: 30
- id: "2"
  name: Ann
  email: ann@example.com
  age: 25
`

func TestFileSource(t *testing.T) {
	Convey("FileSource", t, func() {
		dir := t.TempDir()

		Convey("读取 yaml", func() {
			path := filepath.Join(dir, "members.yaml")
			So(os.WriteFile(path, []byte(membersYAML), 0644), ShouldBeNil)

			src, err := NewFileSourceWithOptions[member](&FileSourceOptions{Path: path})
			So(err, ShouldBeNil)
			defer src.Close()

			rows, err := src.List(context.Background(), &ListOptions{OrderBy: "name"})
			So(err, ShouldBeNil)
			So(names(rows), ShouldResemble, []string{"Ann", "Bob"})
		})

		Convey("读取 json 并过滤", func() {
			path := filepath.Join(dir, "members.json")
			So(os.WriteFile(path, []byte(`[{"name":"Ann","email":"ann@x.com"},{"name":"Bob","email":"bob@y.com"}]`), 0644), ShouldBeNil)

			src, err := NewFileSourceWithOptions[member](&FileSourceOptions{Path: path})
			So(err, ShouldBeNil)
			defer src.Close()

			rows, err := src.List(context.Background(), &ListOptions{
				Query: &query.MatchQuery{Field: "email", Value: "y.com"},
			})
			So(err, ShouldBeNil)
			So(names(rows), ShouldResemble, []string{"Bob"})
		})

		Convey("指定格式", func() {
			path := filepath.Join(dir, "members.data")
			So(os.WriteFile(path, []byte(membersYAML), 0644), ShouldBeNil)

			_, err := NewFileSourceWithOptions[member](&FileSourceOptions{Path: path})
			So(err, ShouldNotBeNil)

			src, err := NewFileSourceWithOptions[member](&FileSourceOptions{Path: path, Format: "yaml"})
			So(err, ShouldBeNil)
			rows, err := src.List(context.Background(), nil)
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 2)
		})

		Convey("文件不存在", func() {
			src, err := NewFileSourceWithOptions[member](&FileSourceOptions{Path: filepath.Join(dir, "missing.json")})
			So(err, ShouldBeNil)
			_, err = src.List(context.Background(), nil)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestFileSourceWatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	Convey("FileSource.Watch", t, func() {
		path := filepath.Join(t.TempDir(), "members.json")
		So(os.WriteFile(path, []byte(`[{"name":"Ann"}]`), 0644), ShouldBeNil)

		src, err := NewFileSourceWithOptions[member](&FileSourceOptions{Path: path})
		So(err, ShouldBeNil)

		updates := make(chan []member, 16)
		So(src.Watch(func(rows []member, err error) {
			if err != nil {
				return
			}
			select {
			case updates <- rows:
			default:
			}
		}), ShouldBeNil)
		So(src.Watch(func([]member, error) {}), ShouldNotBeNil)

		// 写入其他文件不会触发
		So(os.WriteFile(filepath.Join(filepath.Dir(path), "other.json"), []byte(`[]`), 0644), ShouldBeNil)
		So(os.WriteFile(path, []byte(`[{"name":"Ann"},{"name":"Bob"}]`), 0644), ShouldBeNil)

		var rows []member
		timeout := time.After(5 * time.Second)
	loop:
		for {
			select {
			case rows = <-updates:
				// 一次写入可能产生多个事件，等到读到完整内容
				if len(rows) == 2 {
					break loop
				}
			case <-timeout:
				break loop
			}
		}
		So(names(rows), ShouldResemble, []string{"Ann", "Bob"})

		So(src.Close(), ShouldBeNil)
		So(src.Close(), ShouldBeNil)
	})
}
