package decoder

import (
	"testing"

	"github.com/hatlonely/tablex/cfg/storage"
	"github.com/hatlonely/tablex/ref"
	. "github.com/smartystreets/goconvey/convey"
)

type sourceOptions struct {
	Path     string `cfg:"path"`
	PageSize int    `cfg:"pageSize"`
}

type options struct {
	Name   string        `cfg:"name"`
	Source sourceOptions `cfg:"source"`
}

func TestDecoders(t *testing.T) {
	Convey("各格式解码结果一致", t, func() {
		cases := map[string]struct {
			decoder Decoder
			data    string
		}{
			"json": {NewJsonDecoder(), `{"name":"members","source":{"path":"users.json","pageSize":5}}`},
			"yaml": {NewYamlDecoder(), "name: members\nsource:\n  path: users.json\n  pageSize: 5\n"},
			"toml": {NewTomlDecoder(), "name = \"members\"\n[source]\npath = \"users.json\"\npageSize = 5\n"},
			"ini":  {NewIniDecoder(), "name = members\n[source]\npath = users.json\npageSize = 5\n"},
		}
		for name, c := range cases {
			Convey(name, func() {
				s, err := c.decoder.Decode([]byte(c.data))
				So(err, ShouldBeNil)
				var opts options
				So(s.ConvertTo(&opts), ShouldBeNil)
				So(opts.Name, ShouldEqual, "members")
				So(opts.Source.Path, ShouldEqual, "users.json")
				So(opts.Source.PageSize, ShouldEqual, 5)
			})
		}
	})

	Convey("格式错误", t, func() {
		_, err := NewJsonDecoder().Decode([]byte(`{`))
		So(err, ShouldNotBeNil)
		_, err = NewYamlDecoder().Decode([]byte("a: [1"))
		So(err, ShouldNotBeNil)
		_, err = NewTomlDecoder().Decode([]byte("a = "))
		So(err, ShouldNotBeNil)
	})

	Convey("yaml 数组按下标访问", t, func() {
		s, err := NewYamlDecoder().Decode([]byte("rows:\n  - name: Ann\n  - name: Bob\n"))
		So(err, ShouldBeNil)
		So(s.Sub("rows[1].name").(*storage.MapStorage).Data(), ShouldEqual, "Bob")
	})

	Convey("ini 嵌套段", t, func() {
		s, err := NewIniDecoder().Decode([]byte("[source.options]\npath = a.json\n"))
		So(err, ShouldBeNil)
		So(s.Sub("source.options.path").(*storage.MapStorage).Data(), ShouldEqual, "a.json")
	})
}

func TestNewDecoderForPath(t *testing.T) {
	Convey("按扩展名选择解码器", t, func() {
		for path, expect := range map[string]any{
			"a.json": &JsonDecoder{},
			"a.yaml": &YamlDecoder{},
			"a.YML":  &YamlDecoder{},
			"a.toml": &TomlDecoder{},
			"a.ini":  &IniDecoder{},
		} {
			d, err := NewDecoderForPath(path)
			So(err, ShouldBeNil)
			So(d, ShouldHaveSameTypeAs, expect)
		}

		_, err := NewDecoderForPath("a.txt")
		So(err, ShouldNotBeNil)
	})

	Convey("NewDecoderWithOptions", t, func() {
		d, err := NewDecoderWithOptions(&ref.TypeOptions{Type: "TomlDecoder"})
		So(err, ShouldBeNil)
		So(d, ShouldHaveSameTypeAs, &TomlDecoder{})

		d, err = NewDecoderWithOptions(nil)
		So(err, ShouldBeNil)
		So(d, ShouldHaveSameTypeAs, &YamlDecoder{})

		_, err = NewDecoderWithOptions(&ref.TypeOptions{Type: "XmlDecoder"})
		So(err, ShouldNotBeNil)
	})
}
