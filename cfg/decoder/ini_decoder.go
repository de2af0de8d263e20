package decoder

import (
	"strings"

	"github.com/hatlonely/tablex/cfg/storage"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

// IniDecoder INI 格式解码器
// 段名中的点号表示嵌套，例如 [source.options] 对应 source.options，值全部为字符串
type IniDecoder struct{}

func NewIniDecoder() *IniDecoder {
	return &IniDecoder{}
}

func (d *IniDecoder) Decode(data []byte) (storage.Storage, error) {
	file, err := ini.Load(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode INI")
	}

	root := map[string]any{}
	for _, section := range file.Sections() {
		node := root
		if section.Name() != ini.DefaultSection {
			for _, part := range strings.Split(section.Name(), ".") {
				child, ok := node[part].(map[string]any)
				if !ok {
					child = map[string]any{}
					node[part] = child
				}
				node = child
			}
		}
		for _, key := range section.Keys() {
			node[key.Name()] = key.Value()
		}
	}
	return storage.NewMapStorage(root), nil
}
