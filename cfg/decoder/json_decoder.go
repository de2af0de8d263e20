package decoder

import (
	"encoding/json"

	"github.com/hatlonely/tablex/cfg/storage"
	"github.com/pkg/errors"
)

// JsonDecoder JSON 格式解码器
type JsonDecoder struct{}

func NewJsonDecoder() *JsonDecoder {
	return &JsonDecoder{}
}

func (d *JsonDecoder) Decode(data []byte) (storage.Storage, error) {
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(err, "failed to decode JSON")
	}
	return storage.NewMapStorage(result), nil
}
