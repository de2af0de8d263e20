package cache

import (
	"encoding/json"
	"sync"

	"github.com/hatlonely/tablex/ref"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"go.mongodb.org/mongo-driver/bson"
)

// Serializer 将值编码为字节，供只能存储字节的后端使用
type Serializer[T any] interface {
	Serialize(from T) ([]byte, error)
	Deserialize(data []byte) (T, error)
}

type JSONSerializer[T any] struct{}

func NewJSONSerializer[T any]() *JSONSerializer[T] {
	return &JSONSerializer[T]{}
}

func (s *JSONSerializer[T]) Serialize(from T) ([]byte, error) {
	return json.Marshal(from)
}

func (s *JSONSerializer[T]) Deserialize(data []byte) (T, error) {
	var result T
	err := json.Unmarshal(data, &result)
	return result, err
}

type MsgPackSerializer[T any] struct{}

func NewMsgPackSerializer[T any]() *MsgPackSerializer[T] {
	return &MsgPackSerializer[T]{}
}

func (s *MsgPackSerializer[T]) Serialize(from T) ([]byte, error) {
	return msgpack.Marshal(from)
}

func (s *MsgPackSerializer[T]) Deserialize(data []byte) (T, error) {
	var result T
	err := msgpack.Unmarshal(data, &result)
	return result, err
}

// bson 顶层必须是文档，切片和标量需要包一层
type bsonEnvelope[T any] struct {
	Value T `bson:"v"`
}

type BSONSerializer[T any] struct{}

func NewBSONSerializer[T any]() *BSONSerializer[T] {
	return &BSONSerializer[T]{}
}

func (s *BSONSerializer[T]) Serialize(from T) ([]byte, error) {
	return bson.Marshal(bsonEnvelope[T]{Value: from})
}

func (s *BSONSerializer[T]) Deserialize(data []byte) (T, error) {
	var envelope bsonEnvelope[T]
	err := bson.Unmarshal(data, &envelope)
	return envelope.Value, err
}

var registeredSerializers sync.Map

// NewSerializerWithOptions 根据 TypeOptions 创建序列化器，options 为 nil 或 Type 为空时使用 MsgPackSerializer
func NewSerializerWithOptions[T any](options *ref.TypeOptions) (Serializer[T], error) {
	namespace := Namespace + "[" + typeName[T]() + "]"
	if _, loaded := registeredSerializers.LoadOrStore(namespace, struct{}{}); !loaded {
		ref.MustRegister(namespace, "JSONSerializer", NewJSONSerializer[T])
		ref.MustRegister(namespace, "MsgPackSerializer", NewMsgPackSerializer[T])
		ref.MustRegister(namespace, "BSONSerializer", NewBSONSerializer[T])
	}

	type_ := "MsgPackSerializer"
	var opts any
	if options != nil {
		if options.Namespace != "" && options.Namespace != Namespace {
			namespace = options.Namespace
		}
		if options.Type != "" {
			type_ = options.Type
		}
		opts = options.Options
	}

	obj, err := ref.New(namespace, type_, opts)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.New failed")
	}
	serializer, ok := obj.(Serializer[T])
	if !ok {
		return nil, errors.Errorf("%s:%s does not implement Serializer interface", namespace, type_)
	}
	return serializer, nil
}

func newSerializers[K, V any](keyOptions, valOptions *ref.TypeOptions) (Serializer[K], Serializer[V], error) {
	keySerializer, err := NewSerializerWithOptions[K](keyOptions)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "create key serializer failed")
	}
	valSerializer, err := NewSerializerWithOptions[V](valOptions)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "create value serializer failed")
	}
	return keySerializer, valSerializer, nil
}
