package source

import (
	"context"
	"fmt"
	"time"

	"github.com/hatlonely/tablex/query"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoSourceOptions struct {
	URI        string        `cfg:"uri"`
	Host       string        `cfg:"host" def:"localhost"`
	Port       int           `cfg:"port" def:"27017"`
	Database   string        `cfg:"database" validate:"required"`
	Collection string        `cfg:"collection" validate:"required"`
	Username   string        `cfg:"username"`
	Password   string        `cfg:"password"`
	AuthSource string        `cfg:"authSource" def:"admin"`
	Timeout    time.Duration `cfg:"timeout" def:"30s"`
}

// MongoSource 从 mongo 集合读取行，过滤条件由 Query.ToMongo 下推
type MongoSource[T any] struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func mongoURI(options *MongoSourceOptions) string {
	if options.URI != "" {
		return options.URI
	}
	host, port := options.Host, options.Port
	if host == "" {
		host = "localhost"
	}
	if port == 0 {
		port = 27017
	}
	if options.Username != "" && options.Password != "" {
		authSource := options.AuthSource
		if authSource == "" {
			authSource = "admin"
		}
		return fmt.Sprintf("mongodb://%s:%s@%s:%d/%s?authSource=%s",
			options.Username, options.Password, host, port, options.Database, authSource)
	}
	return fmt.Sprintf("mongodb://%s:%d/%s", host, port, options.Database)
}

func NewMongoSourceWithOptions[T any](options *MongoSourceOptions) (*MongoSource[T], error) {
	if options.Database == "" || options.Collection == "" {
		return nil, errors.New("database and collection are required")
	}
	timeout := options.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(mongoURI(options)).SetTimeout(timeout))
	if err != nil {
		return nil, errors.Wrap(err, "mongo.Connect failed")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "mongo.Ping failed")
	}

	return &MongoSource[T]{
		client:     client,
		collection: client.Database(options.Database).Collection(options.Collection),
	}, nil
}

func mongoFilter(options *ListOptions) (bson.M, error) {
	if options == nil || options.Query == nil {
		return bson.M{}, nil
	}
	filter, err := options.Query.ToMongo()
	if err != nil {
		return nil, errors.WithMessage(err, "query.ToMongo failed")
	}
	return bson.M(filter), nil
}

func mongoFindOptions(options *ListOptions) (*mongooptions.FindOptions, error) {
	findOptions := mongooptions.Find()
	if options == nil {
		return findOptions, nil
	}
	if options.OrderBy != "" {
		if err := query.CheckField(options.OrderBy); err != nil {
			return nil, err
		}
		direction := 1
		if options.OrderDesc {
			direction = -1
		}
		findOptions.SetSort(bson.D{{Key: options.OrderBy, Value: direction}})
	}
	if options.Limit > 0 {
		findOptions.SetLimit(int64(options.Limit))
	}
	if options.Offset > 0 {
		findOptions.SetSkip(int64(options.Offset))
	}
	return findOptions, nil
}

func (s *MongoSource[T]) List(ctx context.Context, options *ListOptions) ([]T, error) {
	filter, err := mongoFilter(options)
	if err != nil {
		return nil, err
	}
	findOptions, err := mongoFindOptions(options)
	if err != nil {
		return nil, err
	}

	cursor, err := s.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "mongo.Find failed")
	}
	defer cursor.Close(ctx)

	var rows []T
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, errors.Wrap(err, "cursor.All failed")
	}
	return rows, nil
}

func (s *MongoSource[T]) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
