package source

import (
	"testing"

	"github.com/hatlonely/tablex/query"
	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMongoSourceOptions(t *testing.T) {
	Convey("mongo 连接串", t, func() {
		So(mongoURI(&MongoSourceOptions{URI: "mongodb://db:27017"}), ShouldEqual, "mongodb://db:27017")
		So(mongoURI(&MongoSourceOptions{Database: "patron"}), ShouldEqual, "mongodb://localhost:27017/patron")
		So(mongoURI(&MongoSourceOptions{
			Host: "db", Port: 27018, Database: "patron", Username: "u", Password: "p",
		}), ShouldEqual, "mongodb://u:p@db:27018/patron?authSource=admin")
	})

	Convey("mongo 过滤条件", t, func() {
		filter, err := mongoFilter(nil)
		So(err, ShouldBeNil)
		So(filter, ShouldResemble, bson.M{})

		filter, err = mongoFilter(&ListOptions{Query: &query.TermQuery{Field: "tier", Value: "gold"}})
		So(err, ShouldBeNil)
		So(filter, ShouldContainKey, "tier")
	})

	Convey("mongo 查询选项", t, func() {
		findOptions, err := mongoFindOptions(&ListOptions{OrderBy: "name", OrderDesc: true, Limit: 10, Offset: 20})
		So(err, ShouldBeNil)
		So(findOptions.Sort, ShouldResemble, bson.D{{Key: "name", Value: -1}})
		So(*findOptions.Limit, ShouldEqual, int64(10))
		So(*findOptions.Skip, ShouldEqual, int64(20))

		_, err = mongoFindOptions(&ListOptions{OrderBy: "$where"})
		So(err, ShouldNotBeNil)
	})

	Convey("缺少集合", t, func() {
		_, err := NewMongoSourceWithOptions[member](&MongoSourceOptions{Database: "patron"})
		So(err, ShouldNotBeNil)
	})
}
