package source

import (
	"context"
	"fmt"

	"github.com/hatlonely/tablex/query"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type GormSourceOptions struct {
	Driver   string `cfg:"driver" def:"sqlite" validate:"oneof=sqlite mysql"`
	DSN      string `cfg:"dsn"`
	Host     string `cfg:"host" def:"localhost"`
	Port     int    `cfg:"port" def:"3306"`
	Database string `cfg:"database"`
	Username string `cfg:"username"`
	Password string `cfg:"password"`
	Charset  string `cfg:"charset" def:"utf8mb4"`
	// Table 为空时使用 gorm 根据行类型推导的表名
	Table    string `cfg:"table"`
	MaxConns int    `cfg:"maxConns" def:"10"`
	MaxIdle  int    `cfg:"maxIdle" def:"5"`
}

// GormSource 通过 gorm 读取行，过滤条件由 Query.ToSQL 下推
type GormSource[T any] struct {
	db    *gorm.DB
	table string
}

func dialector(options *GormSourceOptions) (gorm.Dialector, error) {
	switch options.Driver {
	case "", "sqlite":
		dsn := options.DSN
		if dsn == "" {
			dsn = options.Database
		}
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		return sqlite.Open(dsn), nil
	case "mysql":
		dsn := options.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
				options.Username, options.Password, options.Host, options.Port, options.Database, options.Charset)
		}
		return mysql.Open(dsn), nil
	default:
		return nil, errors.Errorf("unsupported driver: %s", options.Driver)
	}
}

func NewGormSourceWithOptions[T any](options *GormSourceOptions) (*GormSource[T], error) {
	d, err := dialector(options)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "gorm.Open failed")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "gorm.DB failed")
	}
	if options.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(options.MaxConns)
	}
	if options.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(options.MaxIdle)
	}

	return NewGormSource[T](db, options.Table), nil
}

// NewGormSource 使用已有的连接，table 为空时由 gorm 推导
func NewGormSource[T any](db *gorm.DB, table string) *GormSource[T] {
	return &GormSource[T]{db: db, table: table}
}

func (s *GormSource[T]) List(ctx context.Context, options *ListOptions) ([]T, error) {
	tx := s.db.WithContext(ctx)
	if s.table != "" {
		tx = tx.Table(s.table)
	} else {
		tx = tx.Model(new(T))
	}

	if options != nil {
		if options.Query != nil {
			where, args, err := options.Query.ToSQL()
			if err != nil {
				return nil, errors.WithMessage(err, "query.ToSQL failed")
			}
			tx = tx.Where(where, args...)
		}
		if options.OrderBy != "" {
			if err := query.CheckField(options.OrderBy); err != nil {
				return nil, err
			}
			tx = tx.Order(clause.OrderByColumn{
				Column: clause.Column{Name: options.OrderBy},
				Desc:   options.OrderDesc,
			})
		}
		if options.Limit > 0 {
			tx = tx.Limit(options.Limit)
		}
		if options.Offset > 0 {
			tx = tx.Offset(options.Offset)
		}
	}

	var rows []T
	if err := tx.Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "gorm.Find failed")
	}
	return rows, nil
}

func (s *GormSource[T]) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "gorm.DB failed")
	}
	return sqlDB.Close()
}
