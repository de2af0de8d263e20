package source

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/hatlonely/tablex/log"
	"github.com/hatlonely/tablex/log/logger"
	"github.com/hatlonely/tablex/ref"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type FileSourceOptions struct {
	Path string `cfg:"path" validate:"required"`
	// Format json 或 yaml，为空时根据扩展名判断
	Format string           `cfg:"format"`
	Logger *ref.TypeOptions `cfg:"logger"`
}

// FileSource 从 json/yaml 文件读取行数组，过滤排序分页在内存中完成
type FileSource[T any] struct {
	path   string
	format string
	logger logger.Logger

	mu       sync.Mutex
	watching bool
	done     chan struct{}
	wg       sync.WaitGroup
}

func NewFileSourceWithOptions[T any](options *FileSourceOptions) (*FileSource[T], error) {
	if options.Path == "" {
		return nil, errors.New("path is required")
	}

	format := strings.ToLower(options.Format)
	if format == "" {
		switch strings.ToLower(filepath.Ext(options.Path)) {
		case ".json":
			format = "json"
		case ".yaml", ".yml":
			format = "yaml"
		default:
			return nil, errors.Errorf("unsupported file extension %q", filepath.Ext(options.Path))
		}
	}
	if format != "json" && format != "yaml" {
		return nil, errors.Errorf("unsupported format %q", format)
	}

	l, err := log.NewLoggerWithOptions(options.Logger)
	if err != nil {
		return nil, errors.WithMessage(err, "create logger failed")
	}

	path, err := filepath.Abs(options.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "filepath.Abs %s failed", options.Path)
	}

	return &FileSource[T]{
		path:   path,
		format: format,
		logger: l.WithGroup("fileSource").With("path", path),
		done:   make(chan struct{}),
	}, nil
}

func (s *FileSource[T]) load() ([]T, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s failed", s.path)
	}

	var rows []T
	switch s.format {
	case "json":
		err = json.Unmarshal(data, &rows)
	case "yaml":
		err = yaml.Unmarshal(data, &rows)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s failed", s.path)
	}
	return rows, nil
}

func (s *FileSource[T]) List(ctx context.Context, options *ListOptions) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.load()
	if err != nil {
		return nil, err
	}
	return applyInMemory(rows, options), nil
}

// Watch 文件被写入、创建或重命名时重新读取，并把结果交给 fn
// 监听的是文件所在目录，编辑器先写临时文件再重命名的方式也能感知到
func (s *FileSource[T]) Watch(fn func(rows []T, err error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watching {
		return errors.New("already watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "fsnotify.NewWatcher failed")
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return errors.Wrap(err, "watcher.Add failed")
	}
	s.watching = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer watcher.Close()

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if filepath.Clean(event.Name) != s.path {
					continue
				}

				rows, err := s.load()
				if err != nil {
					// 重命名的中间状态文件可能暂时不存在
					s.logger.Warn("reload failed", "error", err)
				} else {
					s.logger.Debug("reloaded", "rows", len(rows))
				}
				fn(rows, err)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("watcher error", "error", err)
			case <-s.done:
				return
			}
		}
	}()

	return nil
}

func (s *FileSource[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
		return nil
	default:
	}
	close(s.done)
	s.wg.Wait()
	return nil
}
