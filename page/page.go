package page

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hatlonely/tablex/log"
	"github.com/hatlonely/tablex/log/logger"
	"github.com/hatlonely/tablex/render"
	"github.com/hatlonely/tablex/source"
	"github.com/hatlonely/tablex/table"
	"github.com/pkg/errors"
)

// Options 页面选项，表格相关字段可以从配置文件读取
type Options struct {
	Title          string               `cfg:"title"`
	PageSize       int                  `cfg:"pageSize" def:"10" validate:"gte=0"`
	SelectAllScope table.SelectAllScope `cfg:"selectAllScope" def:"filtered" validate:"omitempty,oneof=filtered page all"`
	// FilterColumn 为空时使用页面默认的过滤列
	FilterColumn string `cfg:"filterColumn"`

	Styles    *render.Styles   `cfg:"-"`
	Logger    logger.Logger    `cfg:"-"`
	Clipboard Clipboard        `cfg:"-"`
	Now       func() time.Time `cfg:"-"`
	// OnRemoveMember 为空时会员页不提供删除操作
	OnRemoveMember func(user User) error `cfg:"-"`
}

func (o *Options) withDefaults() *Options {
	options := Options{}
	if o != nil {
		options = *o
	}
	if options.Styles == nil {
		styles := render.DefaultStyles()
		options.Styles = &styles
	}
	if options.Logger == nil {
		options.Logger = log.Default()
	}
	if options.Clipboard == nil {
		options.Clipboard = SystemClipboard{}
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	return &options
}

// Page 组合数据源、表格和渲染器，数据由页面读取后交给表格
type Page[T any] struct {
	title    string
	source   source.Source[T]
	resource Resource[T]
	table    *table.Table[T]
	input    *render.TextInput
	styles   render.Styles
	logger   logger.Logger
}

func newPage[T any](title string, src source.Source[T], columns []table.Column[T], filterColumn string, checkboxes bool, options *Options) (*Page[T], error) {
	if src == nil {
		return nil, errors.New("source is nil")
	}
	if options.Title != "" {
		title = options.Title
	}
	if options.FilterColumn != "" {
		filterColumn = options.FilterColumn
	}

	input := render.NewTextInput("Filter " + filterColumn + "...")
	t, err := table.New(nil, columns, &table.Options[T]{
		EnableSorting:       true,
		EnableCheckboxes:    checkboxes,
		EnablePagination:    true,
		EnableColumnFilters: true,
		FilterColumn:        filterColumn,
		PageSize:            options.PageSize,
		SelectAllScope:      options.SelectAllScope,
		FilterInput:         input,
		Logger:              options.Logger,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "table.New failed")
	}

	return &Page[T]{
		title:  title,
		source: src,
		table:  t,
		input:  input,
		styles: *options.Styles,
		logger: options.Logger.WithGroup("page").With("title", title),
	}, nil
}

// Load 从数据源读取全部行并交给表格，过滤排序分页都在表格中完成
func (p *Page[T]) Load(ctx context.Context) error {
	rows, err := p.resource.Load(ctx, p.source, nil)
	if err != nil {
		p.logger.ErrorContext(ctx, "load failed", "error", err)
		return err
	}
	if err := p.table.SetData(rows); err != nil {
		return errors.WithMessage(err, "table.SetData failed")
	}
	p.logger.DebugContext(ctx, "loaded", "rows", len(rows))
	return nil
}

func (p *Page[T]) Table() *table.Table[T] {
	return p.table
}

func (p *Page[T]) Resource() *Resource[T] {
	return &p.resource
}

func (p *Page[T]) Input() *render.TextInput {
	return p.input
}

// Render 渲染为文本，加载中或加载失败时显示对应的提示，刷新失败时保留已有的表格
func (p *Page[T]) Render() string {
	var sb strings.Builder
	if p.title != "" {
		sb.WriteString(p.styles.Header.Render(p.title))
		sb.WriteString("\n\n")
	}

	switch p.resource.Status() {
	case StatusLoading:
		sb.WriteString(p.styles.Muted.Render("Loading..."))
		sb.WriteString("\n")
	case StatusError:
		sb.WriteString(p.styles.Error.Render("Failed to load: " + p.resource.Err().Error()))
		sb.WriteString("\n")
		// 刷新失败时继续显示上一次读取的行
		if len(p.resource.Rows()) > 0 {
			sb.WriteString("\n")
			sb.WriteString(render.Text(p.table.Render(), p.styles))
		}
	default:
		sb.WriteString(render.Text(p.table.Render(), p.styles))
	}
	return sb.String()
}

// Model 交互式表格
func (p *Page[T]) Model() *render.Model[T] {
	return render.NewModel(p.table, p.input, p.styles).WithTitle(p.title)
}

func (p *Page[T]) Program(opts ...tea.ProgramOption) *tea.Program {
	return tea.NewProgram(p.Model(), opts...)
}

func (p *Page[T]) Close() error {
	if err := p.table.Close(); err != nil {
		return err
	}
	return p.source.Close()
}
