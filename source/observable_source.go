package source

import (
	"context"
	"time"

	"github.com/hatlonely/tablex/log"
	"github.com/hatlonely/tablex/log/logger"
	"github.com/hatlonely/tablex/ref"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ObservableSourceOptions struct {
	Source *ref.TypeOptions `cfg:"source" validate:"required"`
	Logger *ref.TypeOptions `cfg:"logger"`

	EnableMetrics bool `cfg:"enableMetrics" def:"true"`
	EnableLogging bool `cfg:"enableLogging" def:"true"`
	EnableTracing bool `cfg:"enableTracing" def:"false"`

	// Name 作为指标名前缀、日志的 component 字段和 span 的 component 属性
	Name string `cfg:"name" def:"source"`

	// Registerer 为空时注册到 prometheus 默认 registry
	Registerer prometheus.Registerer `cfg:"-"`
}

type sourceMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rows     prometheus.Histogram
}

// 同名指标已注册时复用已有的 collector
func register[C prometheus.Collector](r prometheus.Registerer, c C) (C, error) {
	if err := r.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func newSourceMetrics(name string, r prometheus.Registerer) (*sourceMetrics, error) {
	requests, err := register(r, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name + "_list_total",
		Help: "Total number of source list requests",
	}, []string{"status"}))
	if err != nil {
		return nil, errors.Wrap(err, "register requests counter failed")
	}
	duration, err := register(r, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    name + "_list_duration_seconds",
		Help:    "Duration of source list requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
	}, []string{"status"}))
	if err != nil {
		return nil, errors.Wrap(err, "register duration histogram failed")
	}
	rows, err := register(r, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    name + "_list_rows",
		Help:    "Number of rows returned by source list requests",
		Buckets: []float64{0, 1, 10, 50, 100, 500, 1000, 5000},
	}))
	if err != nil {
		return nil, errors.Wrap(err, "register rows histogram failed")
	}
	return &sourceMetrics{requests: requests, duration: duration, rows: rows}, nil
}

// ObservableSource 装饰器，为任意数据源添加指标、日志和追踪
type ObservableSource[T any] struct {
	source Source[T]

	name    string
	logger  logger.Logger
	metrics *sourceMetrics
	tracer  trace.Tracer
}

func NewObservableSourceWithOptions[T any](options *ObservableSourceOptions) (*ObservableSource[T], error) {
	if options.Source == nil {
		return nil, errors.New("source is required")
	}
	src, err := NewSourceWithOptions[T](options.Source)
	if err != nil {
		return nil, errors.WithMessage(err, "create underlying source failed")
	}
	obs, err := NewObservableSource(src, options)
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	return obs, nil
}

// NewObservableSource 包装已有的数据源，options.Source 被忽略
func NewObservableSource[T any](src Source[T], options *ObservableSourceOptions) (*ObservableSource[T], error) {
	name := options.Name
	if name == "" {
		name = "source"
	}
	obs := &ObservableSource[T]{source: src, name: name}

	if options.EnableLogging {
		l, err := log.NewLoggerWithOptions(options.Logger)
		if err != nil {
			return nil, errors.WithMessage(err, "create logger failed")
		}
		obs.logger = l.WithGroup("observableSource")
	}
	if options.EnableMetrics {
		r := options.Registerer
		if r == nil {
			r = prometheus.DefaultRegisterer
		}
		metrics, err := newSourceMetrics(name, r)
		if err != nil {
			return nil, err
		}
		obs.metrics = metrics
	}
	if options.EnableTracing {
		obs.tracer = otel.Tracer(Namespace)
	}
	return obs, nil
}

func (obs *ObservableSource[T]) List(ctx context.Context, options *ListOptions) ([]T, error) {
	start := time.Now()

	var span trace.Span
	if obs.tracer != nil {
		attrs := []attribute.KeyValue{attribute.String("component", obs.name)}
		if options != nil {
			attrs = append(attrs,
				attribute.String("order_by", options.OrderBy),
				attribute.Bool("order_desc", options.OrderDesc),
				attribute.Int("limit", options.Limit),
				attribute.Int("offset", options.Offset),
			)
		}
		ctx, span = obs.tracer.Start(ctx, "source.List", trace.WithAttributes(attrs...))
		defer span.End()
	}

	rows, err := obs.source.List(ctx, options)
	duration := time.Since(start)

	status := "success"
	if err != nil {
		status = "error"
	}

	if span != nil {
		span.SetAttributes(attribute.Int("rows", len(rows)))
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}

	if obs.metrics != nil {
		obs.metrics.requests.WithLabelValues(status).Inc()
		obs.metrics.duration.WithLabelValues(status).Observe(duration.Seconds())
		if err == nil {
			obs.metrics.rows.Observe(float64(len(rows)))
		}
	}

	if obs.logger != nil {
		if err != nil {
			obs.logger.ErrorContext(ctx, "list failed",
				"component", obs.name,
				"duration_ms", duration.Milliseconds(),
				"error", err.Error(),
			)
		} else {
			obs.logger.DebugContext(ctx, "list completed",
				"component", obs.name,
				"duration_ms", duration.Milliseconds(),
				"rows", len(rows),
			)
		}
	}

	return rows, err
}

func (obs *ObservableSource[T]) Close() error {
	return obs.source.Close()
}
