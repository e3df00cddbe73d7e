package health

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"text/template"
	"time"

	"github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"

	"experimentation-control-plane/internal/platform/logger"
)

// Default PromQL templates. {{.ModelVersion}} is replaced with the model version under evaluation.
const (
	DefaultErrorRateQuery = `sum(rate(model_requests_total{model_version="{{.ModelVersion}}",outcome="error"}[5m])) / sum(rate(model_requests_total{model_version="{{.ModelVersion}}"}[5m]))`
	DefaultLatencyQuery   = `histogram_quantile(0.95, sum by (le) (rate(model_request_duration_milliseconds_bucket{model_version="{{.ModelVersion}}"}[5m])))`
	DefaultAccuracyQuery  = `avg(model_accuracy{model_version="{{.ModelVersion}}"})`
)

// ErrNoData is returned when a query yields no sample for the model version.
var ErrNoData = errors.New("no data")

// Queries holds the PromQL templates for the three gate inputs. Empty fields fall back to the defaults.
type Queries struct {
	ErrorRate string
	Latency   string
	Accuracy  string
}

// PrometheusProvider reads model metrics from a Prometheus server.
type PrometheusProvider struct {
	api       promv1.API
	errorRate *template.Template
	latency   *template.Template
	accuracy  *template.Template
	log       *logger.Logger
	nowF      func() time.Time
}

// NewPrometheusProvider builds a provider against the Prometheus HTTP API at address.
func NewPrometheusProvider(address string, q Queries, log *logger.Logger) (*PrometheusProvider, error) {
	client, err := api.NewClient(api.Config{Address: address})
	if err != nil {
		return nil, fmt.Errorf("prometheus client: %w", err)
	}
	return newPrometheusProvider(promv1.NewAPI(client), q, log)
}

func newPrometheusProvider(a promv1.API, q Queries, log *logger.Logger) (*PrometheusProvider, error) {
	if log == nil {
		log = logger.Nop()
	}
	p := &PrometheusProvider{api: a, log: log, nowF: time.Now}
	var err error
	if p.errorRate, err = parseQuery("error_rate", q.ErrorRate, DefaultErrorRateQuery); err != nil {
		return nil, err
	}
	if p.latency, err = parseQuery("latency", q.Latency, DefaultLatencyQuery); err != nil {
		return nil, err
	}
	if p.accuracy, err = parseQuery("accuracy", q.Accuracy, DefaultAccuracyQuery); err != nil {
		return nil, err
	}
	return p, nil
}

func parseQuery(name, text, fallback string) (*template.Template, error) {
	if text == "" {
		text = fallback
	}
	t, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s query: %w", name, err)
	}
	return t, nil
}

// ModelMetrics runs the three queries. Any failed or empty query fails the whole reading.
func (p *PrometheusProvider) ModelMetrics(ctx context.Context, modelVersion string) (Metrics, error) {
	var m Metrics
	var err error
	if m.ErrorRate, err = p.query(ctx, p.errorRate, modelVersion); err != nil {
		return Metrics{}, err
	}
	if m.Latency, err = p.query(ctx, p.latency, modelVersion); err != nil {
		return Metrics{}, err
	}
	if m.Accuracy, err = p.query(ctx, p.accuracy, modelVersion); err != nil {
		return Metrics{}, err
	}
	return m, nil
}

func (p *PrometheusProvider) query(ctx context.Context, tmpl *template.Template, modelVersion string) (float64, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ ModelVersion string }{modelVersion}); err != nil {
		return 0, fmt.Errorf("render %s query: %w", tmpl.Name(), err)
	}
	val, warnings, err := p.api.Query(ctx, buf.String(), p.nowF())
	if err != nil {
		return 0, fmt.Errorf("query %s: %w", tmpl.Name(), err)
	}
	if len(warnings) > 0 {
		p.log.Warn("prometheus query warnings", "query", tmpl.Name(), "model_version", modelVersion, "warnings", warnings)
	}
	v, err := sampleValue(val)
	if err != nil {
		return 0, fmt.Errorf("query %s: %w", tmpl.Name(), err)
	}
	return v, nil
}

// sampleValue extracts a single number from a scalar or the first element of a vector.
// NaN, which a ratio over zero traffic yields, counts as no data.
func sampleValue(val model.Value) (float64, error) {
	var f float64
	switch v := val.(type) {
	case nil:
		return 0, ErrNoData
	case *model.Scalar:
		f = float64(v.Value)
	case model.Vector:
		if len(v) == 0 {
			return 0, ErrNoData
		}
		f = float64(v[0].Value)
	default:
		return 0, fmt.Errorf("unexpected result type %s", val.Type())
	}
	if math.IsNaN(f) {
		return 0, ErrNoData
	}
	return f, nil
}
