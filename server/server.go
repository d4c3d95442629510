package server

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/KashifMalik777/ml-ids/pkg/model"
	"github.com/KashifMalik777/ml-ids/pkg/schema"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	//Server answers prediction requests with a loaded model
	Server struct {
		echo *echo.Echo
		log  *log.Logger

		registry    *prometheus.Registry
		predictions *prometheus.CounterVec
		latency     *prometheus.HistogramVec

		mu    sync.RWMutex
		model *model.Model
	}

	//PredictResponse is returned by POST /predict
	PredictResponse struct {
		Prediction  int     `json:"prediction"`
		Label       string  `json:"label"`
		Probability float64 `json:"probability"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

//New creates a server around the given model. The model may be nil, in
//which case predictions fail until SetModel is called.
func New(m *model.Model, logger *log.Logger) *Server {
	s := &Server{
		echo:     echo.New(),
		log:      logger,
		registry: prometheus.NewRegistry(),
		model:    m,
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ml_ids_predictions_total",
			Help: "Number of predictions served by label",
		}, []string{"label"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ml_ids_request_duration_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "code"}),
	}
	s.registry.MustRegister(s.predictions, s.latency)

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(s.observe)

	s.echo.GET("/health", s.health)
	s.echo.POST("/predict", s.predict)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	return s
}

//SetModel swaps the model used for predictions
func (s *Server) SetModel(m *model.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = m
}

func (s *Server) currentModel() *model.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

//Handler exposes the routes for use with net/http
func (s *Server) Handler() http.Handler {
	return s.echo
}

//Run serves on address until ctx is cancelled
func (s *Server) Run(ctx context.Context, address string) error {
	errs := make(chan error, 1)
	go func() {
		errs <- s.echo.Start(address)
	}()

	s.log.WithFields(log.Fields{
		"address": address,
	}).Info("Serving predictions")

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// observe logs each request and records its latency
func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		elapsed := time.Since(start)
		status := c.Response().Status

		s.latency.WithLabelValues(c.Path(), strconv.Itoa(status)).Observe(elapsed.Seconds())
		s.log.WithFields(log.Fields{
			"method":   c.Request().Method,
			"path":     c.Request().URL.Path,
			"status":   status,
			"duration": elapsed.String(),
		}).Debug("Handled request")
		return nil
	}
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) predict(c echo.Context) error {
	m := s.currentModel()
	if m == nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "no model loaded"})
	}

	body, err := ioutil.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	var raw map[string]float64
	if err := json.Unmarshal(body, &raw); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "body must be a JSON object of feature names to numbers"})
	}

	values, err := canonicalFeatures(raw)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	row, err := m.Row(values)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	prediction, probability := m.Predict(row)
	labelName := model.ClassNames[prediction]
	s.predictions.WithLabelValues(labelName).Inc()

	return c.JSON(http.StatusOK, PredictResponse{
		Prediction:  prediction,
		Label:       labelName,
		Probability: probability,
	})
}

// canonicalFeatures renames request keys onto canonical column names so
// raw dataset headers such as "Flow Bytes/s" are accepted
func canonicalFeatures(raw map[string]float64) (map[string]float64, error) {
	values := make(map[string]float64, len(raw))
	source := make(map[string]string, len(raw))
	for name, v := range raw {
		canonical := schema.CanonicalName(name)
		if prev, ok := source[canonical]; ok && values[canonical] != v {
			return nil, fmt.Errorf("features %q and %q both name %s", prev, name, canonical)
		}
		values[canonical] = v
		source[canonical] = name
	}
	return values, nil
}
