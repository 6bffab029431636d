package predict

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/telemetree/weathersense/internal/weather"
)

var (
	// ErrInsufficientData means the observation series is too short to build
	// a single supervised example.
	ErrInsufficientData = errors.New("not enough observations to build features")
)

// Config controls training of the regressor bank.
type Config struct {
	LagSteps     int     // lag depth k; examples need k prior days
	Trees        int     // forest size
	MaxDepth     int     // 0 = grow trees until pure
	TestFraction float64 // held-out share for evaluation
	Seed         int64   // fixed seed makes training reproducible
}

// DefaultConfig mirrors the production settings: 7 lags, 100 trees, 80/20
// split, seed 42.
func DefaultConfig() Config {
	return Config{
		LagSteps:     DefaultLagSteps,
		Trees:        100,
		TestFraction: 0.2,
		Seed:         42,
	}
}

// Metrics is the held-out evaluation of one attribute's model. Reported for
// observability; training succeeds regardless of the values.
type Metrics struct {
	MSE       float64 `json:"mse"`
	R2        float64 `json:"r2"`
	TrainSize int     `json:"train_size"`
	TestSize  int     `json:"test_size"`
}

// EvalReporter receives the held-out actual/predicted pairs after an
// attribute's model is trained. Implementations typically persist them for
// offline inspection; reporting failures never fail training.
type EvalReporter interface {
	Report(attribute string, actual, predicted []float64) error
}

type trainedModel struct {
	scaler *StandardScaler
	forest *Forest
}

// Bank holds one fitted scaler+forest per tracked attribute. A Bank is
// immutable after Train; retraining builds a replacement Bank.
type Bank struct {
	cfg      Config
	reporter EvalReporter
	models   map[string]*trainedModel
}

func (c Config) withDefaults() Config {
	if c.LagSteps <= 0 {
		c.LagSteps = DefaultLagSteps
	}
	if c.Trees <= 0 {
		c.Trees = 100
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		c.TestFraction = 0.2
	}
	return c
}

// NewBank creates an untrained bank. reporter may be nil.
func NewBank(cfg Config, reporter EvalReporter) *Bank {
	return &Bank{
		cfg:      cfg.withDefaults(),
		reporter: reporter,
		models:   make(map[string]*trainedModel),
	}
}

// Train fits one model per tracked attribute on the observation series (which
// must be date-ascending) and returns per-attribute held-out metrics. The
// whole series must yield at least one supervised example or
// ErrInsufficientData is returned and nothing is stored.
func (b *Bank) Train(obs []weather.Observation) (map[string]Metrics, error) {
	fs := BuildFeatures(obs, b.cfg.LagSteps)
	if fs.Len() == 0 {
		return nil, fmt.Errorf("%w: have %d, need at least %d", ErrInsufficientData, len(obs), b.cfg.LagSteps+1)
	}

	metrics := make(map[string]Metrics, len(weather.TrackedAttributes))
	for _, attr := range weather.TrackedAttributes {
		y, ok := fs.Targets[attr.Name]
		if !ok || len(y) != fs.Len() {
			// The attribute tables have drifted apart; refuse to train on
			// incomplete targets.
			return nil, fmt.Errorf("feature set has no targets for attribute %q", attr.Name)
		}

		m, err := b.trainOne(attr.Name, fs.Rows, y)
		if err != nil {
			return nil, fmt.Errorf("train %s: %w", attr.Name, err)
		}
		metrics[attr.Name] = m
		log.Printf("predict: trained %s on %d examples (mse=%.3f r2=%.3f)", attr.Name, m.TrainSize, m.MSE, m.R2)
	}
	return metrics, nil
}

func (b *Bank) trainOne(name string, rows [][]float64, y []float64) (Metrics, error) {
	rng := rand.New(rand.NewSource(b.cfg.Seed))

	trainIdx, testIdx := splitIndices(len(rows), b.cfg.TestFraction, rng)

	trainRows := make([][]float64, len(trainIdx))
	trainY := make([]float64, len(trainIdx))
	for i, id := range trainIdx {
		trainRows[i] = rows[id]
		trainY[i] = y[id]
	}

	scaler := &StandardScaler{}
	scaler.Fit(trainRows)

	forest := fitForest(scaler.Transform(trainRows), trainY, b.cfg.Trees, b.cfg.MaxDepth, rng)
	b.models[name] = &trainedModel{scaler: scaler, forest: forest}

	m := Metrics{TrainSize: len(trainIdx), TestSize: len(testIdx)}
	if len(testIdx) == 0 {
		return m, nil
	}

	actual := make([]float64, len(testIdx))
	predicted := make([]float64, len(testIdx))
	for i, id := range testIdx {
		actual[i] = y[id]
		predicted[i] = forest.Predict(scaler.TransformRow(rows[id]))
	}

	dist := floats.Distance(actual, predicted, 2)
	m.MSE = dist * dist / float64(len(testIdx))
	if stat.Variance(actual, nil) > 0 {
		m.R2 = stat.RSquaredFrom(predicted, actual, nil)
	}

	if b.reporter != nil {
		if err := b.reporter.Report(name, actual, predicted); err != nil {
			log.Printf("predict: evaluation report for %s failed: %v", name, err)
		}
	}
	return m, nil
}

// splitIndices shuffles 0..n-1 and carves off ceil(n*testFraction) test
// indices, always keeping at least one training index.
func splitIndices(n int, testFraction float64, rng *rand.Rand) (train, test []int) {
	perm := rng.Perm(n)

	testN := int(math.Ceil(float64(n) * testFraction))
	if testN >= n {
		testN = n - 1
	}
	return perm[testN:], perm[:testN]
}

// PredictNext produces the next-step prediction for every attribute that has
// a model, rounded to 2 decimals. Attributes without a model, or series too
// short to form a feature row, are simply absent from the result; callers are
// expected to handle partial maps.
func (b *Bank) PredictNext(obs []weather.Observation) map[string]float64 {
	fs := BuildFeatures(obs, b.cfg.LagSteps)
	latest, ok := fs.Latest()
	if !ok {
		return map[string]float64{}
	}

	predictions := make(map[string]float64, len(b.models))
	for _, attr := range weather.TrackedAttributes {
		m, ok := b.models[attr.Name]
		if !ok {
			continue
		}
		v := m.forest.Predict(m.scaler.TransformRow(latest))
		predictions[attr.Name] = math.Round(v*100) / 100
	}
	return predictions
}

// TrainedAttributes lists the attributes with a fitted model, in tracked
// order.
func (b *Bank) TrainedAttributes() []string {
	names := make([]string, 0, len(b.models))
	for _, attr := range weather.TrackedAttributes {
		if _, ok := b.models[attr.Name]; ok {
			names = append(names, attr.Name)
		}
	}
	return names
}
