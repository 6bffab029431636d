package predict

import (
	"errors"
	"fmt"
	"sync"

	"github.com/telemetree/weathersense/internal/weather"
)

// ErrNotInitialized is returned by PredictNext before the first successful
// Initialize.
var ErrNotInitialized = errors.New("model not initialized")

// ObservationLoader supplies the full observation history, date-ascending.
// Both training and prediction reload through it so predictions always see
// the latest data.
type ObservationLoader func() ([]weather.Observation, error)

// Service is the forecast orchestration layer: an uninitialized→trained state
// machine around the regressor bank. The bank is replaced wholesale on a
// successful retrain and kept untouched when retraining fails, so a serving
// model survives a bad dataset.
type Service struct {
	cfg      Config
	loader   ObservationLoader
	reporter EvalReporter

	mu   sync.RWMutex
	bank *Bank // nil until the first successful Initialize
}

// NewService creates an uninitialized forecast service. reporter may be nil.
func NewService(cfg Config, loader ObservationLoader, reporter EvalReporter) *Service {
	return &Service{cfg: cfg.withDefaults(), loader: loader, reporter: reporter}
}

// Initialized reports whether a trained bank is available.
func (s *Service) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bank != nil
}

// Initialize loads the observation history, trains a fresh bank and swaps it
// in. On any failure the previously trained bank (if any) keeps serving.
func (s *Service) Initialize() (map[string]Metrics, error) {
	obs, err := s.loader()
	if err != nil {
		return nil, fmt.Errorf("load observations: %w", err)
	}

	bank := NewBank(s.cfg, s.reporter)
	metrics, err := bank.Train(obs)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.bank = bank
	s.mu.Unlock()
	return metrics, nil
}

// PredictNext reloads the observation history and returns the per-attribute
// next-step predictions. It fails with ErrNotInitialized before the first
// successful Initialize and with ErrInsufficientData when the current history
// cannot produce a single feature row; otherwise the map may be partial.
func (s *Service) PredictNext() (map[string]float64, error) {
	s.mu.RLock()
	bank := s.bank
	s.mu.RUnlock()

	if bank == nil {
		return nil, ErrNotInitialized
	}

	obs, err := s.loader()
	if err != nil {
		return nil, fmt.Errorf("load observations: %w", err)
	}

	predictions := bank.PredictNext(obs)
	if len(predictions) == 0 {
		return nil, fmt.Errorf("%w: have %d, need at least %d", ErrInsufficientData, len(obs), s.cfg.LagSteps+1)
	}
	return predictions, nil
}
