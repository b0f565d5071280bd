package engine

import (
	"fmt"
	"os"

	"github.com/Libras-Play/adaptive-service/internal/logger"
)

// ModelBasedStrategy is the reserved ML slot. The decision log exists to
// build its training set; until a trained model ships, construction fails
// and callers fall back to the rule-based strategy.
//
// Integration plan:
//  1. Train on the adaptive decision log table
//  2. Export the model to ML_MODEL_PATH
//  3. Set ML_MODEL_ENABLED=true
type ModelBasedStrategy struct {
	modelPath string
	log       *logger.Logger
}

func NewModelBasedStrategy(modelPath string, baseLog *logger.Logger) (*ModelBasedStrategy, error) {
	if baseLog == nil {
		baseLog = logger.NewNop()
	}
	if modelPath == "" {
		return nil, fmt.Errorf("model path is empty")
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("no model at %s: %w", modelPath, err)
	}
	// No model format is defined yet, so a file that does exist is still
	// unusable.
	return nil, fmt.Errorf("model loading not implemented")
}

func (s *ModelBasedStrategy) Evaluate(dctx Context) (*Decision, error) {
	return nil, fmt.Errorf("model-based strategy is not available")
}
