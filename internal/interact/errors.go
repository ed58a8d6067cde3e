package interact

import (
	"errors"
	"fmt"

	"github.com/san-kum/xrgrab/internal/tracking"
)

// Feature names one hand-driven gesture that can be disabled independently.
type Feature string

const (
	FeatureGrab        Feature = "grab"
	FeatureGravityGrab Feature = "gravity_grab"
)

// ErrTriggerKind indicates a feature was bound to an action without a press
// edge. Only bool and float actions can start a grab.
var ErrTriggerKind = errors.New("interact: trigger must be a bool or float action")

// FeatureError reports a configuration problem that disables a feature for
// one hand.
type FeatureError struct {
	Side    tracking.Side
	Feature Feature
	Wrapped error
}

func (e *FeatureError) Error() string {
	return fmt.Sprintf("interact: %s disabled for %s hand: %v", e.Feature, e.Side, e.Wrapped)
}

func (e *FeatureError) Unwrap() error {
	return e.Wrapped
}
