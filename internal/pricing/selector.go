package pricing

import "context"

// Selector decides whether a venue receives the treatment price. It must
// return the same answer for a venue throughout one run.
type Selector interface {
	IsTreatment(ctx context.Context, venueID int64) (bool, error)
}

// SelectorFunc adapts a function to Selector
type SelectorFunc func(ctx context.Context, venueID int64) (bool, error)

func (f SelectorFunc) IsTreatment(ctx context.Context, venueID int64) (bool, error) {
	return f(ctx, venueID)
}

// StaticSelector assigns treatment to a fixed set of venues
type StaticSelector struct {
	treatment map[int64]struct{}
}

// NewStaticSelector creates a selector treating exactly the given venues
func NewStaticSelector(treatmentVenues ...int64) *StaticSelector {
	set := make(map[int64]struct{}, len(treatmentVenues))
	for _, id := range treatmentVenues {
		set[id] = struct{}{}
	}
	return &StaticSelector{treatment: set}
}

func (s *StaticSelector) IsTreatment(_ context.Context, venueID int64) (bool, error) {
	_, ok := s.treatment[venueID]
	return ok, nil
}
