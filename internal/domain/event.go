package domain

import "fmt"

// Event is one timestamped gameplay occurrence recorded during an active
// session. The wire shape is shared across all games but each game accepts
// only its own field subset; absent fields mean "not applicable to this
// event", never zero.
type Event struct {
	TimestampMS *int64

	// piano_tiles
	Hit       *bool
	FlexAngle *float64
	Finger    *string

	// dinosaur
	ReactionTime *float64
	Smoothness   *float64

	// space_invader
	Accuracy   *float64
	ROMPercent *float64
}

// ValidateFor checks that only fields belonging to the session's declared
// game are present, plus basic range sanity on the ones that are.
func (e Event) ValidateFor(game GameKey) error {
	if foreign := e.foreignFields(game); len(foreign) > 0 {
		return fmt.Errorf("field %q does not apply to game %q: %w", foreign[0], game, ErrInvalidInput)
	}

	if e.FlexAngle != nil && *e.FlexAngle < 0 {
		return fmt.Errorf("flex_angle must not be negative: %w", ErrInvalidInput)
	}
	if e.ReactionTime != nil && *e.ReactionTime < 0 {
		return fmt.Errorf("reaction_time must not be negative: %w", ErrInvalidInput)
	}
	if e.Accuracy != nil && (*e.Accuracy < 0 || *e.Accuracy > 100) {
		return fmt.Errorf("accuracy must be within [0, 100]: %w", ErrInvalidInput)
	}
	if e.ROMPercent != nil && (*e.ROMPercent < 0 || *e.ROMPercent > 100) {
		return fmt.Errorf("rom_percent must be within [0, 100]: %w", ErrInvalidInput)
	}
	return nil
}

// foreignFields lists the populated fields that belong to a different game.
// timestamp_ms is accepted everywhere.
func (e Event) foreignFields(game GameKey) []string {
	var foreign []string
	if game != GamePianoTiles {
		if e.Hit != nil {
			foreign = append(foreign, "hit")
		}
		if e.FlexAngle != nil {
			foreign = append(foreign, "flex_angle")
		}
		if e.Finger != nil {
			foreign = append(foreign, "finger")
		}
	}
	if game != GameDinosaur {
		if e.ReactionTime != nil {
			foreign = append(foreign, "reaction_time")
		}
		if e.Smoothness != nil {
			foreign = append(foreign, "smoothness")
		}
	}
	if game != GameSpaceInvader {
		if e.Accuracy != nil {
			foreign = append(foreign, "accuracy")
		}
		if e.ROMPercent != nil {
			foreign = append(foreign, "rom_percent")
		}
	}
	return foreign
}

// Qualifies reports whether the event counts as a scored hit under the
// threshold policy: hit must be true and the measured flex angle must reach
// the calibrated threshold. Events naming a finger are compared against that
// finger's calibration; an uncalibrated finger never qualifies. Events
// without a finger are compared against the highest calibrated angle, which
// matches the single warmup_max_flex calibration of the tile game.
func (e Event) Qualifies(baseline Baseline) bool {
	if e.Hit == nil || !*e.Hit || e.FlexAngle == nil {
		return false
	}
	threshold := baseline.MaxAngle()
	if e.Finger != nil {
		angle, ok := baseline[*e.Finger]
		if !ok {
			return false
		}
		threshold = angle
	}
	return *e.FlexAngle >= threshold
}
