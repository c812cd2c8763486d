package rules

// Event is a change in an achievement's state reported by Runtime.DoFrame.
// The set of implementations is closed: Triggered, Activated, Paused,
// Primed, ProgressUpdated and Reset.
type Event interface {
	AchievementID() uint32
	event()
}

// Triggered reports that an achievement's conditions were met.
type Triggered struct{ ID uint32 }

// Activated reports that an achievement left the waiting or paused state
// and is now being evaluated.
type Activated struct{ ID uint32 }

// Paused reports that a PauseIf condition is holding the achievement.
type Paused struct{ ID uint32 }

// Primed reports that every condition except the Trigger ones is true.
type Primed struct{ ID uint32 }

// ProgressUpdated reports a new measured value for an achievement.
type ProgressUpdated struct {
	ID     uint32
	Value  uint32
	Target uint32
}

// Reset reports that a ResetIf condition cleared accumulated hit counts.
type Reset struct{ ID uint32 }

func (e Triggered) AchievementID() uint32       { return e.ID }
func (e Activated) AchievementID() uint32       { return e.ID }
func (e Paused) AchievementID() uint32          { return e.ID }
func (e Primed) AchievementID() uint32          { return e.ID }
func (e ProgressUpdated) AchievementID() uint32 { return e.ID }
func (e Reset) AchievementID() uint32           { return e.ID }

func (Triggered) event()       {}
func (Activated) event()       {}
func (Paused) event()          {}
func (Primed) event()          {}
func (ProgressUpdated) event() {}
func (Reset) event()           {}

// EventName returns a short lowercase name for an event, suitable for
// log fields and metric labels.
func EventName(e Event) string {
	switch e.(type) {
	case Triggered:
		return "triggered"
	case Activated:
		return "activated"
	case Paused:
		return "paused"
	case Primed:
		return "primed"
	case ProgressUpdated:
		return "progress_updated"
	case Reset:
		return "reset"
	default:
		return "unknown"
	}
}
