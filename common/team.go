package common

// Team identifies which side owns a combatant or projectile.
type Team uint8

const (
	TeamNone Team = iota
	TeamP1
	TeamP2
)

func (t Team) Opponent() Team {
	switch t {
	case TeamP1:
		return TeamP2
	case TeamP2:
		return TeamP1
	default:
		return TeamNone
	}
}

// Index is the zero-based slot for per-team arrays. TeamNone maps to 0.
func (t Team) Index() int {
	if t == TeamP2 {
		return 1
	}
	return 0
}

func (t Team) String() string {
	switch t {
	case TeamP1:
		return "p1"
	case TeamP2:
		return "p2"
	default:
		return "none"
	}
}
