package entity

import "time"

// MatchState is the phase a match engine is in.
type MatchState int

const (
	AwaitingSetup MatchState = iota
	RoundInProgress
	RoundComplete
	MatchComplete
)

func (that MatchState) String() string {
	switch that {
	case AwaitingSetup:
		return "awaiting-setup"
	case RoundInProgress:
		return "round-in-progress"
	case RoundComplete:
		return "round-complete"
	case MatchComplete:
		return "match-complete"
	default:
		return "unknown"
	}
}

const (
	StatusOngoing   = "ongoing"
	StatusFinished  = "finished"
	StatusAbandoned = "abandoned"
)

// Move is a single placement within a round.
type Move struct {
	Round    int    `json:"round"`
	Turn     int    `json:"turn"`
	Side     SideID `json:"side"`
	Position int    `json:"position"`
}

// RoundResult describes a finished round. Winner is nil on a tie.
type RoundResult struct {
	Round  int     `json:"round"`
	Winner *SideID `json:"winner,omitempty"`
	Tie    bool    `json:"tie"`
	Moves  []Move  `json:"moves"`
}

func (that RoundResult) WonBy(side SideID) bool {
	return that.Winner != nil && *that.Winner == side
}

// MatchRecord is the persisted summary of a match.
type MatchRecord struct {
	ID          string         `json:"id"`
	Sides       []Side         `json:"sides"`
	BoardSize   int            `json:"board_size"`
	Threshold   int            `json:"win_threshold"`
	Scores      map[SideID]int `json:"scores"`
	Rounds      []RoundResult  `json:"rounds"`
	Status      string         `json:"status"`
	GrandWinner *SideID        `json:"grand_winner,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (that *MatchRecord) IsFinished() bool {
	return that.Status == StatusFinished
}

// IsOngoing reports whether the match can still get more rounds.
func (that *MatchRecord) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *MatchRecord) AddRound(result RoundResult, scores map[SideID]int) {
	that.Rounds = append(that.Rounds, result)
	that.Scores = scores
	that.UpdatedAt = time.Now().UTC()
}

// Abandon closes a match that was left before anyone reached the threshold.
func (that *MatchRecord) Abandon() {
	that.Status = StatusAbandoned
	that.UpdatedAt = time.Now().UTC()
}

func (that *MatchRecord) Finish(winner SideID) {
	that.Status = StatusFinished
	that.GrandWinner = &winner
	that.UpdatedAt = time.Now().UTC()
}
