package strategy

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-match/internal/entity"
)

const InvalidChoiceMessage = "Sorry, that's not a valid choice."

type positionSource interface {
	RequestPosition(ctx context.Context, side entity.Side, legal []int) (string, error)
}

type notifier interface {
	Notify(message string)
}

// Interactive asks an outside source for a position until it gets a free one.
type Interactive struct {
	source   positionSource
	notifier notifier
}

func NewInteractive(source positionSource, notifier notifier) *Interactive {
	return &Interactive{
		source:   source,
		notifier: notifier,
	}
}

// ChooseMove re-prompts without limit on bad answers. Only failures of the
// source itself are returned.
func (that *Interactive) ChooseMove(ctx context.Context, board *entity.Board, self, _ entity.Side) (int, error) {
	for {
		legal := board.UnmarkedPositions()

		answer, err := that.source.RequestPosition(ctx, self, legal)
		if err != nil {
			return 0, fmt.Errorf("failed to request position: %w", err)
		}

		position, err := strconv.Atoi(strings.TrimSpace(answer))
		if err == nil && contains(legal, position) {
			return position, nil
		}

		that.notifier.Notify(InvalidChoiceMessage)
	}
}

func (that *Interactive) String() string {
	return "interactive"
}
