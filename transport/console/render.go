package console

import (
	"strings"

	"github.com/rocketscienceinc/tictactoe-match/internal/entity"
)

const cellWidth = 5

func (that *Console) RenderWelcome(sides [2]entity.Side, threshold int) {
	that.printf("Welcome to Tic Tac Toe %s!\n", sides[0].Name)
	that.printf("You're playing against %s.\n\n", sides[1].Name)
	that.printf("The player who wins %d rounds is the grand winner!\n\n", threshold)
}

func (that *Console) RenderGoodbye() {
	that.println("Thanks for playing Tic Tac Toe! Goodbye!")
}

func (that *Console) RenderPlayAgain() {
	that.println("Let's play again!")
}

func (that *Console) RenderBoard(board *entity.Board, sides [2]entity.Side) {
	that.printf("%s is a %s. %s is a %s.\n", sides[0].Name, sides[0].Marker, sides[1].Name, sides[1].Marker)
	that.println(DrawBoard(board))
}

// DrawBoard renders the grid with each marker centred in a five-wide cell.
func DrawBoard(board *entity.Board) string {
	size := board.Size()
	cells := board.Cells()

	blank := strings.Repeat(strings.Repeat(" ", cellWidth)+"|", size-1)
	separator := strings.Repeat(strings.Repeat("-", cellWidth)+"+", size-1) + strings.Repeat("-", cellWidth)

	var out strings.Builder
	out.WriteString("\n")

	for row := 0; row < size; row++ {
		marks := make([]string, size)
		for col := 0; col < size; col++ {
			marker := string(cells[row*size+col])
			if marker == "" {
				marker = " "
			}
			marks[col] = "  " + marker + "  "
		}

		out.WriteString(blank + "\n")
		out.WriteString(strings.TrimRight(strings.Join(marks, "|"), " ") + "\n")
		out.WriteString(blank + "\n")

		if row < size-1 {
			out.WriteString(separator + "\n")
		}
	}

	return out.String()
}

func (that *Console) RenderRound(result entity.RoundResult, sides [2]entity.Side) {
	if result.Tie {
		that.println("It's a tie!")
		return
	}

	for _, side := range sides {
		if result.WonBy(side.ID) {
			that.printf("%s won!\n", side.Name)
		}
	}
}

func (that *Console) RenderScore(scores map[entity.SideID]int, sides [2]entity.Side) {
	that.println("\nCurrent total scores are:")
	that.printf("\n%s: %d\n", sides[0].Name, scores[sides[0].ID])
	that.printf("%s: %d\n", sides[1].Name, scores[sides[1].ID])
}

func (that *Console) RenderGrandWinner(winner entity.Side) {
	that.println("\nGrand winner is...")
	that.printf("%s!\n", winner.Name)
}
