package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-match/internal/entity"
)

const InvalidChoiceMessage = "Sorry, that's not a valid choice."

// Console talks to a person over line-oriented text streams.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
	rng *rand.Rand
}

func New(in io.Reader, out io.Writer, rng *rand.Rand) *Console {
	return &Console{
		in:  bufio.NewScanner(in),
		out: out,
		rng: rng,
	}
}

// readLine returns io.EOF once the input is exhausted.
func (that *Console) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if !that.in.Scan() {
		if err := that.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.EOF
	}

	return strings.TrimSpace(that.in.Text()), nil
}

func (that *Console) println(args ...any) {
	_, _ = fmt.Fprintln(that.out, args...)
}

func (that *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(that.out, format, args...)
}

// ask repeats question until the answer is one of choices.
func (that *Console) ask(ctx context.Context, question, retry string, choices ...string) (string, error) {
	that.println(question)

	for {
		answer, err := that.readLine(ctx)
		if err != nil {
			return "", err
		}

		answer = strings.ToLower(answer)
		for _, choice := range choices {
			if answer == choice {
				return answer, nil
			}
		}

		that.println(retry)
	}
}

func (that *Console) RequestPosition(ctx context.Context, side entity.Side, legal []int) (string, error) {
	that.printf("%s, choose a square (%s):\n", side.Name, JoinOr(legal, ", ", "or"))

	return that.readLine(ctx)
}

func (that *Console) Notify(message string) {
	that.println(message)
}

func (that *Console) ChooseFirstSide(ctx context.Context, sides [2]entity.Side) (entity.SideID, error) {
	question := fmt.Sprintf("Would %s like to go first? (y, n, choose)", sides[0].Name)

	answer, err := that.ask(ctx, question, InvalidChoiceMessage, "y", "n", "choose")
	if err != nil {
		return 0, err
	}

	if answer == "choose" {
		answer = []string{"y", "n"}[that.rng.Intn(2)]
	}

	if answer == "y" {
		return sides[0].ID, nil
	}

	return sides[1].ID, nil
}

func (that *Console) PlayAgain(ctx context.Context) (bool, error) {
	answer, err := that.ask(ctx, "\nWould you like to play again? (y/n)", "Sorry, must be y or n", "y", "n")
	if err != nil {
		return false, err
	}

	return answer == "y", nil
}

// AskName repeats the question until a non-empty name is typed.
func (that *Console) AskName(ctx context.Context) (string, error) {
	that.println("Whats your name?")

	for {
		name, err := that.readLine(ctx)
		if err != nil {
			return "", err
		}

		if name != "" {
			return name, nil
		}

		that.println("Sorry, must enter a value.")
	}
}

func (that *Console) ChooseMarker(ctx context.Context) (entity.Marker, error) {
	answer, err := that.ask(ctx, "Select a marker: (X or O)", InvalidChoiceMessage, "x", "o")
	if err != nil {
		return entity.MarkerNone, err
	}

	return entity.Marker(strings.ToUpper(answer)), nil
}

// JoinOr lists positions as "1, 2 or 3".
func JoinOr(positions []int, delimiter, word string) string {
	items := make([]string, len(positions))
	for i, position := range positions {
		items[i] = strconv.Itoa(position)
	}

	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], delimiter) + " " + word + " " + items[len(items)-1]
	}
}
