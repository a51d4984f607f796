package gamestate

// Guess is a player's prediction of whether the next card drawn will be
// higher or lower than the card on the table.
type Guess uint8

const (
	Higher Guess = iota
	Lower
)

var guessStr = [...]string{
	"Higher",
	"Lower",
}

func (g Guess) String() string {
	return guessStr[g]
}

// Outcome is how the drawn card compared to the table card.
type Outcome uint8

const (
	OutcomeHigher Outcome = iota
	OutcomeLower
	OutcomeTie
)

var outcomeStr = [...]string{
	"Higher",
	"Lower",
	"Tie",
}

func (o Outcome) String() string {
	return outcomeStr[o]
}

// Result is the result of a guess.
type Result uint8

const (
	Win Result = iota
	Lose
	Tie
)

var resultStr = [...]string{
	"Win",
	"Lose",
	"Tie",
}

func (r Result) String() string {
	return resultStr[r]
}
