package game

import (
	"math/rand"

	"github.com/lokeshkonka/Tic-Tac-Toe-Quiz/domain"
)

// QuestionBank supplies trivia questions for the quiz phase. Draws are
// uniform with replacement, so the same question may recur within a session.
type QuestionBank struct {
	questions []domain.Question
}

func NewQuestionBank(questions []domain.Question) *QuestionBank {
	return &QuestionBank{questions: questions}
}

func (b *QuestionBank) Draw() domain.Question {
	return b.questions[rand.Intn(len(b.questions))]
}

func (b *QuestionBank) Size() int {
	return len(b.questions)
}

// DefaultQuestions is the built-in board-game trivia pool.
func DefaultQuestions() []domain.Question {
	return []domain.Question{
		{
			Question:      "If a player has two tokens in the home stretch, one outside, and rolls a 6, what should they do? (LUDO)",
			Options:       []string{"Move the home stretch token", "Bring out a new token", "Capture an opponent’s piece", "Roll again before moving"},
			CorrectAnswer: "Bring out a new token",
		},
		{
			Question:      "What happens if a player lands on their own token? (LUDO)",
			Options:       []string{"Both tokens move together", "The turn is skipped", "One token is sent back to start", "Nothing happens"},
			CorrectAnswer: "Both tokens move together",
		},
		{
			Question:      "What is the probability of rolling a six in Ludo? (LUDO)",
			Options:       []string{"1/2", "1/3", "1/6", "1/4"},
			CorrectAnswer: "1/6",
		},
		{
			Question:      "If you own all properties of a color but don’t build houses, what happens? (MONOPOLY)",
			Options:       []string{"Rent stays the same", "Rent doubles", "You lose a property", "You get an extra turn"},
			CorrectAnswer: "Rent doubles",
		},
		{
			Question:      "What happens if you pocket the striker but also pocket a coin? (CARROM)",
			Options:       []string{"You get a free turn", "You lose both pieces", "The coin stays, but you get a penalty", "The opponent wins"},
			CorrectAnswer: "The coin stays, but you get a penalty",
		},
		{
			Question:      "What is the advantage of sacrificing a piece in chess? (CHESS)",
			Options:       []string{"To create space", "To set up a checkmate", "To confuse the opponent", "All of the above"},
			CorrectAnswer: "All of the above",
		},
		{
			Question:      "If you land in jail, when is it best to stay? (MONOPOLY)",
			Options:       []string{"Early in the game", "When you have hotels", "When you own railroads", "Always"},
			CorrectAnswer: "When you have hotels",
		},
		{
			Question:      "If all properties are owned and you are low on money, what should you do? (MONOPOLY)",
			Options:       []string{"Hope for good dice rolls", "Offer unfair trades", "Try to mortgage wisely", "Declare bankruptcy"},
			CorrectAnswer: "Try to mortgage wisely",
		},
		{
			Question:      "If a player has only one card left, what should you do? (UNO)",
			Options:       []string{"Play a Draw 4", "Change the color", "Skip their turn", "All of the above"},
			CorrectAnswer: "All of the above",
		},
		{
			Question:      "What is the best first move in chess? (CHESS)",
			Options:       []string{"Moving a knight", "Moving a central pawn", "Moving a bishop", "Castling early"},
			CorrectAnswer: "Moving a central pawn",
		},
		{
			Question:      "How many points is a queen worth in chess? (CHESS)",
			Options:       []string{"3", "5", "9", "10"},
			CorrectAnswer: "9",
		},
		{
			Question:      "In UNO, what should you say before placing your last card?",
			Options:       []string{"Last Card!", "UNO!", "Skip!", "Draw 4!"},
			CorrectAnswer: "UNO!",
		},
		{
			Question:      "If you roll doubles three times in a row in Monopoly, what happens?",
			Options:       []string{"You get an extra turn", "You pay a fine", "You go to jail", "You roll again"},
			CorrectAnswer: "You go to jail",
		},
		{
			Question:      "What is the strongest piece in chess?",
			Options:       []string{"King", "Queen", "Rook", "Bishop"},
			CorrectAnswer: "Queen",
		},
		{
			Question:      "What does 'Checkmate' mean in chess?",
			Options:       []string{"The game is paused", "The king is trapped", "A player loses a piece", "It's a tie"},
			CorrectAnswer: "The king is trapped",
		},
		{
			Question:      "What is the penalty for missing an opponent’s turn in Carrom?",
			Options:       []string{"Lose a turn", "Lose a coin", "Lose the game", "No penalty"},
			CorrectAnswer: "Lose a coin",
		},
		{
			Question:      "What happens if you buy a property in Monopoly but don’t build houses?",
			Options:       []string{"Rent remains the same", "Rent doubles", "You must sell it", "You lose a turn"},
			CorrectAnswer: "Rent remains the same",
		},
		{
			Question:      "What is the minimum number of moves to checkmate in chess?",
			Options:       []string{"4", "2", "6", "10"},
			CorrectAnswer: "2",
		},
		{
			Question:      "If a pawn reaches the other side of the board, what happens?",
			Options:       []string{"It is removed", "It becomes a queen", "It becomes a knight", "It goes back to start"},
			CorrectAnswer: "It becomes a queen",
		},
		{
			Question:      "Which card allows you to change color in UNO?",
			Options:       []string{"Reverse", "Draw Two", "Wild", "Skip"},
			CorrectAnswer: "Wild",
		},
		{
			Question:      "What is the main goal in Monopoly?",
			Options:       []string{"Own all properties", "Have the most cash", "Bankrupt opponents", "Reach a certain score"},
			CorrectAnswer: "Bankrupt opponents",
		},
		{
			Question:      "What is the purpose of castling in chess?",
			Options:       []string{"Attack", "Protect the king", "Swap pieces", "Gain a turn"},
			CorrectAnswer: "Protect the king",
		},
		{
			Question:      "Which board game uses two dice and properties?",
			Options:       []string{"Ludo", "Monopoly", "Chess", "Carrom"},
			CorrectAnswer: "Monopoly",
		},
		{
			Question:      "Which piece moves in an L shape in chess?",
			Options:       []string{"Rook", "Bishop", "Knight", "Queen"},
			CorrectAnswer: "Knight",
		},
		{
			Question:      "What happens when all players but one are bankrupt in Monopoly?",
			Options:       []string{"The game resets", "The last player wins", "Everyone continues", "The game is a draw"},
			CorrectAnswer: "The last player wins",
		},
		{
			Question:      "What happens if you land on Free Parking in Monopoly?",
			Options:       []string{"Collect money", "Do nothing", "Go to jail", "Take another turn"},
			CorrectAnswer: "Do nothing",
		},
		{
			Question:      "Which game uses the term 'blitz'?",
			Options:       []string{"Monopoly", "Chess", "UNO", "Ludo"},
			CorrectAnswer: "Chess",
		},
		{
			Question:      "How many spaces are there on a Monopoly board?",
			Options:       []string{"30", "36", "40", "50"},
			CorrectAnswer: "40",
		},
		{
			Question:      "Which of these is not a chess opening?",
			Options:       []string{"King's Gambit", "Queen’s Indian", "Ludo Attack", "Sicilian Defense"},
			CorrectAnswer: "Ludo Attack",
		},
	}
}
