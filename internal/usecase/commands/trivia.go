package commands

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
	"unicode"

	"golang.org/x/net/html"

	"discoBot/internal/domain"
	"discoBot/internal/usecase/waiter"
)

const (
	TriviaCorrectText   = "You are correct!!!"
	TriviaIncorrectText = "Oops! That is not the right answer."
	TriviaTimeoutText   = "Sorry, you took too long"
	triviaFooter        = "Choose the number corresponding to your answer"

	triviaChoices = 4
)

// TriviaRound es una pregunta lista para mostrarse.
type TriviaRound struct {
	Question string
	Answer   string
	Choices  [triviaChoices]string
	// Correct es la posición (base 0) de Answer en Choices.
	Correct int
}

// Check compara una respuesta (base 1). Fuera de rango o no numérica cuenta
// como incorrecta.
func (r TriviaRound) Check(reply string) bool {
	n, ok := parseNumeral(reply)
	if !ok || n < 1 || n > triviaChoices {
		return false
	}
	return n-1 == r.Correct
}

func (r TriviaRound) Embed() domain.Embed {
	embed := domain.Embed{Title: r.Question, Footer: triviaFooter}
	for i, choice := range r.Choices {
		embed.Fields = append(embed.Fields, domain.EmbedField{
			Name:  fmt.Sprintf("%d.)", i+1),
			Value: choice,
			// el primero y el último van en línea
			Inline: i == 0 || i == triviaChoices-1,
		})
	}
	return embed
}

// Shuffler elige la posición de la respuesta correcta. Es seguro para uso
// concurrente.
type Shuffler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewShuffler(src rand.Source) *Shuffler {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Shuffler{rng: rand.New(src)}
}

func (s *Shuffler) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// BuildTriviaRound decodifica entidades HTML y coloca la respuesta correcta en
// una posición uniforme entre las 4.
func BuildTriviaRound(q domain.TriviaQuestion, shuffler *Shuffler) (TriviaRound, error) {
	if len(q.Incorrect) != triviaChoices-1 {
		return TriviaRound{}, fmt.Errorf("trivia: %w: want %d incorrect answers, got %d",
			domain.ErrMalformedResponse, triviaChoices-1, len(q.Incorrect))
	}

	answer := html.UnescapeString(q.Answer)
	incorrect := make([]string, 0, len(q.Incorrect))
	for _, a := range q.Incorrect {
		a = html.UnescapeString(a)
		if a == answer {
			return TriviaRound{}, fmt.Errorf("trivia: %w: correct answer listed as incorrect", domain.ErrMalformedResponse)
		}
		incorrect = append(incorrect, a)
	}

	round := TriviaRound{
		Question: html.UnescapeString(q.Question),
		Answer:   answer,
		Correct:  shuffler.IntN(triviaChoices),
	}
	j := 0
	for i := range round.Choices {
		if i == round.Correct {
			round.Choices[i] = answer
			continue
		}
		round.Choices[i] = incorrect[j]
		j++
	}
	return round, nil
}

// IsNumeral: no vacío y todos los caracteres son dígitos decimales, de
// cualquier escritura ("3", "３", "٣").
func IsNumeral(msg domain.Message) bool {
	_, ok := parseNumeral(msg.Text)
	return ok
}

// parseNumeral lee un número escrito solo con dígitos decimales Unicode.
// Los valores enormes se saturan: igual quedan fuera de rango.
func parseNumeral(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		d, ok := digitValue(r)
		if !ok {
			return 0, false
		}
		if n < maxNumeral {
			n = n*10 + d
		}
	}
	return n, true
}

const maxNumeral = 1 << 20

// digitValue usa la tabla Nd: cada rango contiguo está formado por series
// completas 0..9, así que el valor es la distancia al inicio módulo 10.
func digitValue(r rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	if !unicode.IsDigit(r) {
		return 0, false
	}
	for _, rg := range unicode.Nd.R16 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); r >= lo && r <= hi {
			return int(r-lo) % 10, true
		}
	}
	for _, rg := range unicode.Nd.R32 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); r >= lo && r <= hi {
			return int(r-lo) % 10, true
		}
	}
	return 0, false
}

type TriviaCommand struct {
	source   domain.TriviaSource
	waiter   Waiter
	shuffler *Shuffler
	timeout  time.Duration
}

func NewTriviaCommand(source domain.TriviaSource, w Waiter, shuffler *Shuffler, timeout time.Duration) *TriviaCommand {
	if shuffler == nil {
		shuffler = NewShuffler(nil)
	}
	return &TriviaCommand{source: source, waiter: w, shuffler: shuffler, timeout: timeout}
}

func (t *TriviaCommand) Name() string      { return "trivia" }
func (t *TriviaCommand) Aliases() []string { return nil }

func (t *TriviaCommand) Handle(ctx context.Context, c *Context) error {
	c.Typing(ctx)

	q, err := t.source.Question(ctx)
	if err != nil {
		return err
	}
	round, err := BuildTriviaRound(q, t.shuffler)
	if err != nil {
		return err
	}

	res, err := awaitReply(ctx, t.waiter, c.Message.UserID, IsNumeral, t.timeout, func() error {
		return c.ReplyEmbed(ctx, round.Embed())
	})
	if err != nil {
		return err
	}

	switch res.Outcome {
	case waiter.Matched:
		if round.Check(res.Message.Text) {
			return c.Reply(ctx, TriviaCorrectText)
		}
		return c.Reply(ctx, TriviaIncorrectText)
	case waiter.TimedOut:
		return c.Reply(ctx, TriviaTimeoutText)
	default:
		return ctx.Err()
	}
}
