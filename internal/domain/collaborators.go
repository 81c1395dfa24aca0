package domain

import (
	"context"
	"strings"
)

type TriviaQuestion struct {
	Question  string
	Answer    string
	Incorrect []string
}

type TriviaSource interface {
	Question(ctx context.Context) (TriviaQuestion, error)
}

type Weather struct {
	City        string
	Description string
	Temperature float64
	Humidity    float64
}

// WeatherSource devuelve ErrNotFound si la ciudad no existe.
type WeatherSource interface {
	Current(ctx context.Context, city string) (Weather, error)
}

// CreatureIndex devuelve ErrNotFound si el ordinal está fuera de rango.
type CreatureIndex interface {
	Name(ctx context.Context, ordinal int) (string, error)
}

type MediaCategory string

const (
	MediaAnime     MediaCategory = "anime"
	MediaManga     MediaCategory = "manga"
	MediaCharacter MediaCategory = "character"
)

// MediaCategories en el orden en que se le ofrecen al usuario.
var MediaCategories = []MediaCategory{MediaAnime, MediaManga, MediaCharacter}

// ParseMediaCategory acepta cualquier capitalización y espacios alrededor.
func ParseMediaCategory(s string) (MediaCategory, bool) {
	val := MediaCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range MediaCategories {
		if c == val {
			return c, true
		}
	}
	return "", false
}

// MediaSource devuelve ErrNotFound si no hay coincidencias.
type MediaSource interface {
	Describe(ctx context.Context, category MediaCategory, name string) (string, error)
}
