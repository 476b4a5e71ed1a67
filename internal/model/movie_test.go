package model

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func inception() Movie {
    return Movie{
        Title:       "Inception",
        Description: "A mind-bending thriller",
        Year:        "2010",
        Director:    "Christopher Nolan",
        Rating:      9,
    }
}

func TestMovieEqualIgnoresID(t *testing.T) {
    a := inception()
    b := inception()
    a.ID = 1
    b.ID = 42

    assert.True(t, a.Equal(b))
    assert.True(t, b.Equal(a))
}

func TestMovieEqualComparesEveryValueField(t *testing.T) {
    testCases := []struct {
        name   string
        mutate func(m *Movie)
    }{
        {name: "title", mutate: func(m *Movie) { m.Title = "Interstellar" }},
        {name: "description", mutate: func(m *Movie) { m.Description = "Space" }},
        {name: "year", mutate: func(m *Movie) { m.Year = "2014" }},
        {name: "director", mutate: func(m *Movie) { m.Director = "Someone Else" }},
        {name: "rating", mutate: func(m *Movie) { m.Rating = 7 }},
    }

    for _, tc := range testCases {
        t.Run(tc.name, func(t *testing.T) {
            other := inception()
            tc.mutate(&other)
            assert.False(t, inception().Equal(other))
        })
    }
}
