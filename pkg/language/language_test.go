package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	d := New("en", "de", "fr")

	assert.Equal(t, "en", d.Detect("Good sleep quality starts with a steady routine and a dark, quiet bedroom."))
	assert.Equal(t, "de", d.Detect("Guter Schlaf beginnt mit einer festen Routine und einem dunklen, ruhigen Schlafzimmer."))
	assert.Equal(t, "fr", d.Detect("Un bon sommeil commence par une routine régulière et une chambre sombre et calme."))
	assert.Empty(t, d.Detect("   "))
}

func TestNewFallsBackToDefaults(t *testing.T) {
	d := New("xx", "en")
	assert.Equal(t, "es", d.Detect("El buen sueño empieza con una rutina estable y un dormitorio oscuro y tranquilo."))
}
