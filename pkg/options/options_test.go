package options

import (
	"bytes"
	"log"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildDefaults(t *testing.T) {
	o := Build()
	assert.Equal(t, DefaultOptions, o)
	assert.Same(t, log.Default(), o.Log())
}

func TestBuildOverrides(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)
	rng := rand.New(rand.NewSource(1))

	o := Build(WithEditDistance(2), WithCacheSize(16), WithRand(rng), WithLogger(logger))
	assert.Equal(t, 2, o.EditDistance)
	assert.Equal(t, 16, o.CacheSize)
	assert.Same(t, rng, o.Source())
	assert.Same(t, logger, o.Log())

	o = Build(WithRand(rng), WithSeed(3))
	assert.Nil(t, o.Rand)
	assert.Equal(t, int64(3), o.Seed)
}

func TestSourceIsSeeded(t *testing.T) {
	a := Build(WithSeed(42)).Source()
	b := Build(WithSeed(42)).Source()
	for range 10 {
		assert.Equal(t, a.Int63(), b.Int63())
	}
}
