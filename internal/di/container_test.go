package di_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fd1az/pool-quoter/internal/di"
)

type greeter struct{ name string }

func TestContainer_LazySingleton(t *testing.T) {
	c := di.NewContainer()
	c.Register("name", "quoter")

	built := 0
	token := di.NewToken[*greeter]("test:greeter")
	di.RegisterToken(c, token, func(sr di.ServiceRegistry) *greeter {
		built++
		return &greeter{name: sr.Get("name").(string)}
	})

	assert.Zero(t, built, "factory must not run before first Get")

	first := di.GetToken(c, token)
	second := di.GetToken(c, token)

	assert.Equal(t, 1, built)
	assert.Same(t, first, second)
	assert.Equal(t, "quoter", first.name)
	assert.Equal(t, "test:greeter", token.Name())
}

func TestContainer_UnknownServicePanics(t *testing.T) {
	c := di.NewContainer()
	assert.Panics(t, func() { c.Get("missing") })
}
