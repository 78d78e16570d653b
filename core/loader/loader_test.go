package loader

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (s *stubFeature) Name() string    { return s.name }
func (s *stubFeature) IsEnabled() bool { return s.enabled }
func (s *stubFeature) Load(app fiber.Router) error {
	s.loaded = true
	return s.err
}

func TestManager_LoadAll(t *testing.T) {
	a := &stubFeature{name: "a", enabled: true}
	b := &stubFeature{name: "b", enabled: false}
	c := &stubFeature{name: "c", enabled: true}

	m := NewManager(nil)
	m.Register(a)
	m.Register(b)
	m.Register(c)

	assert.NoError(t, m.LoadAll(fiber.New()))
	assert.True(t, a.loaded)
	assert.False(t, b.loaded)
	assert.True(t, c.loaded)
	assert.Equal(t, []string{"a", "b", "c"}, m.Features())
}

func TestManager_LoadAllError(t *testing.T) {
	failing := &stubFeature{name: "broken", enabled: true, err: errors.New("boom")}
	after := &stubFeature{name: "after", enabled: true}

	m := NewManager(nil)
	m.Register(failing)
	m.Register(after)

	err := m.LoadAll(fiber.New())
	assert.ErrorContains(t, err, "failed to load feature broken")
	assert.False(t, after.loaded)
}
