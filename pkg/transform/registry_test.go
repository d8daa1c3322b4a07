package transform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/g2kts/pkg/gtree"
	"github.com/leapstack-labs/g2kts/pkg/transform"
)

func TestRegistry(t *testing.T) {
	reg := transform.NewRegistry()
	reg.Register(transform.Def{ID: "c", Group: "tasks", Order: 20})
	reg.Register(transform.Def{ID: "a", Group: "blocks", Order: 10})
	reg.Register(transform.Def{ID: "b", Group: "tasks", Order: 10})

	assert.Equal(t, 3, reg.Count())

	var ids []string
	for _, def := range reg.GetAll() {
		ids = append(ids, def.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	def, ok := reg.GetByID("b")
	require.True(t, ok)
	assert.Equal(t, "tasks", def.Group)

	_, ok = reg.GetByID("missing")
	assert.False(t, ok)

	tasks := reg.GetByGroup("tasks")
	require.Len(t, tasks, 2)
	assert.Equal(t, "b", tasks[0].ID)
	assert.Equal(t, "c", tasks[1].ID)

	reg.Clear()
	assert.Equal(t, 0, reg.Count())
	assert.Empty(t, reg.GetAll())
}

func TestRegistry_ReplaceByID(t *testing.T) {
	reg := transform.NewRegistry()
	reg.Register(transform.Def{ID: "a", Name: "old"})
	reg.Register(transform.Def{ID: "a", Name: "new"})

	assert.Equal(t, 1, reg.Count())
	def, _ := reg.GetByID("a")
	assert.Equal(t, "new", def.Name)
}

func TestRegistry_PassesHonoursDisabled(t *testing.T) {
	reg := transform.NewRegistry()
	reg.Register(transform.Def{ID: "one", Order: 1})
	reg.Register(transform.Def{ID: "two", Order: 2})
	reg.Register(transform.Def{ID: "three", Order: 3})

	var ids []string
	for _, p := range reg.Passes("two", "unknown") {
		ids = append(ids, p.ID())
	}
	assert.Equal(t, []string{"one", "three"}, ids)
}

func TestDefPass(t *testing.T) {
	def := transform.Def{
		ID:          "rename",
		Name:        "rename.identifier",
		Description: "Renames a.",
		Can:         identNamed("a"),
		Transform:   renameTo("b"),
	}
	pass := def.Pass()

	assert.Equal(t, "rename", pass.ID())
	assert.Equal(t, "rename.identifier", pass.Name())
	assert.Equal(t, "Renames a.", pass.Description())

	a := &gtree.Identifier{Name: "a"}
	assert.True(t, pass.Can(a, nil))
	assert.False(t, pass.Can(&gtree.Identifier{Name: "z"}, nil))
	assert.Equal(t, &gtree.Identifier{Name: "b"}, pass.Transform(a))

	// Missing functions make a pass that never applies.
	empty := transform.Def{ID: "empty"}.Pass()
	assert.False(t, empty.Can(a, nil))
	assert.Same(t, a, empty.Transform(a))
}

func TestDefInfo(t *testing.T) {
	info := transform.Def{ID: "x", Name: "n", Group: "g", Description: "d", Order: 3, Before: "b", After: "a"}.Info()
	assert.Equal(t, transform.Info{ID: "x", Name: "n", Group: "g", Description: "d", Order: 3, Before: "b", After: "a"}, info)
}
