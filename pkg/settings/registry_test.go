package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Lookup(t *testing.T) {
	f := newFixture(t)
	r := f.r

	assert.Equal(t, 21, r.Count())

	s, ok := r.GetByKey("screen.brightness")
	require.True(t, ok)
	assert.Equal(t, "Brightness", s.Name)
	assert.Equal(t, folderScreen, s.ParentFolderID())
	assert.Equal(t, FolderID(0), s.FolderID())

	idx, ok := r.GetByKeyIndex("screen.brightness")
	require.True(t, ok)
	assert.Same(t, s, r.At(idx))
	assert.Equal(t, idx, s.Index())

	folder, ok := r.GetFolder(folderScreen)
	require.True(t, ok)
	assert.Equal(t, "screen", folder.Key)
	assert.Equal(t, folderScreen, folder.FolderID())

	_, ok = r.GetByKey("nope")
	assert.False(t, ok)
	_, ok = r.GetFolder(0x42)
	assert.False(t, ok)

	assert.Equal(t, []int{3, 4}, r.Children(folderScreen))
}

func TestRegistry_Defaults(t *testing.T) {
	f := newFixture(t)
	r := f.r

	assert.Equal(t, uint8(1), r.U8("screen.brightness"))
	assert.Equal(t, uint8(5), r.U8("screen.auto_off"))
	assert.True(t, r.Bool("group.b"))
	assert.Equal(t, "", r.Str("pilot"))
	assert.Equal(t, "1.0", r.Str("version"))
	assert.Equal(t, uint8(CmdNone), r.U8("reset"))
}

func TestRegistry_LoadsPersistedValues(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.SaveU8("screen.brightness", 2))
	require.NoError(t, store.SaveU8("screen.auto_off", 200))
	require.NoError(t, store.SaveString("pilot", "maverick"))
	require.NoError(t, store.SaveU8("bind", 1))
	require.NoError(t, store.SaveString("version", "9.9"))

	f := newFixtureWithStore(t, store)
	r := f.r

	assert.Equal(t, uint8(2), r.U8("screen.brightness"))
	assert.Equal(t, uint8(10), r.U8("screen.auto_off"), "loaded values are clamped")
	assert.Equal(t, "maverick", r.Str("pilot"))
	assert.False(t, r.Bool("bind"), "ephemeral settings are never loaded")
	assert.Equal(t, "1.0", r.Str("version"), "read-only settings are never loaded")
}

func TestRegistry_FreshRegistriesAreIsolated(t *testing.T) {
	a := newFixture(t)
	b := newFixture(t)

	a.r.SetU8Key("screen.brightness", 0)
	a.r.SetStringKey("pilot", "goose")

	assert.Equal(t, uint8(1), b.r.U8("screen.brightness"))
	assert.Equal(t, "", b.r.Str("pilot"))
}

func TestRegistry_StringPoolExhausted(t *testing.T) {
	err := requireConfigError(t, func() { newFixture(t, WithStringPool(0)) })
	assert.Equal(t, "pilot", err.Key)
	assert.Contains(t, err.Msg, "string pool")
}

func TestRegistry_FixedInputKeysMustExist(t *testing.T) {
	err := requireConfigError(t, func() { newFixture(t, WithFixedInputKeys("", "missing")) })
	assert.Equal(t, "missing", err.Key)
}

func TestRegistry_UnknownKeyHelpersPanic(t *testing.T) {
	f := newFixture(t)
	err := requireConfigError(t, func() { f.r.U8("missing") })
	assert.Equal(t, "Must", err.Op)
}

func TestSetting_AccessorTypeMismatch(t *testing.T) {
	f := newFixture(t)
	r := f.r

	tests := []struct {
		name string
		fn   func()
	}{
		{"u8 of string", func() { r.Must("pilot").U8() }},
		{"str of u8", func() { r.Must("mode").Str() }},
		{"str of dynamic", func() { r.Must("peer_name_0").Str() }},
		{"bool of folder", func() { r.Must("screen").Bool() }},
		{"min of string", func() { r.Must("pilot").Min() }},
		{"cmd state of u8", func() { CmdStateOf(r.Must("mode")) }},
		{"set string on u8", func() { r.SetString(r.Must("mode"), "x") }},
		{"set u8 on string", func() { r.SetU8(r.Must("pilot"), 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireConfigError(t, tt.fn)
		})
	}
}
