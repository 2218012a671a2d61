package settings

import (
	"fmt"
	"testing"
)

const (
	folderScreen FolderID = 1
	folderGroup  FolderID = 2
	folderPeers  FolderID = 3
)

type fixture struct {
	r        *Registry
	store    *MemoryStore
	paired   [2]bool
	executed map[string]int
}

func peerSlot(s *Setting) int {
	var n int
	for _, prefix := range []string{"peer_name_%d", "peer_del_%d", "peer_%d"} {
		if _, err := fmt.Sscanf(s.Key, prefix, &n); err == nil {
			return n
		}
	}
	return -1
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	return newFixtureWithStore(t, NewMemoryStore(), opts...)
}

func newFixtureWithStore(t *testing.T, store *MemoryStore, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{store: store, executed: make(map[string]int)}

	root := VisibilityFunc(func(_ FolderID, _ ViewKind, s *Setting) Visibility {
		switch s.Key {
		case "hidden":
			return Hide
		case "group":
			return MoveContentsToParent
		}
		return Show
	})
	peers := VisibilityFunc(func(_ FolderID, _ ViewKind, s *Setting) Visibility {
		n := peerSlot(s)
		return ShowIf(n >= 0 && f.paired[n])
	})
	peerName := FormatterFunc(func(s *Setting, part FormatPart) (string, bool) {
		if part != PartValue {
			return "", false
		}
		if n := peerSlot(s); n >= 0 && f.paired[n] {
			return fmt.Sprintf("peer-%d", n), true
		}
		return "None", true
	})
	action := func(s *Setting) { f.executed[s.Key]++ }

	table := NewTable(21,
		Folder("", "Settings", RootFolder, RootFolder, root),
		NameMap("mode", "Mode", RootFolder, []string{"A", "B"}, 0),
		Folder("screen", "Screen", folderScreen, RootFolder, nil),
		NameMap("screen.brightness", "Brightness", folderScreen, []string{"Low", "Medium", "High"}, 1),
		U8("screen.auto_off", "Auto Off", folderScreen, 2, 10, 5).WithUnit("s"),
		String("pilot", "Pilot", RootFolder),
		ReadOnlyString("version", "Version", RootFolder, "1.0"),
		Folder("group", "Group", folderGroup, RootFolder, nil),
		Bool("group.a", "A", folderGroup, false),
		YesNo("group.b", "B", folderGroup, true),
		Bool("hidden", "Hidden", RootFolder, false),
		Folder("peers", "Peers", folderPeers, RootFolder, peers),
		Folder("peer_0", "Peer #0", PeerFolderID(0), folderPeers, nil),
		DynamicString("peer_name_0", "Name", PeerFolderID(0), peerName),
		Command("peer_del_0", "Delete", PeerFolderID(0), CmdConfirm, action),
		Folder("peer_1", "Peer #1", PeerFolderID(1), folderPeers, nil),
		DynamicString("peer_name_1", "Name", PeerFolderID(1), peerName),
		Command("peer_del_1", "Delete", PeerFolderID(1), CmdConfirm, action),
		Command("reset", "Reset", RootFolder, 0, action),
		Command("warn", "Warn", RootFolder, CmdWarning, action),
		Bool("bind", "Bind", RootFolder, false).WithFlags(FlagEphemeral),
	)
	f.r = New(table, store, opts...)
	return f
}

// keys resolves the entries of a view to their keys.
func (f *fixture) keys(v View) []string {
	out := make([]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		s, _ := f.r.SettingAt(v, i)
		out = append(out, s.Key)
	}
	return out
}

// recorder collects listener notifications.
type recorder struct {
	keys   []string
	values []string
}

func (rec *recorder) callback(s *Setting, _ any) {
	rec.keys = append(rec.keys, s.Key)
	rec.values = append(rec.values, FormatValue(s))
}

func requireConfigError(t *testing.T, fn func()) *ConfigError {
	t.Helper()
	var got *ConfigError
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				ce, ok := rec.(*ConfigError)
				if !ok {
					t.Fatalf("panic with %T, want *ConfigError: %v", rec, rec)
				}
				got = ce
			}
		}()
		fn()
	}()
	if got == nil {
		t.Fatal("expected a *ConfigError panic")
	}
	return got
}
