package settings

// ViewKind names a consumer of the registry.
type ViewKind uint8

const (
	// ViewMenu lists a single folder level for the on-device menu.
	ViewMenu ViewKind = iota
	// ViewRemote flattens a folder tree depth first for the remote channel.
	ViewRemote
	// ViewFixedInput is the fixed key list exposed in input passthrough mode.
	ViewFixedInput
)

func (v ViewKind) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewRemote:
		return "remote"
	case ViewFixedInput:
		return "input"
	default:
		return "unknown"
	}
}

// ParseViewKind is the inverse of ViewKind.String.
func ParseViewKind(s string) (ViewKind, bool) {
	switch s {
	case "menu":
		return ViewMenu, true
	case "remote":
		return ViewRemote, true
	case "input":
		return ViewFixedInput, true
	}
	return 0, false
}

// View is an ordered projection of setting indices.
type View struct {
	Kind   ViewKind
	Folder FolderID

	indices []int
}

// Len returns the number of entries.
func (v View) Len() int { return len(v.indices) }

// Index returns the setting index of entry i.
func (v View) Index(i int) int { return v.indices[i] }

// Indices returns a copy of the setting indices.
func (v View) Indices() []int {
	out := make([]int, len(v.indices))
	copy(out, v.indices)
	return out
}

// Project lists the visible children of folder in declaration order. When
// recursive is set, visible child folders are expanded in place after their
// own entry. Unknown folders project to an empty view.
func (r *Registry) Project(view ViewKind, folder FolderID, recursive bool) View {
	v := View{Kind: view, Folder: folder}
	if _, ok := r.GetFolder(folder); !ok {
		return v
	}
	v.indices = r.project(v.indices, view, folder, recursive)
	return v
}

func (r *Registry) project(out []int, view ViewKind, folder FolderID, recursive bool) []int {
	f, _ := r.GetFolder(folder)
	vis := f.Visibility()
	for _, i := range r.children[folder] {
		s := &r.settings[i]
		decision := Show
		if vis != nil {
			decision = vis.Visibility(folder, view, s)
		}
		switch decision {
		case Show:
			out = append(out, i)
			if recursive && s.IsFolder() {
				out = r.project(out, view, s.FolderID(), recursive)
			}
		case MoveContentsToParent:
			if !s.IsFolder() {
				fail("Project", s.Key, "only folders can move their contents to the parent")
			}
			out = r.project(out, view, s.FolderID(), recursive)
		}
	}
	return out
}

// GetView returns the projection used by the given consumer. It reports
// false when the projection is empty.
func (r *Registry) GetView(view ViewKind, folder FolderID) (View, bool) {
	var v View
	switch view {
	case ViewMenu:
		v = r.Project(view, folder, false)
	case ViewRemote:
		v = r.Project(view, folder, true)
	case ViewFixedInput:
		v = View{Kind: view, Folder: folder, indices: r.fixedInput}
	default:
		return View{Kind: view, Folder: folder}, false
	}
	return v, v.Len() > 0
}

// SettingAt returns the setting of entry i of v.
func (r *Registry) SettingAt(v View, i int) (*Setting, bool) {
	if i < 0 || i >= v.Len() {
		return nil, false
	}
	return &r.settings[v.indices[i]], true
}

// ParentIndex returns the position in v of the folder s is declared under,
// or -1 when that folder is not part of the view.
func (r *Registry) ParentIndex(v View, s *Setting) int {
	for i, idx := range v.indices {
		f := &r.settings[idx]
		if f.IsFolder() && f.FolderID() == s.Parent {
			return i
		}
	}
	return -1
}
