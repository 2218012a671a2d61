package settings

// Visibility is the decision a folder's strategy makes for one child.
type Visibility uint8

const (
	// Show lists the child.
	Show Visibility = iota
	// Hide skips the child.
	Hide
	// MoveContentsToParent splices the visible children of a child folder
	// into the current level instead of listing the folder itself.
	MoveContentsToParent
)

func (v Visibility) String() string {
	switch v {
	case Show:
		return "show"
	case Hide:
		return "hide"
	case MoveContentsToParent:
		return "move-contents-to-parent"
	default:
		return "unknown"
	}
}

// ShowIf returns Show when cond holds and Hide otherwise.
func ShowIf(cond bool) Visibility {
	if cond {
		return Show
	}
	return Hide
}

// VisibilityStrategy decides, per view, whether a direct child of folder is
// shown. It is evaluated on every projection and may depend on the current
// value of any other setting.
type VisibilityStrategy interface {
	Visibility(folder FolderID, view ViewKind, s *Setting) Visibility
}

// VisibilityFunc adapts a function to VisibilityStrategy.
type VisibilityFunc func(folder FolderID, view ViewKind, s *Setting) Visibility

// Visibility implements VisibilityStrategy.
func (f VisibilityFunc) Visibility(folder FolderID, view ViewKind, s *Setting) Visibility {
	return f(folder, view, s)
}

// FormatPart selects what a DynamicFormatter renders.
type FormatPart uint8

const (
	PartName FormatPart = iota
	PartValue
)

// DynamicFormatter computes the display name or value of a dynamic setting.
// Returning false falls back to the static name (for PartName) or to
// "<null>" (for PartValue).
type DynamicFormatter interface {
	Format(s *Setting, part FormatPart) (string, bool)
}

// FormatterFunc adapts a function to DynamicFormatter.
type FormatterFunc func(s *Setting, part FormatPart) (string, bool)

// Format implements DynamicFormatter.
func (f FormatterFunc) Format(s *Setting, part FormatPart) (string, bool) {
	return f(s, part)
}

// visibilityOf resolves the visibility of s inside its parent folder.
func (r *Registry) visibilityOf(view ViewKind, s *Setting) Visibility {
	if s.IsFolder() && s.FolderID() == RootFolder {
		return Show
	}
	folder, ok := r.GetFolder(s.Parent)
	if !ok {
		return Show
	}
	vis := folder.Visibility()
	if vis == nil {
		return Show
	}
	return vis.Visibility(s.Parent, view, s)
}

// IsVisible reports whether the setting under key is not hidden by its
// parent folder in the given view. Unknown keys are not visible.
func (r *Registry) IsVisible(view ViewKind, key string) bool {
	s, ok := r.GetByKey(key)
	if !ok {
		return false
	}
	return r.visibilityOf(view, s) != Hide
}

// IsFolderVisible is IsVisible for the folder with the given id.
func (r *Registry) IsFolderVisible(view ViewKind, id FolderID) bool {
	f, ok := r.GetFolder(id)
	return ok && r.visibilityOf(view, f) != Hide
}
