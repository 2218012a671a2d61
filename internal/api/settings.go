package api

import (
	"errors"
	"net/http"
	"strconv"

	"linkcfg/pkg/settings"
)

// Entry is the remote representation of one setting.
type Entry struct {
	Index    int      `json:"index"`
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Value    any      `json:"value"`
	Display  string   `json:"display"`
	Min      *uint8   `json:"min,omitempty"`
	Max      *uint8   `json:"max,omitempty"`
	Default  *uint8   `json:"default,omitempty"`
	Names    []string `json:"names,omitempty"`
	Unit     string   `json:"unit,omitempty"`
	Flags    []string `json:"flags,omitempty"`
	Parent   uint8    `json:"parent"`
	Folder   *uint8   `json:"folder,omitempty"`
	CmdState string   `json:"cmd_state,omitempty"`
}

// ViewResponse is an ordered projection of the registry.
type ViewResponse struct {
	View    string  `json:"view"`
	Folder  uint8   `json:"folder"`
	Entries []Entry `json:"entries"`
}

// SetRequest carries a new value. Numbers, bools and strings are accepted.
type SetRequest struct {
	Value any `json:"value"`
}

var flagNames = []struct {
	flag settings.Flags
	name string
}{
	{settings.FlagReadOnly, "readonly"},
	{settings.FlagEphemeral, "ephemeral"},
	{settings.FlagNameMap, "namemap"},
	{settings.FlagDynamic, "dynamic"},
	{settings.FlagCmd, "command"},
}

// valueOf returns the raw value sent to clients.
func valueOf(s *settings.Setting) any {
	switch {
	case s.IsFolder():
		return uint8(s.FolderID())
	case s.Type() == settings.TypeU8:
		return s.U8()
	case s.Flags.Has(settings.FlagDynamic):
		return settings.FormatValue(s)
	default:
		return s.Str()
	}
}

// NewEntry describes s. It must be called while holding the registry.
func NewEntry(s *settings.Setting) Entry {
	e := Entry{
		Index:   s.Index(),
		Key:     s.Key,
		Name:    settings.FormatName(s),
		Type:    s.Type().String(),
		Value:   valueOf(s),
		Display: settings.FormatValue(s),
		Names:   s.Names,
		Unit:    s.Unit,
		Parent:  uint8(s.ParentFolderID()),
	}
	for _, f := range flagNames {
		if s.Flags.Has(f.flag) {
			e.Flags = append(e.Flags, f.name)
		}
	}
	switch {
	case s.IsFolder():
		id := uint8(s.FolderID())
		e.Folder = &id
	case s.IsCommand():
		e.CmdState = settings.CmdStateOf(s).String()
	case s.Type() == settings.TypeU8:
		lo, hi, def := s.Min(), s.Max(), s.Default()
		e.Min, e.Max, e.Default = &lo, &hi, &def
	}
	return e
}

// SettingsHandler serves the registry to remote clients.
type SettingsHandler struct {
	guard *Guard
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(g *Guard) *SettingsHandler {
	return &SettingsHandler{guard: g}
}

// HandleView lists a view: GET /api/settings?view=menu|remote|input&folder=N.
func (h *SettingsHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	kindStr := r.URL.Query().Get("view")
	if kindStr == "" {
		kindStr = settings.ViewMenu.String()
	}
	kind, ok := settings.ParseViewKind(kindStr)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "unknown view "+strconv.Quote(kindStr))
		return
	}
	folder := settings.RootFolder
	if f := r.URL.Query().Get("folder"); f != "" {
		n, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid folder "+strconv.Quote(f))
			return
		}
		folder = settings.FolderID(n)
	}

	var resp *ViewResponse
	h.guard.Do(func(reg *settings.Registry) {
		if _, ok := reg.GetFolder(folder); !ok && kind != settings.ViewFixedInput {
			return
		}
		resp = &ViewResponse{View: kind.String(), Folder: uint8(folder), Entries: []Entry{}}
		v, _ := reg.GetView(kind, folder)
		for i := 0; i < v.Len(); i++ {
			s, _ := reg.SettingAt(v, i)
			resp.Entries = append(resp.Entries, NewEntry(s))
		}
	})
	if resp == nil {
		writeError(w, r, http.StatusNotFound, "folder not found")
		return
	}
	writeResponse(w, r, http.StatusOK, resp)
}

// HandleGet returns a single setting: GET /api/settings/{key}.
func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	var (
		e     Entry
		found bool
	)
	h.guard.Do(func(reg *settings.Registry) {
		var s *settings.Setting
		if s, found = reg.GetByKey(key); found {
			e = NewEntry(s)
		}
	})
	if !found {
		writeError(w, r, http.StatusNotFound, "setting not found")
		return
	}
	writeResponse(w, r, http.StatusOK, e)
}

// HandleSet writes a value through the change pipeline: PUT /api/settings/{key}.
func (h *SettingsHandler) HandleSet(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	var req SetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid body")
		return
	}

	var (
		e   Entry
		err error
	)
	h.guard.Do(func(reg *settings.Registry) {
		if err = reg.Apply(key, req.Value); err == nil {
			e = NewEntry(reg.Must(key))
		}
	})
	if err != nil {
		writeError(w, r, statusOf(err), err.Error())
		return
	}
	writeResponse(w, r, http.StatusOK, e)
}

// HandleIncrement steps a u8 setting up: POST /api/settings/{key}/increment.
func (h *SettingsHandler) HandleIncrement(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, (*settings.Registry).Increment)
}

// HandleDecrement steps a u8 setting down: POST /api/settings/{key}/decrement.
func (h *SettingsHandler) HandleDecrement(w http.ResponseWriter, r *http.Request) {
	h.step(w, r, (*settings.Registry).Decrement)
}

func (h *SettingsHandler) step(w http.ResponseWriter, r *http.Request, move func(*settings.Registry, *settings.Setting)) {
	key := r.PathValue("key")
	var (
		e     Entry
		found bool
	)
	h.guard.Do(func(reg *settings.Registry) {
		var s *settings.Setting
		if s, found = reg.GetByKey(key); found {
			move(reg, s)
			e = NewEntry(s)
		}
	})
	if !found {
		writeError(w, r, http.StatusNotFound, "setting not found")
		return
	}
	writeResponse(w, r, http.StatusOK, e)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, settings.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, settings.ErrReadOnly):
		return http.StatusForbidden
	case errors.Is(err, settings.ErrTypeMismatch):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
