// Package pairing keeps the receivers a transmitter is paired with and the
// names peers announced over the air.
package pairing

import (
	"context"
	"fmt"
	"sync"

	"linkcfg/pkg/codec"
)

// BlobKey is the key the directory is persisted under.
const BlobKey = "pairing.directory"

// Pairing is the binding between a transmitter and one receiver.
type Pairing struct {
	Addr Addr   `cbor:"addr"`
	Key  uint32 `cbor:"key"`
}

// BlobStore persists opaque values by key.
type BlobStore interface {
	GetCache(ctx context.Context, key string) ([]byte, bool)
	SetCache(ctx context.Context, key string, val []byte) error
}

// snapshot is the persisted form of a Directory. Addresses are stored in
// their text form.
type snapshot struct {
	Slots    []*record         `cbor:"slots"`
	Names    map[string]string `cbor:"names,omitempty"`
	Selected int               `cbor:"selected"`
}

type record struct {
	Addr string `cbor:"addr"`
	Key  uint32 `cbor:"key"`
}

// Directory is a fixed set of pairing slots. It is safe for concurrent use.
type Directory struct {
	mu       sync.RWMutex
	slots    []*Pairing
	names    map[Addr]string
	selected int
	store    BlobStore
}

// NewDirectory returns an empty directory with n slots. A nil store keeps the
// directory in memory.
func NewDirectory(n int, store BlobStore) *Directory {
	return &Directory{
		slots:    make([]*Pairing, n),
		names:    make(map[Addr]string),
		selected: -1,
		store:    store,
	}
}

// Load restores the persisted directory. A missing blob leaves it empty.
func (d *Directory) Load(ctx context.Context) error {
	if d.store == nil {
		return nil
	}
	data, ok := d.store.GetCache(ctx, BlobKey)
	if !ok {
		return nil
	}
	var snap snapshot
	if err := codec.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to decode pairing directory: %w", err)
	}

	slots := make([]*Pairing, len(d.slots))
	for i := range slots {
		if i >= len(snap.Slots) || snap.Slots[i] == nil {
			continue
		}
		addr, err := ParseAddr(snap.Slots[i].Addr)
		if err != nil {
			return fmt.Errorf("failed to decode pairing slot %d: %w", i, err)
		}
		slots[i] = &Pairing{Addr: addr, Key: snap.Slots[i].Key}
	}
	names := make(map[Addr]string, len(snap.Names))
	for a, n := range snap.Names {
		addr, err := ParseAddr(a)
		if err != nil {
			return fmt.Errorf("failed to decode peer name: %w", err)
		}
		names[addr] = n
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.slots = slots
	d.names = names
	d.selected = -1
	if snap.Selected >= 0 && snap.Selected < len(d.slots) && d.slots[snap.Selected] != nil {
		d.selected = snap.Selected
	}
	return nil
}

// save must be called with d.mu held.
func (d *Directory) save(ctx context.Context) error {
	if d.store == nil {
		return nil
	}
	snap := snapshot{
		Slots:    make([]*record, len(d.slots)),
		Names:    make(map[string]string, len(d.names)),
		Selected: d.selected,
	}
	for i, p := range d.slots {
		if p != nil {
			snap.Slots[i] = &record{Addr: p.Addr.String(), Key: p.Key}
		}
	}
	for a, n := range d.names {
		snap.Names[a.String()] = n
	}
	data, err := codec.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode pairing directory: %w", err)
	}
	if err := d.store.SetCache(ctx, BlobKey, data); err != nil {
		return fmt.Errorf("failed to save pairing directory: %w", err)
	}
	return nil
}

// Len returns the number of slots.
func (d *Directory) Len() int { return len(d.slots) }

func (d *Directory) checkSlot(slot int) error {
	if slot < 0 || slot >= len(d.slots) {
		return fmt.Errorf("pairing slot %d out of range [0, %d)", slot, len(d.slots))
	}
	return nil
}

// Pair stores p at slot, replacing any previous pairing.
func (d *Directory) Pair(ctx context.Context, slot int, p Pairing) error {
	if err := d.checkSlot(slot); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slots[slot] = &p
	return d.save(ctx)
}

// Unpair clears slot. Clearing the selected slot clears the selection.
func (d *Directory) Unpair(ctx context.Context, slot int) error {
	if err := d.checkSlot(slot); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.slots[slot] == nil {
		return nil
	}
	d.slots[slot] = nil
	if d.selected == slot {
		d.selected = -1
	}
	return d.save(ctx)
}

// PairedAt returns the pairing stored at slot.
func (d *Directory) PairedAt(slot int) (Pairing, bool) {
	if d.checkSlot(slot) != nil {
		return Pairing{}, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if p := d.slots[slot]; p != nil {
		return *p, true
	}
	return Pairing{}, false
}

// FreeSlot returns the first empty slot, or -1 when the directory is full.
func (d *Directory) FreeSlot() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for i, p := range d.slots {
		if p == nil {
			return i
		}
	}
	return -1
}

// Select marks the pairing at slot as the active one.
func (d *Directory) Select(ctx context.Context, slot int) error {
	if err := d.checkSlot(slot); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.slots[slot] == nil {
		return fmt.Errorf("pairing slot %d is empty", slot)
	}
	if d.selected == slot {
		return nil
	}
	d.selected = slot
	return d.save(ctx)
}

// Selected returns the active slot.
func (d *Directory) Selected() (int, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.selected, d.selected >= 0
}

// SetName records the name a peer announced.
func (d *Directory) SetName(ctx context.Context, addr Addr, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.names[addr] == name {
		return nil
	}
	if name == "" {
		delete(d.names, addr)
	} else {
		d.names[addr] = name
	}
	return d.save(ctx)
}

// Name returns the last name announced by addr.
func (d *Directory) Name(addr Addr) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n, ok := d.names[addr]
	return n, ok
}
