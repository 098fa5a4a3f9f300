// Package cart implements the local shopping cart: a list of line items kept
// as one serialized blob in a single storage slot, rewritten in full on every
// mutation. The cart is owned by one browsing session; concurrent writers to
// the same slot are last-write-wins with no merge (known limitation, not
// handled here).
package cart

import (
	"encoding/json"

	"github.com/sparshnfc/storefront/internal/kvstore"
)

// GSTRate is the flat Goods and Services Tax applied to the subtotal.
const GSTRate = 0.18

// DefaultFinish is the variant discriminator assigned when a line has none.
const DefaultFinish = "default"

// Line is one product variant held in the cart. Two lines are the same cart
// entry iff both ID and Finish match.
type Line struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
	Finish   string  `json:"finish"`
	SKU      string  `json:"sku"`
}

type Store struct {
	kv       kvstore.Store
	key      string
	onChange func(count int)
}

func NewStore(kv kvstore.Store, key string) *Store {
	return &Store{kv: kv, key: key}
}

// OnChange registers a hook invoked with the new item count after every
// persisted mutation (the cart badge listens here).
func (s *Store) OnChange(fn func(count int)) {
	s.onChange = fn
}

// Get returns the persisted cart. A missing or unparseable snapshot is an
// empty cart; parse errors never propagate.
func (s *Store) Get() []Line {
	raw, ok := s.kv.Get(s.key)
	if !ok {
		return []Line{}
	}
	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return []Line{}
	}
	if lines == nil {
		return []Line{}
	}
	return lines
}

func (s *Store) save(lines []Line) {
	data, err := json.Marshal(lines)
	if err != nil {
		return
	}
	s.kv.Set(s.key, string(data))
	if s.onChange != nil {
		s.onChange(count(lines))
	}
}

// Add puts a line in the cart. An existing entry with the same (id, finish)
// pair has its quantity incremented instead of a second entry appearing.
// Finish defaults to "default" and quantity to 1 when absent.
func (s *Store) Add(line Line) []Line {
	if line.Finish == "" {
		line.Finish = DefaultFinish
	}
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	lines := s.Get()
	for i := range lines {
		if lines[i].ID == line.ID && lines[i].Finish == line.Finish {
			lines[i].Quantity += line.Quantity
			s.save(lines)
			return lines
		}
	}

	lines = append(lines, line)
	s.save(lines)
	return lines
}

// Remove deletes every entry matching the (id, finish) pair.
func (s *Store) Remove(id, finish string) []Line {
	lines := s.Get()
	kept := lines[:0]
	for _, l := range lines {
		if !(l.ID == id && l.Finish == finish) {
			kept = append(kept, l)
		}
	}
	s.save(kept)
	return kept
}

// UpdateQuantity sets the matched entry's quantity. A quantity of zero or
// below removes the entry; an unmatched pair leaves the cart untouched.
func (s *Store) UpdateQuantity(id, finish string, quantity int) []Line {
	lines := s.Get()
	for i := range lines {
		if lines[i].ID == id && lines[i].Finish == finish {
			if quantity <= 0 {
				return s.Remove(id, finish)
			}
			lines[i].Quantity = quantity
			s.save(lines)
			return lines
		}
	}
	return lines
}

// Clear empties the cart.
func (s *Store) Clear() []Line {
	s.save([]Line{})
	return []Line{}
}

// Count is the sum of quantities across all lines.
func (s *Store) Count() int {
	return count(s.Get())
}

// Total is the subtotal: sum of price * quantity, unrounded. Rounding is a
// presentation concern.
func (s *Store) Total() float64 {
	var total float64
	for _, l := range s.Get() {
		total += l.Price * float64(l.Quantity)
	}
	return total
}

func count(lines []Line) int {
	var n int
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

// CalculateGST returns the flat 18% tax on a subtotal. The grand total for
// presentation is subtotal + CalculateGST(subtotal).
func CalculateGST(subtotal float64) float64 {
	return subtotal * GSTRate
}
