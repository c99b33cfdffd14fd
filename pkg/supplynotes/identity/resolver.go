package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/cognicore/supplynotes/pkg/supplynotes/internalerr"
)

// Identity is the stable, deduplicated identity of one supplier.
// It is created once per normalized key and never modified afterwards.
type Identity struct {
	ID            string
	DisplayName   string
	NormalizedKey string
	CreatedAt     time.Time
}

// DefaultAliases pins known raw header spellings to their preferred display
// names. Keys are matched against the exact raw header text.
func DefaultAliases() map[string]string {
	return map[string]string{
		"QUICKFAB INDUSTRIES":    "QuickFab Industries",
		"STELLAR METALWORKS":     "Stellar Metalworks",
		"APEX MANUFACTURING":     "Apex Manufacturing Inc",
		"APEX MFG":               "Apex Manufacturing Inc",
		"APEX MFG INC":           "Apex Manufacturing Inc",
		"APEX MANUFACTURING INC": "Apex Manufacturing Inc",

		"APEX MANUFACTURING / APEX MFG / APEX MFG INC / APEX MANUFACTURING INC": "Apex Manufacturing Inc",

		"TITANFORGE LLC":             "TitanForge LLC",
		"AEROFLOW SYSTEMS":           "AeroFlow Systems",
		"PRECISION THERMAL CO":       "Precision Thermal Co",
		"GENERAL PROCUREMENT ISSUES": "General Notes",
	}
}

// Resolver maps raw supplier names to identities, creating each identity on
// first sight. The index lives only as long as the Resolver: every ingestion
// run owns a fresh one.
//
// A Resolver is not safe for concurrent use. Parallel runs must each own a
// Resolver and merge afterwards (see Merge).
type Resolver struct {
	aliases map[string]string
	now     func() time.Time

	byKey map[string]*Identity
	byID  map[string]*Identity
	order []string // keys in creation order
}

// NewResolver creates an empty resolver. A nil alias table disables alias
// lookups and every display name is title-cased.
func NewResolver(aliases map[string]string) *Resolver {
	copied := make(map[string]string, len(aliases))
	for raw, display := range aliases {
		copied[raw] = display
	}
	return &Resolver{
		aliases: copied,
		now:     time.Now,
		byKey:   make(map[string]*Identity),
		byID:    make(map[string]*Identity),
	}
}

// SetClock replaces the time source used for CreatedAt.
func (r *Resolver) SetClock(now func() time.Time) {
	r.now = now
}

// Resolve returns the identity for a raw name, registering a new one when the
// normalized key has not been seen in this run. Later spellings that
// normalize to the same key get the existing identity unchanged.
func (r *Resolver) Resolve(raw string) (Identity, error) {
	key := Normalize(raw)
	if key == "" {
		return Identity{}, fmt.Errorf("resolve %q: %w", raw, internalerr.ErrUnresolvableSupplier)
	}

	if existing, ok := r.byKey[key]; ok {
		return *existing, nil
	}

	id := &Identity{
		ID:            Fingerprint(key),
		DisplayName:   r.displayName(raw),
		NormalizedKey: key,
		CreatedAt:     r.now().UTC(),
	}
	if clash, ok := r.byID[id.ID]; ok {
		return Identity{}, fmt.Errorf("resolve %q: fingerprint %s already used by %q: %w",
			raw, id.ID, clash.NormalizedKey, internalerr.ErrInvariant)
	}

	r.byKey[key] = id
	r.byID[id.ID] = id
	r.order = append(r.order, key)
	return *id, nil
}

func (r *Resolver) displayName(raw string) string {
	if display, ok := r.aliases[raw]; ok {
		return display
	}
	return TitleCase(strings.TrimSpace(raw))
}

// Lookup returns the identity a raw name would resolve to, without
// registering anything.
func (r *Resolver) Lookup(raw string) (Identity, bool) {
	if id, ok := r.byKey[Normalize(raw)]; ok {
		return *id, true
	}
	return Identity{}, false
}

// Get returns a registered identity by id.
func (r *Resolver) Get(id string) (Identity, bool) {
	if ident, ok := r.byID[id]; ok {
		return *ident, true
	}
	return Identity{}, false
}

// ListAll returns every registered identity in creation order.
func (r *Resolver) ListAll() []Identity {
	out := make([]Identity, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, *r.byKey[key])
	}
	return out
}

// Len returns the number of distinct identities.
func (r *Resolver) Len() int {
	return len(r.order)
}

// Merge folds registries from independent runs into one list. Registries are
// taken in argument order and, within each, in creation order; the first
// identity seen for a normalized key wins.
func Merge(registries ...[]Identity) []Identity {
	seen := make(map[string]struct{})
	var out []Identity
	for _, reg := range registries {
		for _, id := range reg {
			if _, dup := seen[id.NormalizedKey]; dup {
				continue
			}
			seen[id.NormalizedKey] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
