// Part of package registry: AvroRegistry, orchestrating RegistryClient
// fetches, the transitive reference walk, batch parsing, and
// SchemaExpander, with two caches memoized per (subject, version).
// Grounded on original_source/sregistry/src/avro.rs's AvroRegistry::get/
// resolve.
package registry

import (
	"context"
	"fmt"
	"sync"

	avro "github.com/hamba/avro/v2"

	"github.com/omarkamali/avrocol/internal/obs"
)

// rawKey identifies one fetched (subject, version) pair.
type rawKey struct {
	subject string
	version int
}

// fetched pairs a raw schema key with the text retrieved for it, in the
// order resolve first saw them; parseAndExpand parses them in the reverse
// of this order and expands them in this order.
type fetched struct {
	key  rawKey
	text string
}

// AvroRegistry caches raw schema text and parsed-plus-expanded schemas,
// keyed by (subject, version). It is mutably owned by a single caller;
// the mutex exists so one instance may be shared read-only across
// goroutines once built; see DESIGN.md for why this doesn't weaken the
// single-writer model spec.md §5 describes.
type AvroRegistry struct {
	client *Client

	mu            sync.Mutex
	rawCache      map[rawKey]string
	expandedCache map[rawKey]avro.Schema
}

// NewAvroRegistry returns a registry backed by client, with empty caches.
func NewAvroRegistry(client *Client) *AvroRegistry {
	return &AvroRegistry{
		client:        client,
		rawCache:      make(map[rawKey]string),
		expandedCache: make(map[rawKey]avro.Schema),
	}
}

// Get returns the fully expanded schema for (subject, version), fetching
// and resolving it (and its transitive references) on a cache miss.
// Repeated calls for the same key return the same cached avro.Schema value
// and issue no further HTTP requests.
func (r *AvroRegistry) Get(ctx context.Context, subject string, version int) (avro.Schema, error) {
	key := rawKey{subject: subject, version: version}

	r.mu.Lock()
	if s, ok := r.expandedCache[key]; ok {
		r.mu.Unlock()
		return s, nil
	}
	r.mu.Unlock()

	if err := r.resolve(ctx, key); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.expandedCache[key]
	if !ok {
		return nil, &ResolutionFailedError{Msg: fmt.Sprintf("%s/%d missing from expanded cache after resolve", subject, version)}
	}
	return s, nil
}

// resolve performs the iterative depth-first walk over references
// described in spec.md §4.6: pop a key, fetch it if not already raw-cached,
// push its references, and dedupe against the raw cache so reference
// graphs with back edges terminate.
func (r *AvroRegistry) resolve(ctx context.Context, root rawKey) error {
	logger := obs.FromContext(ctx)

	var results []fetched
	seen := map[rawKey]bool{}
	stack := []rawKey{root}

	for len(stack) > 0 {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[k] {
			continue
		}
		seen[k] = true

		r.mu.Lock()
		text, cached := r.rawCache[k]
		r.mu.Unlock()

		if cached {
			results = append(results, fetched{key: k, text: text})
			continue
		}

		subj, err := r.client.GetSubject(ctx, k.subject, k.version)
		if err != nil {
			return err
		}

		r.mu.Lock()
		r.rawCache[k] = subj.SchemaText
		r.mu.Unlock()

		results = append(results, fetched{key: k, text: subj.SchemaText})
		logger.Debug("fetched schema subject", "subject", k.subject, "version", k.version, "references", len(subj.References))

		for _, ref := range subj.References {
			stack = append(stack, rawKey{subject: stripValueSuffix(ref.Subject), version: ref.Version})
		}
	}

	return r.parseAndExpand(results)
}

// parseAndExpand parses every raw schema text as a single batch so that
// cross-subject references resolve (spec.md §4.6 step 3), registers the
// record-typed ones by fully-qualified name, expands each in turn, and
// populates the expanded cache.
//
// resolve's DFS discovers a referencer before the references it pushes
// (root first, leaves last), so results arrives in referencer-before-
// referenced order. hamba/avro's own Parse only resolves a name it has
// already seen, so the batch is parsed in the reverse order - leaves
// first - against one shared *avro.SchemaCache via ParseWithCache, which
// is what lets "User" resolve its "Address" reference even though each
// was fetched as an independent document.
func (r *AvroRegistry) parseAndExpand(results []fetched) error {
	parsed := make(map[rawKey]avro.Schema, len(results))
	cache := avro.NewSchemaCache()
	for i := len(results) - 1; i >= 0; i-- {
		f := results[i]
		s, err := avro.ParseWithCache(f.text, "", cache)
		if err != nil {
			return &DeserializationFailedError{Msg: fmt.Sprintf("%s/%d: %v", f.key.subject, f.key.version, err)}
		}
		parsed[f.key] = s
	}

	names := make(map[string]avro.Schema, len(parsed))
	for _, s := range parsed {
		if err := Register(s, names); err != nil {
			// Non-record subjects (a bare enum, fixed, or primitive
			// fetched standalone) simply aren't reference targets.
			continue
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range results {
		expanded, err := Expand(parsed[f.key], names)
		if err != nil {
			return err
		}
		r.expandedCache[f.key] = expanded
	}
	return nil
}
