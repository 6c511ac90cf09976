// Package kv is the typed facade over the shared Redis-compatible store:
// field-addressable get/save, atomic increment/compare-and-set/
// conditional-decrement scripts, and durable consumer-group streams.
// The store itself is external — this package only ever talks to it
// through the documented commands, never assumes anything about its
// internals.
package kv

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"

	"github.com/cedbanana/dds25-2/internal/errs"
	"github.com/cedbanana/dds25-2/internal/model"
)

var errNotNumeric = errors.New("field is not numeric")

// ErrWatchConflict is returned by WatchedUpdate when a watched field
// changed between the read and the write, the optimistic-concurrency
// guard on adding an item to a cart. Callers retry the whole request.
var ErrWatchConflict = errors.New("watched field changed concurrently")

// Client wraps a redis.UniversalClient (a plain *redis.Client in
// production, a *redis.ClusterClient if the deployment shards the
// keyspace) with the typed record facade.
type Client struct {
	rdb redis.UniversalClient

	// readCache is a bounded read-through cache in front of Get calls for
	// item and user records only; any mutating call through this Client
	// invalidates the touched id. It
	// exists to absorb repeat FindItem/FindUser reads during a flash sale
	// without risking staleness on the decrement path, which never
	// consults it.
	readCache *lru.Cache[string, map[string]string]
}

// New wraps an already-dialed client. Cache size 0 disables the cache.
func New(rdb redis.UniversalClient, cacheSize int) (*Client, error) {
	c := &Client{rdb: rdb}
	if cacheSize > 0 {
		cache, err := lru.New[string, map[string]string](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("building read cache: %w", err)
		}
		c.readCache = cache
	}
	return c, nil
}

func (c *Client) invalidate(id string) {
	if c.readCache != nil {
		c.readCache.Remove(id)
	}
}

// Get loads every field of rec by id, decoding them into rec.
// Returns found=false if no field exists, leaving rec untouched.
func (c *Client) Get(ctx context.Context, rec model.Record) (found bool, err error) {
	id := rec.ID()
	fields := rec.Fields()
	cacheable := c.readCache != nil && (rec.Model() == "item" || rec.Model() == "user")

	if cacheable {
		if cached, ok := c.readCache.Get(id); ok {
			return c.applyCached(rec, fields, cached)
		}
	}

	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = fieldKey(id, f.Name)
	}

	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return false, errs.New(errs.Internal, "kv.Get", err)
	}

	raw := make(map[string]string, len(fields))
	any := false
	for i, f := range fields {
		if vals[i] == nil {
			continue
		}
		s, ok := vals[i].(string)
		if !ok {
			s = fmt.Sprintf("%v", vals[i])
		}
		raw[f.Name] = s
		any = true
	}
	if !any {
		return false, nil
	}
	for _, f := range fields {
		if s, ok := raw[f.Name]; ok {
			if err := decodeField(f, s); err != nil {
				return false, errs.New(errs.Internal, "kv.Get", err)
			}
		}
	}
	if cacheable {
		c.readCache.Add(id, raw)
	}
	return true, nil
}

func (c *Client) applyCached(rec model.Record, fields []model.FieldDescriptor, raw map[string]string) (bool, error) {
	if len(raw) == 0 {
		return false, nil
	}
	for _, f := range fields {
		if s, ok := raw[f.Name]; ok {
			if err := decodeField(f, s); err != nil {
				return false, errs.New(errs.Internal, "kv.Get", err)
			}
		}
	}
	return true, nil
}

// Save writes every field of rec. Not atomic across fields; callers
// that need atomicity use the scripts below.
func (c *Client) Save(ctx context.Context, rec model.Record) error {
	id := rec.ID()
	fields := rec.Fields()

	kv := make(map[string]any, len(fields))
	for _, f := range fields {
		s, err := encodeField(f)
		if err != nil {
			return errs.New(errs.Internal, "kv.Save", err)
		}
		kv[fieldKey(id, f.Name)] = s
	}
	if err := c.rdb.MSet(ctx, kv).Err(); err != nil {
		return errs.New(errs.Internal, "kv.Save", err)
	}
	c.invalidate(id)
	return nil
}

// Delete removes every field of rec, the terminal step of the
// reconciliation protocol once a saga leg's outcome has been applied
//.
func (c *Client) Delete(ctx context.Context, rec model.Record) error {
	id := rec.ID()
	fields := rec.Fields()
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = fieldKey(id, f.Name)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return errs.New(errs.Internal, "kv.Delete", err)
	}
	c.invalidate(id)
	return nil
}

// GetAttr reads a single field.
func (c *Client) GetAttr(ctx context.Context, id string, f model.FieldDescriptor) (bool, error) {
	v, err := c.rdb.Get(ctx, fieldKey(id, f.Name)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errs.New(errs.Internal, "kv.GetAttr", err)
	}
	if err := decodeField(f, v); err != nil {
		return false, errs.New(errs.Internal, "kv.GetAttr", err)
	}
	return true, nil
}

// SetAttr writes a single field.
func (c *Client) SetAttr(ctx context.Context, id string, f model.FieldDescriptor) error {
	s, err := encodeField(f)
	if err != nil {
		return errs.New(errs.Internal, "kv.SetAttr", err)
	}
	if err := c.rdb.Set(ctx, fieldKey(id, f.Name), s, 0).Err(); err != nil {
		return errs.New(errs.Internal, "kv.SetAttr", err)
	}
	c.invalidate(id)
	return nil
}

// Increment atomically adds delta to an integer field.
// Fails with errs.Internal wrapping errNotNumeric if the field holds a
// non-integer value ("NotNumeric").
func (c *Client) Increment(ctx context.Context, id, field string, delta int) (int64, error) {
	v, err := c.rdb.IncrBy(ctx, fieldKey(id, field), int64(delta)).Result()
	if err != nil {
		if isNotAnInteger(err) {
			return 0, errs.New(errs.Internal, "kv.Increment", errNotNumeric)
		}
		return 0, errs.New(errs.Internal, "kv.Increment", err)
	}
	c.invalidate(id)
	return v, nil
}

func isNotAnInteger(err error) bool {
	return err != nil && (errorsContains(err, "not an integer") || errorsContains(err, "not a valid"))
}

func errorsContains(err error, substr string) bool {
	return err != nil && len(err.Error()) >= len(substr) && containsFold(err.Error(), substr)
}

func containsFold(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if equalFold(s[i:i+len(substr)], substr) {
			return true
		}
	}
	return false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// WatchedUpdate implements the optimistic-concurrency guard on adding an
// item to a cart: watch id's fields, load the current record into rec,
// let compute decide the new field values on rec,
// then commit them in one MULTI/EXEC. If any watched key changed between
// the watch and the commit, returns ErrWatchConflict and writes nothing.
func (c *Client) WatchedUpdate(ctx context.Context, id string, rec model.Record, compute func() error) error {
	fields := rec.Fields()
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = fieldKey(id, f.Name)
	}

	err := c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		if _, err := c.Get(ctx, rec); err != nil {
			return err
		}
		if err := compute(); err != nil {
			return err
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, f := range rec.Fields() {
				s, err := encodeField(f)
				if err != nil {
					return err
				}
				pipe.Set(ctx, fieldKey(id, f.Name), s, 0)
			}
			return nil
		})
		return err
	}, keys...)

	c.invalidate(id)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrWatchConflict
	}
	if err != nil {
		return errs.New(errs.Internal, "kv.WatchedUpdate", err)
	}
	return nil
}

// CompareAndSet performs the store-side CAS the advisory lock relies on.
// Never emulate with a client-side read-then-write.
func (c *Client) CompareAndSet(ctx context.Context, id, field, expected, newVal string) (bool, error) {
	res, err := compareAndSetScript.Run(ctx, c.rdb, []string{fieldKey(id, field)}, expected, newVal).Int()
	if err != nil {
		return false, errs.New(errs.Internal, "kv.CompareAndSet", err)
	}
	c.invalidate(id)
	return res == 1, nil
}

// LteDecrement is the central atomic primitive: one script
// invocation flips tid's status and (iff amount <= current) debits the
// balance, so the two never observably disagree.
func (c *Client) LteDecrement(ctx context.Context, id, field string, amount int, tid string) (int64, error) {
	res, err := lteDecrementScript.Run(ctx, c.rdb,
		[]string{fieldKey(id, field), fieldKey(tid, "status")},
		amount,
	).Int64()
	if err != nil {
		return 0, errs.New(errs.Internal, "kv.LteDecrement", err)
	}
	c.invalidate(id)
	return res, nil
}

// MGteDecrement is the bulk, all-or-nothing variant of LteDecrement used
// by BulkOrder.
func (c *Client) MGteDecrement(ctx context.Context, tid string, changes []model.ItemQty, field string) (bool, error) {
	keys := make([]string, 0, len(changes)+1)
	argv := make([]any, 0, len(changes))
	for _, ch := range changes {
		keys = append(keys, fieldKey(ch.ItemID, field))
		argv = append(argv, ch.Quantity)
	}
	keys = append(keys, fieldKey(tid, "status"))

	res, err := mGteDecrementScript.Run(ctx, c.rdb, keys, argv...).Int()
	if err != nil {
		return false, errs.New(errs.Internal, "kv.MGteDecrement", err)
	}
	for _, ch := range changes {
		c.invalidate(ch.ItemID)
	}
	return res == 1, nil
}

// Snapshot requests a point-in-time durable image of the store.
// Redis's own background save is the concrete mechanism; callers
// coordinate quiescence around it via the HALTED protocol.
func (c *Client) Snapshot(ctx context.Context) error {
	if err := c.rdb.Do(ctx, "BGSAVE").Err(); err != nil {
		// "Background saving already in progress" is not itself a failure
		// of this request; a save was already requested recently.
		if errorsContains(err, "already in progress") {
			return nil
		}
		return errs.New(errs.Internal, "kv.Snapshot", err)
	}
	return nil
}

// Raw exposes the underlying client for the narrow set of callers
// (stream operations, etcd-adjacent coordination) that need commands
// beyond this facade.
func (c *Client) Raw() redis.UniversalClient { return c.rdb }
