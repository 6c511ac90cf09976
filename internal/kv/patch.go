package kv

import (
	"context"
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/cedbanana/dds25-2/internal/errs"
	"github.com/cedbanana/dds25-2/internal/model"
)

// DetailsPatch accumulates per-key deltas for one Transaction's details
// map before a single SetAttr call: buffer RFC 7396 merge patches, apply
// once. BulkOrder writes one delta per item as stock checks complete;
// buffering avoids N separate round trips to the details field.
type DetailsPatch struct {
	patch json.RawMessage
	err   error
}

// Add merges {key: delta} into the pending patch.
func (d *DetailsPatch) Add(key string, delta int) {
	if d.err != nil {
		return
	}
	next, err := json.Marshal(map[string]int{key: delta})
	if err != nil {
		d.err = fmt.Errorf("encoding details patch: %w", err)
		return
	}
	if len(d.patch) == 0 {
		d.patch = next
		return
	}
	merged, err := jsonpatch.MergeMergePatches(d.patch, next)
	if err != nil {
		d.err = fmt.Errorf("merging details patches: %w", err)
		return
	}
	d.patch = merged
}

// Flush applies the accumulated patch onto tid's details field in one
// SetAttr call and resets the buffer.
func (d *DetailsPatch) Flush(ctx context.Context, c *Client, tid string) error {
	if d.err != nil {
		return errs.New(errs.Internal, "kv.DetailsPatch.Flush", d.err)
	}
	if len(d.patch) == 0 {
		return nil
	}

	existing := map[string]int{}
	existingRaw, err := json.Marshal(existing)
	if err != nil {
		return errs.New(errs.Internal, "kv.DetailsPatch.Flush", err)
	}
	f := model.FieldDescriptor{Name: "details", Kind: model.KindStringIntMap}
	var cur map[string]int
	f.StrIntMap = &cur
	found, err := c.GetAttr(ctx, tid, f)
	if err != nil {
		return err
	}
	if !found {
		cur = existing
		existingRaw, _ = json.Marshal(existing)
	} else {
		existingRaw, err = json.Marshal(cur)
		if err != nil {
			return errs.New(errs.Internal, "kv.DetailsPatch.Flush", err)
		}
	}

	merged, err := jsonpatch.MergePatch(existingRaw, d.patch)
	if err != nil {
		return errs.New(errs.Internal, "kv.DetailsPatch.Flush", err)
	}

	var result map[string]int
	if err := json.Unmarshal(merged, &result); err != nil {
		return errs.New(errs.Internal, "kv.DetailsPatch.Flush", err)
	}

	out := model.FieldDescriptor{Name: "details", Kind: model.KindStringIntMap, StrIntMap: &result}
	if err := c.SetAttr(ctx, tid, out); err != nil {
		return err
	}
	d.patch = nil
	return nil
}
