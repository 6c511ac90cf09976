package kv

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/minio/highwayhash"
	"github.com/redis/go-redis/v9"

	"github.com/cedbanana/dds25-2/internal/errs"
)

// TransactionsStream is the bit-stable stream name every service shares.
const TransactionsStream = "transactions"

// ConsumerGroup is the bit-stable consumer group name every service shares.
const ConsumerGroup = "transaction_consumer_group"

// consumerHashKey is a fixed 32-byte HighwayHash key (the algorithm
// requires exactly 32 bytes), read once at init. It need not be secret —
// it only has to be stable across the replica's lifetime so restarts
// derive the same consumer id.
var consumerHashKey, _ = hex.DecodeString("a9f3b2c61de48507f9a01c2d3e4f5061728394a5b6c7d8e9fa0b1c2d3e4f5067")

// ConsumerID derives a stable per-replica stream consumer name from the
// host and replica index, so a replica restarting on the same host
// rejoins the same logical consumer slot in the group rather than
// leaking an orphaned consumer behind.
func ConsumerID(replicaIndex int) string {
	host, _ := os.Hostname()
	packed := []byte(fmt.Sprintf("%s#%d", host, replicaIndex))
	sum := highwayhash.Sum64(packed, consumerHashKey)
	return "consumer-" + strconv.FormatUint(sum, 36)
}

// StreamPush appends a {tid} event to the transactions stream.
func (c *Client) StreamPush(ctx context.Context, tid string) error {
	err := c.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: TransactionsStream,
		Values: map[string]any{"tid": tid},
	}).Err()
	if err != nil {
		return errs.New(errs.Internal, "kv.StreamPush", err)
	}
	return nil
}

// ensureGroup creates the consumer group (and the stream, via MKSTREAM)
// if it doesn't exist yet; BUSYGROUP means another replica beat us to it,
// which is fine.
func (c *Client) ensureGroup(ctx context.Context) error {
	err := c.rdb.XGroupCreateMkStream(ctx, TransactionsStream, ConsumerGroup, "0").Err()
	if err != nil && !errorsContains(err, "busygroup") {
		return err
	}
	return nil
}

// StreamConsume blocks, reading {tid} events for consumer under
// ConsumerGroup and invoking handle for each (at-least-once, explicit
// ack). An event is acked once handle returns nil; when handle fails, the
// tid is first pushed again at the tail of the stream and the original
// event is then acked, so it is retried later. It runs until ctx is
// canceled. handle receiving the same tid twice (redelivery, or a
// duplicate push) must be idempotent; the reconciliation processor gets
// this for free because its first step finds the transaction already
// deleted.
func (c *Client) StreamConsume(ctx context.Context, consumer string, handle func(ctx context.Context, tid string) error) error {
	if err := c.ensureGroup(ctx); err != nil {
		return errs.New(errs.Internal, "kv.StreamConsume", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		streams, err := c.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    ConsumerGroup,
			Consumer: consumer,
			Streams:  []string{TransactionsStream, ">"},
			Count:    16,
			Block:    2 * time.Second,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			return errs.New(errs.Internal, "kv.StreamConsume", err)
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				tid, _ := msg.Values["tid"].(string)
				if err := handle(ctx, tid); err != nil {
					// Requeue: a '>' read never returns this entry again, so
					// push the tid anew before acking this one; this or
					// another consumer retries it from the new entry.
					if err := c.StreamPush(ctx, tid); err != nil {
						return err
					}
				}
				if err := c.rdb.XAck(ctx, TransactionsStream, ConsumerGroup, msg.ID).Err(); err != nil {
					return errs.New(errs.Internal, "kv.StreamConsume", err)
				}
				c.rdb.XDel(ctx, TransactionsStream, msg.ID)
			}
		}
	}
}
