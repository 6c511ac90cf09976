package kv

import "github.com/redis/go-redis/v9"

// The atomic scripts the rest of the package relies on. Each is loaded
// lazily and cached by go-redis's *redis.Script, which already
// implements "try EVALSHA, fall back to EVAL on NOSCRIPT" (transparent
// re-register-and-retry once) — no bespoke retry loop needed here.

// lteDecrementScript is the central atomic primitive: read the balance,
// and in the same round trip flip the transaction's status and (on
// success) debit it. KEYS[1] = balance field key, KEYS[2] = tid status
// key. ARGV[1] = amount to debit.
var lteDecrementScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur == false then
	redis.call('SET', KEYS[2], 'FAILURE')
	return -1
end
cur = tonumber(cur)
local amount = tonumber(ARGV[1])
if amount <= cur then
	redis.call('SET', KEYS[2], 'SUCCESS')
	return redis.call('DECRBY', KEYS[1], amount)
else
	redis.call('SET', KEYS[2], 'FAILURE')
	return -1
end
`)

// mGteDecrementScript is the bulk variant used by BulkOrder: validate
// every balance has enough headroom before decrementing any of them, all
// in one script invocation. KEYS[1..n] are the balance field keys,
// KEYS[n+1] is the tid status key. ARGV[1..n] are the matching amounts.
var mGteDecrementScript = redis.NewScript(`
local n = #KEYS - 1
local statusKey = KEYS[n + 1]
for i = 1, n do
	local cur = redis.call('GET', KEYS[i])
	if cur == false or tonumber(cur) < tonumber(ARGV[i]) then
		redis.call('SET', statusKey, 'FAILURE')
		return -1
	end
end
for i = 1, n do
	redis.call('DECRBY', KEYS[i], tonumber(ARGV[i]))
end
redis.call('SET', statusKey, 'SUCCESS')
return 1
`)

// compareAndSetScript performs the store-side CAS the advisory lock
// relies on: never emulate this with a client-side read-then-write. KEYS[1] is the
// field key. ARGV[1] is the expected current value, ARGV[2] is the new
// value. A missing key is treated as matching the empty-string expectation.
var compareAndSetScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur == false then
	cur = ''
end
if cur == ARGV[1] then
	redis.call('SET', KEYS[1], ARGV[2])
	return 1
end
return 0
`)
