package stores

import "github.com/redis/go-redis/v9"

// KEYS[1]=uname key, KEYS[2]=user key, ARGV[1]=id, ARGV[2]=record.
// Returns 0 when the username is taken.
var createUserScript = redis.NewScript(`
if redis.call('SETNX', KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2])
return 1
`)

// KEYS[1]=post hash, ARGV[1]=modified. Returns -1 when the post is gone,
// otherwise the new like count.
var incrementLikesScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
redis.call('HSET', KEYS[1], 'modified', ARGV[1])
return redis.call('HINCRBY', KEYS[1], 'likes', 1)
`)

// KEYS[1]=hash, ARGV=field/value pairs. Returns 0 when the hash does not
// exist, so an update racing a delete cannot recreate the record.
var hsetIfExistsScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV))
return 1
`)
