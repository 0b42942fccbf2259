package main

import "time"

// GodisDB is one logical keyspace (spec.md §3's "array of N maps").
// There is no per-key expire dict: spec.md's Non-goals rule out TTL
// entirely, unlike original_source/redis.c's redisClient.dict family which
// this type's name still echoes.
type GodisDB struct {
	id   int
	data *Dict
}

// GodisServer is the single global server state struct, adapted from
// struct redisServer in original_source/redis.c: one dirty counter and
// one saveparams list shared by every database, a map of live clients
// keyed by fd, and the reactor.
type GodisServer struct {
	fd       int
	port     int
	config   *Config
	dbs      []*GodisDB
	clients  map[int]*GodisClient
	aeLoop   *AeLoop
	dirty    int64
	lastsave int64

	bgsaveInProgress bool
	bgsaveDone       chan bgsaveResult
}

type bgsaveResult struct {
	err error
}

var server GodisServer

func selectDb(c *GodisClient, id int) error {
	if id < 0 || id >= len(server.dbs) {
		return errBadDbIndex
	}
	c.db = server.dbs[id]
	return nil
}

// snapshotDue reports whether any configured (seconds, changes) rule is
// satisfied (spec.md §3's dirty-counter invariant).
func (s *GodisServer) snapshotDue() bool {
	now := time.Now().Unix()
	for _, p := range s.config.SaveParams {
		if s.dirty >= int64(p.Changes) && now-s.lastsave > int64(p.Seconds) {
			return true
		}
	}
	return false
}
