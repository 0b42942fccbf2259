package main

import "time"

// serverCronInterval matches original_source/redis.c's hardcoded 1000ms
// serverCron() tick (spec.md §2).
const serverCronInterval int64 = 1000

// AcceptHandler accepts every pending connection on the listening socket and
// wires up a GodisClient for each, mirroring acceptHandler in
// original_source/redis.c.
func AcceptHandler(loop *AeLoop, fd int, extra interface{}) {
	nfd, err := Accept(fd)
	if err != nil {
		log.Warnw("accept failed", "error", err)
		return
	}
	c := CreateClient(nfd)
	server.clients[nfd] = c
	loop.AddFileEvent(nfd, AE_READABLE, ReadQueryFromClient, c)
	log.Debugw("accepted client", "fd", nfd)
}

// ServerCron runs once a second: it reaps idle clients, drains a finished
// background save, and fires a snapshot when the configured (seconds,
// changes) thresholds are crossed. Adapted from serverCron in
// original_source/redis.c, minus the expire-scan (no TTLs, spec.md
// Non-goals) and the resize-hashtables pass (dict.go rehashes incrementally
// on every access instead of from a cron tick).
func ServerCron(loop *AeLoop, id int, extra interface{}) {
	now := time.Now().Unix()
	for fd, c := range server.clients {
		if now-c.lastInteraction > int64(server.config.MaxIdleTime) {
			log.Debugw("closing idle client", "fd", fd)
			freeClient(c)
		}
	}

	select {
	case res := <-server.bgsaveDone:
		server.bgsaveInProgress = false
		if res.err != nil {
			log.Warnw("background saving failed", "error", res.err)
		} else {
			log.Infow("background saving completed")
		}
	default:
	}

	if !server.bgsaveInProgress && server.snapshotDue() {
		if err := bgsave("dump.rdb"); err != nil {
			log.Warnw("background saving error", "error", err)
		}
	}
}

// initServer builds the global server state and opens the listening socket,
// adapted from initServer in original_source/redis.c.
func initServer(cfg *Config) error {
	log = newLogger(cfg)

	dbs := make([]*GodisDB, cfg.Databases)
	for i := range dbs {
		dbs[i] = &GodisDB{id: i, data: DictCreate(DictType{HashFunc: GStrHash, EqualFunc: GStrEqual})}
	}

	aeLoop, err := AeLoopCreate()
	if err != nil {
		return err
	}

	fd, err := TcpServer(cfg.Port, cfg.BindAddr)
	if err != nil {
		return err
	}

	server = GodisServer{
		fd:         fd,
		port:       cfg.Port,
		config:     cfg,
		dbs:        dbs,
		clients:    make(map[int]*GodisClient),
		aeLoop:     aeLoop,
		bgsaveDone: make(chan bgsaveResult, 1),
	}

	if err := loadDbs("dump.rdb", server.dbs); err != nil {
		return err
	}

	server.aeLoop.AddTimeEvent(AE_NORMAL, serverCronInterval, ServerCron, nil)
	return nil
}
