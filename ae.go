package main

import (
	"time"
)

// AeLoop is the single-threaded reactor the whole server runs inside of
// (spec.md §2's "one event loop, no worker threads"). This file holds the
// OS-independent bookkeeping; ae_epoll.go and ae_kqueue.go each supply the
// platform syscalls behind AddFileEvent/RemoveFileEvent/AeLoopCreate/AeWait.
type FeType int

const (
	AE_READABLE FeType = 1
	AE_WRITABLE FeType = 2
)

type TeType int

const (
	AE_NORMAL TeType = 1 // recurring
	AE_ONCE   TeType = 2 // fires once then removes itself
)

type FileProc func(loop *AeLoop, fd int, extra interface{})
type TimeProc func(loop *AeLoop, id int, extra interface{})

type AeFileEvent struct {
	fd    int
	mask  FeType
	proc  FileProc
	extra interface{}
}

type AeTimeEvent struct {
	id       int
	mask     TeType
	when     int64 // ms
	interval int64 // ms
	proc     TimeProc
	extra    interface{}
	next     *AeTimeEvent
}

type AeLoop struct {
	FileEvents      map[int]*AeFileEvent
	TimeEvents      *AeTimeEvent
	fileEventFd     int
	timeEventNextId int
	stop            bool
}

// getFeKey packs an fd and its event direction into one map key: negative
// for writable, positive for readable, so one fd can hold both events
// simultaneously without a nested map.
func getFeKey(fd int, mask FeType) int {
	if mask == AE_READABLE {
		return fd
	}
	return fd * -1
}

func (loop *AeLoop) AddTimeEvent(mask TeType, interval int64, proc TimeProc, extra interface{}) int {
	id := loop.timeEventNextId
	loop.timeEventNextId++
	te := &AeTimeEvent{
		id:       id,
		mask:     mask,
		when:     GetMsTime() + interval,
		interval: interval,
		proc:     proc,
		extra:    extra,
		next:     loop.TimeEvents,
	}
	loop.TimeEvents = te
	return id
}

func (loop *AeLoop) RemoveTimeEvent(id int) {
	p := loop.TimeEvents
	var prev *AeTimeEvent
	for p != nil {
		if p.id == id {
			if prev == nil {
				loop.TimeEvents = p.next
			} else {
				prev.next = p.next
			}
			p.next = nil
			return
		}
		prev = p
		p = p.next
	}
}

func GetMsTime() int64 {
	return time.Now().UnixNano() / 1e6
}

func (loop *AeLoop) AeProcess(tes []*AeTimeEvent, fes []*AeFileEvent) {
	for _, te := range tes {
		te.proc(loop, te.id, te.extra)
		if te.mask == AE_ONCE {
			loop.RemoveTimeEvent(te.id)
		} else {
			te.when = GetMsTime() + te.interval
		}
	}
	for _, fe := range fes {
		fe.proc(loop, fe.fd, fe.extra)
	}
}

func (loop *AeLoop) nearestTime() int64 {
	nearest := GetMsTime() + 1000
	for p := loop.TimeEvents; p != nil; p = p.next {
		if p.when < nearest {
			nearest = p.when
		}
	}
	return nearest
}

func (loop *AeLoop) AeMain() {
	for !loop.stop {
		tes, fes := loop.AeWait()
		loop.AeProcess(tes, fes)
	}
}

func (loop *AeLoop) Stop() {
	loop.stop = true
}
