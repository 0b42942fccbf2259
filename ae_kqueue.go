//go:build darwin

package main

import (
	"errors"

	"golang.org/x/sys/unix"
)

var fe2kevent = [3]int16{0, unix.EVFILT_READ, unix.EVFILT_WRITE}

func AeLoopCreate() (*AeLoop, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	return &AeLoop{
		FileEvents:      make(map[int]*AeFileEvent),
		fileEventFd:     kq,
		timeEventNextId: 1,
	}, nil
}

func (loop *AeLoop) AddFileEvent(fd int, mask FeType, proc FileProc, extra interface{}) {
	event := unix.Kevent_t{
		Ident:  uint64(fd),
		Filter: fe2kevent[mask],
		Flags:  unix.EV_ADD,
	}
	if _, err := unix.Kevent(loop.fileEventFd, []unix.Kevent_t{event}, nil, nil); err != nil {
		log.Errorw("kevent add failed", "fd", fd, "error", err)
		return
	}
	loop.FileEvents[getFeKey(fd, mask)] = &AeFileEvent{fd: fd, mask: mask, proc: proc, extra: extra}
}

func (loop *AeLoop) RemoveFileEvent(fd int, mask FeType) {
	event := unix.Kevent_t{
		Ident:  uint64(fd),
		Filter: fe2kevent[mask],
		Flags:  unix.EV_DELETE,
	}
	if _, err := unix.Kevent(loop.fileEventFd, []unix.Kevent_t{event}, nil, nil); err != nil {
		log.Errorw("kevent delete failed", "fd", fd, "error", err)
	}
	delete(loop.FileEvents, getFeKey(fd, mask))
}

func (loop *AeLoop) AeWait() (tes []*AeTimeEvent, fes []*AeFileEvent) {
	timeout := loop.nearestTime() - GetMsTime()
	if timeout < 0 {
		timeout = 0
	}
	timeoutSpec := &unix.Timespec{Sec: 0, Nsec: timeout * 1e6}

	var events [128]unix.Kevent_t
	n, err := unix.Kevent(loop.fileEventFd, nil, events[:], timeoutSpec)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return
		}
		log.Errorw("kevent wait failed", "error", err)
		return
	}
	for i := 0; i < n; i++ {
		switch events[i].Filter {
		case unix.EVFILT_READ:
			if fe := loop.FileEvents[getFeKey(int(events[i].Ident), AE_READABLE)]; fe != nil {
				fes = append(fes, fe)
			}
		case unix.EVFILT_WRITE:
			if fe := loop.FileEvents[getFeKey(int(events[i].Ident), AE_WRITABLE)]; fe != nil {
				fes = append(fes, fe)
			}
		}
	}
	now := GetMsTime()
	for p := loop.TimeEvents; p != nil; p = p.next {
		if p.when <= now {
			tes = append(tes, p)
		}
	}
	return
}
