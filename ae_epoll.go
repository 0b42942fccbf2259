//go:build linux

package main

import (
	"errors"

	"golang.org/x/sys/unix"
)

var fe2ep = [3]uint32{0, unix.EPOLLIN, unix.EPOLLOUT}

func AeLoopCreate() (*AeLoop, error) {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, err
	}
	return &AeLoop{
		FileEvents:      make(map[int]*AeFileEvent),
		fileEventFd:     epfd,
		timeEventNextId: 1,
	}, nil
}

func (loop *AeLoop) getEpollMask(fd int) uint32 {
	var ev uint32
	if loop.FileEvents[getFeKey(fd, AE_READABLE)] != nil {
		ev |= fe2ep[AE_READABLE]
	}
	if loop.FileEvents[getFeKey(fd, AE_WRITABLE)] != nil {
		ev |= fe2ep[AE_WRITABLE]
	}
	return ev
}

func (loop *AeLoop) AddFileEvent(fd int, mask FeType, proc FileProc, extra interface{}) {
	prevMask := loop.getEpollMask(fd)
	op := unix.EPOLL_CTL_ADD
	if prevMask != 0 {
		op = unix.EPOLL_CTL_MOD
	}
	ev := prevMask | fe2ep[mask]
	err := unix.EpollCtl(loop.fileEventFd, op, fd, &unix.EpollEvent{Fd: int32(fd), Events: ev})
	if err != nil {
		log.Errorw("epoll ctl add failed", "fd", fd, "error", err)
		return
	}
	loop.FileEvents[getFeKey(fd, mask)] = &AeFileEvent{fd: fd, mask: mask, proc: proc, extra: extra}
}

func (loop *AeLoop) RemoveFileEvent(fd int, mask FeType) {
	delete(loop.FileEvents, getFeKey(fd, mask))
	ev := loop.getEpollMask(fd)
	op := unix.EPOLL_CTL_MOD
	if ev == 0 {
		op = unix.EPOLL_CTL_DEL
	}
	err := unix.EpollCtl(loop.fileEventFd, op, fd, &unix.EpollEvent{Fd: int32(fd), Events: ev})
	if err != nil && !errors.Is(err, unix.ENOENT) {
		log.Errorw("epoll ctl remove failed", "fd", fd, "error", err)
	}
}

func (loop *AeLoop) AeWait() (tes []*AeTimeEvent, fes []*AeFileEvent) {
	timeout := loop.nearestTime() - GetMsTime()
	if timeout < 0 {
		timeout = 0
	}

	var events [128]unix.EpollEvent
	n, err := unix.EpollWait(loop.fileEventFd, events[:], int(timeout))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return
		}
		log.Errorw("epoll wait failed", "error", err)
		return
	}
	for i := 0; i < n; i++ {
		fd := int(events[i].Fd)
		if events[i].Events&unix.EPOLLIN != 0 {
			if fe := loop.FileEvents[getFeKey(fd, AE_READABLE)]; fe != nil {
				fes = append(fes, fe)
			}
		}
		if events[i].Events&unix.EPOLLOUT != 0 {
			if fe := loop.FileEvents[getFeKey(fd, AE_WRITABLE)]; fe != nil {
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
