package main

import (
	"net"

	"golang.org/x/sys/unix"
)

const BACKLOG int = 64

func Accept(fd int) (int, error) {
	nfd, _, err := unix.Accept(fd)
	if err != nil {
		return -1, err
	}
	if err := unix.SetNonblock(nfd, true); err != nil {
		unix.Close(nfd)
		return -1, err
	}
	if err := unix.SetsockoptInt(nfd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1); err != nil {
		unix.Close(nfd)
		return -1, err
	}
	return nfd, nil
}

// parseBindAddr resolves a bind directive's address to an IPv4 quad,
// treating "" the way spec.md §6 documents the default ("listen address
// (default any)").
func parseBindAddr(addr string) [4]byte {
	if addr == "" {
		return [4]byte{0, 0, 0, 0}
	}
	ip := net.ParseIP(addr)
	if ip == nil {
		return [4]byte{0, 0, 0, 0}
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return [4]byte{0, 0, 0, 0}
	}
	return [4]byte{ip4[0], ip4[1], ip4[2], ip4[3]}
}

// TcpServer creates, binds, and listens on a non-blocking IPv4 socket
// (spec.md §4.2's accept-side setup). The teacher's version passed `port`
// as SO_REUSEPORT's boolean value and used the wrong option entirely;
// this uses SO_REUSEADDR=1, the option loadServerConfig's bind path
// actually needs so a restart doesn't fail on a lingering TIME_WAIT.
func TcpServer(port int, bindAddr string) (int, error) {
	s, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, err
	}
	if err := unix.SetsockoptInt(s, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(s)
		return -1, err
	}
	if err := unix.SetNonblock(s, true); err != nil {
		unix.Close(s)
		return -1, err
	}
	addr := unix.SockaddrInet4{Port: port, Addr: parseBindAddr(bindAddr)}
	if err := unix.Bind(s, &addr); err != nil {
		unix.Close(s)
		return -1, err
	}
	if err := unix.Listen(s, BACKLOG); err != nil {
		unix.Close(s)
		return -1, err
	}
	return s, nil
}

func Read(fd int, buf []byte) (int, error) {
	return unix.Read(fd, buf)
}

func Close(fd int) {
	unix.Close(fd)
}

func Write(fd int, buf []byte) (int, error) {
	return unix.Write(fd, buf)
}
