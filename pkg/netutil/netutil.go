// Package netutil creates the UDP sockets the live plant/controller runtime
// exchanges state and update packets over, grounded on
// original_source/src/netutils/socket_utils.cc's datagram_client_socket and
// datagram_server_sockets (adapted to net.ResolveUDPAddr/net.ListenUDP/
// net.DialUDP rather than raw getaddrinfo/socket/bind/connect).
package netutil

import (
	"fmt"
	"net"
)

// DialUDP "connects" a datagram client socket to hostname:port, matching
// datagram_client_socket's semantics: every subsequent Write goes to the
// peer address without needing to name it again.
func DialUDP(hostname string, port int) (*net.UDPConn, error) {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", hostname, port))
	if err != nil {
		return nil, fmt.Errorf("resolve udp address %s:%d: %w", hostname, port, err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("dial udp %s:%d: %w", hostname, port, err)
	}
	return conn, nil
}

// ListenUDP binds a datagram server socket on the given interface and port,
// matching datagram_server_sockets's single-socket case (the original's
// fan-out across every resolved address is unneeded for the loopback/LAN
// deployments this runtime targets).
func ListenUDP(hostname string, port int) (*net.UDPConn, error) {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", hostname, port))
	if err != nil {
		return nil, fmt.Errorf("resolve udp address %s:%d: %w", hostname, port, err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen udp %s:%d: %w", hostname, port, err)
	}
	return conn, nil
}
