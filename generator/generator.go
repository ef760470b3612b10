package generator

import (
	"bytes"
	"encoding/binary"
	"net"

	"github.com/bwmarrin/snowflake"
)

// snowflake reserves 10 bits for the node number.
const maxNode = 1 << 10

func IDbyIP(ip string) uint32 {
	var id uint32
	ipv4 := net.ParseIP(ip).To4()
	if ipv4 == nil {
		return 0
	}
	binary.Read(bytes.NewBuffer(ipv4), binary.BigEndian, &id)

	return id
}

// NewNode returns the id generator for collection runs. The node number is
// derived from the pod IP so that replicas do not hand out the same ids.
func NewNode(podIP string) (*snowflake.Node, error) {
	var n int64 = 1
	if podIP != "" {
		n = int64(IDbyIP(podIP) % maxNode)
	}

	return snowflake.NewNode(n)
}
