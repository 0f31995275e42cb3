package common

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lni/dragonboat/v4/config"
)

// --------------------------------------------------------------------------
// helper functions for to interface with Dragonboat (for the raft store)
// --------------------------------------------------------------------------

// Dragonboat uses RTT (Round Trip Time) to determine the timing of elections and heartbeats.
// These default values are selected according to the RAFT Paper
const (
	electionRTTFactor  = 10
	heartbeatRTTFactor = 1
)

// ToDragonboatConfig converts the ServerConfig to a Dragonboat shard config
func (c *ServerConfig) ToDragonboatConfig() config.Config {
	return config.Config{
		ReplicaID:          c.ReplicaID,
		ShardID:            c.ShardID,
		ElectionRTT:        electionRTTFactor,
		HeartbeatRTT:       heartbeatRTTFactor,
		CheckQuorum:        true,
		SnapshotEntries:    c.SnapshotEntries,
		CompactionOverhead: c.CompactionOverhead,
	}
}

// ToNodeHostConfig creates a NodeHostConfig for Dragonboat
func (c *ServerConfig) ToNodeHostConfig() config.NodeHostConfig {
	return config.NodeHostConfig{
		WALDir:         c.DataDir,
		NodeHostDir:    c.DataDir,
		RTTMillisecond: c.RTTMillisecond,
		RaftAddress:    c.ClusterMembers[c.ReplicaID],
	}
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// StoreType selects the table store backend of a server
type StoreType string

const (
	StoreTypeMemory  StoreType = "memory"
	StoreTypeLevelDB StoreType = "leveldb"
	StoreTypeRaft    StoreType = "raft"
)

// ParseStoreType validates a store type name
func ParseStoreType(s string) (StoreType, error) {
	switch t := StoreType(strings.ToLower(s)); t {
	case StoreTypeMemory, StoreTypeLevelDB, StoreTypeRaft:
		return t, nil
	default:
		return "", fmt.Errorf("invalid store type %q (must be one of memory, leveldb, raft)", s)
	}
}

// ServerConfig holds all configuration parameters of a dTable server.
type ServerConfig struct {
	// Table store
	StoreType  StoreType
	Codec      string
	DataDir    string
	SyncWrites bool

	// Dragonboat parameters (raft store only)
	ShardID            uint64
	RTTMillisecond     uint64
	SnapshotEntries    uint64
	CompactionOverhead uint64
	ReplicaID          uint64
	ClusterMembers     map[uint64]string

	// raft store operation timeout
	TimeoutSecond int64

	// HTTP api settings
	Endpoint string
	// WebSocket event surface, empty disables it
	EventsEndpoint string

	// Binary socket rpc surface ("tcp" or "unix"), empty disables it
	SocketTransport   string
	SocketEndpoint    string
	TCPNoDelay        bool
	MaxWorkersPerConn int

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("RPC Server")
	addField("Endpoint", c.Endpoint)
	events := c.EventsEndpoint
	if events == "" {
		events = "(disabled)"
	}
	addField("Events Endpoint", events)
	if c.SocketTransport != "" {
		addField("Socket Transport", c.SocketTransport)
		addField("Socket Endpoint", c.SocketEndpoint)
		addField("Workers/Connection", strconv.Itoa(c.MaxWorkersPerConn))
		if c.SocketTransport == "tcp" {
			addField("TCP No Delay", strconv.FormatBool(c.TCPNoDelay))
		}
	}

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	addSection("Table Store")
	addField("Type", string(c.StoreType))
	addField("Codec", c.Codec)
	if c.StoreType != StoreTypeMemory {
		addField("Data Directory", c.DataDir)
	}
	if c.StoreType == StoreTypeLevelDB {
		addField("Sync Writes", strconv.FormatBool(c.SyncWrites))
	}

	if c.StoreType == StoreTypeRaft {
		addSection("Node Identity")
		addField("RAFT Address", c.ClusterMembers[c.ReplicaID])
		addField("Node ID", strconv.FormatUint(c.ReplicaID, 10))
		addField("Shard ID", strconv.FormatUint(c.ShardID, 10))

		addSection("RAFT Parameters")
		addField("Round Trip Time (ms)", fmt.Sprintf("%d ms", c.RTTMillisecond))
		addField("Election RTT (ms)", fmt.Sprintf("%d", c.RTTMillisecond*electionRTTFactor))
		addField("Heartbeat RTT (ms)", fmt.Sprintf("%d", c.RTTMillisecond*heartbeatRTTFactor))
		addField("Snapshot Entries", fmt.Sprintf("%d", c.SnapshotEntries))
		addField("Compaction Overhead", fmt.Sprintf("%d", c.CompactionOverhead))
		addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))

		addSection("Cluster")
		sb.WriteString("  Initial Cluster Members:\n")

		var keys []uint64
		for k := range c.ClusterMembers {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("    Node %d: %s\n", k, c.ClusterMembers[k]))
		}
	}
	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds the configuration of the rpc clients
type ClientConfig struct {
	// Transport is one of http (default), tcp, unix
	Transport              string
	Endpoints              []string
	ConnectionsPerEndpoint int
	TimeoutSecond          int
	RetryCount             int
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Client Configuration")
	addField("Transport", c.Transport)
	if c.Transport == "tcp" || c.Transport == "unix" {
		addField("Connections/Endpoint", strconv.Itoa(c.ConnectionsPerEndpoint))
	}
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.RetryCount))

	addSection("Endpoints")
	for i, endpoint := range c.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}
