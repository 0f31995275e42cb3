package serve

import (
	"fmt"
	"strings"

	cmdUtil "github.com/ValentinKolb/dTable/cmd/util"
	"github.com/ValentinKolb/dTable/lib/codec"
	"github.com/ValentinKolb/dTable/rpc/common"
	"github.com/ValentinKolb/dTable/rpc/server"
	"github.com/ValentinKolb/dTable/rpc/transport"
	"github.com/ValentinKolb/dTable/rpc/transport/http"
	"github.com/ValentinKolb/dTable/rpc/transport/tcp"
	"github.com/ValentinKolb/dTable/rpc/transport/unix"
	"github.com/ValentinKolb/dTable/rpc/transport/ws"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the dTable server",
		Long:    `Start the dTable server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is DTABLE_<flag> (e.g. DTABLE_LOG_LEVEL=debug)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	cobra.OnInitialize(cmdUtil.InitConfig)

	key := "store"
	ServeCmd.PersistentFlags().String(key, "memory", cmdUtil.WrapString("Table store backend: memory (volatile), leveldb (persistent, single node) or raft (replicated with Dragonboat)"))

	key = "codec"
	ServeCmd.PersistentFlags().String(key, "json", cmdUtil.WrapString("Encoding of the tables at rest (json, gob). Ignored by the memory store"))

	key = "data-dir"
	ServeCmd.PersistentFlags().String(key, "data", cmdUtil.WrapString("Directory of the leveldb database or the raft logs and snapshots"))

	key = "sync-writes"
	ServeCmd.PersistentFlags().Bool(key, false, cmdUtil.WrapString("(leveldb) fsync after every write"))

	key = "shard-id"
	ServeCmd.PersistentFlags().Uint64(key, 100, cmdUtil.WrapString("(raft) ID of the raft shard holding the tables"))

	key = "rtt-millisecond"
	ServeCmd.PersistentFlags().Int(key, 100, cmdUtil.WrapString("(raft) RTTMillisecond defines the average Round Trip Time (RTT) in milliseconds between two NodeHost instances. \nOther raft configuration parameters (ElectionRTT=value*10, HeartbeatRTT=value*1) are derived from this value"))

	key = "snapshot-entries"
	ServeCmd.PersistentFlags().Int(key, 10, cmdUtil.WrapString("(raft) SnapshotEntries defines how often the state machine should be snapshotted automatically. It is defined in terms of the number of applied Raft log entries. SnapshotEntries can be set to 0 to disable such automatic snapshotting (not recommended)"))

	key = "compaction-overhead"
	ServeCmd.PersistentFlags().Int(key, 5, cmdUtil.WrapString("(raft) CompactionOverhead defines the number of log entries to keep after compaction. Recommended value is about 1/2 of SnapshotEntries"))

	key = "replica-id"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("(raft) ReplicaID is the unique identifier for this NodeHost instance (e.g. 'node-1')"))

	key = "cluster-members"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("(raft) ClusterMembers is a comma-separated list of NodeHost addresses in the format 'node-1=localhost:63001,node-2=localhost:63002,...'"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("(raft) Timeout of a proposal or read in seconds"))

	key = "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address on which the HTTP API (and /metrics) will listen"))

	key = "events-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("The address of the WebSocket event surface (GET /events). Empty disables it"))

	key = "socket-transport"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Additional framed socket rpc surface: tcp or unix. Empty disables it"))

	key = "socket-endpoint"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Address (tcp, e.g. 0.0.0.0:8082) or socket path (unix, e.g. /tmp/dtable.sock) of the socket surface"))

	key = "tcp-nodelay"
	ServeCmd.PersistentFlags().Bool(key, true, cmdUtil.WrapString("Whether to enable TCP_NODELAY on accepted tcp connections"))

	key = "max-workers-per-conn"
	ServeCmd.PersistentFlags().Int(key, 16, cmdUtil.WrapString("How many requests of one socket connection are processed in parallel"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	storeType, err := common.ParseStoreType(viper.GetString("store"))
	if err != nil {
		return err
	}
	if _, err := codec.New(viper.GetString("codec")); err != nil {
		return err
	}

	serveCmdConfig.StoreType = storeType
	serveCmdConfig.Codec = viper.GetString("codec")
	serveCmdConfig.DataDir = viper.GetString("data-dir")
	serveCmdConfig.SyncWrites = viper.GetBool("sync-writes")
	serveCmdConfig.ShardID = viper.GetUint64("shard-id")
	serveCmdConfig.RTTMillisecond = viper.GetUint64("rtt-millisecond")
	serveCmdConfig.SnapshotEntries = viper.GetUint64("snapshot-entries")
	serveCmdConfig.CompactionOverhead = viper.GetUint64("compaction-overhead")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.EventsEndpoint = viper.GetString("events-endpoint")
	serveCmdConfig.SocketTransport = viper.GetString("socket-transport")
	serveCmdConfig.SocketEndpoint = viper.GetString("socket-endpoint")
	serveCmdConfig.TCPNoDelay = viper.GetBool("tcp-nodelay")
	serveCmdConfig.MaxWorkersPerConn = viper.GetInt("max-workers-per-conn")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	if err := common.InitLoggers(serveCmdConfig.LogLevel); err != nil {
		return err
	}

	switch serveCmdConfig.SocketTransport {
	case "":
	case "tcp", "unix":
		if serveCmdConfig.SocketEndpoint == "" {
			return fmt.Errorf("socket-endpoint is required for the %s socket transport", serveCmdConfig.SocketTransport)
		}
	default:
		return fmt.Errorf("invalid socket transport %s (expected tcp or unix)", serveCmdConfig.SocketTransport)
	}

	if storeType != common.StoreTypeRaft {
		return nil
	}

	// raft only: replica id and initial cluster
	id := viper.GetString("replica-id")
	if id == "" {
		return fmt.Errorf("replica-id is required for the raft store")
	}
	serveCmdConfig.ReplicaID = cmdUtil.NodeID(id)

	clusterMembers := viper.GetString("cluster-members")
	if clusterMembers == "" {
		return fmt.Errorf("cluster-members is required for the raft store")
	}
	serveCmdConfig.ClusterMembers = make(map[uint64]string)
	for _, member := range strings.Split(clusterMembers, ",") {
		parts := strings.Split(member, "=")
		if len(parts) != 2 {
			return fmt.Errorf("invalid cluster member format: %s (expected ID=address)", member)
		}
		serveCmdConfig.ClusterMembers[cmdUtil.NodeID(strings.TrimSpace(parts[0]))] = strings.TrimSpace(parts[1])
	}

	if _, ok := serveCmdConfig.ClusterMembers[serveCmdConfig.ReplicaID]; !ok {
		return fmt.Errorf("no address found for replica ID %s in cluster members", id)
	}

	return nil
}

// run starts the dTable server with all configured transports
func run(_ *cobra.Command, _ []string) error {
	transports := []transport.IRPCServerTransport{http.NewHttpServerTransport()}

	if serveCmdConfig.EventsEndpoint != "" {
		transports = append(transports, ws.NewWsServerTransport())
	}

	switch serveCmdConfig.SocketTransport {
	case "tcp":
		transports = append(transports, tcp.NewTCPServerTransport())
	case "unix":
		transports = append(transports, unix.NewUnixDefaultServerTransport())
	}

	return server.NewRPCServer(*serveCmdConfig, transports...).Serve()
}
