// Package common provides the data structures shared by the dTable server,
// its transports and its clients.
//
// Key Components:
//
//   - Action: the name of an engine operation on the wire (createTable,
//     createColumn, createRow, getTable, updateColumn, updateRow, deleteColumn,
//     deleteRow, deleteValue).
//
//   - Request: the parameters of an action. Validate reports missing or
//     malformed fields as BadRequest before anything reaches the engine.
//
//   - Response: the envelope {status, message, code, invalidIds, data} used by
//     both surfaces. NewErrorResponse maps table error codes to HTTP status
//     codes (StatusOf), Err maps them back.
//
//   - ServerConfig / ClientConfig: configuration of the server (store backend,
//     raft parameters, endpoints, logging) and the clients, including the
//     conversion to Dragonboat configs.
//
//   - Logger: a Dragonboat ILogger factory writing "LEVEL | name | message"
//     lines; InitLoggers sets the level of Dragonboat's and dTable's loggers.
package common
