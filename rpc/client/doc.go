// Package client implements the clients of a dTable server.
//
// Key Components:
//
//   - NewRPCTableEngine: Creates a client implementing engine.ITableEngine. Every
//     operation is sent to the server over the given transport (http, tcp or
//     unix). Error envelopes are converted back into *table.Error values with
//     the code the server reported, so callers can use table.IsCode exactly as
//     with a local engine.
//
//   - EventPublisher: A client of the event surface. Publish sends
//     fire-and-forget events (createTable, createColumn, createRow), GetTable
//     requests a table over the same connection and waits for the answer.
//
// Usage Example:
//
//	e, err := client.NewRPCTableEngine(
//	  common.ClientConfig{Endpoints: []string{"localhost:8080"}, TimeoutSecond: 5, RetryCount: 3},
//	  http.NewHttpClientTransport(),
//	)
//	if err != nil {
//	  log.Fatal(err)
//	}
//
//	t, _ := e.CreateTable()
//	e.AddColumn(t.ID, "name")
//	e.AddRow(t.ID, table.RowFragment{"1": "John"})
//	view, _ := e.GetTable(t.ID)
package client
