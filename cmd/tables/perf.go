package tables

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ValentinKolb/dTable/cmd/util"
	"github.com/ValentinKolb/dTable/lib/table"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfNumThreads = 10
	perfOps        = 1000
	perfSkip       = make([]string, 0)

	// perfTests is the order in which the benchmarks are run
	perfTests = []string{"create-table", "add-column", "add-row", "update-row", "get-table", "mixed"}
)

func init() {
	key := "skip"
	PerfCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. add-row,get-table)"))
	key = "threads"
	PerfCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "ops"
	PerfCmd.Flags().Int(key, 1000, util.WrapString("Number of operations per benchmark and thread"))
	key = "csv"
	PerfCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func setupPerf(cmd *cobra.Command, args []string) error {
	if err := setupClient(cmd, args); err != nil {
		return err
	}

	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfOps = max(viper.GetInt("ops"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")
	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {
	fmt.Println("Performance testing tool for dTable servers")

	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Printf("Operations: %d per thread\n", perfOps)
	fmt.Println()

	// every benchmark works on its own table
	prepare := func() (uint64, []uint64, error) {
		t, err := rpcEngine.CreateTable()
		if err != nil {
			return 0, nil, err
		}
		ids := make([]uint64, 0, 3)
		for _, name := range []string{"name", "age", "city"} {
			cols, err := rpcEngine.AddColumn(t.ID, name)
			if err != nil {
				return 0, nil, err
			}
			ids = append(ids, cols[len(cols)-1].ID)
		}
		return t.ID, ids, nil
	}

	registry := metrics.NewRegistry()

	for _, test := range perfTests {
		if shouldSkip(test) {
			printResult(test, nil)
			continue
		}

		tableID, columns, err := prepare()
		if err != nil {
			return fmt.Errorf("failed to prepare benchmark %s: %w", test, err)
		}

		timer := metrics.GetOrRegisterTimer(test, registry)
		runParallel(func(thread, i int) {
			row := table.RowFragment{table.ColumnKey(columns[i%len(columns)]): fmt.Sprintf("t%d-%d", thread, i)}

			var err error
			start := time.Now()
			switch test {
			case "create-table":
				_, err = rpcEngine.CreateTable()
			case "add-column":
				_, err = rpcEngine.AddColumn(tableID, fmt.Sprintf("c%d-%d", thread, i))
			case "add-row":
				_, err = rpcEngine.AddRow(tableID, row)
			case "update-row":
				_, err = rpcEngine.UpdateRow(tableID, 0, row)
				if table.IsCode(err, table.ErrCIndexOutOfRange) {
					_, err = rpcEngine.AddRow(tableID, row)
				}
			case "get-table":
				_, err = rpcEngine.GetTable(tableID)
			case "mixed":
				switch i % 3 {
				case 0:
					_, err = rpcEngine.AddRow(tableID, row)
				case 1:
					_, err = rpcEngine.GetTable(tableID)
				case 2:
					_, err = rpcEngine.DeleteSingleValue(tableID, columns[0], 0)
					if table.IsCode(err, table.ErrCIndexOutOfRange) || table.IsCode(err, table.ErrCValueNotFound) {
						err = nil
					}
				}
			}
			timer.UpdateSince(start)

			if err != nil {
				log.Printf("(%s) - error: %v\n", test, err)
			}
		})

		printResult(test, timer)
	}

	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, registry); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	for _, skip := range perfSkip {
		if test == strings.TrimSpace(skip) {
			return true
		}
	}
	return false
}

// runParallel calls fn perfOps times on each of perfNumThreads goroutines
func runParallel(fn func(thread, i int)) {
	var wg sync.WaitGroup
	for thread := 0; thread < perfNumThreads; thread++ {
		wg.Add(1)
		go func(thread int) {
			defer wg.Done()
			for i := 0; i < perfOps; i++ {
				fn(thread, i)
			}
		}(thread)
	}
	wg.Wait()
}

// printResult prints the result of a benchmark in a formatted way
func printResult(test string, timer metrics.Timer) {
	if timer == nil || timer.Count() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	s := timer.Snapshot()
	fmt.Printf("%-20s%s/op (p99 %s)\t%.0f ops/sec\n",
		test,
		time.Duration(s.Mean()),
		time.Duration(s.Percentile(0.99)),
		s.RateMean(),
	)
}

// writeResultsToCSV writes the timers of the registry to a CSV file
func writeResultsToCSV(csvPath string, registry metrics.Registry) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Test", "Count", "MeanNs", "MinNs", "MaxNs", "P50Ns", "P99Ns", "OpsPerSec",
		"Endpoints", "TimeoutSec", "RetryCount", "ConnectionsPerEndpoint",
		"Transport", "Threads", "OpsPerThread",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	config := util.GetClientConfig()
	for _, test := range perfTests {
		timer, ok := registry.Get(test).(metrics.Timer)
		if !ok {
			continue
		}
		s := timer.Snapshot()

		row := []string{
			test,
			strconv.FormatInt(s.Count(), 10),
			fmt.Sprintf("%.0f", s.Mean()),
			strconv.FormatInt(s.Min(), 10),
			strconv.FormatInt(s.Max(), 10),
			fmt.Sprintf("%.0f", s.Percentile(0.5)),
			fmt.Sprintf("%.0f", s.Percentile(0.99)),
			fmt.Sprintf("%.0f", s.RateMean()),
			strings.Join(config.Endpoints, ";"),
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.RetryCount),
			strconv.Itoa(config.ConnectionsPerEndpoint),
			config.Transport,
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfOps),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
