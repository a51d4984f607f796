// Command hilo runs a pool of Hi-Lo simulation workers from a profile in
// an INI config file and reports their throughput.
//
// While running, press enter for an update or type x (or q) to stop.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/glog"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/timpalpant/hilo"
	"github.com/timpalpant/hilo/backup"
	"github.com/timpalpant/hilo/config"
	"github.com/timpalpant/hilo/internal/status"
)

var stdin = bufio.NewReader(os.Stdin)

func main() {
	envErr := godotenv.Load()
	configFile := flag.String("config", envOr("HILO_CONFIG", "config.ini"), "INI file with simulation profiles")
	profileName := flag.String("profile", os.Getenv("HILO_PROFILE"), "Section or name of the profile to run (prompt if empty)")
	statusAddr := flag.String("status_addr", envOr("HILO_STATUS_ADDR", "localhost:4123"), "Address to serve status on (empty to disable)")
	seed := flag.Uint64("seed", 0, "Random seed (0: use the profile's seed, or the clock)")
	pollInterval := flag.Duration("poll_interval", 100*time.Millisecond, "How often to check whether workers have finished")
	flag.Parse()
	defer glog.Flush()
	if envErr != nil && !os.IsNotExist(envErr) {
		glog.Warningf("Unable to load .env: %v", envErr)
	}

	profiles, invalid, err := config.Load(*configFile)
	if err != nil {
		glog.Fatal(err)
	}
	for _, err := range invalid {
		glog.Warningf("Skipping invalid profile: %v", err)
	}
	if len(profiles) == 0 {
		glog.Fatalf("No valid profiles in %v", *configFile)
	}

	profile, err := selectProfile(profiles, *profileName)
	if err != nil {
		glog.Fatal(err)
	}

	if *seed == 0 {
		*seed = profile.Seed
	}
	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	if err := run(profile, *seed, *statusAddr, *pollInterval); err != nil {
		glog.Fatal(err)
	}
}

func run(profile config.Profile, seed uint64, statusAddr string, pollInterval time.Duration) error {
	glog.Infof("Running profile %v (seed %d)", profile, seed)
	deck, err := hilo.NewDeckByName(profile.Deck, seed)
	if err != nil {
		return err
	}
	strategy, err := hilo.StrategyByName(profile.Logic)
	if err != nil {
		return err
	}

	var opts []hilo.PoolOption
	var writer *backup.Writer
	if profile.BackupDir != "" {
		writer, err = backup.NewWriter(profile.BackupDir, backup.DefaultQueueSize)
		if err != nil {
			return err
		}
		opts = append(opts, hilo.WithHistoryBackup(writer))
	}

	pool, err := hilo.NewPool(profile.Threads, profile.GameBackupAmount, strategy, deck, opts...)
	if err != nil {
		return err
	}

	status.PublishExpvar("hilo", pool)
	var srv *http.Server
	if statusAddr != "" {
		gin.SetMode(gin.ReleaseMode)
		srv = &http.Server{Addr: statusAddr, Handler: status.NewRouter(pool)}
		go func() {
			glog.Infof("Serving status on http://%v/stats", statusAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				glog.Errorf("Status server failed: %v", err)
			}
		}()
	}

	start := time.Now()
	if err := pool.Start(context.Background()); err != nil {
		return err
	}

	printNotes(os.Stdout, profile)
	wait(pool, pollInterval, start)
	elapsed := time.Since(start)
	printAssessment(pool, elapsed)

	if srv != nil {
		srv.Close()
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			glog.Errorf("Error saving game history: %v", err)
		}
		glog.Infof("Saved %d batches of games to %v (%d dropped)",
			writer.Written(), writer.RunDir(), writer.Dropped())
	}
	return nil
}

// wait handles commands and signals until every worker has stopped.
func wait(pool *hilo.Pool, pollInterval time.Duration, start time.Time) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	commands := make(chan string)
	go readCommands(commands)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for pool.IsActive() {
		select {
		case cmd, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}

			switch parseCommand(cmd) {
			case updateCommand:
				printUpdate(pool, time.Since(start))
			case stopCommand:
				fmt.Println("Stopping after the current games...")
				pool.Stop()
			default:
				fmt.Printf("Unknown command %q\n", cmd)
			}
		case sig := <-sigs:
			glog.Infof("Received %v, stopping", sig)
			pool.Stop()
		case <-ticker.C:
		}
	}

	pool.Wait()
}

type command int

const (
	unknownCommand command = iota
	updateCommand
	stopCommand
)

// parseCommand interprets one line of stdin. Escape followed by enter
// stops, as do x and q.
func parseCommand(line string) command {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return updateCommand
	case "x", "q", "\x1b":
		return stopCommand
	default:
		return unknownCommand
	}
}

func printNotes(out io.Writer, profile config.Profile) {
	fmt.Fprintln(out, "----- Notes -----")
	fmt.Fprintf(out, "Games per window (%d): how many games a thread plays before it "+
		"backs up its games and updates its stats.\n", profile.GameBackupAmount)
	fmt.Fprintf(out, "Threads (%d): how many games are played in parallel. "+
		"More threads than CPU cores will not go faster.\n", profile.Threads)
	fmt.Fprintln(out, "Type x, q or Escape and press enter to stop.")
	fmt.Fprintln(out, "Press enter while running for an update.")
}

func readCommands(commands chan<- string) {
	defer close(commands)
	for {
		line, err := stdin.ReadString('\n')
		if err != nil {
			return
		}
		commands <- strings.TrimSpace(line)
	}
}

func printUpdate(pool *hilo.Pool, elapsed time.Duration) {
	stats := pool.Aggregator().Snapshot()
	fmt.Printf("[%v] %d/%d workers reporting, %.1f games/sec total, "+
		"%.1f +/- %.1f games/sec per worker\n",
		elapsed.Round(time.Second), stats.Reporting, stats.Workers,
		stats.TotalThroughput, stats.OverallMean, stats.OverallStandardDeviation)
}

func printAssessment(pool *hilo.Pool, elapsed time.Duration) {
	stats := pool.Aggregator().Snapshot()
	fmt.Println("Final assessment:")
	fmt.Printf("  Elapsed:               %v\n", elapsed.Round(time.Millisecond))
	fmt.Printf("  Threads:               %d\n", pool.Workers())
	fmt.Printf("  Games per window:      %d\n", pool.Window())
	fmt.Printf("  Estimated total games: %.0f\n", stats.TotalThroughput*elapsed.Seconds())
	fmt.Printf("  Games per second:      %.1f\n", stats.TotalThroughput)
	fmt.Printf("  Per worker:            %.1f +/- %.1f games/sec\n",
		stats.OverallMean, stats.OverallStandardDeviation)
	if stats.Failed > 0 {
		fmt.Printf("  Failed workers:        %d\n", stats.Failed)
	}
}

func selectProfile(profiles []config.Profile, name string) (config.Profile, error) {
	if name != "" {
		p, ok := config.Find(profiles, name)
		if !ok {
			return config.Profile{}, errors.Errorf("no valid profile named %q", name)
		}
		return p, nil
	}

	if len(profiles) == 1 {
		return profiles[0], nil
	}

	for i, p := range profiles {
		fmt.Printf("%d: %v\n", i, p)
	}
	for {
		i := prompt("Select a profile: ")
		if i >= 0 && i < len(profiles) {
			return profiles[i], nil
		}
		glog.Errorf("Invalid selection: %d", i)
	}
}

func prompt(msg string) int {
	for {
		fmt.Print(msg)
		result, err := stdin.ReadString('\n')
		if err != nil {
			panic(err)
		}

		result = strings.TrimSpace(result)
		i, err := strconv.Atoi(result)
		if err != nil {
			glog.Errorf("Invalid selection: %v", result)
			continue
		}

		return i
	}
}

func envOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
