// gentickets writes a file of random lane tickets for importing into the atari server.
//
// Every ticket is a distinct permutation of the seven key lanes and expires today.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/laneticket/atari-server/internal/domain"
)

// maxTickets is the number of distinct lane permutations (7!).
const maxTickets = 5040

const expirationLayout = "2006/01/02"

func main() {
	if err := run(os.Args[1:], os.Stdout, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer, now time.Time) error {
	var (
		count    int
		out      string
		toStdout bool
	)

	flagSet := pflag.NewFlagSet("gentickets", pflag.ContinueOnError)
	flagSet.IntVarP(&count, "count", "n", 100, fmt.Sprintf("number of tickets to generate (1-%d)", maxTickets))
	flagSet.StringVarP(&out, "out", "o", "testdata.json", "output file")
	flagSet.BoolVar(&toStdout, "stdout", false, "write to standard output instead of a file")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}

	tickets, err := generate(rand.New(rand.NewPCG(uint64(now.UnixNano()), 0)), count, now)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(tickets, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tickets: %w", err)
	}
	data = append(data, '\n')

	if toStdout {
		_, err = stdout.Write(data)
		return err
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(stdout, "wrote %d tickets to %s\n", len(tickets), out)
	return nil
}

// generate returns count distinct random tickets expiring on now's date.
func generate(rng *rand.Rand, count int, now time.Time) ([]domain.Ticket, error) {
	if count < 1 || count > maxTickets {
		return nil, fmt.Errorf("count must be between 1 and %d, got %d", maxTickets, count)
	}

	expiration := now.Format(expirationLayout)
	seen := make(map[string]struct{}, count)
	tickets := make([]domain.Ticket, 0, count)

	lanes := []byte("1234567")
	for len(tickets) < count {
		rng.Shuffle(len(lanes), func(i, j int) { lanes[i], lanes[j] = lanes[j], lanes[i] })
		text := string(lanes)
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		tickets = append(tickets, domain.Ticket{LaneText: text, Expiration: expiration})
	}

	return tickets, nil
}
