// Command bench measures throughput of the varint codec, the buffer
// ordering and the key file under concurrent load.
package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/felixge/fgprof"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/gernest/varbuf/bufcmp"
	"github.com/gernest/varbuf/keyfile"
	"github.com/gernest/varbuf/varint"
)

func main() {
	var (
		workload = flag.String("workload", "encode", "one of encode, decode, compare, keyfile")
		workers  = flag.Int("workers", 4, "concurrent workers")
		duration = flag.Duration("d", 5*time.Second, "how long to run")
		profile  = flag.String("profile", "", "write an fgprof wall clock profile to this file")
	)
	flag.Parse()
	if err := run(*workload, *workers, *duration, *profile); err != nil {
		slog.Error("bench failed", "workload", *workload, "err", err)
		os.Exit(1)
	}
}

func run(workload string, workers int, duration time.Duration, profile string) error {
	if profile != "" {
		f, err := os.Create(profile)
		if err != nil {
			return err
		}
		defer f.Close()
		stop := fgprof.Start(f, fgprof.FormatPprof)
		defer stop()
	}

	step, cleanup, err := pick(workload)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	var ops atomic.Uint64
	g, ctx := errgroup.WithContext(ctx)
	start := time.Now()
	for range workers {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				if err := step(); err != nil {
					return err
				}
				ops.Add(1)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)
	slog.Info("done", "workload", workload, "workers", workers,
		"ops", ops.Load(), "elapsed", elapsed,
		"rate", float64(ops.Load())/elapsed.Seconds())
	return nil
}

func pick(workload string) (step func() error, cleanup func(), err error) {
	cleanup = func() {}
	switch workload {
	case "encode":
		step = func() error {
			var buf [varint.MaxLen]byte
			_, err := varint.Put(buf[:], rand.Uint32())
			return err
		}
	case "decode":
		corpus := make([][]byte, 1024)
		for i := range corpus {
			corpus[i] = varint.Append(nil, rand.Uint32())
		}
		step = func() error {
			_, _, err := varint.Uint32(corpus[rand.IntN(len(corpus))])
			return err
		}
	case "compare":
		corpus := make([][]byte, 1024)
		for i := range corpus {
			b := make([]byte, rand.IntN(64))
			for j := range b {
				b[j] = byte(rand.Uint32())
			}
			corpus[i] = b
		}
		step = func() error {
			a := corpus[rand.IntN(len(corpus))]
			b := corpus[rand.IntN(len(corpus))]
			if bufcmp.Compare(a, b) != -bufcmp.Compare(b, a) {
				return errors.New("compare is not antisymmetric")
			}
			return nil
		}
	case "keyfile":
		dir, err := os.MkdirTemp("", "varbuf-bench")
		if err != nil {
			return nil, nil, err
		}
		f, err := keyfile.Open(filepath.Join(dir, "bench.db"), keyfile.Options{})
		if err != nil {
			os.RemoveAll(dir)
			return nil, nil, err
		}
		cleanup = func() {
			f.Close()
			os.RemoveAll(dir)
		}
		value := make([]byte, 256)
		step = func() error {
			key := varint.Append(nil, rand.Uint32N(1<<16))
			if err := f.Put(key, value); err != nil {
				return err
			}
			_, err := f.Get(key)
			return err
		}
	default:
		return nil, nil, errors.Errorf("unknown workload %q", workload)
	}
	return step, cleanup, nil
}
