// Command powminer is the reference standalone miner for the SIS
// proof-of-work core: given a consensus parameter set and a header seed, it
// grinds nonces until it finds an accepted solution or its context expires.
// It is a reference/diagnostic tool, not part of consensus.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/quantumbtc/sispow/blockheader"
	"github.com/quantumbtc/sispow/chainparams"
	"github.com/quantumbtc/sispow/miner"
	"github.com/quantumbtc/sispow/prof"
	"github.com/quantumbtc/sispow/xof"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: powminer [flags]

Flags:
  --n         matrix rows (default 16)
  --m         matrix columns / solution length (default 32)
  --q         prime modulus (default 12289)
  --w         target Hamming weight (default 8)
  --r         infinity-norm residual threshold, 0 selects strict SIS (default 8)
  --l2        optional squared-L2 cap, 0 disables (default 0)
  --bits      compact target / difficulty byte for this header (default 0x1d00ffff)
  --threads   worker count, 0 selects GOMAXPROCS (default 0)
  --seed      64 hex chars: overrides prev_hash instead of deriving it randomly
  --timeout   wall-clock search budget, 0 means no timeout (default 30s)
  --mode      lattice derivation strategy: bulk|per-entry (default bulk)
  --xof       XOF primitive: sha256ctr|shake256 (default sha256ctr)
  --plot      optional path to write an HTML progress chart`)
	os.Exit(1)
}

func main() {
	n := flag.Uint("n", 16, "matrix rows")
	m := flag.Uint("m", 32, "matrix columns")
	q := flag.Uint("q", 12289, "prime modulus")
	w := flag.Uint("w", 8, "target Hamming weight")
	r := flag.Uint("r", 8, "infinity-norm residual threshold (0 = strict SIS)")
	l2 := flag.Uint64("l2", 0, "optional squared-L2 cap (0 disables)")
	bits := flag.Uint("bits", 0x1d00ffff, "compact target for this header")
	threads := flag.Int("threads", 0, "worker count (0 = GOMAXPROCS)")
	seedHex := flag.String("seed", "", "64 hex chars, overrides prev_hash")
	timeout := flag.Duration("timeout", 30*time.Second, "search budget (0 = no timeout)")
	mode := flag.String("mode", "bulk", "lattice derivation strategy: bulk|per-entry")
	xofMode := flag.String("xof", "sha256ctr", "XOF primitive: sha256ctr|shake256")
	plotPath := flag.String("plot", "", "optional path to write an HTML progress chart")
	flag.Usage = usage
	flag.Parse()

	p := chainparams.Params{
		PowMode:    chainparams.ApproxSIS,
		N:          uint32(*n),
		M:          uint32(*m),
		Q:          uint32(*q),
		W:          uint32(*w),
		R:          uint32(*r),
		L2Max:      *l2,
		DeriveMode: parseDeriveMode(*mode),
		XOFMode:    parseXOFMode(*xofMode),
	}
	if err := p.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "argument error: %v\n", err)
		os.Exit(1)
	}

	h := blockheader.Header{
		Version: 1,
		Time:    uint32(time.Now().Unix()),
		Bits:    uint32(*bits),
	}
	if *seedHex != "" {
		raw, err := hex.DecodeString(*seedHex)
		if err != nil || len(raw) != 32 {
			fmt.Fprintf(os.Stderr, "argument error: --seed must be 64 hex chars\n")
			os.Exit(1)
		}
		copy(h.PrevHash[:], raw)
	} else {
		if _, err := rand.Read(h.PrevHash[:]); err != nil {
			log.Fatalf("powminer: reading random prev_hash: %v", err)
		}
	}

	ctx := context.Background()
	var cancel context.CancelFunc
	if *timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	sink := newChartSink()

	searchStart := time.Now()
	result, found, err := miner.Search(ctx, h, p, *threads, sink)
	prof.Track(searchStart, "search")
	if err != nil {
		fmt.Fprintf(os.Stderr, "argument error: %v\n", err)
		os.Exit(1)
	}

	if *plotPath != "" {
		plotStart := time.Now()
		renderErr := sink.render(*plotPath)
		prof.Track(plotStart, "plot")
		if renderErr != nil {
			fmt.Fprintf(os.Stderr, "plot render error: %v\n", renderErr)
		}
	}

	for _, phase := range prof.SnapshotAndReset() {
		fmt.Fprintf(os.Stderr, "[timing] %-8s %s\n", phase.Label, phase.Dur)
	}

	if !found {
		fmt.Fprintln(os.Stderr, "exhausted search without finding a solution")
		os.Exit(2)
	}

	fmt.Printf("nonce           %d\n", result.Nonce)
	fmt.Printf("||x||_0         %d\n", result.Weight)
	fmt.Printf("||A x||_inf     %d\n", result.Linf)
	fmt.Printf("vchPowSolution  %s\n", hex.EncodeToString(result.Packed))
	fmt.Printf("packed_size     %d\n", len(result.Packed))
	os.Exit(0)
}

func parseDeriveMode(s string) chainparams.DeriveMode {
	switch s {
	case "per-entry":
		return chainparams.PerEntry
	default:
		return chainparams.Bulk
	}
}

func parseXOFMode(s string) xof.Mode {
	switch s {
	case "shake256":
		return xof.Shake256
	default:
		return xof.SHA256Ctr
	}
}

// chartSink records the miner's best-linf progress trace and, if --plot is
// set, renders it as an interactive go-echarts line chart. Grounded on
// Additionnals/plot_pacs_sweep.go's components.NewPage() / charts.SetGlobalOptions
// / page.Render(f) scaffold; purely diagnostic, never consulted by search.
type chartSink struct {
	elapsedMS []float64
	bestLinf  []int64
}

func newChartSink() *chartSink {
	return &chartSink{}
}

func (s *chartSink) Progress(tries uint64, bestLinf int64, bestNonce uint64, elapsed time.Duration) {
	fmt.Fprintf(os.Stderr, "[progress] tries=%d best_linf=%d best_nonce=%d elapsed=%s\n", tries, bestLinf, bestNonce, elapsed)
	s.elapsedMS = append(s.elapsedMS, float64(elapsed.Milliseconds()))
	s.bestLinf = append(s.bestLinf, bestLinf)
}

func (s *chartSink) render(path string) error {
	page := components.NewPage().SetPageTitle("powminer progress")

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "best_linf over time"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "elapsed (ms)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "best_linf"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	labels := make([]string, 0, len(s.elapsedMS))
	items := make([]opts.LineData, 0, len(s.bestLinf))
	for i, v := range s.bestLinf {
		labels = append(labels, fmt.Sprintf("%.0f", s.elapsedMS[i]))
		items = append(items, opts.LineData{Value: v})
	}
	line.SetXAxis(labels).AddSeries("best_linf", items)
	page.AddCharts(line)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return page.Render(f)
}
