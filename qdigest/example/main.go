package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog"

	"github.com/ryanpbrewster/bytestring-histogram/qdigest"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()

	var (
		fake = gofakeit.New(42)
		d    = qdigest.New(qdigest.WithLogger(log), qdigest.WithCompressionLevel(20))
	)

	// fake request paths weighted by a fake latency in ms
	for i := 0; i < 100_000; i++ {
		path := "/" + strings.ToLower(fake.HackerNoun()) + "/" + strings.ToLower(fake.HackerVerb())
		d.Insert([]byte(path), uint64(fake.Number(1, 500)))
	}

	log.Info().Int("nodes", d.Len()).Uint64("total_weight", d.TotalWeight()).Msg("inserted")

	if err := d.CompressDefault(); err != nil {
		log.Fatal().Err(err).Msg("compress")
	}

	for _, p := range []float64{0, 0.25, 0.5, 0.75, 0.9, 0.99, 1} {
		fmt.Printf("p%-4v %q\n", p*100, d.Quantile(p))
	}

	println("------")

	for _, b := range d.Buckets() {
		fmt.Printf("%-24q %d\n", b.Key, b.Weight)
	}
}
