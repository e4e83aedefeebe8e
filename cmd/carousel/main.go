package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/pnll1991/expedicion-andina/internal/carousel"
	"github.com/pnll1991/expedicion-andina/internal/reviewsclient"
	"github.com/pnll1991/expedicion-andina/pkg/logger"
)

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "reviews gateway base URL")
	placeID := flag.String("place", "", "Google place id to fetch reviews for")
	rating := flag.Float64("rating", 0, "supplied rating; a non-zero value skips the fetch")
	interval := flag.Duration("interval", carousel.DefaultInterval, "auto-advance period")
	timeout := flag.Duration("timeout", 10*time.Second, "fetch timeout")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	log := logger.NewWithWriter("carousel-preview", *logLevel, os.Stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdin, os.Stdout, log, previewConfig{
		apiURL:   *apiURL,
		placeID:  *placeID,
		rating:   *rating,
		interval: *interval,
		timeout:  *timeout,
	}); err != nil {
		log.Error("carousel preview failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

type previewConfig struct {
	apiURL   string
	placeID  string
	rating   float64
	interval time.Duration
	timeout  time.Duration
}

func run(ctx context.Context, in io.Reader, out io.Writer, log *slog.Logger, cfg previewConfig) error {
	var mu sync.Mutex
	show := func(s carousel.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		render(out, s)
	}

	c := carousel.Mount(ctx, carousel.Props{
		PlaceID: cfg.placeID,
		Rating:  cfg.rating,
	}, reviewsclient.New(cfg.apiURL, cfg.timeout),
		carousel.WithInterval(cfg.interval),
		carousel.WithLogger(log),
		carousel.WithOnChange(show),
	)
	defer c.Close()

	show(c.View())

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			lines <- strings.TrimSpace(sc.Text())
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			switch line {
			case "n":
				c.Next()
			case "p":
				c.Previous()
			case "q":
				return nil
			default:
				continue
			}
			show(c.View())
		}
	}
}

func render(w io.Writer, s carousel.Snapshot) {
	if s.Loading {
		fmt.Fprintf(w, "%s  (cargando...)\n", starRow(s.Stars))
	} else {
		fmt.Fprintf(w, "%s  %s", starRow(s.Stars), s.RatingText)
		if s.TotalLabel != "" {
			fmt.Fprintf(w, "  %s en Google <%s>", s.TotalLabel, s.GoogleMapsURL)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "  \"%s\"\n", s.Current.Text)
	fmt.Fprintf(w, "  %s %s %s\n",
		s.Current.AuthorName,
		strings.Repeat("★", s.CurrentStars)+strings.Repeat("☆", carousel.MaxStars-s.CurrentStars),
		s.Current.RelativeTimeDescription,
	)

	if s.ShowControls {
		var dots strings.Builder
		for _, d := range s.Dots {
			if d.Active {
				dots.WriteString("●")
			} else {
				dots.WriteString("·")
			}
		}
		fmt.Fprintf(w, "  < %s >  [n]ext [p]rev [q]uit\n", dots.String())
	}
	fmt.Fprintln(w)
}

func starRow(b carousel.StarBreakdown) string {
	row := strings.Repeat("★", b.Full)
	if b.Half {
		row += "⯨"
	}
	return row + strings.Repeat("☆", b.Empty)
}
