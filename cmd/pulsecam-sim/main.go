// Command pulsecam-sim publishes synthetic camera PPG frames to NATS so the
// daemon can be exercised without a camera. It can periodically simulate the
// finger lifting off the lens to exercise the quality gate.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/tgarrido/pulsecam"
	"github.com/tgarrido/pulsecam/internal/ppgsim"
	"github.com/tgarrido/pulsecam/internal/stream"
)

func main() {
	var (
		natsURL = flag.String("nats", "nats://127.0.0.1:4222", "NATS url")
		fs      = flag.Float64("fs", 30, "frame rate (frames per second)")
		bpm     = flag.Float64("bpm", 72, "simulated heart rate")
		noise   = flag.Float64("noise", 0.005, "noise amplitude")
		batch   = flag.Int("batch", 5, "frames per message")
		seed    = flag.Int64("seed", 1, "random seed")
		dropout = flag.Duration("dropout", 0, "lift the finger for 2s every interval (0 disables)")
	)
	flag.Parse()

	nc, err := stream.Connect(*natsURL, "pulsecam-sim")
	if err != nil {
		log.Fatal(err)
	}
	defer nc.Drain()

	gen := ppgsim.New(*fs, *bpm, *noise, *seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ticker := time.NewTicker(time.Duration(float64(time.Second) / *fs))
	defer ticker.Stop()

	var dropAt, liftUntil time.Time
	if *dropout > 0 {
		dropAt = time.Now().Add(*dropout)
	}

	frames := make([]pulsecam.Frame, 0, *batch)

	log.Printf("publishing %.0f fps at %.0f bpm to %s", *fs, *bpm, stream.SubjectFrames)

	for {
		select {
		case <-ctx.Done():
			log.Println("sim: stopping")
			return

		case now := <-ticker.C:
			if *dropout > 0 {
				switch {
				case !dropAt.IsZero() && now.After(dropAt):
					gen.SetContact(false)
					liftUntil = now.Add(2 * time.Second)
					dropAt = time.Time{}
				case !liftUntil.IsZero() && now.After(liftUntil):
					gen.SetContact(true)
					liftUntil = time.Time{}
					dropAt = now.Add(*dropout)
				}
			}

			frames = append(frames, gen.Next())
			if len(frames) < *batch {
				continue
			}

			if err := nc.Publish(stream.SubjectFrames, stream.EncodeFrames(frames)); err != nil {
				log.Printf("publish failed: %v", err)
			}
			frames = frames[:0]
		}
	}
}
