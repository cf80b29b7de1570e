package etl

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

type ProgressConfig struct {
	Enabled bool
	Writer  io.Writer
}

// ProgressManager renders ingestion progress bars. Disabled it is a no-op, so
// the pipeline never branches on whether a terminal is attached.
type ProgressManager struct {
	container *mpb.Progress
	enabled   bool
	mu        sync.Mutex
}

type ProgressBar struct {
	bar     *mpb.Bar
	enabled bool
}

func NewProgressManager(config ProgressConfig) *ProgressManager {
	if !config.Enabled {
		return &ProgressManager{enabled: false}
	}

	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}

	container := mpb.New(
		mpb.WithOutput(writer),
		mpb.WithRefreshRate(120*time.Millisecond),
	)

	return &ProgressManager{
		container: container,
		enabled:   true,
	}
}

func (pm *ProgressManager) CreateBar(total int, description string) *ProgressBar {
	if !pm.enabled || pm.container == nil {
		return &ProgressBar{enabled: false}
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()

	bar := pm.container.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(description+" ", decor.WC{W: len(description) + 1, C: decor.DindentRight}),
			decor.CountersNoUnit("(%d/%d)", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.NewPercentage("%.1f", decor.WCSyncSpace),
			decor.OnComplete(
				decor.EwmaETA(decor.ET_STYLE_GO, 30, decor.WCSyncWidth), " done ",
			),
		),
	)

	return &ProgressBar{
		bar:     bar,
		enabled: true,
	}
}

func (pb *ProgressBar) Increment() {
	if pb.enabled && pb.bar != nil {
		pb.bar.Increment()
	}
}

func (pm *ProgressManager) Wait() {
	if pm.enabled && pm.container != nil {
		pm.container.Wait()
	}
}
