// Package devtools provides developer tools for inspecting the overlay at
// runtime.
package devtools

import (
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// SaveScreenshot writes the current screen image to a timestamped PNG in
// the working directory and returns the file name.
func SaveScreenshot(screen *ebiten.Image) (string, error) {
	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("screenshot-%s.png", timestamp)

	f, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("create screenshot file: %w", err)
	}
	defer f.Close()

	// ebiten.Image implements image.Image; reading pixels back is slow
	// but fine for a manual devtool.
	if err := png.Encode(f, screen); err != nil {
		return "", fmt.Errorf("encode screenshot: %w", err)
	}

	return filename, nil
}
