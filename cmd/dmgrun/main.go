// Command dmgrun is a headless runner: it loads a ROM, steps the core
// instruction by instruction for a fixed step budget or until a serial
// marker appears, and reports serial output and a framebuffer checksum.
// It exists for test-ROM style automation, not interactive play (see
// cmd/dmgview for that).
package main

import (
	"fmt"
	"hash/crc32"
	"log"
	"os"
	"strings"
	"time"

	"github.com/pixelcore-dev/dmgcore/internal/machine"
	"github.com/spf13/cobra"
)

func main() {
	var (
		romPath string
		steps   int
		trace   bool
		until   string
		timeout time.Duration
	)

	root := &cobra.Command{
		Use:   "dmgrun",
		Short: "Run a Game Boy ROM headlessly and report serial/framebuffer results",
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			defer func() {
				if r := recover(); r != nil {
					log.Fatalf("fatal: %v", r)
				}
			}()

			if romPath == "" {
				return fmt.Errorf("--rom is required")
			}
			rom, err := os.ReadFile(romPath)
			if err != nil {
				return fmt.Errorf("read rom: %w", err)
			}

			m, err := machine.New(machine.Config{Trace: trace}, rom)
			if err != nil {
				return err
			}

			var deadline time.Time
			if timeout > 0 {
				deadline = time.Now().Add(timeout)
			}

			start := time.Now()
			var serial strings.Builder
			checkEvery := 1 << 16
			for i := 0; i < steps; i++ {
				m.Step()

				if until != "" && i%checkEvery == 0 {
					for _, b := range m.SerialOutput(256) {
						if b != 0 {
							serial.WriteByte(b)
						}
					}
					if strings.Contains(serial.String(), until) {
						fmt.Printf("matched %q after %d steps (%s)\n", until, i+1, time.Since(start).Truncate(time.Millisecond))
						printSummary(m, serial.String())
						return nil
					}
				}
				if !deadline.IsZero() && i%checkEvery == 0 && time.Now().After(deadline) {
					return fmt.Errorf("timeout after %s", time.Since(start).Truncate(time.Millisecond))
				}
			}

			for _, b := range m.SerialOutput(4096) {
				if b != 0 {
					serial.WriteByte(b)
				}
			}
			printSummary(m, serial.String())
			return nil
		},
	}

	flags := root.Flags()
	flags.StringVar(&romPath, "rom", "", "path to ROM (.gb)")
	flags.IntVar(&steps, "steps", 5_000_000, "max CPU steps to run")
	flags.BoolVar(&trace, "trace", false, "keep the instruction logger enabled")
	flags.StringVar(&until, "until", "", "stop early once serial output contains this substring")
	flags.DurationVar(&timeout, "timeout", 0, "wall-clock timeout (0 disables)")

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func printSummary(m *machine.Machine, serial string) {
	fb := m.Framebuffer()
	crc := crc32.ChecksumIEEE(fb)
	fmt.Printf("instructions=%d fb_crc32=%08x\n", m.ExeCount(), crc)
	if serial != "" {
		fmt.Printf("serial:\n%s\n", serial)
	}
}
