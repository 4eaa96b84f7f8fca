// Command diskofs is a small utility for preparing and inspecting
// imagefs images. Mounting them through a host kernel bridge is out of
// scope here (spec.md 1); this binary only covers the operator-facing
// verbs a bridge's own command line would otherwise need to shell out to.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/boljen/go-bitmap"
	"github.com/urfave/cli/v2"

	"github.com/apat496/imagefs"
	"github.com/apat496/imagefs/image"
	"github.com/apat496/imagefs/layout"
)

func main() {
	app := &cli.App{
		Name:  "diskofs",
		Usage: "prepare and inspect imagefs images",
		Commands: []*cli.Command{
			{
				Name:      "format",
				Usage:     "create or reset an image at the given path",
				ArgsUsage: "IMAGE_PATH",
				Action:    formatImage,
			},
			{
				Name:      "info",
				Usage:     "print allocator occupancy for an existing image",
				ArgsUsage: "IMAGE_PATH",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "ro",
						Usage: "open with read-only mount flags instead of the default allow-all",
					},
				},
				Action: infoImage,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("diskofs: %s", err)
	}
}

func formatImage(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		return fmt.Errorf("format requires an image path")
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing existing image: %w", err)
	}

	img, err := image.OpenImage(path)
	if err != nil {
		return fmt.Errorf("formatting %s: %w", path, err)
	}
	return img.Close()
}

func infoImage(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		return fmt.Errorf("info requires an image path")
	}

	opts := imagefs.MountOptions{
		ImagePath:       path,
		CreateIfMissing: false,
		Flags:           imagefs.MountFlagsAllowRead,
	}
	if !ctx.Bool("ro") {
		opts.Flags = imagefs.MountFlagsAllowAll
	}

	fs, err := imagefs.Open(opts.ImagePath,
		imagefs.WithCreateIfMissing(opts.CreateIfMissing),
		imagefs.WithMountFlags(opts.Flags))
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer fs.Close()

	img := fs.Image()

	usedInodes := 0
	for i := 0; i < layout.Inodes; i++ {
		if img.InodeBitmap.IsBusy(i) {
			usedInodes++
		}
	}

	// Mirror the free blocks into a scratch bitmap and report the longest
	// contiguous free run. The allocator itself only hands out single
	// blocks, lowest free index first.
	free := bitmap.New(layout.Blocks)
	usedBlocks := 0
	for i := 0; i < layout.Blocks; i++ {
		if img.BlockBitmap.IsBusy(i) {
			usedBlocks++
		} else {
			free.Set(i, true)
		}
	}

	fmt.Printf("inodes: %d/%d used\n", usedInodes, layout.Inodes)
	fmt.Printf("blocks: %d/%d used\n", usedBlocks, layout.Blocks)
	fmt.Printf("largest free run: %d blocks\n", longestRun(free, layout.Blocks))
	return nil
}

func longestRun(free bitmap.Bitmap, count int) int {
	longest, current := 0, 0
	for i := 0; i < count; i++ {
		if free.Get(i) {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return longest
}
