package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/mealhelper/mealhelper/pkg/errors"
	"github.com/spf13/cobra"
)

var imageOutput string

var imageCmd = &cobra.Command{
	Use:   "image <entry-id>",
	Short: "Write an entry's photo to a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImage,
}

func init() {
	rootCmd.AddCommand(imageCmd)
	imageCmd.Flags().StringVarP(&imageOutput, "output", "o", "", "Output file (default entry-<id>.jpg)")
}

func runImage(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid entry id %q", args[0])
	}

	_, repo, err := openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	entry, err := repo.Get(ctx, id)
	if err != nil {
		return errors.Wrap(err, "lookup failed")
	}
	if entry == nil {
		return fmt.Errorf("entry #%d not found", id)
	}
	if entry.ImageID == "" {
		return fmt.Errorf("entry #%d has no photo", id)
	}

	data, err := repo.GetImage(ctx, entry.ImageID)
	if err != nil {
		return errors.Wrap(err, "image lookup failed")
	}
	if data == nil {
		return fmt.Errorf("photo %s for entry #%d is missing", entry.ImageID, id)
	}

	out := imageOutput
	if out == "" {
		out = fmt.Sprintf("entry-%d.jpg", id)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write photo")
	}

	fmt.Printf("📷 Wrote %s (%d bytes)\n", out, len(data))
	return nil
}
