package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"quill/pkg/pipeline"
	"quill/pkg/schema"
	"quill/pkg/utils"
)

var (
	specPath string
	outPath  string
	parallel int
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft one book from a BookSpec file and print the payload",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&specPath, "spec", "s", "", "BookSpec file (.json, .yaml or .yml)")
	generateCmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the payload here instead of stdout")
	generateCmd.Flags().IntVarP(&parallel, "parallel", "p", -1, "Write chapters concurrently with N workers (0 disables)")
	_ = generateCmd.MarkFlagRequired("spec")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	spec, err := loadSpec(specPath)
	if err != nil {
		return err
	}
	if parallel >= 0 {
		cfg.Pipeline.ParallelChapters = parallel
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	payload, err := a.coordinator.Run(ctx, spec, func(ev pipeline.Event) {
		log.Debug("transition", "state", ev.State, "detail", ev.Detail)
	})
	if err != nil {
		return err
	}

	if outPath != "" {
		if err := utils.Save(outPath, payload); err != nil {
			return fmt.Errorf("writing payload: %w", err)
		}
		log.Info("payload written", "path", outPath, "manuscript", payload.StorageURIs.ManuscriptURI)
		return nil
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), utils.PrettyJSON(payload))
	return err
}

func loadSpec(path string) (schema.BookSpec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return schema.BookSpec{}, err
		}
		var spec schema.BookSpec
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return schema.BookSpec{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		return spec, nil
	default:
		spec, err := utils.Load[schema.BookSpec](path)
		if err != nil {
			return schema.BookSpec{}, fmt.Errorf("reading %s: %w", path, err)
		}
		return spec, nil
	}
}
