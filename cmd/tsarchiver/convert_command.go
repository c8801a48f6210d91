package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tsarchiver/internal/subtitle"
)

func newConvertCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "convert SUBFILE",
		Short: "Convert a subtitle file to SRT",
		Long: "Convert a broadcast subtitle document to SRT. The format is " +
			"inferred from the extension: .xml is EBU-TT-D, .vtt is WEBVTT. " +
			"The result is written next to the input.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			inputPath := args[0]
			format, err := subtitle.FormatForPath(inputPath)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("read subtitle file: %w", err)
			}

			exclusions, err := subtitle.LoadExclusions(cfg.Subtitles.ExcludeFile)
			if err != nil {
				return err
			}
			blocks, err := subtitle.Parse(format, data)
			if err != nil {
				return err
			}
			result := subtitle.GenerateSRT(blocks, exclusions)

			outputPath := replaceExtension(inputPath, ".srt")
			if err := os.WriteFile(outputPath, []byte(result.SRT), 0o644); err != nil {
				return fmt.Errorf("write srt: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), outputPath)
			return nil
		},
	}
}

func replaceExtension(path, ext string) string {
	if i := strings.LastIndex(path, "."); i > 0 {
		return path[:i] + ext
	}
	return path + ext
}
