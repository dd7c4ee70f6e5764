package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/worksheetgen/internal/document"
	"github.com/abhisek/worksheetgen/internal/questiongen"
	"github.com/abhisek/worksheetgen/internal/watch"
	"github.com/abhisek/worksheetgen/internal/worksheet"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a worksheet and write it to disk",
	Long: `Generate asks the configured LLM for questions and writes the student
worksheet (and optionally the answer key) as standalone HTML files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := requestFromFlags(cmd)
		if err != nil {
			return err
		}
		if err := req.Validate(); err != nil {
			return err
		}

		watching, _ := cmd.Flags().GetBool("watch")
		asJSON, _ := cmd.Flags().GetBool("json")
		outDir, _ := cmd.Flags().GetString("out")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		cmd.SetContext(ctx)

		d, err := setup(cmd, watching)
		if err != nil {
			return err
		}
		defer d.Close()

		var res *questiongen.Result
		if watching {
			res, err = watch.Run(ctx, d.generator, req)
		} else {
			res, err = d.generator.Stream(ctx, req, nil)
		}
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		set, err := document.Render(res.Questions, req)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, doc := range set.Documents() {
			path := filepath.Join(outDir, doc.Filename)
			if err := os.WriteFile(path, doc.HTML, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", doc.Filename, err)
			}
			fmt.Fprintf(out, "wrote %s\n", path)
		}

		fmt.Fprintf(out, "%d questions on %q (%s)", len(res.Questions), req.Topic, req.Grade)
		if res.Source == questiongen.SourceFallback {
			fmt.Fprintf(out, ", placeholders: %s", res.FallbackReason)
		}
		fmt.Fprintln(out)
		return nil
	},
}

func requestFromFlags(cmd *cobra.Command) (worksheet.Request, error) {
	grade, _ := cmd.Flags().GetString("grade")
	topic, _ := cmd.Flags().GetString("topic")
	count, _ := cmd.Flags().GetInt("count")
	rawTypes, _ := cmd.Flags().GetStringSlice("type")
	withKey, _ := cmd.Flags().GetBool("key")

	if strings.TrimSpace(topic) == "" && !cmd.Flags().Changed("topic") {
		topic = worksheet.SuggestTopic()
		fmt.Fprintf(cmd.ErrOrStderr(), "no --topic given, using %q\n", topic)
	}

	req := worksheet.Request{
		Grade:   grade,
		Topic:   topic,
		Count:   count,
		WithKey: withKey,
	}
	for _, raw := range rawTypes {
		t, err := worksheet.ParseType(raw)
		if err != nil {
			return req, err
		}
		req.Types = append(req.Types, t)
	}
	return req, nil
}

func init() {
	generateCmd.Flags().StringP("grade", "g", "Grade 5", "Grade label, e.g. \"Grade 3\"")
	generateCmd.Flags().StringP("topic", "t", "", "Topic to cover (default: a random suggestion)")
	generateCmd.Flags().IntP("count", "n", worksheet.DefaultCount, "Number of questions")
	generateCmd.Flags().StringSlice("type", []string{"multiple-choice", "fill-in-blank"}, "Question types to include")
	generateCmd.Flags().Bool("key", true, "Also write an answer key")
	generateCmd.Flags().StringP("out", "o", ".", "Output directory")
	generateCmd.Flags().BoolP("watch", "w", false, "Follow the stream in a terminal view")
	generateCmd.Flags().Bool("json", false, "Print the question list as JSON instead of writing documents")
}
